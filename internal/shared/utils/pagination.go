package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseLimit reads the "limit" query parameter. Missing, malformed or
// non-positive values fall back to defaultLimit; values above maxLimit are capped.
func ParseLimit(c *gin.Context, defaultLimit, maxLimit int) int {
	return NormalizeLimit(parseQueryInt(c, "limit", defaultLimit), defaultLimit, maxLimit)
}

// NormalizeLimit applies the same defaulting rules as ParseLimit to a raw value.
func NormalizeLimit(limit, defaultLimit, maxLimit int) int {
	if limit < 1 {
		return defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		return maxLimit
	}
	return limit
}

// parseQueryInt parses an integer query parameter with a default value.
func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			return n
		}
	}
	return defaultVal
}
