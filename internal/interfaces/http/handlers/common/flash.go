package common

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// SetFlash stores the outcome of a form action for the next page view.
func SetFlash(c *gin.Context, result utils.ActionResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	session := sessions.Default(c)
	session.AddFlash(string(payload), constants.SessionKeyFlash)
	if err := session.Save(); err != nil {
		logger.Warn("failed to save flash message", "error", err)
	}
}

// PopFlash returns and clears the pending form action outcome.
func PopFlash(c *gin.Context) *utils.ActionResult {
	session := sessions.Default(c)
	flashes := session.Flashes(constants.SessionKeyFlash)
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		logger.Warn("failed to clear flash message", "error", err)
	}

	raw, ok := flashes[len(flashes)-1].(string)
	if !ok {
		return nil
	}
	var result utils.ActionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil
	}
	return &result
}
