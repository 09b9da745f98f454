package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/utils"
)

// CSRF validates form actions using the Double Submit Cookie pattern. A token
// cookie is issued on the first page view and exposed to templates through
// the context; mutating requests must echo it in the csrf_token form field or
// the X-CSRF-Token header.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieToken, _ := c.Cookie(constants.CSRFCookieName)

		if isSafeMethod(c.Request.Method) {
			if cookieToken == "" {
				cookieToken = uuid.NewString()
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(constants.CSRFCookieName, cookieToken, 0, "/", "", secure, true)
			}
			c.Set(constants.ContextKeyCSRFToken, cookieToken)
			c.Next()
			return
		}

		if cookieToken == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "missing CSRF token")
			c.Abort()
			return
		}

		submitted := c.PostForm(constants.CSRFFormField)
		if submitted == "" {
			submitted = c.GetHeader(constants.HeaderXCSRFToken)
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) != 1 {
			utils.ErrorResponse(c, http.StatusForbidden, "invalid CSRF token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCSRFToken, cookieToken)
		c.Next()
	}
}

// isSafeMethod returns true for HTTP methods that do not mutate state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
