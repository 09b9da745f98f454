package middleware

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// PermissionMiddleware applies page-level and route-level authorization.
// Use cases still authorize every operation themselves.
type PermissionMiddleware struct {
	authorizer permission.Authorizer
	logger     logger.Interface
}

func NewPermissionMiddleware(authorizer permission.Authorizer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// RequirePermission answers denied API calls with the JSON error shape.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.check(c, resource, action); err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePagePermission renders the error page for denied page requests.
func (m *PermissionMiddleware) RequirePagePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.check(c, resource, action); err != nil {
			appErr := errors.GetAppError(err)
			if appErr == nil {
				appErr = errors.NewInternalError("Permission check failed")
			}
			c.HTML(appErr.Code, "error.html", gin.H{
				"Title":   "Access denied",
				"Status":  appErr.Code,
				"Message": appErr.Message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *PermissionMiddleware) check(c *gin.Context, resource, action string) error {
	var principal *permission.Principal
	if value, ok := c.Get(constants.ContextKeyPrincipal); ok {
		principal, _ = value.(*permission.Principal)
	}
	return m.authorizer.Authorize(c.Request.Context(), principal, resource, action)
}
