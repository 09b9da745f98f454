// Package common provides shared HTTP handler utilities.
package common

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/constants"
)

// Principal returns the actor set by the auth middleware, or nil.
func Principal(c *gin.Context) *permission.Principal {
	value, ok := c.Get(constants.ContextKeyPrincipal)
	if !ok {
		return nil
	}
	principal, _ := value.(*permission.Principal)
	return principal
}
