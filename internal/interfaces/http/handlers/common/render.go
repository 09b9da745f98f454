package common

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/utils"
)

// Render wraps c.HTML and passes the signed-in user, the CSRF token and any
// pending flash message to every template.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if principal := Principal(c); principal != nil {
		data["CurrentUser"] = principal
	}
	data["CSRFToken"] = c.GetString(constants.ContextKeyCSRFToken)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = PopFlash(c)
	}

	c.HTML(status, name, data)
}

// RenderError shows the error page for a use case error.
func RenderError(c *gin.Context, err error) {
	status, message := utils.ErrorStatus(err)
	Render(c, status, "error.html", gin.H{
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
}
