package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/shared/errors"
)

// ErrorBody is the JSON shape of every failed API call.
type ErrorBody struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

// ActionResult is the outcome of a form action.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// ErrorResponseWithError sends an error response derived from err. Errors that
// are not AppErrors never leak their text to the client.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode, body := errorBody(err)
	c.JSON(statusCode, body)
}

// ActionResultFromError converts a use case error into a form action result.
func ActionResultFromError(err error) ActionResult {
	if err == nil {
		return ActionResult{Success: true}
	}
	_, body := errorBody(err)
	return ActionResult{Success: false, Error: body.Error}
}

// ErrorStatus returns the HTTP status and client-safe message for err.
func ErrorStatus(err error) (int, string) {
	status, body := errorBody(err)
	return status, body.Error
}

func errorBody(err error) (int, ErrorBody) {
	if appErr := errors.GetAppError(err); appErr != nil {
		body := ErrorBody{Error: appErr.Message, Type: string(appErr.Type)}
		// persistence and internal causes stay in the logs
		if appErr.Code < http.StatusInternalServerError {
			body.Details = appErr.Details
		}
		return appErr.Code, body
	}
	return http.StatusInternalServerError, ErrorBody{
		Error: "Internal server error occurred",
		Type:  string(errors.ErrorTypeInternal),
	}
}

// SuccessResponse sends a JSON success payload with the given status code.
func SuccessResponse(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// CreatedResponse sends a 201 payload
func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// ActionSuccessResponse sends {"success": true}.
func ActionSuccessResponse(c *gin.Context) {
	c.JSON(http.StatusOK, ActionResult{Success: true})
}
