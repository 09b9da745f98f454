package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "helpdesk/internal/shared/errors"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing uses default", "/", 50},
		{"explicit value", "/?limit=10", 10},
		{"non-numeric uses default", "/?limit=abc", 50},
		{"zero uses default", "/?limit=0", 50},
		{"capped at max", "/?limit=5000", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.query)
			assert.Equal(t, tt.want, ParseLimit(c, 50, 200))
		})
	}
}

func TestErrorResponseWithError_AppError(t *testing.T) {
	c, w := newContext("/")
	ErrorResponseWithError(c, apperrors.NewNotFoundError("Problem not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Problem not found", body.Error)
	assert.Equal(t, "not_found", body.Type)
}

func TestErrorResponseWithError_HidesUnknownErrors(t *testing.T) {
	c, w := newContext("/")
	ErrorResponseWithError(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestActionResultFromError(t *testing.T) {
	assert.Equal(t, ActionResult{Success: true}, ActionResultFromError(nil))

	res := ActionResultFromError(apperrors.NewValidationError("Title is required"))
	assert.False(t, res.Success)
	assert.Equal(t, "Title is required", res.Error)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42", "problem")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseID("0", "problem")
	assert.True(t, apperrors.IsValidationError(err))

	_, err = ParseID("x", "problem")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetSessionToken_FallsBackToBearer(t *testing.T) {
	c, _ := newContext("/")
	c.Request.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", GetSessionToken(c, "helpdesk_session"))

	c, _ = newContext("/")
	c.Request.AddCookie(&http.Cookie{Name: "helpdesk_session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", GetSessionToken(c, "helpdesk_session"))
}

func TestErrorStatus(t *testing.T) {
	status, msg := ErrorStatus(apperrors.NewInvalidTransitionError("closed", "open"))
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, msg)

	status, msg = ErrorStatus(errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error occurred", msg)
}

func TestValidationDetails(t *testing.T) {
	type request struct {
		Title    string `json:"title" binding:"required,max=5"`
		Priority string `json:"priority" binding:"required,oneof=low high"`
	}

	err := binding.Validator.ValidateStruct(&request{Title: "too long", Priority: "urgent"})
	require.Error(t, err)

	details := ValidationDetails(err)
	assert.Contains(t, details, "title must be at most 5 characters long")
	assert.Contains(t, details, "priority must be one of [low high]")

	assert.Equal(t, "Request body is malformed", ValidationDetails(errors.New("unexpected EOF")))
}
