package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/auth/usecases"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/interfaces/http/handlers/common"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SessionUserResponse is the "user" object returned after login.
type SessionUserResponse struct {
	ID          uint     `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func toSessionUserResponse(p *permission.Principal) SessionUserResponse {
	return SessionUserResponse{
		ID:          p.UserID,
		Email:       p.Email,
		Name:        p.Name,
		Roles:       p.Roles,
		Permissions: p.Permissions,
	}
}

type AuthHandler struct {
	loginUC      LoginExecutor
	logoutUC     LogoutExecutor
	cookieConfig config.CookieConfig
	logger       logger.Interface
}

func NewAuthHandler(loginUC LoginExecutor, logoutUC LogoutExecutor, cookieConfig config.CookieConfig, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUC:      loginUC,
		logoutUC:     logoutUC,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewInvalidCredentialsError())
		return
	}

	result, err := h.login(c, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"user": toSessionUserResponse(result.Principal)})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.logout(c)
	utils.ActionSuccessResponse(c)
}

// LoginPage handles GET /auth/login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	common.Render(c, http.StatusOK, "login.html", gin.H{
		"Title":       "Sign in",
		"CallbackURL": safeCallbackURL(c.Query("callbackUrl")),
	})
}

// LoginForm handles POST /auth/login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	callbackURL := safeCallbackURL(c.PostForm("callbackUrl"))

	req := LoginRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	if _, err := h.login(c, req); err != nil {
		status, message := utils.ErrorStatus(err)
		common.Render(c, status, "login.html", gin.H{
			"Title":       "Sign in",
			"Error":       message,
			"Email":       req.Email,
			"CallbackURL": callbackURL,
		})
		return
	}

	c.Redirect(http.StatusFound, callbackURL)
}

// LogoutForm handles POST /auth/logout
func (h *AuthHandler) LogoutForm(c *gin.Context) {
	h.logout(c)
	c.Redirect(http.StatusFound, constants.PathLogin)
}

func (h *AuthHandler) login(c *gin.Context, req LoginRequest) (*usecases.LoginResult, error) {
	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if !errors.IsInvalidCredentialsError(err) {
			h.logger.Errorw("login failed", "error", err)
		}
		return nil, err
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	utils.SetSessionCookie(c, h.cookieConfig, result.Token, maxAge)
	return result, nil
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.logoutUC.Execute(c.Request.Context(), usecases.LogoutCommand{Principal: common.Principal(c)}); err != nil {
		h.logger.Warnw("logout failed", "error", err)
	}
	utils.ClearSessionCookie(c, h.cookieConfig)
}

// safeCallbackURL only follows local paths so the login form cannot be used
// as an open redirect.
func safeCallbackURL(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return constants.PathDashboard
	}
	if strings.HasPrefix(raw, "/auth/") || raw == "/auth" {
		return constants.PathDashboard
	}
	return raw
}
