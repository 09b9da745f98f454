package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	cookieName string
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, cookieName string, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth guards API routes: requests without a valid session get a 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.authenticate(c)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// RequirePageAuth guards page routes: requests without a valid session are
// redirected to the login page with the original path as callbackUrl.
func (m *AuthMiddleware) RequirePageAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.authenticate(c)
		if err != nil {
			c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.Path))
			c.Abort()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth sets the principal when a valid session is present and
// never rejects the request.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := m.authenticate(c); err == nil {
			setPrincipal(c, principal)
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends users who already hold a session away from
// the auth pages.
func (m *AuthMiddleware) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := m.authenticate(c); err == nil {
			setPrincipal(c, principal)
			if c.Request.Method == http.MethodGet {
				c.Redirect(http.StatusFound, constants.PathDashboard)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*permission.Principal, error) {
	token := utils.GetSessionToken(c, m.cookieName)
	if token == "" {
		return nil, errors.NewUnauthorizedError("missing session token")
	}

	claims, err := m.jwtService.Verify(token)
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			m.logger.Warnw("failed to verify session token", "error", err, "path", c.Request.URL.Path)
		}
		return nil, err
	}

	principal, err := claims.Principal()
	if err != nil {
		m.logger.Warnw("session token carries an invalid subject", "error", err)
		return nil, errors.NewTokenInvalidError()
	}
	return principal, nil
}

func setPrincipal(c *gin.Context, principal *permission.Principal) {
	c.Set(constants.ContextKeyPrincipal, principal)
	c.Set(constants.ContextKeyUserID, principal.UserID)
}

// LoginRedirectURL builds the login URL that returns the user to path.
func LoginRedirectURL(path string) string {
	if path == "" || path == constants.PathLogin {
		return constants.PathLogin
	}
	return constants.PathLogin + "?callbackUrl=" + url.QueryEscape(path)
}
