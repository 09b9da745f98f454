package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
)

const sessionCookie = "helpdesk_session"

func newAuthMiddleware() (*AuthMiddleware, *auth.JWTService) {
	jwtSvc := auth.NewJWTService("middleware-test-secret", time.Hour)
	return NewAuthMiddleware(jwtSvc, sessionCookie, testutil.NewMockLogger()), jwtSvc
}

func signedCookie(t *testing.T, jwtSvc *auth.JWTService) *http.Cookie {
	t.Helper()
	token, _, err := jwtSvc.Generate(testutil.NewPrincipal(7, []string{constants.RoleSpecialist}, "problem:read"))
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func serve(engine *gin.Engine, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	m, jwtSvc := newAuthMiddleware()

	engine := gin.New()
	engine.GET("/api/me", m.RequireAuth(), func(c *gin.Context) {
		value, _ := c.Get(constants.ContextKeyPrincipal)
		c.JSON(http.StatusOK, gin.H{"id": value.(*permission.Principal).UserID})
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/me", nil),
			&http.Cookie{Name: sessionCookie, Value: "not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid cookie", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/me", nil), signedCookie(t, jwtSvc))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7}`, w.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+signedCookie(t, jwtSvc).Value)
		w := serve(engine, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequirePageAuth_RedirectsWithCallback(t *testing.T) {
	m, _ := newAuthMiddleware()

	engine := gin.New()
	engine.GET("/dashboard/problems/:id", m.RequirePageAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/dashboard/problems/3", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?callbackUrl="+url.QueryEscape("/dashboard/problems/3"), w.Header().Get("Location"))
}

func TestRedirectIfAuthenticated(t *testing.T) {
	m, jwtSvc := newAuthMiddleware()

	engine := gin.New()
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	engine.GET(constants.PathLogin, m.RedirectIfAuthenticated(), handler)
	engine.POST(constants.PathLogin, m.RedirectIfAuthenticated(), handler)

	w := serve(engine, httptest.NewRequest(http.MethodGet, constants.PathLogin, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodGet, constants.PathLogin, nil), signedCookie(t, jwtSvc))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathDashboard, w.Header().Get("Location"))

	// form posts are never redirected
	w = serve(engine, httptest.NewRequest(http.MethodPost, constants.PathLogin, nil), signedCookie(t, jwtSvc))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, constants.PathLogin, LoginRedirectURL(""))
	assert.Equal(t, constants.PathLogin, LoginRedirectURL(constants.PathLogin))
	assert.Equal(t, "/auth/login?callbackUrl=%2Fdashboard", LoginRedirectURL("/dashboard"))
}

type authorizerFunc func(ctx context.Context, principal *permission.Principal, resource, action string) error

func (f authorizerFunc) Authorize(ctx context.Context, principal *permission.Principal, resource, action string) error {
	return f(ctx, principal, resource, action)
}

func TestRequirePermission(t *testing.T) {
	var gotResource, gotAction string
	m := NewPermissionMiddleware(authorizerFunc(func(_ context.Context, p *permission.Principal, resource, action string) error {
		gotResource, gotAction = resource, action
		if p == nil {
			return errors.NewUnauthorizedError("not signed in")
		}
		if !slices.Contains(p.Permissions, permission.Name(resource, action)) {
			return errors.NewForbiddenError("missing permission")
		}
		return nil
	}), testutil.NewMockLogger())

	newEngine := func(principal *permission.Principal) *gin.Engine {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			if principal != nil {
				c.Set(constants.ContextKeyPrincipal, principal)
			}
		})
		engine.POST("/api/problems/:id/assign", m.RequirePermission(permission.ResourceProblem, permission.ActionAssign),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return engine
	}

	w := serve(newEngine(nil), httptest.NewRequest(http.MethodPost, "/api/problems/1/assign", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, permission.ResourceProblem, gotResource)
	assert.Equal(t, permission.ActionAssign, gotAction)

	reader := testutil.NewPrincipal(2, []string{constants.RoleUser}, "problem:read")
	w = serve(newEngine(reader), httptest.NewRequest(http.MethodPost, "/api/problems/1/assign", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	operator := testutil.NewPrincipal(1, []string{constants.RoleAdmin}, "problem:assign")
	w = serve(newEngine(operator), httptest.NewRequest(http.MethodPost, "/api/problems/1/assign", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF(t *testing.T) {
	engine := gin.New()
	engine.Use(CSRF(false))
	engine.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyCSRFToken))
	})
	engine.POST("/form", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.NotEmpty(t, token)

	var csrfCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.CSRFCookieName {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)
	assert.Equal(t, token, csrfCookie.Value)
	assert.True(t, csrfCookie.HttpOnly)

	post := func(form url.Values, header string, cookies ...*http.Cookie) int {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(constants.HeaderXCSRFToken, header)
		}
		return serve(engine, req, cookies...).Code
	}

	assert.Equal(t, http.StatusForbidden, post(url.Values{constants.CSRFFormField: {token}}, ""), "no cookie")
	assert.Equal(t, http.StatusForbidden, post(url.Values{}, "", csrfCookie), "no submitted token")
	assert.Equal(t, http.StatusForbidden, post(url.Values{constants.CSRFFormField: {"other"}}, "", csrfCookie), "mismatch")
	assert.Equal(t, http.StatusNoContent, post(url.Values{constants.CSRFFormField: {token}}, "", csrfCookie))
	assert.Equal(t, http.StatusNoContent, post(url.Values{}, token, csrfCookie), "header token")
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w := serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, strings.Repeat("x", maxRequestIDLength+1))
	w = serve(engine, req)
	assert.Len(t, w.Header().Get(constants.HeaderXRequestID), 36)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, "login", 2, time.Hour, testutil.NewMockLogger())

	engine := gin.New()
	engine.POST("/login", limiter.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// another client IP has its own budget
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusNoContent, serve(engine, req).Code)
}

func TestRateLimiter_NilLetsRequestsThrough(t *testing.T) {
	var limiter *RateLimiter

	engine := gin.New()
	engine.POST("/login", limiter.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
}
