package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/infrastructure/persistence/testdb"
	sharedConfig "helpdesk/internal/shared/config"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/logger"
)

const testPassword = "correct horse battery"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   sharedConfig.ServerConfig{Mode: gin.TestMode},
		Database: sharedConfig.DatabaseConfig{Driver: "sqlite"},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: bcrypt.MinCost},
			JWT:      sharedConfig.JWTConfig{Secret: "router-test-secret", SessionExpMinutes: 60},
			Cookie:   sharedConfig.CookieConfig{Name: "helpdesk_session", Path: "/", SameSite: "Lax"},
			Flash:    sharedConfig.FlashConfig{Secret: "router-test-flash", CookieName: "helpdesk_flash"},
		},
		Metrics: sharedConfig.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

type routerFixture struct {
	router *Router
	db     *gorm.DB
	typeID uint
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	db := testdb.New(t)
	for _, action := range []string{
		permission.ActionRead, permission.ActionCreate, permission.ActionUpdate,
		permission.ActionAssign, permission.ActionDelete,
	} {
		testdb.GrantPermission(t, db, constants.RoleAdmin, permission.ResourceProblem, action)
	}
	testdb.GrantPermission(t, db, constants.RoleAdmin, permission.ResourceUser, permission.ActionRead)
	testdb.GrantPermission(t, db, constants.RoleAdmin, permission.ResourceUser, permission.ActionCreate)
	testdb.GrantPermission(t, db, constants.RoleUser, permission.ResourceProblem, permission.ActionRead)

	hash, err := auth.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(testPassword)
	require.NoError(t, err)
	for _, u := range []struct{ email, role string }{
		{"admin@example.com", constants.RoleAdmin},
		{"user@example.com", constants.RoleUser},
	} {
		id := testdb.CreateUser(t, db, u.email, u.role)
		require.NoError(t, db.Model(&models.UserModel{}).Where("id = ?", id).Update("password_hash", hash).Error)
	}

	router, err := NewRouter(context.Background(), db, testConfig(), logger.NewLogger())
	require.NoError(t, err)
	t.Cleanup(router.Shutdown)

	return &routerFixture{
		router: router,
		db:     db,
		typeID: testdb.CreateProblemType(t, db, "Hardware", nil, nil),
	}
}

func (f *routerFixture) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.GetEngine().ServeHTTP(w, req)
	return w
}

func (f *routerFixture) login(t *testing.T, email string) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": testPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == "helpdesk_session" {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func jsonRequest(method, path string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRouter_ProblemLifecycleOverAPI(t *testing.T) {
	f := newRouterFixture(t)
	session := f.login(t, "admin@example.com")

	w := f.do(jsonRequest(http.MethodPost, "/api/problems", map[string]any{
		"title":         "Printer on fire",
		"description":   "Smoke from tray 2",
		"priority":      "high",
		"problemTypeId": f.typeID,
	}), session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Problem struct {
			ID     uint   `json:"id"`
			Number string `json:"number"`
			Status string `json:"status"`
		} `json:"problem"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Regexp(t, `^PRB-\d{4}-\d{4,}$`, created.Problem.Number)
	assert.Equal(t, "open", created.Problem.Status)

	problemPath := "/api/problems/" + jsonNumber(created.Problem.ID)

	w = f.do(jsonRequest(http.MethodPatch, problemPath+"/status", map[string]string{"status": "resolved"}), session)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = f.do(jsonRequest(http.MethodPatch, problemPath+"/status", map[string]string{"status": "cancelled"}), session)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/problems?status=cancelled", nil), session)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = f.do(httptest.NewRequest(http.MethodDelete, problemPath, nil), session)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_APIRequiresSession(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/problems", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
}

func TestRouter_APIEnforcesPermissions(t *testing.T) {
	f := newRouterFixture(t)
	session := f.login(t, "user@example.com")

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/staff", nil), session)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/problems", nil), session)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CreateStaffOverAPI(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.login(t, "admin@example.com")

	payload := map[string]any{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "Grace@Example.com",
		"jobTitle":  "Analyst",
		"role":      constants.RoleUser,
	}

	w := f.do(jsonRequest(http.MethodPost, "/api/staff", payload), admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Staff struct {
			ID    uint     `json:"id"`
			Email string   `json:"email"`
			Roles []string `json:"roles"`
		} `json:"staff"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Staff.ID)
	assert.Equal(t, "grace@example.com", created.Staff.Email)
	assert.Equal(t, []string{constants.RoleUser}, created.Staff.Roles)

	var audits int64
	require.NoError(t, f.db.Model(&models.AuditLogModel{}).
		Where("table_name = ? AND record_id = ? AND action = ?", constants.TableUsers, created.Staff.ID, "CREATE").
		Count(&audits).Error)
	assert.Equal(t, int64(1), audits)

	w = f.do(jsonRequest(http.MethodPost, "/api/staff", payload), admin)
	assert.Equal(t, http.StatusConflict, w.Code, "duplicate email")

	w = f.do(jsonRequest(http.MethodPost, "/api/staff", map[string]any{"firstName": "No", "email": "bad"}), admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(jsonRequest(http.MethodPost, "/api/staff", payload), f.login(t, "user@example.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestRouter_PagesRedirectToLogin(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/dashboard/problems", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?callbackUrl="+url.QueryEscape("/dashboard/problems"), w.Header().Get("Location"))
}

func TestRouter_LoginPageRedirectsSignedInUser(t *testing.T) {
	f := newRouterFixture(t)
	session := f.login(t, "admin@example.com")

	w := f.do(httptest.NewRequest(http.MethodGet, "/auth/login", nil), session)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathDashboard, w.Header().Get("Location"))
}

func TestRouter_FormActionsRequireCSRFToken(t *testing.T) {
	f := newRouterFixture(t)
	session := f.login(t, "admin@example.com")

	form := url.Values{"title": {"x"}, "priority": {"low"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/problems", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := f.do(req, session)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_DashboardRenders(t *testing.T) {
	f := newRouterFixture(t)
	session := f.login(t, "admin@example.com")

	w := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestRouter_Operational(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "helpdesk_http_requests_total")
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
