package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"padmin/internal/database"
	"padmin/internal/models"
	"padmin/pkg/config"
	"padmin/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			AccessExpire:  900,
			RefreshSecret: "test-refresh-secret",
			RefreshExpire: 604800,
			AccessCookie:  "accessToken",
			RefreshCookie: "refreshToken",
			CookiePath:    "/",
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       1,
		},
	}

	return SetupRouter(db, cfg), db
}

func doJSON(r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envCode 解出统一返回格式中的业务码，HTTP层始终是200
func envCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var envelope struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code
}

func signUp(t *testing.T, r *gin.Engine, username, password string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/sign-up", gin.H{"username": username, "password": password})
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
}

func makeAdmin(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", username).
		Update("is_admin", true).Error)
}

func signIn(t *testing.T, r *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/sign-in", gin.H{"username": username, "password": password})
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSignInSetsBothCookies(t *testing.T) {
	r, _ := newTestServer(t)
	signUp(t, r, "alice", "secret123")

	cookies := signIn(t, r, "alice", "secret123")
	access := findCookie(cookies, "accessToken")
	refresh := findCookie(cookies, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	r, _ := newTestServer(t)
	signUp(t, r, "alice", "secret123")

	// 用户不存在与密码错误的响应逐字节一致
	unknownUser := doJSON(r, http.MethodPost, "/api/v1/auth/sign-in", gin.H{"username": "nobody", "password": "secret123"})
	wrongPassword := doJSON(r, http.MethodPost, "/api/v1/auth/sign-in", gin.H{"username": "alice", "password": "wrong-password"})

	assert.Equal(t, errors.CodeInvalidParam, envCode(t, unknownUser))
	assert.Equal(t, unknownUser.Body.String(), wrongPassword.Body.String())
	assert.Empty(t, unknownUser.Result().Cookies())
	assert.Empty(t, wrongPassword.Result().Cookies())
}

func TestGuardedRoutes(t *testing.T) {
	r, _ := newTestServer(t)
	signUp(t, r, "alice", "secret123")

	// 未携带Cookie
	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, errors.CodeUnauthorized, envCode(t, w))

	w = doJSON(r, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, errors.CodeUnauthorized, envCode(t, w))

	// 伪造的令牌
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, &http.Cookie{Name: "accessToken", Value: "garbage"})
	assert.Equal(t, errors.CodeForbidden, envCode(t, w))

	// 有效令牌
	cookies := signIn(t, r, "alice", "secret123")
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, findCookie(cookies, "accessToken"))
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))
}

func TestMutatingRoutesRequireAdmin(t *testing.T) {
	r, db := newTestServer(t)
	signUp(t, r, "alice", "secret123")
	signUp(t, r, "bob", "secret123")
	makeAdmin(t, db, "alice")

	// 普通用户只能读
	bobAccess := findCookie(signIn(t, r, "bob", "secret123"), "accessToken")
	w := doJSON(r, http.MethodPost, "/api/v1/roles", gin.H{"role_code": "Admin", "role_name": "管理员"}, bobAccess)
	assert.Equal(t, errors.CodeForbidden, envCode(t, w))
	w = doJSON(r, http.MethodPost, "/api/v1/resources", gin.H{
		"resource_code": "Dashboard",
		"resource_name": "工作台",
		"resource_type": "menu",
	}, bobAccess)
	assert.Equal(t, errors.CodeForbidden, envCode(t, w))
	w = doJSON(r, http.MethodDelete, "/api/v1/users/alice", nil, bobAccess)
	assert.Equal(t, errors.CodeForbidden, envCode(t, w))

	w = doJSON(r, http.MethodGet, "/api/v1/roles", nil, bobAccess)
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))

	// 管理员可写
	aliceAccess := findCookie(signIn(t, r, "alice", "secret123"), "accessToken")
	w = doJSON(r, http.MethodPost, "/api/v1/roles", gin.H{"role_code": "Admin", "role_name": "管理员"}, aliceAccess)
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))
	w = doJSON(r, http.MethodPost, "/api/v1/users/bob/roles/Admin", nil, aliceAccess)
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))
}

func TestRefreshRotatesTokens(t *testing.T) {
	r, _ := newTestServer(t)
	signUp(t, r, "alice", "secret123")
	cookies := signIn(t, r, "alice", "secret123")

	// 仅凭访问令牌不能刷新
	w := doJSON(r, http.MethodPost, "/api/v1/auth/refresh", nil, findCookie(cookies, "accessToken"))
	assert.Equal(t, errors.CodeUnauthorized, envCode(t, w))

	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", nil, findCookie(cookies, "refreshToken"))
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
	rotated := w.Result().Cookies()
	require.NotNil(t, findCookie(rotated, "accessToken"))
	require.NotNil(t, findCookie(rotated, "refreshToken"))

	// 刷新不吊销旧访问令牌，两份令牌各自可用
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, findCookie(cookies, "accessToken"))
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, findCookie(rotated, "accessToken"))
	assert.Equal(t, errors.CodeSuccess, envCode(t, w))
}

func TestSignOutIdempotent(t *testing.T) {
	r, _ := newTestServer(t)

	// 未登录状态下登出同样成功，重复登出结果一致
	first := doJSON(r, http.MethodPost, "/api/v1/auth/sign-out", nil)
	second := doJSON(r, http.MethodPost, "/api/v1/auth/sign-out", nil)
	assert.Equal(t, errors.CodeSuccess, envCode(t, first))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// 清除Cookie
	cleared := findCookie(first.Result().Cookies(), "accessToken")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestPanicRecoveredIntoEnvelope(t *testing.T) {
	r, _ := newTestServer(t)
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	// panic走统一返回格式，而非gin默认的空500
	w := doJSON(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, errors.CodeServerError, envCode(t, w))
}

func TestCrudRoundTrip(t *testing.T) {
	r, db := newTestServer(t)
	signUp(t, r, "alice", "secret123")
	makeAdmin(t, db, "alice")
	cookies := signIn(t, r, "alice", "secret123")
	access := findCookie(cookies, "accessToken")

	w := doJSON(r, http.MethodPost, "/api/v1/roles", gin.H{"role_code": "Admin", "role_name": "管理员"}, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/resources", gin.H{
		"resource_code": "Dashboard",
		"resource_name": "工作台",
		"resource_type": "menu",
	}, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/users/alice/roles/Admin", nil, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
	w = doJSON(r, http.MethodPost, "/api/v1/roles/Admin/resources/Dashboard", nil, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())

	// 角色被引用，删除冲突
	w = doJSON(r, http.MethodDelete, "/api/v1/roles/Admin", nil, access)
	assert.Equal(t, errors.CodeConflict, envCode(t, w))

	// 有效资源树
	w = doJSON(r, http.MethodGet, "/api/v1/users/alice/resource-tree", nil, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
	var envelope struct {
		Data []struct {
			ResourceCode string `json:"resource_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Dashboard", envelope.Data[0].ResourceCode)

	// 删除用户连带清理授权，令牌随之失效
	w = doJSON(r, http.MethodDelete, "/api/v1/users/alice", nil, access)
	require.Equal(t, errors.CodeSuccess, envCode(t, w), w.Body.String())
	w = doJSON(r, http.MethodGet, "/api/v1/user-roles", nil, access)
	assert.Equal(t, errors.CodeForbidden, envCode(t, w))
}
