package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant_backend/internal/config"
	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/models"
	"restaurant_backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "router-test-secret"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          testSecret,
		JWTExpire:          time.Hour,
		CORSAllowedOrigins: "http://localhost:5173",
		BackendURL:         "http://localhost:5000",
		FrontendURL:        "http://localhost:5173",
		UploadsDir:         t.TempDir(),
		AuthRateLimit:      0.001,
		AuthRateBurst:      1,
	}
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	engine := gin.New()
	app := Setup(engine, Deps{DB: db, Config: cfg, Metrics: metrics.New(), Stop: stop})
	require.NotNil(t, app.Users)
	return engine
}

func bearer(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := utils.NewJWTManager(testSecret, time.Hour).GenerateToken(3, string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPingAndMetrics(t *testing.T) {
	engine := newTestEngine(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/ping"`)
}

func TestProtectedRoutes(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		status int
	}{
		{"me without token", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"orders without token", http.MethodGet, "/api/orders", "", http.StatusUnauthorized},
		{"customer on stats", http.MethodGet, "/api/admin/stats", models.RoleCustomer, http.StatusForbidden},
		{"staff on stats", http.MethodGet, "/api/admin/stats", models.RoleStaff, http.StatusForbidden},
		{"customer changes order status", http.MethodPut, "/api/orders/1/status", models.RoleCustomer, http.StatusForbidden},
		{"reservation status without token", http.MethodPut, "/api/reservations/1/status", "", http.StatusUnauthorized},
		{"staff creates table", http.MethodPost, "/api/tables", models.RoleStaff, http.StatusForbidden},
		{"staff edits menu", http.MethodDelete, "/api/menu/items/1", models.RoleStaff, http.StatusForbidden},
		{"customer lists users", http.MethodGet, "/api/users", models.RoleCustomer, http.StatusForbidden},
		{"anonymous menu mutation", http.MethodPost, "/api/menu/categories", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tt.role))
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	engine := newTestEngine(t)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestCORSPreflight(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
