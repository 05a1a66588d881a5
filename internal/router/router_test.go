package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/handler"
	"github.com/moodlog/internal/metrics"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if _, err := db.EnsureUserIn(gdb, "tester", "secret"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cal := scoring.NewCalendar(time.UTC)
	records := remote.NewDBStore(gdb, cal)
	m := metrics.New()
	userSessions := service.NewSessions(func(userID string) *service.RecordStore {
		return service.NewRecordStore(userID, records, cache.NewMemory(), service.WithCalendar(cal), service.WithMetrics(m))
	})
	api := handler.NewAPI(gdb, records, userSessions, cal)
	return SetupRouter("test-secret", api, m), m
}

func TestPing(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("unexpected ping response %d %q", rr.Code, rr.Body.String())
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r, _ := setupTestRouter(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/checkins"},
		{http.MethodGet, "/api/journal/counts"},
		{http.MethodGet, "/api/settings"},
		{http.MethodGet, "/api/wellbeing/state"},
		{http.MethodPost, "/api/wellbeing/sync"},
		{http.MethodPost, "/api/wellbeing/heavy-card/shown"},
		{http.MethodDelete, "/api/wellbeing/data"},
	}
	for _, tt := range paths {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tt.method, tt.path, rr.Code)
		}
	}
}

func TestSessionFlowAndMetrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	login := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"username":"tester","password":"secret"}`))
	login.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, login)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()

	for _, path := range []string{"/api/wellbeing/state", "/api/wellbeing/streak", "/api/wellbeing/daily-score"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rr.Code, rr.Body.String())
		}
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `moodlog_http_requests_total{method="GET",route="/api/wellbeing/state",status="200"} 1`) {
		t.Fatalf("expected request counter in metrics output, got:\n%s", rr.Body.String())
	}
}
