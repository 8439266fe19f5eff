package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xuankong-api/internal/application/analysis"
	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/repository"
	"xuankong-api/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	result repository.RateLimitResult
	err    error
	keys   []string
}

func (l *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (repository.RateLimitResult, error) {
	l.keys = append(l.keys, key)
	return l.result, l.err
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "xuankong-api", Env: "test"},
		Observability: config.ObservabilityConfig{
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Security: config.SecurityConfig{
			CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
	}
}

func newRouter(t *testing.T, cfg *config.Config, limiter *stubLimiter, checks map[string]handler.HealthChecker) *gin.Engine {
	t.Helper()
	book := rulebook.Default()
	plates := plate.NewService(plate.NewGenerator(1864, 2223), nil, 64, time.Hour)
	diag := diagnosis.NewEngine(book)
	cm := chengmen.NewAnalyzer(book)
	rg := remedy.NewGenerator(book)
	keys := keyposition.NewAnalyzer(book)
	svc := analysis.NewService(plates, diag, cm, rg, keys, nil, analysis.Options{Timeout: 5 * time.Second})

	xk := handler.NewXuankongHandler(svc, plates, diag, cm, rg, keys, "")
	health := handler.NewHealthHandler("test", checks)
	if limiter == nil {
		return New(cfg, xk, health, nil).Engine()
	}
	return New(cfg, xk, health, limiter).Engine()
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func errorCode(body map[string]any) string {
	detail, _ := body["error"].(map[string]any)
	code, _ := detail["error_code"].(string)
	return code
}

func TestComprehensiveAnalysis(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodPost, "/v1/xuankong/comprehensive-analysis", `{"facing":180,"buildYear":2020}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", body["message"])

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 50, data["overallScore"])
	assert.Nil(t, data["keyPositions"])
	assert.EqualValues(t, 8, data["plate"].(map[string]any)["period"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestComprehensiveAnalysisValidation(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	tests := []struct {
		name    string
		body    string
		message string
		code    string
	}{
		{"missing facing", `{"buildYear":2020}`, "缺少或无效的朝向参数 (facing)", "1001"},
		{"facing not a number", `{"facing":"south","buildYear":2020}`, "缺少或无效的朝向参数 (facing)", "1001"},
		{"missing build year", `{"facing":180}`, "缺少或无效的建造年份 (buildYear)", "1001"},
		{"build year not a number", `{"facing":180,"buildYear":"2020"}`, "缺少或无效的建造年份 (buildYear)", "1001"},
		{"build year out of range", `{"facing":180,"buildYear":1800}`, "", "1009"},
		{"unknown room", `{"facing":180,"buildYear":2020,"roomLayout":{"attic":"bedroom"}}`, "", "1001"},
		{"unknown urgency", `{"facing":180,"buildYear":2020,"urgency":"whenever"}`, "", "1001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/v1/xuankong/comprehensive-analysis", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, errorCode(body))
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestAnalysisDoc(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodGet, "/v1/xuankong/comprehensive-analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	params := body["data"].(map[string]any)["parameters"].(map[string]any)
	year := params["buildYear"].(map[string]any)
	assert.Equal(t, "建造年份 (1864-2223)", year["description"])
}

func TestPlateAndDiagnosis(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodPost, "/v1/xuankong/plate", `{"facing":180,"buildYear":2020}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 8, body["data"].(map[string]any)["period"])

	w, _ = do(t, r, http.MethodPost, "/v1/xuankong/diagnosis", `{"facing":180,"buildYear":2020,"roomLayout":{"1":"bedroom","south":"kitchen"}}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestChengmen(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodPost, "/v1/xuankong/chengmen",
		`{"facing":180,"buildYear":2020,"environmentInfo":{"waterPositions":["north"]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "chengmenjue")
	assert.Contains(t, data, "lingZheng")
}

func TestTimeline(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodGet, "/v1/xuankong/chengmen/timeline?period=9&year=2025", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2024, data["startYear"])
	assert.EqualValues(t, 2, data["yearsInPeriod"])
	assert.Equal(t, "peak", data["phase"])

	w, body = do(t, r, http.MethodGet, "/v1/xuankong/chengmen/timeline", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "1001", errorCode(body))

	w, _ = do(t, r, http.MethodGet, "/v1/xuankong/chengmen/timeline?period=12&year=2025", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemedies(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodPost, "/v1/xuankong/remedies",
		`{"issues":[{"position":4,"severity":"critical","type":"wuhuang"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := body["data"].(map[string]any)["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalIssues"])

	w, _ = do(t, r, http.MethodPost, "/v1/xuankong/remedies", `{"issues":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeyPositions(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	w, body := do(t, r, http.MethodPost, "/v1/xuankong/key-positions", `{"mainDirection":"center"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "keyPositions")
	assert.Nil(t, data["keyPositions"])

	w, body = do(t, r, http.MethodPost, "/v1/xuankong/key-positions", `{"mainDirection":"south"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, body["data"].(map[string]any)["keyPositions"])
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}

	limiter := &stubLimiter{}
	r := newRouter(t, cfg, limiter, nil)
	w, body := do(t, r, http.MethodPost, "/v1/xuankong/plate", `{"facing":180,"buildYear":2020}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1006", errorCode(body))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "/v1/xuankong/plate")

	allowing := &stubLimiter{result: repository.RateLimitResult{Allowed: true, Remaining: 4}}
	r = newRouter(t, cfg, allowing, nil)
	w, _ = do(t, r, http.MethodPost, "/v1/xuankong/plate", `{"facing":180,"buildYear":2020}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))

	failing := &stubLimiter{err: errors.New("redis down")}
	r = newRouter(t, cfg, failing, nil)
	w, _ = do(t, r, http.MethodPost, "/v1/xuankong/plate", `{"facing":180,"buildYear":2020}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestRecovery(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w, body := do(t, r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body["message"])
	assert.Equal(t, "1007", errorCode(body))
}

func TestHealthEndpoints(t *testing.T) {
	r := newRouter(t, testConfig(), nil, map[string]handler.HealthChecker{"redis": stubChecker{}})
	for _, path := range []string{"/health", "/ready", "/live"} {
		w, body := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "ok", body["status"], path)
	}

	r = newRouter(t, testConfig(), nil, map[string]handler.HealthChecker{"redis": stubChecker{err: errors.New("refused")}})
	w, body := do(t, r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not_ready", body["status"])
	check := body["checks"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "refused", check["error"])
}

func TestRequestIDPropagation(t *testing.T) {
	r := newRouter(t, testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
