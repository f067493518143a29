package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hoshii/catalog"
	"github.com/Hoshii/initializers"
	"github.com/Hoshii/middlewares"
	"github.com/Hoshii/repositories"
	"github.com/Hoshii/services"
)

const routesSecret = "routes-test-secret"

func setupRouter(t *testing.T, burst int) *gin.Engine {
	return setupRouterWithRedis(t, burst, nil)
}

func setupRouterWithRedis(t *testing.T, burst int, rdb *redis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middlewares.ResetLimiters()
	t.Cleanup(middlewares.ResetLimiters)

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &initializers.AppConfig{
		Port:              "8080",
		Secret:            routesSecret,
		AdminPasswordHash: string(hash),
		Env:               "test",
		DefaultSkyID:      "leapday",
		AdminPurgeSkyID:   "leapday",
		SupportRatePerSec: 0.001,
		SupportBurst:      burst,
	}
	original := initializers.Config
	initializers.Config = cfg
	t.Cleanup(func() { initializers.Config = original })

	store := repositories.NewMemory()
	require.NoError(t, store.RegisterSky(context.Background(), cfg.DefaultSkyID, cfg.DefaultSkyID))
	services.InitSkyService(store, catalog.Default(), services.SkyOptions{RequireKnownSky: true}, nil)
	services.InitPresetImportService(store, "", services.DefaultPresets(), nil)

	return SetupRouter(cfg, zap.NewNop(), rdb)
}

func do(router *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSupportFlow(t *testing.T) {
	router := setupRouter(t, 10)

	w := do(router, http.MethodPost, "/support", "", gin.H{"skyId": "leapday", "action": "volunteer_shift", "name": "Aki", "comment": "see you at 9"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true,"total":5,"totalActions":1}`, w.Body.String())

	w = do(router, http.MethodGet, "/stats?skyId=leapday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(5), stats["total"])
	assert.Equal(t, float64(53), stats["density"])
	assert.NotEmpty(t, w.Header().Get(middlewares.RequestIDHeader))

	w = do(router, http.MethodGet, "/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "see you at 9")
	assert.Contains(t, w.Body.String(), "Volunteer for a shift")

	w = do(router, http.MethodGet, "/stats?skyId=leapday&type=badge", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/svg+xml")
}

func TestUnknownCampaignSky(t *testing.T) {
	router := setupRouter(t, 10)

	tests := []struct {
		name           string
		method         string
		target         string
		body           interface{}
		expectedStatus int
	}{
		{name: "stats for unregistered sky", method: http.MethodGet, target: "/stats?skyId=nowhere", expectedStatus: http.StatusNotFound},
		{name: "support for unregistered sky", method: http.MethodPost, target: "/support", body: gin.H{"skyId": "nowhere", "action": "pledge"}, expectedStatus: http.StatusNotFound},
		{name: "member sky needs no registration", method: http.MethodGet, target: "/stats?skyId=member:aki", expectedStatus: http.StatusOK},
		{name: "default sky is registered", method: http.MethodGet, target: "/stats?skyId=leapday", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.target, "", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusNotFound {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestSupportIsRateLimited(t *testing.T) {
	router := setupRouter(t, 2)
	body := gin.H{"skyId": "leapday", "action": "pledge"}

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/support", "", body).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/support", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodPost, "/support", "", body).Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/stats?skyId=leapday", "", nil).Code)
}

func TestSupportIsRateLimitedThroughRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	router := setupRouterWithRedis(t, 1, rdb)
	body := gin.H{"skyId": "leapday", "action": "pledge"}

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/support", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodPost, "/support", "", body).Code)
	assert.Len(t, mr.Keys(), 1)
}

func TestAdminRoutes(t *testing.T) {
	router := setupRouter(t, 10)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/admin/presets/import", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodDelete, "/admin/comments", "garbage", nil).Code)

	w := do(router, http.MethodPost, "/admin/login", "", gin.H{"password": "open-sesame"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = do(router, http.MethodPost, "/admin/presets/import", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	do(router, http.MethodPost, "/support", "", gin.H{"skyId": "leapday", "action": "pledge", "comment": "bye"})
	w = do(router, http.MethodDelete, "/admin/comments", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"deleted":1}`, w.Body.String())

	w = do(router, http.MethodGet, "/stats?skyId=leapday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(1), stats["totalActions"], "purging comments keeps the participation")

	w = do(router, http.MethodGet, "/comments?skyId=leapday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "bye")
}

func TestAdminRoutesRejectForeignToken(t *testing.T) {
	router := setupRouter(t, 10)

	token, err := middlewares.IssueAdminToken([]byte("some-other-secret"), "admin", time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/admin/presets/import", token, nil).Code)
}

func TestPingAndMetrics(t *testing.T) {
	router := setupRouter(t, 10)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ping", "", nil).Code)
	do(router, http.MethodGet, "/stats?skyId=leapday", "", nil)

	w := do(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hoshii_")
}
