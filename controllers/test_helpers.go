package controllers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/Hoshii/catalog"
	"github.com/Hoshii/initializers"
	"github.com/Hoshii/models"
	"github.com/Hoshii/repositories"
	"github.com/Hoshii/services"
)

// SetupTestDB creates a mock database, sets it as the global DB and points the
// services at a Postgres store over it
func SetupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	originalDB := initializers.DB
	originalStore := initializers.Store
	initializers.DB = goquDB
	initializers.Store = repositories.NewPostgres(goquDB)
	installServices(initializers.Store, services.SkyOptions{})

	cleanup := func() {
		db.Close()
		initializers.DB = originalDB
		initializers.Store = originalStore
	}

	return db, mock, cleanup
}

// SetupMemoryStore points the services at a fresh in-memory store
func SetupMemoryStore(t *testing.T, opts services.SkyOptions) *repositories.Memory {
	t.Helper()
	store := repositories.NewMemory()

	originalStore := initializers.Store
	initializers.Store = store
	installServices(store, opts)
	t.Cleanup(func() { initializers.Store = originalStore })

	return store
}

func installServices(store repositories.Store, opts services.SkyOptions) {
	services.InitSkyService(store, catalog.Default(), opts, nil)
	services.InitPresetImportService(store, services.DefaultContainerName, services.DefaultPresets(), nil)
}

// SetupTestConfig installs a development config; mutate may adjust it
func SetupTestConfig(t *testing.T, mutate func(*initializers.AppConfig)) *initializers.AppConfig {
	t.Helper()
	cfg := &initializers.AppConfig{
		Port:              "8080",
		Secret:            testSecret,
		Env:               "test",
		DefaultSkyID:      "leapday",
		AdminPurgeSkyID:   "leapday",
		SeedContainerName: services.DefaultContainerName,
		SupportRatePerSec: 100,
		SupportBurst:      100,
	}
	if mutate != nil {
		mutate(cfg)
	}

	original := initializers.Config
	initializers.Config = cfg
	t.Cleanup(func() { initializers.Config = original })
	return cfg
}

// SetupTestContext creates a test Gin context with a response recorder
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// NewRequest attaches a request to c; body is JSON-encoded when not nil
func NewRequest(c *gin.Context, method, target string, body interface{}) {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
}

// SetAdmin sets the values the CheckAuth middleware would
func SetAdmin(c *gin.Context, isAdmin bool) {
	c.Set("subject", "admin")
	c.Set("admin", isAdmin)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error body: %v (%s)", err, w.Body.String())
	}
	return resp
}
