package initializers

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Hoshii/repositories"
)

// DB is nil when running on the in-memory store
var DB *goqu.Database

var Store repositories.Store

var sqlDB *sql.DB

// ConnectDB opens Postgres at dsn. With an empty dsn the service runs on a
// process-local memory store instead.
func ConnectDB(dsn string) error {
	if dsn == "" {
		Logger.Warn("DB_URL not set. Using the in-memory store; data will not persist.")
		DB = nil
		Store = repositories.NewMemory()
		return nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}

	sqlDB = db
	DB = goqu.New("postgres", db)
	Store = repositories.NewPostgres(DB)
	Logger.Info("Connected to Postgres", zap.Int("maxOpenConns", db.Stats().MaxOpenConnections))
	return nil
}

// CloseDB releases the connection pool, if any
func CloseDB() error {
	if sqlDB == nil {
		return nil
	}
	return sqlDB.Close()
}
