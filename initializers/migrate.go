package initializers

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the idempotent schema. It is a no-op on the memory store.
func Migrate(ctx context.Context) error {
	if DB == nil {
		Logger.Info("No database configured; skipping migrations")
		return nil
	}
	if _, err := DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	Logger.Info("Schema applied")
	return nil
}
