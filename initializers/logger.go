package initializers

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is replaced by InitLogger; until then it discards everything
var Logger = zap.NewNop()

func InitLogger(env string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	Logger = logger
	return logger, nil
}
