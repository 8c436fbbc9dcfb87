package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/botfarm/internal/config"
)

// NewLogger creates a structured zerolog.Logger. The service name is added
// as a constant field when configured.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
