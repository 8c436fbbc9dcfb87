package core

import (
	"github.com/rs/zerolog"

	"github.com/edvin/botfarm/internal/registry"
	"github.com/edvin/botfarm/internal/sim"
)

type Services struct {
	Auth           *AuthService
	Bot            *BotService
	BotEnvVar      *BotEnvVarService
	BotLog         *BotLogService
	ResourceSample *ResourceSampleService
	Metrics        *MetricsService
	Heartbeat      *HeartbeatService
}

type ServicesConfig struct {
	JWTSecret string
	JWTIssuer string
	Heartbeat HeartbeatConfig
}

func NewServices(db DB, sampler sim.Sampler, units *registry.Registry, logger zerolog.Logger, cfg ServicesConfig) *Services {
	bot := NewBotService(db, sampler, units)
	return &Services{
		Auth:           NewAuthService(db, cfg.JWTSecret, cfg.JWTIssuer),
		Bot:            bot,
		BotEnvVar:      NewBotEnvVarService(db, bot),
		BotLog:         NewBotLogService(db, bot),
		ResourceSample: NewResourceSampleService(db, bot),
		Metrics:        NewMetricsService(db),
		Heartbeat:      NewHeartbeatService(db, sampler, units, logger, cfg.Heartbeat),
	}
}
