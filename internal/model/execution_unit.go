package model

import "time"

// ExecutionUnitRecord is the process-local shadow of a running bot's
// simulated execution unit. It is a cache: the durable bot row remains the
// source of truth for status, and losing this record on process restart is
// tolerated. A registry miss means "unknown", not "not running".
type ExecutionUnitRecord struct {
	BotID     string        `json:"bot_id"`
	UnitID    string        `json:"unit_id"`
	Status    string        `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	LastUsage ResourceUsage `json:"last_usage"`
}
