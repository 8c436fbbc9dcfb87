package model

import "time"

// ResourceSample is one immutable (cpu, memory) observation for a bot.
// This is the only entity the metrics aggregator reads.
type ResourceSample struct {
	ID          string    `json:"id"`
	BotID       string    `json:"bot_id"`
	CPUUsage    float64   `json:"cpu_usage"`
	MemoryUsage float64   `json:"memory_usage"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ResourceUsage is a single point-in-time usage reading.
type ResourceUsage struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}
