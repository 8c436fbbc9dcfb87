package model

import "time"

// Resource policy constants. The per-bot ceilings are hard clamps applied on
// every write, independent of which component produced the value.
const (
	MaxBotsPerUser = 3
	MaxCPUPercent  = 10.0
	MaxMemoryMB    = 50.0
)

type Bot struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Platform        string     `json:"platform"`
	Runtime         string     `json:"runtime"`
	Status          string     `json:"status"`
	ContainerID     *string    `json:"container_id"`
	ScriptContent   *string    `json:"script_content,omitempty"`
	CPUUsage        float64    `json:"cpu_usage"`
	MemoryUsage     float64    `json:"memory_usage"`
	UptimeSeconds   int64      `json:"uptime_seconds"`
	LastStartedAt   *time.Time `json:"last_started_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ClampCPU bounds a CPU sample to [0, MaxCPUPercent].
func ClampCPU(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxCPUPercent {
		return MaxCPUPercent
	}
	return v
}

// ClampMemory bounds a memory sample to [0, MaxMemoryMB].
func ClampMemory(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxMemoryMB {
		return MaxMemoryMB
	}
	return v
}
