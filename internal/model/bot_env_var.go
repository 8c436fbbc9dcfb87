package model

import (
	"regexp"
	"time"
)

var envVarKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`)

// ValidEnvVarKey reports whether key is an acceptable environment
// variable name.
func ValidEnvVarKey(key string) bool {
	return envVarKeyRe.MatchString(key)
}

type BotEnvVar struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
