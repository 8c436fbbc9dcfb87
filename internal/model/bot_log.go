package model

import "time"

// BotLog is an append-only log entry. Entries are never updated or deleted
// individually; they go away only when the owning bot is deleted.
type BotLog struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
