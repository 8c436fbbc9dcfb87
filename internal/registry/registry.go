// Package registry holds the in-memory execution unit registry.
//
// The registry is a process-local cache keyed by bot id. It is not durable,
// not replicated across instances, and never authoritative: any real answer
// to "is this bot running" comes from the bot row in the database. A miss
// here means "unknown", and callers fall back to durable state.
package registry

import (
	"sync"
	"time"

	"github.com/edvin/botfarm/internal/model"
)

type Registry struct {
	mu    sync.RWMutex
	units map[string]model.ExecutionUnitRecord
}

func New() *Registry {
	return &Registry{units: make(map[string]model.ExecutionUnitRecord)}
}

// Put records the execution unit backing a bot, replacing any prior record.
func (r *Registry) Put(rec model.ExecutionUnitRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[rec.BotID] = rec
}

// Get returns the record for a bot id, or false on a miss.
func (r *Registry) Get(botID string) (model.ExecutionUnitRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.units[botID]
	return rec, ok
}

// Remove drops a bot's record. Removing an absent record is a no-op.
func (r *Registry) Remove(botID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.units, botID)
}

// UpdateUsage refreshes the last-known usage of a bot's unit, if present.
func (r *Registry) UpdateUsage(botID string, usage model.ResourceUsage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.units[botID]
	if !ok {
		return
	}
	rec.LastUsage = usage
	r.units[botID] = rec
}

// Len returns the number of tracked units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}

// NewRecord builds a running-unit record for a bot.
func NewRecord(botID, unitID string, usage model.ResourceUsage) model.ExecutionUnitRecord {
	return model.ExecutionUnitRecord{
		BotID:     botID,
		UnitID:    unitID,
		Status:    model.StatusOnline,
		StartedAt: time.Now(),
		LastUsage: usage,
	}
}
