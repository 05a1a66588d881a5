// Package cache is the local, best-effort key→JSON store that the record
// store hydrates from before the remote answers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Cache stores serialized JSON strings by key. Implementations make no
// transactional promises; callers treat every error as non-fatal.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Key helpers for the per-user blobs.
func CheckInsKey(userID string) string       { return "checkIns:" + userID }
func JournalEntriesKey(userID string) string { return "journalEntries:" + userID }
func UserSettingsKey(userID string) string   { return "userSettings:" + userID }
func ActivitySessionsKey(userID string) string {
	return "activitySessions:" + userID
}

// UserKeys lists every key owned by one user.
func UserKeys(userID string) []string {
	return []string{CheckInsKey(userID), JournalEntriesKey(userID), UserSettingsKey(userID), ActivitySessionsKey(userID)}
}

// GetJSON decodes the value stored under key into dst.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode cache key %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache key %s: %w", key, err)
	}
	return c.Set(ctx, key, string(raw))
}

// Memory is a process-local cache, used by tests and CACHE_BACKEND=memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}
