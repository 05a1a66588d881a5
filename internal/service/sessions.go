package service

import (
	"context"
	"strings"
	"sync"

	"github.com/moodlog/internal/remote"
)

// StoreFactory 为指定用户构造一个新的 RecordStore
type StoreFactory func(userID string) *RecordStore

// Sessions 按用户懒加载 RecordStore，首次访问时执行 Load。
type Sessions struct {
	factory StoreFactory

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

// sessionEntry 的 ready 在首次加载结束后关闭，之后 err 只读
type sessionEntry struct {
	store *RecordStore
	ready chan struct{}
	err   error
}

// NewSessions 构造 Sessions
func NewSessions(factory StoreFactory) *Sessions {
	return &Sessions{factory: factory, entries: make(map[string]*sessionEntry)}
}

// Get 返回用户的 RecordStore；首次访问会同步加载，并发的后续调用等待同一次加载的结果。
// 加载失败时不缓存该实例。
func (s *Sessions) Get(ctx context.Context, userID string) (*RecordStore, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, remote.ErrUnauthorized
	}

	s.mu.Lock()
	entry, ok := s.entries[userID]
	if !ok {
		entry = &sessionEntry{store: s.factory(userID), ready: make(chan struct{})}
		s.entries[userID] = entry
	}
	s.mu.Unlock()

	if ok {
		select {
		case <-entry.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if entry.err != nil {
			return nil, entry.err
		}
		return entry.store, nil
	}

	entry.err = entry.store.Load(ctx)
	if entry.err != nil {
		s.mu.Lock()
		if s.entries[userID] == entry {
			delete(s.entries, userID)
		}
		s.mu.Unlock()
	}
	close(entry.ready)

	if entry.err != nil {
		return nil, entry.err
	}
	return entry.store, nil
}

// Drop 丢弃用户的 RecordStore，下次访问会重新加载。
func (s *Sessions) Drop(userID string) {
	s.mu.Lock()
	delete(s.entries, strings.TrimSpace(userID))
	s.mu.Unlock()
}
