package handler

import (
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	records  *remote.DBStore
	sessions *service.Sessions
	renderer *service.JournalRenderer
	calendar scoring.Calendar
}

// NewAPI constructs a handler set. records serves the remote-store routes and
// sessions serves the per-user wellbeing routes.
func NewAPI(db *gorm.DB, records *remote.DBStore, sessions *service.Sessions, calendar scoring.Calendar) *API {
	return &API{
		db:       db,
		records:  records,
		sessions: sessions,
		renderer: service.NewJournalRenderer(),
		calendar: calendar,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
