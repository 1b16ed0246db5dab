package session

import (
	"context"
	"errors"
	"time"

	"github.com/Ramsey-B/vine/pkg/editor"
)

var (
	ErrNotFound        = errors.New("editor session not found")
	ErrLockNotAcquired = errors.New("editor session is busy")
)

// Session is one page view's editor state.
type Session struct {
	ID         string          `json:"id"`
	Snapshot   editor.Snapshot `json:"snapshot"`
	Submitting bool            `json:"submitting"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Expired reports whether the session outlived its TTL at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Unlock releases a session lock.
type Unlock func()

// SessionRepository stores editor sessions. Save refreshes the TTL.
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (Unlock, error)
}
