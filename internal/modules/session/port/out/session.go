package out

import (
	"context"
	"time"

	"flowdash/internal/modules/session/domain"
)

// SessionStore is one backend in the ranked persistence chain. Writes replace
// the whole collection; there is no incremental diffing.
type SessionStore interface {
	Name() string
	LoadAll(ctx context.Context) ([]domain.Session, error)
	ReplaceAll(ctx context.Context, sessions []domain.Session) error
}

// MetaStore holds the fast-changing lightweight state (current session and
// reminder interval). The second return of Load reports presence.
type MetaStore interface {
	Load(ctx context.Context) (domain.Meta, bool, error)
	Save(ctx context.Context, meta domain.Meta) error
}

// TagCompleter transitions a shipping-cycle tag to completed when a session
// attached to it ships.
type TagCompleter interface {
	CompleteTag(ctx context.Context, id string, at time.Time) error
}
