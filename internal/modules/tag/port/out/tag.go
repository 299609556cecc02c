package out

import (
	"context"

	"flowdash/internal/modules/tag/domain"
)

// TagStore persists the full tag collection as one document.
type TagStore interface {
	LoadAll(ctx context.Context) ([]domain.Tag, error)
	ReplaceAll(ctx context.Context, tags []domain.Tag) error
}
