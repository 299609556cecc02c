package out

import (
	"context"
	"time"

	sessionout "flowdash/internal/modules/session/port/out"
	tagin "flowdash/internal/modules/tag/port/in"
)

// TagCompleterAdapter bridges the session module to the tag module without a
// direct usecase dependency; the session side only knows the narrow
// TagCompleter port.
type TagCompleterAdapter struct {
	tags tagin.Usecase
}

func NewTagCompleterAdapter(tags tagin.Usecase) sessionout.TagCompleter {
	return &TagCompleterAdapter{tags: tags}
}

func (a *TagCompleterAdapter) CompleteTag(ctx context.Context, id string, at time.Time) error {
	return a.tags.Complete(ctx, id, at)
}
