package in

import (
	"context"
	"time"

	"flowdash/internal/modules/tag/dto"
)

type Usecase interface {
	Load(ctx context.Context) error

	Create(ctx context.Context, input dto.CreateInput) (dto.TagOutput, error)
	List(ctx context.Context) ([]dto.TagOutput, error)
	Get(ctx context.Context, id string) (dto.TagOutput, error)
	Complete(ctx context.Context, id string, at time.Time) error
}
