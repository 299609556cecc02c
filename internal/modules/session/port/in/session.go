package in

import (
	"context"

	"flowdash/internal/modules/session/dto"
)

type Usecase interface {
	// Load runs the startup protocol once. Mutations before Load returns do
	// not persist, so initial defaults can never clobber durable state.
	Load(ctx context.Context) error

	StartFlow(ctx context.Context, input dto.StartInput) (dto.CurrentSessionOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.SessionOutput, error)
	Cancel(ctx context.Context) error
	GetActive(ctx context.Context) (dto.CurrentSessionOutput, error)

	List(ctx context.Context) ([]dto.SessionOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.SessionOutput, error)
	Delete(ctx context.Context, id string) error

	ReminderInterval(ctx context.Context) (int, error)
	SetReminderInterval(ctx context.Context, minutes int) error

	Seed(ctx context.Context, days int, tagIDs []string) (int, error)
}
