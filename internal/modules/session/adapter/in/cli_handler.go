package in

import (
	"context"

	sessiondto "flowdash/internal/modules/session/dto"
	sessionin "flowdash/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartFlow(ctx context.Context, goal, tagID string) (sessiondto.CurrentSessionOutput, error) {
	return h.usecase.StartFlow(ctx, sessiondto.StartInput{Goal: goal, TagID: tagID})
}

func (h CLIHandler) Complete(ctx context.Context, input sessiondto.CompleteInput) (sessiondto.SessionOutput, error) {
	return h.usecase.Complete(ctx, input)
}

func (h CLIHandler) Cancel(ctx context.Context) error {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.CurrentSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Update(ctx context.Context, input sessiondto.UpdateInput) (sessiondto.SessionOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) ReminderInterval(ctx context.Context) (int, error) {
	return h.usecase.ReminderInterval(ctx)
}

func (h CLIHandler) SetReminderInterval(ctx context.Context, minutes int) error {
	return h.usecase.SetReminderInterval(ctx, minutes)
}

func (h CLIHandler) Seed(ctx context.Context, days int, tagIDs []string) (int, error) {
	return h.usecase.Seed(ctx, days, tagIDs)
}
