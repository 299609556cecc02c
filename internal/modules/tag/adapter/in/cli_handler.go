package in

import (
	"context"

	tagdto "flowdash/internal/modules/tag/dto"
	tagin "flowdash/internal/modules/tag/port/in"
)

type CLIHandler struct {
	usecase tagin.Usecase
}

func NewCLIHandler(usecase tagin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, name string) (tagdto.TagOutput, error) {
	return h.usecase.Create(ctx, tagdto.CreateInput{Name: name})
}

func (h CLIHandler) List(ctx context.Context) ([]tagdto.TagOutput, error) {
	return h.usecase.List(ctx)
}
