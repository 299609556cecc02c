package dto

import (
	"time"

	"flowdash/internal/modules/tag/domain"
)

type CreateInput struct {
	Name string
}

type TagOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func FromDomain(tag domain.Tag) TagOutput {
	return TagOutput{
		ID:          tag.ID,
		Name:        tag.Name,
		Status:      string(tag.Status),
		CreatedAt:   tag.CreatedAt,
		CompletedAt: tag.CompletedAt,
	}
}

func FromDomainList(tags []domain.Tag) []TagOutput {
	outputs := make([]TagOutput, 0, len(tags))
	for _, tag := range tags {
		outputs = append(outputs, FromDomain(tag))
	}
	return outputs
}
