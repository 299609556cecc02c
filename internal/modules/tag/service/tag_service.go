package service

import (
	"fmt"
	"strings"

	"flowdash/internal/modules/tag/domain"
	"flowdash/internal/platform/clock"
	apperrors "flowdash/internal/platform/errors"
	"flowdash/internal/platform/id"
)

type TagService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewTagService(clock clock.Clock, idGen id.Generator) *TagService {
	return &TagService{clock: clock, idGen: idGen}
}

// Create builds a new active tag, or hands back the existing one when the
// name matches an active tag case-insensitively. Completed tags do not block
// reuse, so a new cycle can carry a retired name. The second return reports
// whether a tag was actually created.
func (s *TagService) Create(name string, existing []domain.Tag) (domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, false, fmt.Errorf("%w: tag name is required", apperrors.ErrInvalidInput)
	}
	normalized := domain.NormalizeName(name)
	for _, tag := range existing {
		if tag.Active() && domain.NormalizeName(tag.Name) == normalized {
			return tag, false, nil
		}
	}
	return domain.Tag{
		ID:        s.idGen.New(),
		Name:      name,
		Status:    domain.StatusActive,
		CreatedAt: s.clock.Now(),
	}, true, nil
}
