package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"flowdash/internal/modules/tag/domain"
	"flowdash/internal/modules/tag/dto"
	tagin "flowdash/internal/modules/tag/port/in"
	tagout "flowdash/internal/modules/tag/port/out"
	"flowdash/internal/modules/tag/service"
	apperrors "flowdash/internal/platform/errors"
)

type Interactor struct {
	svc   *service.TagService
	store tagout.TagStore
	log   zerolog.Logger

	mu     sync.Mutex
	tags   []domain.Tag
	loaded bool
}

func NewInteractor(svc *service.TagService, store tagout.TagStore, log zerolog.Logger) tagin.Usecase {
	return &Interactor{svc: svc, store: store, log: log}
}

func (i *Interactor) Load(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.loaded {
		return nil
	}
	tags, err := i.store.LoadAll(ctx)
	if err != nil {
		i.log.Warn().Err(err).Msg("tag load failed, starting empty")
	} else {
		i.tags = tags
	}
	i.loaded = true
	return nil
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.TagOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	tag, created, err := i.svc.Create(input.Name, i.tags)
	if err != nil {
		return dto.TagOutput{}, err
	}
	if created {
		i.tags = append(i.tags, tag)
		i.persistLocked(ctx)
	}
	return dto.FromDomain(tag), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.TagOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	tags := make([]domain.Tag, len(i.tags))
	copy(tags, i.tags)
	domain.SortForDisplay(tags)
	return dto.FromDomainList(tags), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TagOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, tag := range i.tags {
		if tag.ID == id {
			return dto.FromDomain(tag), nil
		}
	}
	return dto.TagOutput{}, apperrors.ErrNotFound
}

// Complete transitions a tag to completed. Completing an already completed
// tag is a no-op that keeps the original completion time.
func (i *Interactor) Complete(ctx context.Context, id string, at time.Time) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for n := range i.tags {
		if i.tags[n].ID != id {
			continue
		}
		if !i.tags[n].Active() {
			return nil
		}
		completedAt := at
		i.tags[n].Status = domain.StatusCompleted
		i.tags[n].CompletedAt = &completedAt
		i.persistLocked(ctx)
		return nil
	}
	return apperrors.ErrNotFound
}

func (i *Interactor) persistLocked(ctx context.Context) {
	if !i.loaded {
		return
	}
	snapshot := make([]domain.Tag, len(i.tags))
	copy(snapshot, i.tags)
	if err := i.store.ReplaceAll(ctx, snapshot); err != nil {
		i.log.Error().Err(err).Msg("tag write failed")
	}
}
