package usecase

import (
	"context"
	"fmt"

	"flowdash/internal/modules/analytics/domain"
	"flowdash/internal/modules/analytics/dto"
	analyticsin "flowdash/internal/modules/analytics/port/in"
	sessiondto "flowdash/internal/modules/session/dto"
	sessionin "flowdash/internal/modules/session/port/in"
	tagin "flowdash/internal/modules/tag/port/in"
	"flowdash/internal/platform/clock"
	apperrors "flowdash/internal/platform/errors"
)

// Interactor recomputes everything from the live session and tag collections
// on each call. There is no cached aggregate state to invalidate.
type Interactor struct {
	sessions sessionin.Usecase
	tags     tagin.Usecase
	clock    clock.Clock
}

func NewInteractor(sessions sessionin.Usecase, tags tagin.Usecase, clock clock.Clock) analyticsin.Usecase {
	return &Interactor{sessions: sessions, tags: tags, clock: clock}
}

func (i *Interactor) Trend(ctx context.Context, filter string) ([]dto.TrendBucket, error) {
	f, facts, err := i.gather(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.TrendFromDomain(domain.Trend(facts, f, i.clock.Now())), nil
}

func (i *Interactor) Summary(ctx context.Context, filter string) (dto.Summary, error) {
	f, facts, err := i.gather(ctx, filter)
	if err != nil {
		return dto.Summary{}, err
	}
	return dto.SummaryFromDomain(domain.Summarize(facts, f, i.clock.Now())), nil
}

func (i *Interactor) Bottlenecks(ctx context.Context, filter string) ([]dto.BottleneckTotal, error) {
	f, facts, err := i.gather(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.BottlenecksFromDomain(domain.BottleneckTotals(facts, f, i.clock.Now())), nil
}

func (i *Interactor) Heatmap(ctx context.Context) ([]dto.HeatmapCell, error) {
	facts, err := i.sessionFacts(ctx)
	if err != nil {
		return nil, err
	}
	return dto.HeatmapFromDomain(domain.Heatmap(facts, i.clock.Now())), nil
}

func (i *Interactor) Cycles(ctx context.Context) ([]dto.CycleStats, error) {
	facts, err := i.sessionFacts(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := i.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	tagFacts := make([]domain.TagFacts, 0, len(tags))
	for _, tag := range tags {
		tagFacts = append(tagFacts, domain.TagFacts{
			ID:          tag.ID,
			Name:        tag.Name,
			Active:      tag.Status == "active",
			CreatedAt:   tag.CreatedAt,
			CompletedAt: tag.CompletedAt,
		})
	}
	return dto.CyclesFromDomain(domain.Cycles(facts, tagFacts)), nil
}

func (i *Interactor) gather(ctx context.Context, filter string) (domain.Filter, []domain.SessionFacts, error) {
	f, err := domain.ParseFilter(filter)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	facts, err := i.sessionFacts(ctx)
	if err != nil {
		return "", nil, err
	}
	return f, facts, nil
}

func (i *Interactor) sessionFacts(ctx context.Context) ([]domain.SessionFacts, error) {
	sessions, err := i.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	return toFacts(sessions), nil
}

func toFacts(sessions []sessiondto.SessionOutput) []domain.SessionFacts {
	facts := make([]domain.SessionFacts, 0, len(sessions))
	for _, s := range sessions {
		facts = append(facts, domain.SessionFacts{
			ID:              s.ID,
			TagID:           s.TagID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			LeadTimeMinutes: s.LeadTimeMinutes,
			FlowScore:       s.FlowScore,
			Shipped:         s.Shipped,
			Thinking:        s.Bottleneck.Thinking,
			Coding:          s.Bottleneck.Coding,
			Debugging:       s.Bottleneck.Debugging,
			Waiting:         s.Bottleneck.Waiting,
		})
	}
	return facts
}
