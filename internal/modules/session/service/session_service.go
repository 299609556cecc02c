package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"flowdash/internal/modules/session/domain"
	"flowdash/internal/modules/session/dto"
	"flowdash/internal/platform/clock"
	apperrors "flowdash/internal/platform/errors"
	"flowdash/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Start(goal, tagID string) (domain.CurrentSession, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return domain.CurrentSession{}, fmt.Errorf("%w: goal is required", apperrors.ErrInvalidInput)
	}
	return domain.CurrentSession{
		ID:        s.idGen.New(),
		Goal:      goal,
		StartTime: s.clock.Now(),
		TagID:     tagID,
	}, nil
}

// Complete converts the active session into a recorded one. This is the only
// point where completion invariants are enforced; later edits bypass them.
func (s *SessionService) Complete(active domain.CurrentSession, input dto.CompleteInput) (domain.Session, error) {
	endTime := s.clock.Now()
	session := domain.Session{
		ID:              active.ID,
		Goal:            active.Goal,
		TagID:           active.TagID,
		StartTime:       active.StartTime,
		EndTime:         endTime,
		LeadTimeMinutes: domain.LeadTime(active.StartTime, endTime),
		FlowScore:       input.FlowScore,
		Interruptions:   input.Interruptions,
		Shipped:         input.Shipped,
		Bottleneck:      input.Bottleneck,
		Notes:           input.Notes,
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return session, nil
}

// ApplyPatch merges non-nil patch fields into the session. No cross-field
// validation happens here, by the free-form edit contract.
func (s *SessionService) ApplyPatch(session domain.Session, patch dto.UpdateInput) domain.Session {
	if patch.Goal != nil {
		session.Goal = *patch.Goal
	}
	if patch.TagID != nil {
		session.TagID = *patch.TagID
	}
	if patch.FlowScore != nil {
		session.FlowScore = *patch.FlowScore
	}
	if patch.Interruptions != nil {
		session.Interruptions = *patch.Interruptions
	}
	if patch.Shipped != nil {
		session.Shipped = *patch.Shipped
	}
	if patch.Bottleneck != nil {
		session.Bottleneck = *patch.Bottleneck
	}
	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	return session
}

var seedGoals = []string{
	"Refactor auth logic", "Implement billing webhooks", "Design landing page",
	"Fix mobile navigation", "Optimize DB queries", "Write documentation",
	"Set up CI", "Integrate analytics", "Build dashboard widgets",
	"Deploy to staging", "Code review", "Debug memory leak",
	"Update dependencies", "Extend test suite", "Onboarding flow",
}

// GenerateSeed produces plausible demo history covering the trailing days
// window: one to four sessions on most days, a handful of idle days.
func (s *SessionService) GenerateSeed(days int, tagIDs []string, rng *rand.Rand) []domain.Session {
	if days <= 0 {
		days = 120
	}
	now := s.clock.Now()
	sessions := make([]domain.Session, 0, days*2)
	for day := days - 1; day >= 0; day-- {
		if rng.Intn(10) == 0 {
			continue
		}
		date := now.AddDate(0, 0, -day)
		count := 1 + rng.Intn(4)
		for i := 0; i < count; i++ {
			startHour := 8 + i*3 + rng.Intn(2)
			start := time.Date(date.Year(), date.Month(), date.Day(), startHour, rng.Intn(60), 0, 0, date.Location())
			minutes := 30 + rng.Intn(150)
			end := start.Add(time.Duration(minutes) * time.Minute)
			if end.After(now) {
				continue
			}
			tagID := ""
			if len(tagIDs) > 0 {
				tagID = tagIDs[rng.Intn(len(tagIDs))]
			}
			sessions = append(sessions, domain.Session{
				ID:              s.idGen.New(),
				Goal:            seedGoals[rng.Intn(len(seedGoals))],
				TagID:           tagID,
				StartTime:       start,
				EndTime:         end,
				LeadTimeMinutes: minutes,
				FlowScore:       1 + rng.Intn(5),
				Interruptions:   rng.Intn(4),
				Shipped:         rng.Intn(10) < 6,
				Bottleneck:      randomBottleneck(rng),
				Notes:           "Seeded demo session.",
			})
		}
	}
	return sessions
}

func randomBottleneck(rng *rand.Rand) domain.Bottleneck {
	thinking := rng.Intn(41)
	coding := rng.Intn(101 - thinking)
	debugging := rng.Intn(101 - thinking - coding)
	return domain.Bottleneck{
		Thinking:  thinking,
		Coding:    coding,
		Debugging: debugging,
		Waiting:   100 - thinking - coding - debugging,
	}
}
