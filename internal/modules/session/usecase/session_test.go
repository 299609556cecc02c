package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"flowdash/internal/modules/session/domain"
	"flowdash/internal/modules/session/dto"
	sessionin "flowdash/internal/modules/session/port/in"
	sessionout "flowdash/internal/modules/session/port/out"
	"flowdash/internal/modules/session/service"
	"flowdash/internal/modules/session/usecase"
	apperrors "flowdash/internal/platform/errors"
	"flowdash/internal/platform/logging"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{ next int }

func (f *fakeID) New() string {
	f.next++
	return []string{"id-1", "id-2", "id-3"}[(f.next-1)%3]
}

type memStore struct {
	name     string
	sessions []domain.Session
	loadErr  error
	writes   int
}

func (s *memStore) Name() string { return s.name }

func (s *memStore) LoadAll(context.Context) ([]domain.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.sessions, nil
}

func (s *memStore) ReplaceAll(_ context.Context, sessions []domain.Session) error {
	s.sessions = sessions
	s.writes++
	return nil
}

type memMeta struct {
	meta  domain.Meta
	found bool
}

func (s *memMeta) Load(context.Context) (domain.Meta, bool, error) { return s.meta, s.found, nil }

func (s *memMeta) Save(_ context.Context, meta domain.Meta) error {
	s.meta = meta
	s.found = true
	return nil
}

type fakeTagCompleter struct {
	completedID string
	completedAt time.Time
	calls       int
}

func (f *fakeTagCompleter) CompleteTag(_ context.Context, id string, at time.Time) error {
	f.completedID = id
	f.completedAt = at
	f.calls++
	return nil
}

func newTestInteractor(clk *fakeClock, stores []sessionout.SessionStore, meta sessionout.MetaStore, tags sessionout.TagCompleter) sessionin.Usecase {
	svc := service.NewSessionService(clk, &fakeID{})
	return usecase.NewInteractor(svc, stores, meta, tags, logging.Nop())
}

func TestFlowLifecycleCompletesTagAndClearsActive(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	clk := &fakeClock{values: []time.Time{start, end}}
	mirror := &memStore{name: "json"}
	meta := &memMeta{}
	tags := &fakeTagCompleter{}
	uc := newTestInteractor(clk, []sessionout.SessionStore{mirror}, meta, tags)
	ctx := context.Background()

	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	active, err := uc.StartFlow(ctx, dto.StartInput{Goal: "Ship exporter", TagID: "tag-1"})
	if err != nil {
		t.Fatalf("start flow: %v", err)
	}
	if active.ID == "" || !active.StartTime.Equal(start) {
		t.Fatalf("unexpected active session: %+v", active)
	}
	if meta.meta.CurrentSession == nil || meta.meta.CurrentSession.Goal != "Ship exporter" {
		t.Fatalf("current session not persisted to meta: %+v", meta.meta)
	}

	session, err := uc.Complete(ctx, dto.CompleteInput{
		FlowScore:     4,
		Interruptions: 1,
		Shipped:       true,
		Bottleneck:    domain.Bottleneck{Thinking: 10, Coding: 60, Debugging: 20, Waiting: 10},
		Notes:         "exporter done",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if session.LeadTimeMinutes != 90 {
		t.Fatalf("expected 90 min lead time, got %d", session.LeadTimeMinutes)
	}
	if tags.calls != 1 || tags.completedID != "tag-1" || !tags.completedAt.Equal(end) {
		t.Fatalf("tag completion not triggered at end time: %+v", tags)
	}
	if meta.meta.CurrentSession != nil {
		t.Fatalf("current session must clear after completion")
	}
	if _, err := uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestCompleteWithoutActiveAndInvalidInput(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)}}
	tags := &fakeTagCompleter{}
	uc := newTestInteractor(clk, []sessionout.SessionStore{&memStore{name: "json"}}, &memMeta{}, tags)
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	input := dto.CompleteInput{FlowScore: 3, Bottleneck: domain.Bottleneck{Coding: 100}}
	if _, err := uc.Complete(ctx, input); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	if _, err := uc.StartFlow(ctx, dto.StartInput{Goal: "Fix tests"}); err != nil {
		t.Fatalf("start flow: %v", err)
	}
	bad := dto.CompleteInput{FlowScore: 9, Bottleneck: domain.Bottleneck{Coding: 100}}
	if _, err := uc.Complete(ctx, bad); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for score 9, got %v", err)
	}
	// A rejected completion keeps the session active.
	if _, err := uc.GetActive(ctx); err != nil {
		t.Fatalf("session should survive invalid completion: %v", err)
	}
}

func TestStartReplacesExistingActiveSession(t *testing.T) {
	t.Parallel()
	first := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{first, first.Add(time.Hour)}}
	uc := newTestInteractor(clk, []sessionout.SessionStore{&memStore{name: "json"}}, &memMeta{}, &fakeTagCompleter{})
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := uc.StartFlow(ctx, dto.StartInput{Goal: "First goal"}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := uc.StartFlow(ctx, dto.StartInput{Goal: "Second goal"}); err != nil {
		t.Fatalf("second start must replace, got %v", err)
	}
	active, err := uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Goal != "Second goal" {
		t.Fatalf("expected replacement, got %q", active.Goal)
	}
	sessions, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("abandoned session must not be recorded, got %d", len(sessions))
	}
}

func TestUpdateShippedTriggersRetroactiveTagCompletion(t *testing.T) {
	t.Parallel()
	recorded := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{now}}
	store := &memStore{name: "json", sessions: []domain.Session{{
		ID:              "s-1",
		Goal:            "Old work",
		TagID:           "tag-9",
		StartTime:       recorded,
		EndTime:         recorded.Add(time.Hour),
		LeadTimeMinutes: 60,
		FlowScore:       3,
		Bottleneck:      domain.Bottleneck{Coding: 100},
	}}}
	tags := &fakeTagCompleter{}
	uc := newTestInteractor(clk, []sessionout.SessionStore{store}, &memMeta{}, tags)
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	shipped := true
	updated, err := uc.Update(ctx, dto.UpdateInput{ID: "s-1", Shipped: &shipped})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Shipped {
		t.Fatalf("patch not applied")
	}
	if tags.calls != 1 || tags.completedID != "tag-9" || !tags.completedAt.Equal(now) {
		t.Fatalf("retroactive completion must use current time, got %+v", tags)
	}

	if _, err := uc.Update(ctx, dto.UpdateInput{ID: "missing", Shipped: &shipped}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesSessionAndNeverTouchesTags(t *testing.T) {
	t.Parallel()
	recorded := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{recorded.Add(24 * time.Hour)}}
	store := &memStore{name: "json", sessions: []domain.Session{{
		ID: "s-1", Goal: "Work", TagID: "tag-1", Shipped: true,
		StartTime: recorded, EndTime: recorded.Add(time.Hour),
		LeadTimeMinutes: 60, FlowScore: 3, Bottleneck: domain.Bottleneck{Coding: 100},
	}}}
	tags := &fakeTagCompleter{}
	uc := newTestInteractor(clk, []sessionout.SessionStore{store}, &memMeta{}, tags)
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := uc.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if tags.calls != 0 {
		t.Fatalf("delete must not touch tags")
	}
	sessions, _ := uc.List(ctx)
	if len(sessions) != 0 {
		t.Fatalf("session not removed")
	}
	if err := uc.Delete(ctx, "s-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFallsBackWhenPrimaryFailsOrIsEmpty(t *testing.T) {
	t.Parallel()
	recorded := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	fallback := []domain.Session{{
		ID: "s-json", Goal: "From mirror",
		StartTime: recorded, EndTime: recorded.Add(time.Hour),
		LeadTimeMinutes: 60, FlowScore: 3, Bottleneck: domain.Bottleneck{Coding: 100},
	}}

	cases := []struct {
		name    string
		primary *memStore
	}{
		{"primary errors", &memStore{name: "sqlite", loadErr: errors.New("disk gone")}},
		{"primary empty", &memStore{name: "sqlite"}},
	}
	for _, tc := range cases {
		clk := &fakeClock{values: []time.Time{recorded}}
		stores := []sessionout.SessionStore{tc.primary, &memStore{name: "json", sessions: fallback}}
		uc := newTestInteractor(clk, stores, &memMeta{}, &fakeTagCompleter{})
		if err := uc.Load(context.Background()); err != nil {
			t.Fatalf("%s: load: %v", tc.name, err)
		}
		sessions, _ := uc.List(context.Background())
		if len(sessions) != 1 || sessions[0].ID != "s-json" {
			t.Fatalf("%s: fallback snapshot not adopted: %+v", tc.name, sessions)
		}
	}
}

func TestLoadRestoresMetaAndSuppressesWritesBeforeLoad(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start}}
	store := &memStore{name: "json"}
	meta := &memMeta{
		meta: domain.Meta{
			CurrentSession:  &domain.CurrentSession{ID: "live-1", Goal: "Resumed", StartTime: start},
			ReminderMinutes: 30,
		},
		found: true,
	}
	uc := newTestInteractor(clk, []sessionout.SessionStore{store}, meta, &fakeTagCompleter{})
	ctx := context.Background()

	// Mutations before Load must not persist defaults over durable state.
	if err := uc.Cancel(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("cancel before load: %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("no store writes expected before load")
	}

	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	active, err := uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("expected recovered session: %v", err)
	}
	if active.ID != "live-1" || active.Goal != "Resumed" {
		t.Fatalf("wrong recovered session: %+v", active)
	}
	minutes, _ := uc.ReminderInterval(ctx)
	if minutes != 30 {
		t.Fatalf("expected reminder interval 30, got %d", minutes)
	}
}

func TestSetReminderIntervalValidatesChoices(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)}}
	meta := &memMeta{}
	uc := newTestInteractor(clk, []sessionout.SessionStore{&memStore{name: "json"}}, meta, &fakeTagCompleter{})
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := uc.SetReminderInterval(ctx, 45); err != nil {
		t.Fatalf("valid interval rejected: %v", err)
	}
	if meta.meta.ReminderMinutes != 45 {
		t.Fatalf("interval not persisted: %+v", meta.meta)
	}
	if err := uc.SetReminderInterval(ctx, 0); err != nil {
		t.Fatalf("zero must disable reminders: %v", err)
	}
	if err := uc.SetReminderInterval(ctx, 42); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 42, got %v", err)
	}
}

func TestSeedGeneratesSortedHistory(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{now}}
	uc := newTestInteractor(clk, []sessionout.SessionStore{&memStore{name: "json"}}, &memMeta{}, &fakeTagCompleter{})
	ctx := context.Background()
	if err := uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	count, err := uc.Seed(ctx, 30, []string{"tag-1"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if count == 0 {
		t.Fatalf("seed produced nothing")
	}
	sessions, _ := uc.List(ctx)
	if len(sessions) != count {
		t.Fatalf("expected %d sessions, got %d", count, len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].EndTime.After(sessions[i-1].EndTime) {
			t.Fatalf("seeded sessions not newest-first at %d", i)
		}
	}
	for _, s := range sessions {
		if err := (domain.Session{
			ID: s.ID, Goal: s.Goal, StartTime: s.StartTime, EndTime: s.EndTime,
			LeadTimeMinutes: s.LeadTimeMinutes, FlowScore: s.FlowScore,
			Interruptions: s.Interruptions, Bottleneck: s.Bottleneck,
		}).Validate(); err != nil {
			t.Fatalf("seeded session invalid: %v", err)
		}
	}
}
