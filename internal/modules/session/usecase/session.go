package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"flowdash/internal/modules/session/domain"
	"flowdash/internal/modules/session/dto"
	sessionin "flowdash/internal/modules/session/port/in"
	sessionout "flowdash/internal/modules/session/port/out"
	"flowdash/internal/modules/session/service"
	apperrors "flowdash/internal/platform/errors"
)

// Interactor owns the canonical session state: the recorded list (newest
// first), the single in-progress session, and the reminder interval. All
// mutations pass through here; nothing else writes the stores.
type Interactor struct {
	svc    *service.SessionService
	stores []sessionout.SessionStore
	meta   sessionout.MetaStore
	tags   sessionout.TagCompleter
	mirror *asyncMirror
	log    zerolog.Logger

	mu       sync.Mutex
	sessions []domain.Session
	current  *domain.CurrentSession
	interval int
	loaded   bool
}

// NewInteractor wires the ranked store chain. stores[0] is the primary and
// receives asynchronous writes; every later store is a synchronous mirror.
func NewInteractor(svc *service.SessionService, stores []sessionout.SessionStore, meta sessionout.MetaStore, tags sessionout.TagCompleter, log zerolog.Logger) sessionin.Usecase {
	i := &Interactor{
		svc:      svc,
		stores:   stores,
		meta:     meta,
		tags:     tags,
		log:      log,
		interval: domain.DefaultReminderInterval,
	}
	if len(stores) > 0 {
		i.mirror = newAsyncMirror(stores[0], log)
	}
	return i
}

// Load runs the startup protocol: fast metadata first, then the ranked store
// chain, adopting the first non-empty error-free snapshot. Every failure
// degrades to the next store; nothing here aborts startup.
func (i *Interactor) Load(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.loaded {
		return nil
	}

	meta, ok, err := i.meta.Load(ctx)
	switch {
	case err != nil:
		i.log.Warn().Err(err).Msg("meta load failed, using defaults")
	case ok:
		i.current = meta.CurrentSession
		i.interval = meta.ReminderMinutes
	}

	for _, store := range i.stores {
		sessions, err := store.LoadAll(ctx)
		if err != nil {
			i.log.Warn().Err(err).Str("store", store.Name()).Msg("session load failed, trying next store")
			continue
		}
		if len(sessions) == 0 {
			continue
		}
		domain.SortNewestFirst(sessions)
		i.sessions = sessions
		break
	}

	i.loaded = true
	return nil
}

func (i *Interactor) StartFlow(ctx context.Context, input dto.StartInput) (dto.CurrentSessionOutput, error) {
	active, err := i.svc.Start(input.Goal, input.TagID)
	if err != nil {
		return dto.CurrentSessionOutput{}, err
	}

	i.mu.Lock()
	// Replace semantics: an existing in-progress session is silently
	// abandoned. Documented behavior, not guarded.
	i.current = &active
	i.saveMetaLocked(ctx)
	i.mu.Unlock()

	return currentOutput(active), nil
}

func (i *Interactor) Complete(ctx context.Context, input dto.CompleteInput) (dto.SessionOutput, error) {
	i.mu.Lock()
	if i.current == nil {
		i.mu.Unlock()
		return dto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	active := *i.current
	i.mu.Unlock()

	session, err := i.svc.Complete(active, input)
	if err != nil {
		return dto.SessionOutput{}, err
	}

	i.mu.Lock()
	i.sessions = append([]domain.Session{session}, i.sessions...)
	i.current = nil
	i.saveMetaLocked(ctx)
	i.persistLocked()
	i.mu.Unlock()

	if session.Shipped && session.TagID != "" {
		if err := i.tags.CompleteTag(ctx, session.TagID, session.EndTime); err != nil {
			i.log.Warn().Err(err).Str("tag_id", session.TagID).Msg("tag completion failed")
		}
	}
	return dto.FromDomain(session), nil
}

func (i *Interactor) Cancel(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return apperrors.ErrNoActiveSession
	}
	i.current = nil
	i.saveMetaLocked(ctx)
	return nil
}

func (i *Interactor) GetActive(ctx context.Context) (dto.CurrentSessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return dto.CurrentSessionOutput{}, apperrors.ErrNoActiveSession
	}
	return currentOutput(*i.current), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return dto.FromDomainList(i.sessions), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.SessionOutput, error) {
	i.mu.Lock()
	idx := -1
	for n := range i.sessions {
		if i.sessions[n].ID == input.ID {
			idx = n
			break
		}
	}
	if idx < 0 {
		i.mu.Unlock()
		return dto.SessionOutput{}, apperrors.ErrNotFound
	}
	updated := i.svc.ApplyPatch(i.sessions[idx], input)
	i.sessions[idx] = updated
	i.persistLocked()
	i.mu.Unlock()

	// Retroactive shipping: marking an old session shipped completes its tag
	// now, regardless of the session's own end time.
	if input.Shipped != nil && *input.Shipped && updated.TagID != "" {
		if err := i.tags.CompleteTag(ctx, updated.TagID, i.svc.Now()); err != nil {
			i.log.Warn().Err(err).Str("tag_id", updated.TagID).Msg("tag completion failed")
		}
	}
	return dto.FromDomain(updated), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	kept := i.sessions[:0]
	found := false
	for _, s := range i.sessions {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return apperrors.ErrNotFound
	}
	i.sessions = kept
	// Tag status is untouched: a completed tag stays completed even when its
	// triggering session goes away. Accepted behavior.
	i.persistLocked()
	return nil
}

func (i *Interactor) ReminderInterval(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.interval, nil
}

func (i *Interactor) SetReminderInterval(ctx context.Context, minutes int) error {
	if !domain.ValidReminderInterval(minutes) {
		return fmt.Errorf("%w: reminder interval must be 0 or one of %v", apperrors.ErrInvalidInput, domain.ReminderChoices)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.interval = minutes
	i.saveMetaLocked(ctx)
	return nil
}

func (i *Interactor) Seed(ctx context.Context, days int, tagIDs []string) (int, error) {
	rng := rand.New(rand.NewSource(i.svc.Now().UnixNano()))
	generated := i.svc.GenerateSeed(days, tagIDs, rng)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.sessions = append(i.sessions, generated...)
	domain.SortNewestFirst(i.sessions)
	i.persistLocked()
	return len(generated), nil
}

// saveMetaLocked writes the fast store synchronously. Failures are logged,
// never propagated; the in-memory state stays authoritative.
func (i *Interactor) saveMetaLocked(ctx context.Context) {
	if !i.loaded {
		return
	}
	meta := domain.Meta{CurrentSession: i.current, ReminderMinutes: i.interval}
	if err := i.meta.Save(ctx, meta); err != nil {
		i.log.Error().Err(err).Msg("meta save failed")
	}
}

// persistLocked pushes the full collection to every backend: the primary
// through the async mirror, the rest synchronously so a consistent
// last-known-good snapshot always exists even when the async path lags.
func (i *Interactor) persistLocked() {
	if !i.loaded {
		return
	}
	snapshot := make([]domain.Session, len(i.sessions))
	copy(snapshot, i.sessions)

	if i.mirror != nil {
		i.mirror.Write(snapshot)
	}
	for _, store := range i.stores[1:] {
		if err := store.ReplaceAll(context.Background(), snapshot); err != nil {
			i.log.Error().Err(err).Str("store", store.Name()).Msg("session mirror write failed")
		}
	}
}

func currentOutput(active domain.CurrentSession) dto.CurrentSessionOutput {
	return dto.CurrentSessionOutput{
		ID:        active.ID,
		Goal:      active.Goal,
		StartTime: active.StartTime,
		TagID:     active.TagID,
	}
}
