package usecase

import (
	"context"

	"github.com/rs/zerolog"

	notifyin "flowdash/internal/modules/notify/port/in"
	notifyout "flowdash/internal/modules/notify/port/out"
)

type Interactor struct {
	notifiers []notifyout.Notifier
	log       zerolog.Logger
}

func NewInteractor(notifiers []notifyout.Notifier, log zerolog.Logger) notifyin.Usecase {
	return &Interactor{notifiers: notifiers, log: log}
}

// Trigger is best effort: a failing notifier is logged and the rest still
// run. Reminders never interrupt the session flow.
func (i *Interactor) Trigger(ctx context.Context, goal string, elapsedMin int) {
	for _, n := range i.notifiers {
		if err := n.Notify(ctx, goal, elapsedMin); err != nil {
			i.log.Warn().Err(err).Int("elapsed_min", elapsedMin).Msg("reminder delivery failed")
		}
	}
}
