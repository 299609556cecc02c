package in

import "context"

// Usecase fans a due reminder out to every configured notifier.
type Usecase interface {
	Trigger(ctx context.Context, goal string, elapsedMin int)
}
