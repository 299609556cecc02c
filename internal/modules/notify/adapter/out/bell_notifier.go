package out

import (
	"context"
	"fmt"
	"io"

	notifyout "flowdash/internal/modules/notify/port/out"
)

// BellNotifier rings the terminal bell and prints a one-line reminder. In the
// TUI the writer is routed through the program so the line lands above the
// rendered frame instead of corrupting it.
type BellNotifier struct {
	w io.Writer
}

func NewBellNotifier(w io.Writer) notifyout.Notifier {
	return &BellNotifier{w: w}
}

func (n *BellNotifier) Notify(_ context.Context, goal string, elapsedMin int) error {
	_, err := fmt.Fprintf(n.w, "\aStill on %q after %d min. Still in flow?\n", goal, elapsedMin)
	return err
}
