package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	exportin "flowdash/internal/modules/export/port/in"
	sessionin "flowdash/internal/modules/session/port/in"
)

type Interactor struct {
	sessions sessionin.Usecase
}

func NewInteractor(sessions sessionin.Usecase) exportin.Usecase {
	return &Interactor{sessions: sessions}
}

// JSON writes the session records as a pretty-printed array. The field names
// match the persisted JSON mirror, so an export re-imports cleanly.
func (i *Interactor) JSON(ctx context.Context, w io.Writer) error {
	sessions, err := i.sessions.List(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sessions); err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"Goal", "Duration (min)", "Flow Score", "Interruptions", "Shipped",
	"Thinking %", "Coding %", "Debugging %", "Waiting %", "Notes",
	"Start Time", "End Time",
}

func (i *Interactor) CSV(ctx context.Context, w io.Writer) error {
	sessions, err := i.sessions.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range sessions {
		shipped := "No"
		if s.Shipped {
			shipped = "Yes"
		}
		record := []string{
			s.Goal,
			strconv.Itoa(s.LeadTimeMinutes),
			strconv.Itoa(s.FlowScore),
			strconv.Itoa(s.Interruptions),
			shipped,
			strconv.Itoa(s.Bottleneck.Thinking),
			strconv.Itoa(s.Bottleneck.Coding),
			strconv.Itoa(s.Bottleneck.Debugging),
			strconv.Itoa(s.Bottleneck.Waiting),
			s.Notes,
			s.StartTime.Format("2006-01-02 15:04:05"),
			s.EndTime.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
