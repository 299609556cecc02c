package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const SchemaVersion = 1

// ReminderChoices are the selectable reminder intervals, in minutes.
// Zero disables reminders entirely.
var ReminderChoices = []int{15, 30, 45, 60, 90, 120}

const DefaultReminderInterval = 60

// Bottleneck is the percentage breakdown of where a session's time went.
// Valid only when the four parts sum to exactly 100.
type Bottleneck struct {
	Thinking  int `json:"thinking"`
	Coding    int `json:"coding"`
	Debugging int `json:"debugging"`
	Waiting   int `json:"waiting"`
}

func (b Bottleneck) Total() int {
	return b.Thinking + b.Coding + b.Debugging + b.Waiting
}

func (b Bottleneck) Validate() error {
	if b.Thinking < 0 || b.Coding < 0 || b.Debugging < 0 || b.Waiting < 0 {
		return fmt.Errorf("bottleneck percentages must be non-negative")
	}
	if total := b.Total(); total != 100 {
		return fmt.Errorf("bottleneck percentages must sum to 100, got %d", total)
	}
	return nil
}

// Session is a completed flow session. Immutable once recorded except through
// explicit edits, which are not re-validated against completion invariants.
type Session struct {
	ID              string     `json:"id"`
	Goal            string     `json:"goal"`
	TagID           string     `json:"tag_id,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	LeadTimeMinutes int        `json:"lead_time_minutes"`
	FlowScore       int        `json:"flow_score"`
	Interruptions   int        `json:"interruptions"`
	Shipped         bool       `json:"shipped"`
	Bottleneck      Bottleneck `json:"bottleneck"`
	Notes           string     `json:"notes,omitempty"`
}

// CurrentSession is the single in-progress session. It has no end fields
// until completion converts it into a Session.
type CurrentSession struct {
	ID        string    `json:"id"`
	Goal      string    `json:"goal"`
	StartTime time.Time `json:"start_time"`
	TagID     string    `json:"tag_id,omitempty"`
}

// Meta is the lightweight state persisted on every change to the fast store.
type Meta struct {
	CurrentSession  *CurrentSession `json:"current_session,omitempty"`
	ReminderMinutes int             `json:"reminder_minutes"`
}

// LeadTime is the whole-minute duration between start and end, truncated.
// Malformed inputs (end before start) are not corrected here; nonsense in,
// nonsense out is the documented contract for edited records.
func LeadTime(start, end time.Time) int {
	return int(end.Sub(start).Minutes())
}

// Validate checks the invariants enforced at completion time.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Goal) == "" {
		return fmt.Errorf("goal is required")
	}
	if s.FlowScore < 1 || s.FlowScore > 5 {
		return fmt.Errorf("flow score must be in [1,5], got %d", s.FlowScore)
	}
	if s.Interruptions < 0 {
		return fmt.Errorf("interruptions must be non-negative")
	}
	if s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("end time precedes start time")
	}
	return s.Bottleneck.Validate()
}

// SortNewestFirst orders sessions by end time descending, the canonical
// in-memory order.
func SortNewestFirst(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].EndTime.After(sessions[j].EndTime)
	})
}

// ValidReminderInterval reports whether minutes is zero (off) or one of the
// fixed reminder choices.
func ValidReminderInterval(minutes int) bool {
	if minutes == 0 {
		return true
	}
	for _, c := range ReminderChoices {
		if minutes == c {
			return true
		}
	}
	return false
}
