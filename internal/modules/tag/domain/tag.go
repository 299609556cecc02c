package domain

import (
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Tag marks a shipping cycle: created active, completed once a session
// attached to it ships. The transition is one-way.
type Tag struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (t Tag) Active() bool { return t.Status == StatusActive }

// NormalizeName is the identity used for duplicate detection: trimmed,
// case-folded. The stored name keeps the user's casing.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SortForDisplay puts active tags first, newest created first within each
// status group.
func SortForDisplay(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Active() != tags[j].Active() {
			return tags[i].Active()
		}
		return tags[i].CreatedAt.After(tags[j].CreatedAt)
	})
}
