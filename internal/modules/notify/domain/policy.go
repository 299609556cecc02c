package domain

import "time"

// IntervalChoices are the reminder intervals offered to the user, in minutes.
// Zero disables reminders.
var IntervalChoices = []int{15, 30, 45, 60, 90, 120}

// Hook is one user-configured command fired alongside the built-in reminder.
type Hook struct {
	Name      string   `yaml:"name"`
	Argv      []string `yaml:"argv"`
	Enabled   bool     `yaml:"enabled"`
	TimeoutMS int      `yaml:"timeout_ms"`
}

// ShouldFire decides whether a reminder is due: the session has run at least
// one full interval, and at least one full interval has passed since the last
// reminder. Interval 0 suppresses reminders entirely.
func ShouldFire(elapsed, sinceLast time.Duration, intervalMin int) bool {
	if intervalMin <= 0 {
		return false
	}
	interval := time.Duration(intervalMin) * time.Minute
	return elapsed >= interval && sinceLast >= interval
}
