package domain_test

import (
	"testing"
	"time"

	"flowdash/internal/modules/session/domain"
)

func TestBottleneckValidateRequiresExactHundred(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		b    domain.Bottleneck
		ok   bool
	}{
		{"even split", domain.Bottleneck{Thinking: 25, Coding: 25, Debugging: 25, Waiting: 25}, true},
		{"single phase", domain.Bottleneck{Coding: 100}, true},
		{"sum 99", domain.Bottleneck{Thinking: 25, Coding: 25, Debugging: 25, Waiting: 24}, false},
		{"sum 101", domain.Bottleneck{Thinking: 26, Coding: 25, Debugging: 25, Waiting: 25}, false},
		{"negative field", domain.Bottleneck{Thinking: -10, Coding: 60, Debugging: 25, Waiting: 25}, false},
		{"all zero", domain.Bottleneck{}, false},
	}
	for _, tc := range cases {
		err := tc.b.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLeadTimeTruncatesPartialMinutes(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if got := domain.LeadTime(start, start.Add(90*time.Minute+59*time.Second)); got != 90 {
		t.Fatalf("expected 90 minutes, got %d", got)
	}
	if got := domain.LeadTime(start, start.Add(30*time.Second)); got != 0 {
		t.Fatalf("expected 0 minutes for sub-minute session, got %d", got)
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	valid := domain.Session{
		ID:              "s-1",
		Goal:            "Write parser",
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		LeadTimeMinutes: 60,
		FlowScore:       4,
		Bottleneck:      domain.Bottleneck{Thinking: 20, Coding: 50, Debugging: 20, Waiting: 10},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	noGoal := valid
	noGoal.Goal = "  "
	if err := noGoal.Validate(); err == nil {
		t.Fatalf("blank goal must fail")
	}

	for _, score := range []int{0, 6, -1} {
		s := valid
		s.FlowScore = score
		if err := s.Validate(); err == nil {
			t.Fatalf("flow score %d must fail", score)
		}
	}

	backwards := valid
	backwards.EndTime = start.Add(-time.Minute)
	if err := backwards.Validate(); err == nil {
		t.Fatalf("end before start must fail")
	}

	negBreaks := valid
	negBreaks.Interruptions = -1
	if err := negBreaks.Validate(); err == nil {
		t.Fatalf("negative interruptions must fail")
	}
}

func TestSortNewestFirst(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		{ID: "old", EndTime: base},
		{ID: "new", EndTime: base.Add(2 * time.Hour)},
		{ID: "mid", EndTime: base.Add(time.Hour)},
	}
	domain.SortNewestFirst(sessions)
	if sessions[0].ID != "new" || sessions[1].ID != "mid" || sessions[2].ID != "old" {
		t.Fatalf("wrong order: %s %s %s", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}
}

func TestValidReminderInterval(t *testing.T) {
	t.Parallel()
	for _, minutes := range []int{0, 15, 30, 45, 60, 90, 120} {
		if !domain.ValidReminderInterval(minutes) {
			t.Fatalf("%d should be valid", minutes)
		}
	}
	for _, minutes := range []int{-15, 10, 61, 121} {
		if domain.ValidReminderInterval(minutes) {
			t.Fatalf("%d should be invalid", minutes)
		}
	}
}
