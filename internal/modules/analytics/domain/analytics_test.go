package domain_test

import (
	"testing"
	"time"

	"flowdash/internal/modules/analytics/domain"
)

func session(id string, end time.Time, minutes, score int, shipped bool) domain.SessionFacts {
	return domain.SessionFacts{
		ID:              id,
		StartTime:       end.Add(-time.Duration(minutes) * time.Minute),
		EndTime:         end,
		LeadTimeMinutes: minutes,
		FlowScore:       score,
		Shipped:         shipped,
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"day", "week", "month"} {
		if _, err := domain.ParseFilter(s); err != nil {
			t.Fatalf("%s must parse: %v", s, err)
		}
	}
	if _, err := domain.ParseFilter("year"); err == nil {
		t.Fatalf("unknown filter must fail")
	}
}

func TestTrendDayBucketsLabelAndAggregate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	sessions := []domain.SessionFacts{
		session("a", now.Add(-2*time.Hour), 60, 4, true),
		session("b", now.Add(-3*time.Hour), 30, 2, false),
		session("c", now.AddDate(0, 0, -2), 45, 5, false),
		session("d", now.AddDate(0, 0, -30), 500, 1, false), // outside window
	}

	buckets := domain.Trend(sessions, domain.FilterDay, now)
	if len(buckets) != 7 {
		t.Fatalf("expected 7 daily buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "14/08/26" || buckets[6].Label != "20/08/26" {
		t.Fatalf("bad labels: %s .. %s", buckets[0].Label, buckets[6].Label)
	}
	today := buckets[6]
	if today.TotalMinutes != 90 || today.Count != 2 || today.AvgScore != 3.0 {
		t.Fatalf("today bucket wrong: %+v", today)
	}
	twoAgo := buckets[4]
	if twoAgo.TotalMinutes != 45 || twoAgo.AvgScore != 5.0 {
		t.Fatalf("two-days-ago bucket wrong: %+v", twoAgo)
	}
	if buckets[5].TotalMinutes != 0 || buckets[5].AvgScore != 0 {
		t.Fatalf("empty bucket must stay zero: %+v", buckets[5])
	}
}

func TestTrendWeekAndMonthBuckets(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC) // Thursday, ISO week 34

	week := domain.Trend(nil, domain.FilterWeek, now)
	if len(week) != 12 {
		t.Fatalf("expected 12 week buckets, got %d", len(week))
	}
	if week[11].Label != "Week 34" || week[0].Label != "Week 23" {
		t.Fatalf("bad week labels: %s .. %s", week[0].Label, week[11].Label)
	}

	month := domain.Trend(nil, domain.FilterMonth, now)
	if len(month) != 6 {
		t.Fatalf("expected 6 month buckets, got %d", len(month))
	}
	if month[0].Label != "Mar 2026" || month[5].Label != "Aug 2026" {
		t.Fatalf("bad month labels: %s .. %s", month[0].Label, month[5].Label)
	}

	// A Sunday session lands in the same ISO week as the preceding Monday.
	monday := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 8, 16, 22, 0, 0, 0, time.UTC)
	buckets := domain.Trend([]domain.SessionFacts{
		session("mon", monday, 60, 3, false),
		session("sun", sunday, 60, 5, false),
	}, domain.FilterWeek, now)
	wk33 := buckets[10]
	if wk33.Label != "Week 33" || wk33.Count != 2 || wk33.TotalMinutes != 120 {
		t.Fatalf("monday..sunday must share a week bucket: %+v", wk33)
	}
}

func TestSummarizeGuardsEmptyAndComputesRates(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)

	empty := domain.Summarize(nil, domain.FilterWeek, now)
	if empty.Count != 0 || empty.TotalHours != 0 || empty.AvgScore != 0 || empty.ShipRate != 0 {
		t.Fatalf("empty summary must be all zeros: %+v", empty)
	}

	sessions := []domain.SessionFacts{
		session("a", now.Add(-time.Hour), 90, 5, true),
		session("b", now.AddDate(0, 0, -1), 30, 2, false),
		session("c", now.AddDate(0, 0, -2), 60, 4, true),
	}
	s := domain.Summarize(sessions, domain.FilterWeek, now)
	if s.Count != 3 {
		t.Fatalf("count: %d", s.Count)
	}
	if s.TotalHours != 3.0 {
		t.Fatalf("total hours: %v", s.TotalHours)
	}
	if s.AvgScore != 3.7 {
		t.Fatalf("avg score: %v", s.AvgScore)
	}
	if s.ShipRate != 67 {
		t.Fatalf("ship rate: %d", s.ShipRate)
	}
	if s.BestBucketMin != 180 {
		t.Fatalf("best bucket minutes: %d", s.BestBucketMin)
	}
}

func TestBestBucketFirstOccurrenceWinsTies(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	sessions := []domain.SessionFacts{
		session("a", now.AddDate(0, 0, -3), 60, 3, false),
		session("b", now.AddDate(0, 0, -1), 60, 3, false),
	}
	s := domain.Summarize(sessions, domain.FilterDay, now)
	if s.BestBucketLabel != now.AddDate(0, 0, -3).Format("02/01/06") {
		t.Fatalf("tie must keep the earlier bucket, got %s", s.BestBucketLabel)
	}
}

func TestBottleneckTotalsZeroGrandTotalAndSorting(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)

	zero := domain.BottleneckTotals(nil, domain.FilterWeek, now)
	if len(zero) != 4 {
		t.Fatalf("expected four phases, got %d", len(zero))
	}
	for _, p := range zero {
		if p.Percent != 0 {
			t.Fatalf("empty window must give 0%% everywhere: %+v", p)
		}
	}

	a := session("a", now.Add(-time.Hour), 60, 3, false)
	a.Thinking, a.Coding, a.Debugging, a.Waiting = 10, 50, 30, 10
	b := session("b", now.Add(-2*time.Hour), 60, 3, false)
	b.Thinking, b.Coding, b.Debugging, b.Waiting = 20, 10, 60, 10
	totals := domain.BottleneckTotals([]domain.SessionFacts{a, b}, domain.FilterWeek, now)
	if totals[0].Phase != "Debugging" || totals[0].Total != 90 || totals[0].Percent != 45 {
		t.Fatalf("wrong leading phase: %+v", totals[0])
	}
	if totals[1].Phase != "Coding" || totals[1].Percent != 30 {
		t.Fatalf("wrong second phase: %+v", totals[1])
	}
}

func TestHeatmapCoversExactly365DaysOldestFirst(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 23, 30, 0, 0, time.UTC)
	cells := domain.Heatmap(nil, now)
	if len(cells) != 365 {
		t.Fatalf("expected 365 cells, got %d", len(cells))
	}
	first := cells[0].Date
	last := cells[364].Date
	if !last.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last cell must be today, got %v", last)
	}
	if !first.Equal(last.AddDate(0, 0, -364)) {
		t.Fatalf("first cell must be 364 days back, got %v", first)
	}
}

func TestHeatmapIntensityBoundaries(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		minutes   int
		intensity int
	}{
		{0, 0}, {1, 1}, {60, 1}, {61, 2}, {120, 2}, {121, 3}, {240, 3}, {241, 4}, {500, 4},
	}
	for i, tc := range cases {
		day := now.AddDate(0, 0, -(len(cases) - 1 - i))
		var sessions []domain.SessionFacts
		if tc.minutes > 0 {
			sessions = []domain.SessionFacts{session("s", day, tc.minutes, 3, false)}
		}
		cells := domain.Heatmap(sessions, now)
		cell := cells[364-(len(cases)-1-i)]
		if cell.Minutes != tc.minutes || cell.Intensity != tc.intensity {
			t.Fatalf("%d minutes: expected intensity %d, got %+v", tc.minutes, tc.intensity, cell)
		}
	}
}

func TestHeatmapAccumulatesPerLocalDay(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	day := now.AddDate(0, 0, -5)
	sessions := []domain.SessionFacts{
		session("a", day.Add(1*time.Hour), 50, 3, false),
		session("b", day.Add(4*time.Hour), 70, 3, false),
	}
	cells := domain.Heatmap(sessions, now)
	cell := cells[364-5]
	if cell.Minutes != 120 || cell.Intensity != 2 {
		t.Fatalf("same-day sessions must accumulate: %+v", cell)
	}
}

func TestCyclesEndFallbackAndOrdering(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	done := created.AddDate(0, 0, 20)

	tags := []domain.TagFacts{
		{ID: "t-done", Name: "Shipped cycle", Active: false, CreatedAt: created, CompletedAt: &done},
		{ID: "t-old", Name: "Old active", Active: true, CreatedAt: created.AddDate(0, 0, 1)},
		{ID: "t-new", Name: "New active", Active: true, CreatedAt: created.AddDate(0, 0, 10)},
		{ID: "t-idle", Name: "No sessions", Active: true, CreatedAt: created},
	}
	sessions := []domain.SessionFacts{
		{ID: "s1", TagID: "t-old", StartTime: created.AddDate(0, 0, 2), EndTime: created.AddDate(0, 0, 2).Add(time.Hour), LeadTimeMinutes: 60},
		{ID: "s2", TagID: "t-old", StartTime: created.AddDate(0, 0, 5), EndTime: created.AddDate(0, 0, 5).Add(2 * time.Hour), LeadTimeMinutes: 120},
	}

	cycles := domain.Cycles(sessions, tags)
	if len(cycles) != 4 {
		t.Fatalf("expected 4 cycles, got %d", len(cycles))
	}
	// Active first, newest created first; the completed cycle last.
	if cycles[0].TagID != "t-new" || cycles[1].TagID != "t-old" || cycles[2].TagID != "t-idle" || cycles[3].TagID != "t-done" {
		t.Fatalf("wrong order: %s %s %s %s", cycles[0].TagID, cycles[1].TagID, cycles[2].TagID, cycles[3].TagID)
	}

	old := cycles[1]
	if old.Count != 2 || old.TotalMin != 180 {
		t.Fatalf("aggregation wrong: %+v", old)
	}
	// No CompletedAt: the cycle ends at its latest session end.
	if !old.EndedAt.Equal(sessions[1].EndTime) {
		t.Fatalf("expected latest session end, got %v", old.EndedAt)
	}
	if old.Sessions[0].ID != "s1" || old.Sessions[1].ID != "s2" {
		t.Fatalf("history must be oldest first: %+v", old.Sessions)
	}

	idle := cycles[2]
	if !idle.EndedAt.IsZero() {
		t.Fatalf("idle active cycle must have zero end, got %v", idle.EndedAt)
	}

	donecycle := cycles[3]
	if !donecycle.EndedAt.Equal(done) {
		t.Fatalf("completed cycle must use CompletedAt, got %v", donecycle.EndedAt)
	}
}
