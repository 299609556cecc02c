package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Filter selects the aggregation window and bucket granularity.
type Filter string

const (
	FilterDay   Filter = "day"   // 7 daily buckets
	FilterWeek  Filter = "week"  // 12 ISO-week buckets
	FilterMonth Filter = "month" // 6 calendar-month buckets
)

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterDay, FilterWeek, FilterMonth:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (want day, week or month)", s)
}

// SessionFacts is the slice of session data the aggregator consumes. Keeping
// it local avoids a dependency on the session module's types.
type SessionFacts struct {
	ID              string
	TagID           string
	StartTime       time.Time
	EndTime         time.Time
	LeadTimeMinutes int
	FlowScore       int
	Shipped         bool
	Thinking        int
	Coding          int
	Debugging       int
	Waiting         int
}

type TagFacts struct {
	ID          string
	Name        string
	Active      bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type TrendBucket struct {
	Label        string
	TotalMinutes int
	AvgScore     float64
	Count        int
}

type Summary struct {
	TotalHours      float64
	AvgScore        float64
	ShipRate        int
	Count           int
	BestBucketLabel string
	BestBucketMin   int
	MeanBucketMin   int
}

type BottleneckTotal struct {
	Phase   string
	Total   int
	Percent int
}

type HeatmapCell struct {
	Date      time.Time
	Minutes   int
	Intensity int
}

type CycleStats struct {
	TagID     string
	TagName   string
	Active    bool
	StartedAt time.Time
	EndedAt   time.Time
	Count     int
	TotalMin  int
	Sessions  []SessionFacts
}

// Window returns the sessions whose EndTime falls on or after the filter's
// cutoff: 7 days, 12 weeks or 6 months back from now.
func Window(sessions []SessionFacts, filter Filter, now time.Time) []SessionFacts {
	var cutoff time.Time
	switch filter {
	case FilterWeek:
		cutoff = now.AddDate(0, 0, -12*7)
	case FilterMonth:
		cutoff = now.AddDate(0, -6, 0)
	default:
		cutoff = now.AddDate(0, 0, -7)
	}
	var windowed []SessionFacts
	for _, s := range sessions {
		if !s.EndTime.Before(cutoff) {
			windowed = append(windowed, s)
		}
	}
	return windowed
}

// Trend buckets the windowed sessions, oldest bucket first. Day buckets are
// keyed on the local calendar date, week buckets on the ISO week
// (Monday..Sunday), month buckets on the calendar month.
func Trend(sessions []SessionFacts, filter Filter, now time.Time) []TrendBucket {
	windowed := Window(sessions, filter, now)

	type accumulator struct {
		minutes int
		score   int
		count   int
	}
	totals := make(map[string]*accumulator)
	keyOf := func(t time.Time) string {
		switch filter {
		case FilterWeek:
			year, week := t.ISOWeek()
			return fmt.Sprintf("%04d-%02d", year, week)
		case FilterMonth:
			return t.Format("2006-01")
		default:
			return t.Format("2006-01-02")
		}
	}
	for _, s := range windowed {
		key := keyOf(s.EndTime)
		acc := totals[key]
		if acc == nil {
			acc = &accumulator{}
			totals[key] = acc
		}
		acc.minutes += s.LeadTimeMinutes
		acc.score += s.FlowScore
		acc.count++
	}

	var buckets []TrendBucket
	emit := func(key, label string) {
		bucket := TrendBucket{Label: label}
		if acc := totals[key]; acc != nil {
			bucket.TotalMinutes = acc.minutes
			bucket.Count = acc.count
			bucket.AvgScore = round1(float64(acc.score) / float64(acc.count))
		}
		buckets = append(buckets, bucket)
	}

	switch filter {
	case FilterWeek:
		for i := 11; i >= 0; i-- {
			day := now.AddDate(0, 0, -7*i)
			year, week := day.ISOWeek()
			emit(fmt.Sprintf("%04d-%02d", year, week), fmt.Sprintf("Week %d", week))
		}
	case FilterMonth:
		for i := 5; i >= 0; i-- {
			month := now.AddDate(0, -i, 0)
			emit(month.Format("2006-01"), month.Format("Jan 2006"))
		}
	default:
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			emit(day.Format("2006-01-02"), day.Format("02/01/06"))
		}
	}
	return buckets
}

// Summarize computes the headline metrics over the windowed sessions and
// their trend buckets. Every ratio is guarded; an empty window yields zeros.
func Summarize(sessions []SessionFacts, filter Filter, now time.Time) Summary {
	windowed := Window(sessions, filter, now)
	buckets := Trend(sessions, filter, now)

	summary := Summary{Count: len(windowed)}
	totalMinutes, totalScore, shipped := 0, 0, 0
	for _, s := range windowed {
		totalMinutes += s.LeadTimeMinutes
		totalScore += s.FlowScore
		if s.Shipped {
			shipped++
		}
	}
	summary.TotalHours = round1(float64(totalMinutes) / 60)
	if len(windowed) > 0 {
		summary.AvgScore = round1(float64(totalScore) / float64(len(windowed)))
		summary.ShipRate = int(math.Round(100 * float64(shipped) / float64(len(windowed))))
	}

	bucketSum := 0
	for _, b := range buckets {
		bucketSum += b.TotalMinutes
		if b.TotalMinutes > summary.BestBucketMin {
			summary.BestBucketMin = b.TotalMinutes
			summary.BestBucketLabel = b.Label
		}
	}
	if len(buckets) > 0 {
		summary.MeanBucketMin = int(math.Round(float64(bucketSum) / float64(len(buckets))))
		if summary.BestBucketLabel == "" {
			summary.BestBucketLabel = buckets[0].Label
		}
	}
	return summary
}

// BottleneckTotals sums the four phase percentages over the window and
// expresses each as a share of the grand total, descending by raw total. A
// zero grand total uses 1 as the denominator so everything reads 0%.
func BottleneckTotals(sessions []SessionFacts, filter Filter, now time.Time) []BottleneckTotal {
	windowed := Window(sessions, filter, now)

	totals := []BottleneckTotal{
		{Phase: "Thinking"}, {Phase: "Coding"}, {Phase: "Debugging"}, {Phase: "Waiting"},
	}
	for _, s := range windowed {
		totals[0].Total += s.Thinking
		totals[1].Total += s.Coding
		totals[2].Total += s.Debugging
		totals[3].Total += s.Waiting
	}
	grand := totals[0].Total + totals[1].Total + totals[2].Total + totals[3].Total
	if grand == 0 {
		grand = 1
	}
	for i := range totals {
		totals[i].Percent = int(math.Round(100 * float64(totals[i].Total) / float64(grand)))
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// Heatmap covers the trailing 365 local days ending today, oldest first,
// regardless of the active filter. Minutes accumulate on the session's local
// end date.
func Heatmap(sessions []SessionFacts, now time.Time) []HeatmapCell {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -364)

	minutes := make(map[string]int)
	for _, s := range sessions {
		minutes[s.EndTime.Format("2006-01-02")] += s.LeadTimeMinutes
	}

	cells := make([]HeatmapCell, 0, 365)
	for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
		m := minutes[day.Format("2006-01-02")]
		cells = append(cells, HeatmapCell{Date: day, Minutes: m, Intensity: intensity(m)})
	}
	return cells
}

func intensity(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes <= 60:
		return 1
	case minutes <= 120:
		return 2
	case minutes <= 240:
		return 3
	default:
		return 4
	}
}

// Cycles builds per-tag shipping-cycle stats over the full history. A cycle
// ends at the tag's completion time when recorded, otherwise at its latest
// session end, otherwise never (zero time).
func Cycles(sessions []SessionFacts, tags []TagFacts) []CycleStats {
	byTag := make(map[string][]SessionFacts)
	for _, s := range sessions {
		if s.TagID != "" {
			byTag[s.TagID] = append(byTag[s.TagID], s)
		}
	}

	cycles := make([]CycleStats, 0, len(tags))
	for _, tag := range tags {
		attached := byTag[tag.ID]
		sort.SliceStable(attached, func(i, j int) bool {
			return attached[i].StartTime.Before(attached[j].StartTime)
		})
		cycle := CycleStats{
			TagID:     tag.ID,
			TagName:   tag.Name,
			Active:    tag.Active,
			StartedAt: tag.CreatedAt,
			Count:     len(attached),
			Sessions:  attached,
		}
		for _, s := range attached {
			cycle.TotalMin += s.LeadTimeMinutes
		}
		switch {
		case tag.CompletedAt != nil:
			cycle.EndedAt = *tag.CompletedAt
		case len(attached) > 0:
			latest := attached[0].EndTime
			for _, s := range attached[1:] {
				if s.EndTime.After(latest) {
					latest = s.EndTime
				}
			}
			cycle.EndedAt = latest
		}
		cycles = append(cycles, cycle)
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if cycles[i].Active != cycles[j].Active {
			return cycles[i].Active
		}
		return cycles[i].StartedAt.After(cycles[j].StartedAt)
	})
	return cycles
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
