package dto

import (
	"time"

	"flowdash/internal/modules/analytics/domain"
)

type TrendBucket struct {
	Label        string  `json:"label"`
	TotalMinutes int     `json:"total_minutes"`
	AvgScore     float64 `json:"avg_score"`
	Count        int     `json:"count"`
}

type Summary struct {
	TotalHours      float64 `json:"total_hours"`
	AvgScore        float64 `json:"avg_score"`
	ShipRate        int     `json:"ship_rate"`
	Count           int     `json:"count"`
	BestBucketLabel string  `json:"best_bucket_label"`
	BestBucketMin   int     `json:"best_bucket_minutes"`
	MeanBucketMin   int     `json:"mean_bucket_minutes"`
}

type BottleneckTotal struct {
	Phase   string `json:"phase"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

type HeatmapCell struct {
	Date      time.Time `json:"date"`
	Minutes   int       `json:"minutes"`
	Intensity int       `json:"intensity"`
}

type CycleSession struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Minutes   int       `json:"minutes"`
	Shipped   bool      `json:"shipped"`
}

type CycleStats struct {
	TagID     string         `json:"tag_id"`
	TagName   string         `json:"tag_name"`
	Active    bool           `json:"active"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at,omitempty"`
	Count     int            `json:"count"`
	TotalMin  int            `json:"total_minutes"`
	Sessions  []CycleSession `json:"sessions,omitempty"`
}

func TrendFromDomain(buckets []domain.TrendBucket) []TrendBucket {
	out := make([]TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TrendBucket{Label: b.Label, TotalMinutes: b.TotalMinutes, AvgScore: b.AvgScore, Count: b.Count})
	}
	return out
}

func SummaryFromDomain(s domain.Summary) Summary {
	return Summary{
		TotalHours:      s.TotalHours,
		AvgScore:        s.AvgScore,
		ShipRate:        s.ShipRate,
		Count:           s.Count,
		BestBucketLabel: s.BestBucketLabel,
		BestBucketMin:   s.BestBucketMin,
		MeanBucketMin:   s.MeanBucketMin,
	}
}

func BottlenecksFromDomain(totals []domain.BottleneckTotal) []BottleneckTotal {
	out := make([]BottleneckTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, BottleneckTotal{Phase: t.Phase, Total: t.Total, Percent: t.Percent})
	}
	return out
}

func HeatmapFromDomain(cells []domain.HeatmapCell) []HeatmapCell {
	out := make([]HeatmapCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, HeatmapCell{Date: c.Date, Minutes: c.Minutes, Intensity: c.Intensity})
	}
	return out
}

func CyclesFromDomain(cycles []domain.CycleStats) []CycleStats {
	out := make([]CycleStats, 0, len(cycles))
	for _, c := range cycles {
		stats := CycleStats{
			TagID:     c.TagID,
			TagName:   c.TagName,
			Active:    c.Active,
			StartedAt: c.StartedAt,
			EndedAt:   c.EndedAt,
			Count:     c.Count,
			TotalMin:  c.TotalMin,
		}
		for _, s := range c.Sessions {
			stats.Sessions = append(stats.Sessions, CycleSession{
				ID:        s.ID,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Minutes:   s.LeadTimeMinutes,
				Shipped:   s.Shipped,
			})
		}
		out = append(out, stats)
	}
	return out
}
