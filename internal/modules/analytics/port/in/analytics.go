package in

import (
	"context"

	"flowdash/internal/modules/analytics/dto"
)

type Usecase interface {
	Trend(ctx context.Context, filter string) ([]dto.TrendBucket, error)
	Summary(ctx context.Context, filter string) (dto.Summary, error)
	Bottlenecks(ctx context.Context, filter string) ([]dto.BottleneckTotal, error)
	Heatmap(ctx context.Context) ([]dto.HeatmapCell, error)
	Cycles(ctx context.Context) ([]dto.CycleStats, error)
}
