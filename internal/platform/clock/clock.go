package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns local time. Day buckets and heatmap cells are keyed by
// the local calendar date, so the clock must not be forced to UTC here.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
