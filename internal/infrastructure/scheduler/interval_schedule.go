package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule runs a job at a fixed interval. With Immediate set the
// first run happens on the first tick instead of one interval later.
type IntervalSchedule struct {
	Interval  time.Duration
	Immediate bool

	started bool
}

// Every returns a schedule that fires every d.
func Every(d time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: d}
}

// EveryImmediately returns a schedule that fires on the first tick and every d after that.
func EveryImmediately(d time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: d, Immediate: true}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	if s.Immediate && !s.started {
		s.started = true
		return t
	}
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
