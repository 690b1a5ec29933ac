package download

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is a point-in-time view of a streaming transfer.
type Progress struct {
	Received int64
	// Total is the expected byte count, or zero when the server did not
	// declare a length.
	Total   int64
	Elapsed time.Duration
}

// Percent returns the completed percentage, or -1 when the total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Received) / float64(p.Total) * 100
}

// Speed returns the average transfer rate in bytes per second since the
// transfer started. A simple average, not a sliding window.
func (p Progress) Speed() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Received) / p.Elapsed.Seconds()
}

// Describe renders a human-readable one-line summary of the transfer.
func (p Progress) Describe() string {
	speed := humanize.Bytes(uint64(p.Speed())) + "/s"
	if p.Total > 0 {
		return fmt.Sprintf("%.0f%% (%s / %s, %s)",
			p.Percent(), humanize.Bytes(uint64(p.Received)), humanize.Bytes(uint64(p.Total)), speed)
	}
	return fmt.Sprintf("%s (%s)", humanize.Bytes(uint64(p.Received)), speed)
}

// throttle gates progress callbacks: a report passes when the wall-clock
// interval has elapsed since the last one, or immediately when the integer
// percentage advances, whichever comes first.
type throttle struct {
	interval    time.Duration
	lastEmit    time.Time
	lastPercent int
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		interval = time.Second
	}
	return &throttle{interval: interval, lastPercent: -1}
}

func (t *throttle) shouldEmit(p Progress, now time.Time) bool {
	emit := false
	if t.lastEmit.IsZero() || now.Sub(t.lastEmit) >= t.interval {
		emit = true
	}
	if pct := p.Percent(); pct >= 0 {
		if whole := int(pct); whole > t.lastPercent {
			t.lastPercent = whole
			emit = true
		}
	}
	if emit {
		t.lastEmit = now
	}
	return emit
}
