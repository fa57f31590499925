package engine

import (
	"fmt"
	"time"
)

// Breakdown is the time left split into display units.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Remaining returns the time from now until target. At or after the target
// every unit is zero.
func Remaining(target, now time.Time) Breakdown {
	d := target.Sub(now)
	if d <= 0 {
		return Breakdown{}
	}
	total := int64(d / time.Second)
	return Breakdown{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

func (b Breakdown) Expired() bool { return b == Breakdown{} }

// String renders DDD:HH:MM:SS.
func (b Breakdown) String() string {
	return fmt.Sprintf("%03d:%02d:%02d:%02d", b.Days, b.Hours, b.Minutes, b.Seconds)
}
