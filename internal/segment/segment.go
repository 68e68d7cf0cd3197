// Package segment splits a once-per-second frame stream into stable scenes.
package segment

import (
	"fmt"
	"time"
)

// Segment is one contiguous stretch of the video. Start and Duration are
// always whole seconds.
type Segment struct {
	Index    int           `json:"index" yaml:"index"`
	Start    time.Duration `json:"start" yaml:"start"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// End returns the offset where the segment stops.
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

func (s Segment) String() string {
	return fmt.Sprintf("segment-%d [%s, %s)", s.Index, s.Start, s.End())
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// renumber assigns 1-based indexes in list order.
func renumber(segments []Segment) []Segment {
	for i := range segments {
		segments[i].Index = i + 1
	}
	return segments
}

// Total returns the summed duration of segments.
func Total(segments []Segment) time.Duration {
	var d time.Duration
	for _, s := range segments {
		d += s.Duration
	}
	return d
}

// Check verifies that segments are ordered, contiguous and cover [0, total).
func Check(segments []Segment, total time.Duration) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments")
	}
	var at time.Duration
	for i, s := range segments {
		if s.Index != i+1 {
			return fmt.Errorf("segment %d has index %d", i+1, s.Index)
		}
		if s.Start != at {
			return fmt.Errorf("segment %d starts at %s, expected %s", s.Index, s.Start, at)
		}
		if s.Duration <= 0 {
			return fmt.Errorf("segment %d has non-positive duration %s", s.Index, s.Duration)
		}
		at = s.End()
	}
	if at != total {
		return fmt.Errorf("segments end at %s, expected %s", at, total)
	}
	return nil
}
