package segment

import (
	"sort"
	"time"
)

// Filter merges runs of segments no longer than mergeThreshold. A run that
// adds up to the threshold becomes a segment of its own; a shorter run is
// split at its midpoint between the neighbouring segments. A run at the very
// start joins the first long segment and a run at the end joins the last one.
func Filter(segments []Segment, total, mergeThreshold time.Duration) []Segment {
	var out []Segment
	merging := false
	var runStart time.Duration

	for _, s := range segments {
		if s.Duration <= mergeThreshold {
			if !merging {
				runStart = s.Start
				merging = true
			}
			continue
		}

		if !merging {
			out = append(out, s)
			continue
		}
		merging = false

		if merged := s.Start - runStart; merged >= mergeThreshold {
			out = append(out, Segment{Start: runStart, Duration: merged}, s)
			continue
		}
		if len(out) == 0 {
			out = append(out, Segment{Start: 0, Duration: s.End()})
			continue
		}

		split := ((runStart + s.Start) / 2).Truncate(time.Second)
		prev := &out[len(out)-1]
		prev.Duration = split - prev.Start
		out = append(out, Segment{Start: split, Duration: s.End() - split})
	}

	if merging && len(out) > 0 {
		if merged := total - runStart; merged >= mergeThreshold {
			out = append(out, Segment{Start: runStart, Duration: merged})
		} else {
			last := &out[len(out)-1]
			last.Duration = total - last.Start
		}
	}

	if len(out) == 0 {
		return []Segment{{Index: 1, Duration: total}}
	}
	return renumber(out)
}

// Uniform cuts total into n segments of equal whole-second length; the last
// segment takes the remainder. Videos shorter than n seconds get one segment
// per second.
func Uniform(total time.Duration, n int) []Segment {
	if n < 1 {
		n = 1
	}
	step := (total / time.Duration(n)).Truncate(time.Second)
	if step <= 0 {
		step = time.Second
		n = max(int(total/time.Second), 1)
	}

	out := make([]Segment, 0, n)
	var at time.Duration
	for i := 1; i < n; i++ {
		out = append(out, Segment{Start: at, Duration: step})
		at += step
	}
	out = append(out, Segment{Start: at, Duration: total - at})
	return renumber(out)
}

// FromBoundaries builds segments from scene change timestamps. Timestamps are
// rounded to whole seconds; a cut closer than minLength to the previous one is
// skipped.
func FromBoundaries(times []time.Duration, total, minLength time.Duration) []Segment {
	cuts := append([]time.Duration(nil), times...)
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })

	var out []Segment
	var start time.Duration
	for _, t := range cuts {
		end := t.Round(time.Second)
		if end >= total {
			break
		}
		if end-start > minLength {
			out = append(out, Segment{Start: start, Duration: end - start})
			start = end
		}
	}
	out = append(out, Segment{Start: start, Duration: total - start})
	return renumber(out)
}
