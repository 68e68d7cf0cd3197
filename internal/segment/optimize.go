package segment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPreferredNumber = 30
	DefaultMaxCycles       = 3
	DefaultMaxError        = 0.25
	DefaultAbsoluteMin     = 3
	DefaultAbsoluteMax     = 150

	// a first pass this far off jumps straight to a coarse threshold
	flood          = 2000
	floodThreshold = 0.2
)

// SegmentFunc runs one segmentation pass with the given changes threshold.
type SegmentFunc func(ctx context.Context, changesThreshold float64) ([]Segment, error)

// Optimizer searches for a changes threshold that yields about
// PreferredNumber segments and then tunes the merge threshold of Filter.
type Optimizer struct {
	PreferredNumber    int
	MaxCycles          int
	MaxError           float64
	AbsoluteMin        int
	AbsoluteMax        int
	DurationDependent  bool
	StabilityThreshold int
	Logger             zerolog.Logger
}

func DefaultOptimizer() Optimizer {
	return Optimizer{
		PreferredNumber:    DefaultPreferredNumber,
		MaxCycles:          DefaultMaxCycles,
		MaxError:           DefaultMaxError,
		AbsoluteMin:        DefaultAbsoluteMin,
		AbsoluteMax:        DefaultAbsoluteMax,
		StabilityThreshold: DefaultStabilityThreshold,
	}
}

func (o Optimizer) Validate() error {
	switch {
	case o.PreferredNumber < 1:
		return fmt.Errorf("%w: preferred number %d < 1", ErrInvalidOptions, o.PreferredNumber)
	case o.MaxCycles < 1:
		return fmt.Errorf("%w: max cycles %d < 1", ErrInvalidOptions, o.MaxCycles)
	case o.MaxError < 0:
		return fmt.Errorf("%w: max error %v < 0", ErrInvalidOptions, o.MaxError)
	case o.AbsoluteMin < 0 || o.AbsoluteMax < o.AbsoluteMin:
		return fmt.Errorf("%w: absolute bounds [%d, %d]", ErrInvalidOptions, o.AbsoluteMin, o.AbsoluteMax)
	case o.StabilityThreshold < 1:
		return fmt.Errorf("%w: stability threshold %d < 1", ErrInvalidOptions, o.StabilityThreshold)
	}
	return nil
}

// Outcome is the result of an optimization.
type Outcome struct {
	Segments         []Segment
	ChangesThreshold float64
	MergeThreshold   time.Duration
	Cycles           int
	// Uniform is set when no pass landed within the absolute bounds.
	Uniform bool
}

// step is one segmentation pass as seen by the optimizer. raw is kept even
// when the filtered count was the better fit; the merge tuning filters it again.
type step struct {
	changes float64
	raw     []Segment
	count   int
	err     float64
}

func relError(n, pref int) float64 {
	return float64(n-pref) / float64(pref)
}

// targets returns preferred, minimum and maximum segment counts for a video.
func (o Optimizer) targets(total time.Duration) (pref, lo, hi int) {
	pref, lo, hi = o.PreferredNumber, o.AbsoluteMin, o.AbsoluteMax
	if !o.DurationDependent {
		return pref, lo, hi
	}
	hours := total.Hours()
	pref = max(int(math.Round(hours*float64(pref))), 1)
	lo = int(math.Round(hours * float64(lo)))
	hi = int(math.Round(hours * float64(hi)))
	return pref, lo, hi
}

// Optimize calls fn up to MaxCycles times, starting with changesThreshold.
func (o Optimizer) Optimize(ctx context.Context, total time.Duration, changesThreshold float64, fn SegmentFunc) (*Outcome, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDuration, total)
	}

	logger := o.Logger.With().Str("component", "optimizer").Logger()
	pref, lo, hi := o.targets(total)
	stability := seconds(o.StabilityThreshold)
	// rough count of threshold-long segments that fit into the video
	capacity := total.Seconds() / (float64(o.StabilityThreshold) / 2)

	var ranked, unused []step
	var best step
	changes := changesThreshold
	cycles := 0

	for {
		raw, err := fn(ctx, changes)
		if err != nil {
			return nil, err
		}
		cycles++

		filtered := Filter(raw, total, stability)
		rawStep := step{changes: changes, raw: raw, count: len(raw), err: relError(len(raw), pref)}
		filteredStep := step{changes: changes, raw: raw, count: len(filtered), err: relError(len(filtered), pref)}

		current := filteredStep
		if math.Abs(rawStep.err) <= math.Abs(filteredStep.err) ||
			(len(filtered) < pref && float64(len(raw)) > capacity && math.Abs(filteredStep.err) > o.MaxError) {
			current = rawStep
			unused = append(unused, filteredStep)
		}
		ranked = append(ranked, current)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].err > ranked[j].err })

		logger.Debug().
			Int("cycle", cycles).
			Float64("changes", changes).
			Int("raw", len(raw)).
			Int("filtered", len(filtered)).
			Float64("error", current.err).
			Msg("optimization pass")

		first, last := ranked[0], ranked[len(ranked)-1]
		if cycles >= o.MaxCycles || math.Abs(current.err) <= o.MaxError {
			if math.Abs(first.err) <= math.Abs(last.err) && first.err >= 0 {
				best = first
			} else {
				best = last
			}
			for _, u := range unused {
				if math.Abs(u.err) < math.Abs(best.err) {
					best = u
				}
			}
			break
		}

		switch {
		case len(ranked) == 1 || first.err < 0 || last.err > 0:
			// all passes on one side of the target
			switch {
			case current.err < 0:
				changes /= 2
			case current.err <= 1:
				changes += changes * current.err
			case cycles <= 1 && len(raw) > flood:
				changes = floodThreshold
			default:
				changes *= 2
			}
		default:
			// bracketed: assume a linear relation between threshold and count
			x := 0.5
			if first.count != last.count {
				x = float64(first.count-pref) / float64(first.count-last.count)
			}
			nx := (x + 0.5) * 0.5
			changes = first.changes*(1-nx) + last.changes*nx
		}
		changes = min(max(changes, 0), 1)
	}

	merge := o.tuneMerge(best, total, pref)
	segments := Filter(best.raw, total, merge)
	out := &Outcome{
		Segments:         segments,
		ChangesThreshold: best.changes,
		MergeThreshold:   merge,
		Cycles:           cycles,
	}

	if len(segments) < lo || len(segments) > hi {
		logger.Info().
			Int("segments", len(segments)).
			Int("min", lo).
			Int("max", hi).
			Msg("no usable segmentation found, falling back to uniform segments")
		out.Segments = Uniform(total, pref)
		out.Uniform = true
	}

	logger.Info().
		Int("cycles", cycles).
		Int("segments", len(out.Segments)).
		Float64("changes", out.ChangesThreshold).
		Dur("merge", merge).
		Msg("optimization finished")
	return out, nil
}

// tuneMerge widens the merge threshold from the stability threshold up to one
// and a half times it, in whole seconds, when the best pass still has too many
// segments.
func (o Optimizer) tuneMerge(best step, total time.Duration, pref int) time.Duration {
	low := seconds(o.StabilityThreshold)
	high := low + low/2
	if best.err <= o.MaxError {
		high = low
	}

	chosen := low
	smallest := math.MaxFloat64
	for m := low; m <= high; m += time.Second {
		e := math.Abs(relError(len(Filter(best.raw, total, m)), pref))
		if e < smallest {
			smallest = e
			chosen = m
		}
	}
	return chosen
}
