package compare

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/edge"
	"github.com/kikiluvv/scenecut/internal/frame"
)

// DefaultAnalysisWidth is the width frames are reduced to before edge detection.
const DefaultAnalysisWidth = 320

// EdgeDifferencer compares the edge maps of two frames. The share of pixels
// whose classification flips is the change ratio.
type EdgeDifferencer struct {
	detector      *edge.Detector
	analysisWidth int
	logger        zerolog.Logger

	// the last two maps, keyed by the frame they were computed from
	cache [2]cachedMap
	next  int
}

type cachedMap struct {
	src *frame.Image
	m   *edge.EdgeMap
}

// NewEdgeDifferencer builds a differencer around its own edge detector.
// analysisWidth <= 0 disables downscaling.
func NewEdgeDifferencer(cfg edge.Config, analysisWidth int, logger zerolog.Logger) (*EdgeDifferencer, error) {
	d, err := edge.NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return &EdgeDifferencer{
		detector:      d,
		analysisWidth: analysisWidth,
		logger:        logger.With().Str("component", "edge-differ").Logger(),
	}, nil
}

func (e *EdgeDifferencer) IsDifferent(previous, current *frame.Image, atSecond int, threshold float64) (bool, error) {
	if err := checkThreshold(threshold); err != nil {
		return false, err
	}
	if previous == nil {
		return true, nil
	}
	if !frame.SameSize(previous, current) {
		e.logger.Debug().
			Int("second", atSecond).
			Msg("frame dimensions changed")
		return true, nil
	}

	a, err := e.edges(previous)
	if err != nil {
		return false, fmt.Errorf("edges of reference frame: %w", err)
	}
	b, err := e.edges(current)
	if err != nil {
		return false, fmt.Errorf("edges of frame at %ds: %w", atSecond, err)
	}

	limit := budget(len(a.Bits), threshold)
	changes := 0
	for i := range a.Bits {
		if a.Bits[i] != b.Bits[i] {
			changes++
			if changes > limit {
				break
			}
		}
	}

	different := changes > limit
	e.logger.Debug().
		Int("second", atSecond).
		Int("changes", changes).
		Int("limit", limit).
		Bool("different", different).
		Msg("compared edge maps")
	return different, nil
}

func (e *EdgeDifferencer) edges(img *frame.Image) (*edge.EdgeMap, error) {
	for _, c := range e.cache {
		if c.src == img {
			return c.m, nil
		}
	}

	small, err := frame.Downscale(img, e.analysisWidth)
	if err != nil {
		return nil, err
	}
	m, err := e.detector.Process(small)
	if err != nil {
		return nil, err
	}

	e.cache[e.next] = cachedMap{src: img, m: m}
	e.next = (e.next + 1) % len(e.cache)
	return m, nil
}
