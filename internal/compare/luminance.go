package compare

import (
	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// DefaultPixelTolerance is the luminance delta a pixel may drift before it
// counts as changed.
const DefaultPixelTolerance = 12

// LuminanceDifferencer compares raw luminance pixel by pixel.
type LuminanceDifferencer struct {
	tolerance     int
	analysisWidth int
	logger        zerolog.Logger
}

func NewLuminanceDifferencer(tolerance, analysisWidth int, logger zerolog.Logger) *LuminanceDifferencer {
	if tolerance < 0 {
		tolerance = DefaultPixelTolerance
	}
	return &LuminanceDifferencer{
		tolerance:     tolerance,
		analysisWidth: analysisWidth,
		logger:        logger.With().Str("component", "luma-differ").Logger(),
	}
}

func (l *LuminanceDifferencer) IsDifferent(previous, current *frame.Image, atSecond int, threshold float64) (bool, error) {
	if err := checkThreshold(threshold); err != nil {
		return false, err
	}
	if previous == nil {
		return true, nil
	}
	if !frame.SameSize(previous, current) {
		return true, nil
	}

	a, err := frame.Downscale(previous, l.analysisWidth)
	if err != nil {
		return false, err
	}
	b, err := frame.Downscale(current, l.analysisWidth)
	if err != nil {
		return false, err
	}

	limit := budget(a.Width*a.Height, threshold)
	changes := 0
	for i := range a.Pix {
		diff := int(a.Pix[i]) - int(b.Pix[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > l.tolerance {
			changes++
			if changes > limit {
				break
			}
		}
	}

	different := changes > limit
	l.logger.Debug().
		Int("second", atSecond).
		Int("changes", changes).
		Bool("different", different).
		Msg("compared luminance")
	return different, nil
}
