// Package compare decides whether two sampled frames show different content.
package compare

import (
	"errors"
	"fmt"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// ErrInvalidThreshold is returned for change thresholds outside [0, 1].
var ErrInvalidThreshold = errors.New("change threshold must be within [0, 1]")

// Differencer compares the frame sampled at second atSecond against the
// previous reference. A nil previous frame is always different.
type Differencer interface {
	IsDifferent(previous, current *frame.Image, atSecond int, threshold float64) (bool, error)
}

// Func adapts a plain function to the Differencer interface.
type Func func(previous, current *frame.Image, atSecond int, threshold float64) (bool, error)

func (f Func) IsDifferent(previous, current *frame.Image, atSecond int, threshold float64) (bool, error) {
	return f(previous, current, atSecond, threshold)
}

func checkThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// budget is the number of differing pixels a frame of n pixels may have
// before it counts as changed.
func budget(n int, threshold float64) int {
	return int(float64(n) * threshold)
}
