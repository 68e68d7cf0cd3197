// Package edge implements the Canny-style edge operator used to turn frames
// into binary edge maps before they are compared.
package edge

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when thresholds or kernel parameters
// are out of range.
var ErrInvalidConfiguration = errors.New("invalid edge detector configuration")

const (
	DefaultLowThreshold  = 2.5
	DefaultHighThreshold = 7.5
	DefaultKernelRadius  = 2.0
	DefaultKernelWidth   = 16

	minKernelRadius = 0.1
	minKernelWidth  = 2
)

// Config is the immutable detector configuration.
type Config struct {
	LowThreshold       float64
	HighThreshold      float64
	KernelRadius       float64
	KernelWidth        int
	ContrastNormalized bool
}

// DefaultConfig returns the stock thresholds and kernel.
func DefaultConfig() Config {
	return Config{
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
		KernelRadius:  DefaultKernelRadius,
		KernelWidth:   DefaultKernelWidth,
	}
}

// Validate reports the first parameter that violates its bound.
func (c Config) Validate() error {
	switch {
	case c.LowThreshold < 0:
		return fmt.Errorf("%w: low threshold %v < 0", ErrInvalidConfiguration, c.LowThreshold)
	case c.HighThreshold < 0:
		return fmt.Errorf("%w: high threshold %v < 0", ErrInvalidConfiguration, c.HighThreshold)
	case c.KernelWidth < minKernelWidth:
		return fmt.Errorf("%w: kernel width %d < %d", ErrInvalidConfiguration, c.KernelWidth, minKernelWidth)
	case c.KernelRadius < minKernelRadius:
		return fmt.Errorf("%w: kernel radius %v < %v", ErrInvalidConfiguration, c.KernelRadius, minKernelRadius)
	}
	return nil
}
