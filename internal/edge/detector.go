package edge

import (
	"math"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// Detector applies a fixed Config to any number of frames. It holds no
// per-call state, so one Detector can be shared.
type Detector struct {
	cfg    Config
	kernel kernel
	low    int32
	high   int32
}

// NewDetector validates cfg and precomputes the kernel.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg:    cfg,
		kernel: newKernel(cfg.KernelRadius, cfg.KernelWidth),
		low:    int32(math.Round(cfg.LowThreshold * magnitudeScale)),
		high:   int32(math.Round(cfg.HighThreshold * magnitudeScale)),
	}, nil
}

// KernelWidth returns the effective kernel width after the gaussian cut-off.
func (d *Detector) KernelWidth() int {
	return d.kernel.width()
}

// Process returns the edge map of img. The map has the dimensions of img.
// Frames smaller than the kernel support yield a map without edges.
func (d *Detector) Process(img *frame.Image) (*EdgeMap, error) {
	luma, err := frame.Luminance(img)
	if err != nil {
		return nil, err
	}
	if d.cfg.ContrastNormalized {
		luma = equalize(luma)
	}

	w, h := img.Width, img.Height
	mag := computeMagnitudes(luma, w, h, d.kernel)

	t := newTracer(mag, w, h, d.low)
	t.run(d.high)

	bits := make([]bool, w*h)
	for i, v := range t.traced {
		bits[i] = v != 0
	}
	return &EdgeMap{Width: w, Height: h, Bits: bits}, nil
}

// Detect is the one-shot form of NewDetector followed by Process.
func Detect(img *frame.Image, cfg Config) (*EdgeMap, error) {
	d, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return d.Process(img)
}
