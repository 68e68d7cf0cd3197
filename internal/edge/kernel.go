package edge

import "math"

// gaussianCutOff ends the kernel early once contributions become negligible.
const gaussianCutOff = 0.005

// kernel holds the 1-D smoothing kernel and its derivative. Both slices have
// the effective width, which may be smaller than the configured one.
type kernel struct {
	gauss []float32
	diff  []float32
}

func (k kernel) width() int {
	return len(k.gauss)
}

func gaussian(x, sigma float64) float64 {
	return math.Exp(-(x * x) / (2 * sigma * sigma))
}

func newKernel(radius float64, maxWidth int) kernel {
	k := kernel{
		gauss: make([]float32, 0, maxWidth),
		diff:  make([]float32, 0, maxWidth),
	}
	norm := 2 * math.Pi * radius * radius
	for i := 0; i < maxWidth; i++ {
		g1 := gaussian(float64(i), radius)
		if g1 <= gaussianCutOff && i >= 2 {
			break
		}
		g2 := gaussian(float64(i)-0.5, radius)
		g3 := gaussian(float64(i)+0.5, radius)
		k.gauss = append(k.gauss, float32((g1+g2+g3)/3/norm))
		k.diff = append(k.diff, float32(g3-g2))
	}
	return k
}
