package edge

import "math"

const (
	magnitudeScale = 100
	magnitudeLimit = 1000
	magnitudeMax   = magnitudeScale * magnitudeLimit
)

// gradients carries the intermediate buffers of one Process call.
type gradients struct {
	width, height int
	xConv, yConv  []float32
	xGrad, yGrad  []float32
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// smooth convolves the luminance with the gaussian along rows (xConv) and
// along columns (yConv). Samples outside the image replicate the border so a
// flat region stays flat all the way to the edge.
func (g *gradients) smooth(luma []uint8, k kernel) {
	w, h, kw := g.width, g.height, k.width()
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			c := float32(luma[row+x]) * k.gauss[0]
			sumX, sumY := c, c
			for o := 1; o < kw; o++ {
				sumX += k.gauss[o] * (float32(luma[row+clampIndex(x-o, w)]) + float32(luma[row+clampIndex(x+o, w)]))
				sumY += k.gauss[o] * (float32(luma[clampIndex(y-o, h)*w+x]) + float32(luma[clampIndex(y+o, h)*w+x]))
			}
			g.xConv[row+x] = sumX
			g.yConv[row+x] = sumY
		}
	}
}

// differentiate applies the derivative kernel where it fits entirely inside
// the image; the margin keeps a zero gradient.
func (g *gradients) differentiate(k kernel) {
	w, h, kw := g.width, g.height, k.width()
	for y := kw - 1; y < h-(kw-1); y++ {
		for x := kw - 1; x < w-(kw-1); x++ {
			i := y*w + x
			var sumX, sumY float32
			for o := 1; o < kw; o++ {
				sumX += k.diff[o] * (g.yConv[i-o] - g.yConv[i+o])
				sumY += k.diff[o] * (g.xConv[i-o*w] - g.xConv[i+o*w])
			}
			g.xGrad[i] = sumX
			g.yGrad[i] = sumY
		}
	}
}

func (g *gradients) mag(i int) float32 {
	return float32(math.Hypot(float64(g.xGrad[i]), float64(g.yGrad[i])))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// suppress keeps the scaled gradient magnitude of pixels that are local maxima
// along the gradient direction and zeroes the rest.
func (g *gradients) suppress(kw int) []int32 {
	w, h := g.width, g.height
	out := make([]int32, w*h)
	for y := kw; y < h-kw; y++ {
		for x := kw; x < w-kw; x++ {
			i := y*w + x
			xG, yG := g.xGrad[i], g.yGrad[i]
			m := g.mag(i)

			n, s := g.mag(i-w), g.mag(i+w)
			west, east := g.mag(i-1), g.mag(i+1)
			ne, se := g.mag(i-w+1), g.mag(i+w+1)
			sw, nw := g.mag(i+w-1), g.mag(i-w-1)

			if !localMax(xG, yG, m, n, s, west, east, ne, se, sw, nw) {
				continue
			}
			if m >= magnitudeLimit {
				out[i] = magnitudeMax
			} else {
				out[i] = int32(math.Round(float64(magnitudeScale * m)))
			}
		}
	}
	return out
}

// localMax interpolates the magnitude on both sides of the pixel along the
// gradient. The sign of xG*yG and which component dominates select one of four
// symmetric neighbour pairs, so no angle is ever computed.
func localMax(xG, yG, m, n, s, w, e, ne, se, sw, nw float32) bool {
	if xG*yG <= 0 {
		if abs32(xG) >= abs32(yG) {
			tmp := abs32(xG * m)
			return tmp >= abs32(yG*ne-(xG+yG)*e) && tmp > abs32(yG*sw-(xG+yG)*w)
		}
		tmp := abs32(yG * m)
		return tmp >= abs32(xG*ne-(yG+xG)*n) && tmp > abs32(xG*sw-(yG+xG)*s)
	}
	if abs32(xG) >= abs32(yG) {
		tmp := abs32(xG * m)
		return tmp >= abs32(yG*se+(xG-yG)*e) && tmp > abs32(yG*nw+(xG-yG)*w)
	}
	tmp := abs32(yG * m)
	return tmp >= abs32(xG*se+(yG-xG)*s) && tmp > abs32(xG*nw+(yG-xG)*n)
}

func computeMagnitudes(luma []uint8, width, height int, k kernel) []int32 {
	n := width * height
	g := &gradients{
		width:  width,
		height: height,
		xConv:  make([]float32, n),
		yConv:  make([]float32, n),
		xGrad:  make([]float32, n),
		yGrad:  make([]float32, n),
	}
	g.smooth(luma, k)
	g.differentiate(k)
	return g.suppress(k.width())
}
