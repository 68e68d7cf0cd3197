package frame

import "math"

// luma applies the Rec. 601 weights used throughout the analysis.
func luma(r, g, b uint8) uint8 {
	return uint8(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

// Luminance extracts one 8-bit luminance sample per pixel in row-major order.
func Luminance(img *Image) ([]uint8, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	out := make([]uint8, img.Width*img.Height)
	i := 0
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Stride:]
		switch img.Layout {
		case LayoutARGB32:
			for x := 0; x < img.Width; x++ {
				p := row[x*4:]
				out[i] = luma(p[1], p[2], p[3])
				i++
			}
		case LayoutGray8:
			copy(out[i:i+img.Width], row[:img.Width])
			i += img.Width
		case LayoutGray16:
			for x := 0; x < img.Width; x++ {
				// high byte of the big-endian sample == value >> 8
				out[i] = row[x*2]
				i++
			}
		case LayoutBGR24:
			for x := 0; x < img.Width; x++ {
				p := row[x*3:]
				out[i] = luma(p[2], p[1], p[0])
				i++
			}
		}
	}
	return out, nil
}
