package edge

import (
	"image"
	"image/color"
)

// EdgeMap is a binary classification of every pixel of the source frame.
type EdgeMap struct {
	Width  int
	Height int
	Bits   []bool
}

// IsEdge reports whether the pixel at (x, y) belongs to an edge.
func (m *EdgeMap) IsEdge(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// ToGray renders edges white on black.
func (m *EdgeMap) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.Bits {
		if b {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// ColorModel, Bounds and At implement image.Image so a map can be encoded directly.
func (m *EdgeMap) ColorModel() color.Model { return color.GrayModel }

func (m *EdgeMap) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

func (m *EdgeMap) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Bounds())) || !m.IsEdge(x, y) {
		return color.Gray{}
	}
	return color.Gray{Y: 0xff}
}
