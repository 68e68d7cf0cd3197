package frame

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// FromImage converts a decoded Go image into a frame.Image. Grayscale inputs
// keep their depth; everything else becomes ARGB32.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, ErrEmptyImage
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, w, h)
	}

	switch s := src.(type) {
	case *image.Gray:
		img, _ := New(w, h, LayoutGray8)
		for y := 0; y < h; y++ {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Pix[y*img.Stride:(y+1)*img.Stride], s.Pix[off:off+w])
		}
		return img, nil

	case *image.Gray16:
		img, _ := New(w, h, LayoutGray16)
		for y := 0; y < h; y++ {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Pix[y*img.Stride:(y+1)*img.Stride], s.Pix[off:off+2*w])
		}
		return img, nil
	}

	img, _ := New(w, h, LayoutARGB32)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			p := row[x*4:]
			p[0], p[1], p[2], p[3] = c.A, c.R, c.G, c.B
		}
	}
	return img, nil
}

// Gray renders the luminance of img as a standard 8-bit grayscale image.
func Gray(img *Image) (*image.Gray, error) {
	luma, err := Luminance(img)
	if err != nil {
		return nil, err
	}
	return &image.Gray{
		Pix:    luma,
		Stride: img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}, nil
}

// Downscale reduces img to at most maxWidth pixels wide, preserving the
// aspect ratio, and returns an 8-bit grayscale frame. A maxWidth <= 0 or an
// image that is already narrow enough only converts to grayscale.
func Downscale(img *Image, maxWidth int) (*Image, error) {
	gray, err := Gray(img)
	if err != nil {
		return nil, err
	}
	if maxWidth <= 0 || img.Width <= maxWidth {
		return &Image{
			Width:  img.Width,
			Height: img.Height,
			Layout: LayoutGray8,
			Stride: gray.Stride,
			Pix:    gray.Pix,
		}, nil
	}

	scaled := resize.Resize(uint(maxWidth), 0, gray, resize.Bilinear)
	return FromImage(scaled)
}
