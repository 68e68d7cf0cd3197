// Package frame holds the raster image model shared by the edge detector,
// the frame differencers and the segmentation driver.
package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPixelFormat is returned for layouts the analysis cannot read.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrEmptyImage is returned for images with a zero or negative dimension.
	ErrEmptyImage = errors.New("empty image")
	// ErrBufferSize is returned when Pix is too short for the declared geometry.
	ErrBufferSize = errors.New("pixel buffer too small")
)

// Layout identifies how pixels are packed in Image.Pix.
type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutARGB32 packs one big-endian 32-bit word per pixel: A, R, G, B.
	LayoutARGB32
	// LayoutGray8 stores one luminance byte per pixel.
	LayoutGray8
	// LayoutGray16 stores one big-endian 16-bit sample per pixel.
	LayoutGray16
	// LayoutBGR24 stores three bytes per pixel in B, G, R order.
	LayoutBGR24
)

func (l Layout) String() string {
	switch l {
	case LayoutARGB32:
		return "argb32"
	case LayoutGray8:
		return "gray8"
	case LayoutGray16:
		return "gray16"
	case LayoutBGR24:
		return "bgr24"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown layouts.
func BytesPerPixel(l Layout) int {
	switch l {
	case LayoutARGB32:
		return 4
	case LayoutGray8:
		return 1
	case LayoutGray16:
		return 2
	case LayoutBGR24:
		return 3
	default:
		return 0
	}
}

// Image is a raster frame. Each decode or conversion produces a fresh buffer;
// nothing downstream keeps a reference into another image's Pix.
type Image struct {
	Width  int
	Height int
	Layout Layout
	// Stride is the distance in bytes between vertically adjacent pixels.
	Stride int
	Pix    []byte
}

// New allocates a zeroed image with a tightly packed stride.
func New(width, height int, layout Layout) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	bpp := BytesPerPixel(layout)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, layout)
	}
	return &Image{
		Width:  width,
		Height: height,
		Layout: layout,
		Stride: width * bpp,
		Pix:    make([]byte, width*height*bpp),
	}, nil
}

// Validate checks geometry, layout and buffer length.
func (img *Image) Validate() error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return ErrEmptyImage
	}
	bpp := BytesPerPixel(img.Layout)
	if bpp == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, img.Layout)
	}
	if img.Stride < img.Width*bpp {
		return fmt.Errorf("%w: stride %d < %d", ErrBufferSize, img.Stride, img.Width*bpp)
	}
	need := img.Stride*(img.Height-1) + img.Width*bpp
	if len(img.Pix) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferSize, len(img.Pix), need)
	}
	return nil
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	out := *img
	out.Pix = append([]byte(nil), img.Pix...)
	return &out
}

// SameSize reports whether both images share width and height.
func SameSize(a, b *Image) bool {
	return a.Width == b.Width && a.Height == b.Height
}
