package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder assembles a linear -vf chain. Stages with unusable
// parameters are skipped so calls can be chained unconditionally.
type FilterBuilder struct {
	filters []string
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

func (fb *FilterBuilder) add(format string, args ...any) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf(format, args...))
	return fb
}

// FPS resamples the stream to a fixed frame rate
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	return fb.add("fps=%g", fps)
}

// Scale resizes to exactly width x height
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	return fb.add("scale=%d:%d", width, height)
}

// Format converts frames to the given pixel format
func (fb *FilterBuilder) Format(pixFmt PixelFormat) *FilterBuilder {
	if pixFmt == "" {
		return fb
	}
	return fb.add("format=%s", pixFmt)
}

// SceneSelect keeps only frames whose scene score exceeds threshold and
// reports them through showinfo.
func (fb *FilterBuilder) SceneSelect(threshold float64) *FilterBuilder {
	return fb.add(`select=gt(scene\,%g)`, threshold).add("showinfo")
}

// Build joins the chain with commas; an empty chain yields "".
func (fb *FilterBuilder) Build() string {
	return strings.Join(fb.filters, ",")
}
