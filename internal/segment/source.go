package segment

import (
	"context"
	"io"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// FrameSource yields one frame per second of playback. Next returns io.EOF
// once the stream is exhausted.
type FrameSource interface {
	Next(ctx context.Context) (*frame.Image, error)
}

// SliceSource serves frames from memory.
type SliceSource struct {
	frames []*frame.Image
	pos    int
}

func NewSliceSource(frames ...*frame.Image) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Next(ctx context.Context) (*frame.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Pulled reports how many frames have been handed out.
func (s *SliceSource) Pulled() int {
	return s.pos
}
