package segment

import (
	"context"
	"errors"
	"io"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// LookaheadBuffer holds the frames skipped by one look-ahead jump so the
// driver can rewind over them. Every refill discards the previous contents.
type LookaheadBuffer struct {
	frames []*frame.Image
	size   int
}

// NewLookaheadBuffer returns a buffer for a stability threshold: one slot for
// the anchor frame plus one per skipped second.
func NewLookaheadBuffer(stabilityThreshold int) *LookaheadBuffer {
	n := stabilityThreshold + 1
	return &LookaheadBuffer{
		frames: make([]*frame.Image, 0, n),
		size:   n,
	}
}

func (b *LookaheadBuffer) Len() int { return len(b.frames) }

func (b *LookaheadBuffer) Cap() int { return b.size }

// Push appends f and reports false when the buffer is full.
func (b *LookaheadBuffer) Push(f *frame.Image) bool {
	if len(b.frames) >= b.size {
		return false
	}
	b.frames = append(b.frames, f)
	return true
}

// Pop removes and returns the oldest frame, or nil when empty.
func (b *LookaheadBuffer) Pop() *frame.Image {
	if len(b.frames) == 0 {
		return nil
	}
	f := b.frames[0]
	b.frames[0] = nil
	b.frames = b.frames[1:]
	return f
}

// Last returns the newest frame without removing it.
func (b *LookaheadBuffer) Last() *frame.Image {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// Clear drops all buffered frames.
func (b *LookaheadBuffer) Clear() {
	clear(b.frames)
	if cap(b.frames) < b.size {
		b.frames = make([]*frame.Image, 0, b.size)
		return
	}
	b.frames = b.frames[:0]
}

// Drain removes and returns all buffered frames, oldest first.
func (b *LookaheadBuffer) Drain() []*frame.Image {
	out := append([]*frame.Image(nil), b.frames...)
	b.Clear()
	return out
}

// Refill clears the buffer, stores current and then pulls until the buffer is
// full or pull reports io.EOF. It returns the number of frames pulled.
func (b *LookaheadBuffer) Refill(ctx context.Context, current *frame.Image, pull func(context.Context) (*frame.Image, error)) (int, error) {
	b.Clear()
	b.Push(current)

	n := 0
	for b.Len() < b.size {
		f, err := pull(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		b.Push(f)
		n++
	}
	return n, nil
}
