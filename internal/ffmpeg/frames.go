package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/frame"
)

// PixelFormat is an ffmpeg rawvideo pixel format the analysis can read.
type PixelFormat string

const (
	PixGray   PixelFormat = "gray"
	PixGray16 PixelFormat = "gray16be"
	PixBGR24  PixelFormat = "bgr24"
	PixARGB   PixelFormat = "argb"
)

// Layout maps the pixel format onto the frame model.
func (p PixelFormat) Layout() (frame.Layout, error) {
	switch p {
	case PixGray:
		return frame.LayoutGray8, nil
	case PixGray16:
		return frame.LayoutGray16, nil
	case PixBGR24:
		return frame.LayoutBGR24, nil
	case PixARGB:
		return frame.LayoutARGB32, nil
	}
	return frame.LayoutUnknown, fmt.Errorf("%w: %q", frame.ErrUnsupportedPixelFormat, string(p))
}

// FrameOptions configure OpenFrames.
type FrameOptions struct {
	// Rate is the sampling rate in frames per second; defaults to 1.
	Rate float64
	// Width scales frames down to at most this width, keeping the aspect ratio.
	Width       int
	PixelFormat PixelFormat
}

// FrameReader decodes a video into raw frames through an ffmpeg pipe. It
// satisfies segment.FrameSource.
type FrameReader struct {
	logger zerolog.Logger
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer

	width, height int
	layout        frame.Layout
	frameSize     int
	read          int

	closeOnce sync.Once
	waitErr   error
}

// OpenFrames starts ffmpeg decoding input at the requested rate. info must
// come from ProbeVideo so the frame geometry is known up front.
func (e *Executor) OpenFrames(ctx context.Context, info *VideoInfo, opts FrameOptions) (*FrameReader, error) {
	if info == nil || info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: unknown frame size", ErrNoVideoStream)
	}
	if opts.PixelFormat == "" {
		opts.PixelFormat = PixGray
	}
	layout, err := opts.PixelFormat.Layout()
	if err != nil {
		return nil, err
	}
	if opts.Rate <= 0 {
		opts.Rate = 1
	}

	w, h := outputSize(info.Width, info.Height, opts.Width)
	filter := NewFilterBuilder().
		FPS(opts.Rate).
		Scale(w, h).
		Format(opts.PixelFormat).
		Build()

	args := append(e.baseArgs("error"),
		"-i", info.FilePath,
		"-an", "-sn",
		"-vf", filter,
		"-f", "rawvideo",
		"-pix_fmt", string(opts.PixelFormat),
		"pipe:1",
	)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("opening frame pipe")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr := newTailBuffer(4096)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return &FrameReader{
		logger:    e.logger,
		cmd:       cmd,
		stdout:    stdout,
		stderr:    stderr,
		width:     w,
		height:    h,
		layout:    layout,
		frameSize: w * h * frame.BytesPerPixel(layout),
	}, nil
}

// outputSize fits the source into maxWidth with even dimensions.
func outputSize(width, height, maxWidth int) (int, int) {
	if maxWidth <= 0 || width <= maxWidth {
		return width, height
	}
	h := int(math.Round(float64(height) * float64(maxWidth) / float64(width)))
	h += h % 2
	return maxWidth, max(h, 2)
}

// Size returns the dimensions of the frames produced.
func (r *FrameReader) Size() (int, int) {
	return r.width, r.height
}

// Next returns the next frame, or io.EOF when ffmpeg is done.
func (r *FrameReader) Next(ctx context.Context) (*frame.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := frame.New(r.width, r.height, r.layout)
	if err != nil {
		return nil, err
	}

	_, err = io.ReadFull(r.stdout, img.Pix)
	switch {
	case err == nil:
		r.read++
		return img, nil
	case errors.Is(err, io.EOF):
		if werr := r.wait(); werr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("ffmpeg exited after %d frames: %w: %s", r.read, werr, r.stderr.String())
		}
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.wait()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("truncated frame %d: %s", r.read, r.stderr.String())
	default:
		return nil, fmt.Errorf("reading frame %d: %w", r.read, err)
	}
}

// Frames returns the number of frames read so far.
func (r *FrameReader) Frames() int {
	return r.read
}

func (r *FrameReader) wait() error {
	r.closeOnce.Do(func() {
		r.waitErr = r.cmd.Wait()
	})
	return r.waitErr
}

// Close stops ffmpeg if it is still running and releases the pipe.
func (r *FrameReader) Close() error {
	if r.cmd.ProcessState == nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.wait()
	r.logger.Debug().Int("frames", r.read).Msg("frame pipe closed")
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(bytes.TrimSpace(t.buf.Bytes()))
}
