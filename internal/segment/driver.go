package segment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/compare"
	"github.com/kikiluvv/scenecut/internal/frame"
)

const (
	DefaultStabilityThreshold = 60
	DefaultChangesThreshold   = 0.025
)

// Options configure a Driver.
type Options struct {
	// StabilityThreshold is how many seconds a new picture has to hold before
	// it starts a segment. It is also the look-ahead jump width.
	StabilityThreshold int
	// ChangesThreshold is handed to the Differencer on every comparison.
	ChangesThreshold float64
	Differencer      compare.Differencer
	Logger           zerolog.Logger
	// Progress is called after every frame taken from the source.
	Progress func(second, total int)
}

// Validate reports settings the driver cannot run with.
func (o Options) Validate() error {
	if o.StabilityThreshold < 1 {
		return fmt.Errorf("%w: stability threshold %d < 1", ErrInvalidOptions, o.StabilityThreshold)
	}
	if o.ChangesThreshold < 0 || o.ChangesThreshold > 1 {
		return fmt.Errorf("%w: changes threshold %v outside [0, 1]", ErrInvalidOptions, o.ChangesThreshold)
	}
	if o.Differencer == nil {
		return fmt.Errorf("%w: no differencer", ErrInvalidOptions)
	}
	return nil
}

// Driver walks a frame stream and cuts it into segments.
type Driver struct {
	opts   Options
	logger zerolog.Logger
}

func NewDriver(opts Options) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Driver{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "segmenter").Logger(),
	}, nil
}

// Run consumes src until it ends or totalSeconds frames have been read and
// returns segments covering [0, totalSeconds). On error no segments are
// returned.
func (d *Driver) Run(ctx context.Context, src FrameSource, totalSeconds int) ([]Segment, error) {
	if totalSeconds <= 0 {
		return nil, fmt.Errorf("%w: %d seconds", ErrUnknownDuration, totalSeconds)
	}

	r := &run{
		opts:       d.opts,
		logger:     d.logger,
		src:        src,
		total:      totalSeconds,
		state:      Scanning,
		buf:        NewLookaheadBuffer(d.opts.StabilityThreshold),
		t:          -1,
		lastStable: -1,
	}
	if err := r.execute(ctx); err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("segments", len(r.segments)).
		Int("frames", r.pulled).
		Int("comparisons", r.comparisons).
		Msg("segmentation finished")
	return r.segments, nil
}

// Split is the one-shot form of NewDriver followed by Run.
func Split(ctx context.Context, src FrameSource, totalSeconds, stabilityThreshold int, changesThreshold float64, diff compare.Differencer) ([]Segment, error) {
	d, err := NewDriver(Options{
		StabilityThreshold: stabilityThreshold,
		ChangesThreshold:   changesThreshold,
		Differencer:        diff,
		Logger:             zerolog.Nop(),
	})
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, src, totalSeconds)
}

// run is the state of one Driver.Run call.
type run struct {
	opts   Options
	logger zerolog.Logger
	src    FrameSource
	total  int

	state State
	buf   *LookaheadBuffer
	// replay holds frames that were skipped by a jump and must be revisited
	// one second at a time. They always precede the next source frame.
	replay []*frame.Image
	pulled int
	// t is the second of the frame handled last.
	t int

	ref        *frame.Image
	lastStable int

	candidate      *frame.Image
	candidateStart int
	count          int

	segStart    int
	segments    []Segment
	comparisons int
	done        bool
}

func (r *run) execute(ctx context.Context) error {
	for !r.done {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		if r.state == LookingAhead {
			err = r.lookAhead(ctx)
		} else {
			err = r.step(ctx)
		}
		if err != nil {
			return err
		}
	}
	r.closeSegment(r.total)
	return nil
}

// pull reads the next frame from the source. Frames past the declared
// duration are treated as end of stream.
func (r *run) pull(ctx context.Context) (*frame.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.pulled >= r.total {
		return nil, io.EOF
	}

	f, err := r.src.Next(ctx)
	switch {
	case errors.Is(err, io.EOF):
		if r.pulled == 0 {
			return nil, fmt.Errorf("%w: no frames decoded", ErrFrameSource)
		}
		ev := r.logger.Debug()
		if r.total-r.pulled > 1 {
			ev = r.logger.Warn()
		}
		ev.Int("pulled", r.pulled).Int("expected", r.total).Msg("frame source ended early")
		return nil, io.EOF
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w at second %d: %w", ErrFrameSource, r.pulled, err)
	case f == nil:
		return nil, fmt.Errorf("%w at second %d: nil frame", ErrFrameSource, r.pulled)
	}

	r.pulled++
	if r.opts.Progress != nil {
		r.opts.Progress(r.pulled, r.total)
	}
	return f, nil
}

// take returns the next unseen frame, pending replay first.
func (r *run) take(ctx context.Context) (*frame.Image, error) {
	if len(r.replay) > 0 {
		f := r.replay[0]
		r.replay[0] = nil
		r.replay = r.replay[1:]
		return f, nil
	}
	return r.pull(ctx)
}

func (r *run) differs(a, b *frame.Image, second int) (bool, error) {
	r.comparisons++
	changed, err := r.opts.Differencer.IsDifferent(a, b, second, r.opts.ChangesThreshold)
	if err != nil {
		return false, fmt.Errorf("compare frame at second %d: %w", second, err)
	}
	return changed, nil
}

func (r *run) setState(next State, second int) {
	if next == r.state {
		return
	}
	r.logger.Debug().
		Int("second", second).
		Stringer("from", r.state).
		Stringer("to", next).
		Msg("state change")
	r.state = next
}

// stable records img as the reference picture seen at second.
func (r *run) stable(img *frame.Image, second int) {
	r.ref = img
	r.lastStable = second
}

// step handles one frame in sequence for every state except LookingAhead.
func (r *run) step(ctx context.Context) error {
	img, err := r.take(ctx)
	if errors.Is(err, io.EOF) {
		r.done = true
		return nil
	}
	if err != nil {
		return err
	}
	r.t++
	second := r.t

	if r.state == ConfirmingChange {
		return r.confirming(img, second)
	}
	if r.ref == nil {
		// the opening frame is the first reference
		r.stable(img, second)
		r.setState(LookingAhead, second)
		return nil
	}

	changed, err := r.differs(r.ref, img, second)
	if err != nil {
		return err
	}
	if changed {
		r.startCandidate(img, second)
		return nil
	}

	r.stable(img, second)
	if len(r.replay) == 0 {
		r.setState(LookingAhead, second)
	}
	return nil
}

func (r *run) confirming(img *frame.Image, second int) error {
	changed, err := r.differs(r.candidate, img, second)
	if err != nil {
		return err
	}
	if !changed {
		r.count++
		if r.count >= r.opts.StabilityThreshold {
			r.confirm(img, second)
		}
		return nil
	}

	back, err := r.differs(r.ref, img, second)
	if err != nil {
		return err
	}
	if !back {
		r.logger.Debug().
			Int("second", second).
			Int("candidate", r.candidateStart).
			Int("held", r.count).
			Msg("transient change absorbed")
		r.candidate = nil
		r.stable(img, second)
		r.setState(LookingAhead, second)
		return nil
	}
	r.startCandidate(img, second)
	return nil
}

func (r *run) startCandidate(img *frame.Image, second int) {
	r.candidate = img
	r.candidateStart = second
	r.count = 1
	r.setState(ConfirmingChange, second)
	if r.count >= r.opts.StabilityThreshold {
		r.confirm(img, second)
	}
}

// confirm accepts the candidate. The cut lands on the candidate's first
// second; inside the first threshold seconds the opening segment absorbs it.
func (r *run) confirm(img *frame.Image, second int) {
	boundary := r.candidateStart
	if boundary >= r.opts.StabilityThreshold && boundary > r.segStart {
		r.closeSegment(boundary)
	}
	r.candidate = nil
	r.stable(img, second)
	r.setState(LookingAhead, second)
}

// lookAhead jumps from the stable reference over the next threshold seconds,
// keeping the skipped frames, and compares the frame it lands on.
func (r *run) lookAhead(ctx context.Context) error {
	anchor := r.lastStable
	n, err := r.buf.Refill(ctx, r.ref, r.take)
	if err != nil {
		return err
	}
	if n == 0 {
		r.done = true
		return nil
	}

	target := r.buf.Last()
	second := anchor + n
	r.t = second

	changed, err := r.differs(r.ref, target, second)
	if err != nil {
		return err
	}
	if !changed {
		r.stable(target, second)
		return nil
	}

	if second-anchor > 1 {
		skipped := r.buf.Drain()[1:]
		r.replay = append(skipped, r.replay...)
		r.t = anchor
		r.logger.Debug().
			Int("stable", anchor).
			Int("landed", second).
			Msg("jump overshot a change, rewinding")
		r.setState(LuckyPunchRecovery, anchor)
		return nil
	}

	r.buf.Clear()
	r.startCandidate(target, second)
	return nil
}

func (r *run) closeSegment(end int) {
	if end <= r.segStart {
		return
	}
	s := Segment{
		Index:    len(r.segments) + 1,
		Start:    seconds(r.segStart),
		Duration: seconds(end - r.segStart),
	}
	r.segments = append(r.segments, s)
	r.logger.Info().
		Int("index", s.Index).
		Dur("start", s.Start).
		Dur("duration", s.Duration).
		Msg("segment closed")
	r.segStart = end
}
