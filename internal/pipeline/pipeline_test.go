package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/internal/frame"
	"github.com/kikiluvv/scenecut/internal/segment"
)

// fakeMedia serves flat gray frames; each entry of values is one second.
type fakeMedia struct {
	info      ffmpeg.VideoInfo
	values    []byte
	scenes    []time.Duration
	probeErr  error
	framesErr error

	opened     int
	closed     int
	thresholds []float64
	lastOpts   ffmpeg.FrameOptions
}

func (m *fakeMedia) ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error) {
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	info := m.info
	info.FilePath = path
	return &info, nil
}

func (m *fakeMedia) DetectScenes(ctx context.Context, input string, threshold float64) ([]time.Duration, error) {
	m.thresholds = append(m.thresholds, threshold)
	return m.scenes, nil
}

func (m *fakeMedia) OpenFrames(ctx context.Context, info *ffmpeg.VideoInfo, opts ffmpeg.FrameOptions) (Frames, error) {
	m.opened++
	m.lastOpts = opts
	var frames []*frame.Image
	for _, v := range m.values {
		img, err := frame.New(16, 16, frame.LayoutGray8)
		if err != nil {
			return nil, err
		}
		for i := range img.Pix {
			img.Pix[i] = v
		}
		frames = append(frames, img)
	}
	return &closingSource{SliceSource: segment.NewSliceSource(frames...), media: m, err: m.framesErr}, nil
}

type closingSource struct {
	*segment.SliceSource
	media *fakeMedia
	err   error
}

func (s *closingSource) Next(ctx context.Context) (*frame.Image, error) {
	if s.err != nil && s.Pulled() == 3 {
		return nil, s.err
	}
	return s.SliceSource.Next(ctx)
}

func (s *closingSource) Frames() int {
	return s.Pulled()
}

func (s *closingSource) Close() error {
	s.media.closed++
	return nil
}

// twoScenes is black up to second cut and light gray afterwards.
func twoScenes(total, cut int) []byte {
	values := make([]byte, total)
	for i := cut; i < total; i++ {
		values[i] = 200
	}
	return values
}

func testConfig(engine string) *config.Config {
	cfg := config.Default()
	cfg.Segmenter.Engine = engine
	cfg.Segmenter.StabilityThreshold = 5
	cfg.Segmenter.Compare = config.CompareLuminance
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config, media Media) *Pipeline {
	t.Helper()
	p, err := NewWithMedia(zerolog.Nop(), cfg, media)
	if err != nil {
		t.Fatalf("NewWithMedia failed: %v", err)
	}
	return p
}

func spans(segments []segment.Segment) string {
	out := ""
	for _, s := range segments {
		out += fmt.Sprintf("[%v %v)", s.Start.Seconds(), s.End().Seconds())
	}
	return out
}

func TestNativeEngine(t *testing.T) {
	media := &fakeMedia{
		info:   ffmpeg.VideoInfo{Duration: 30 * time.Second, Width: 16, Height: 16},
		values: twoScenes(30, 12),
	}
	p := newTestPipeline(t, testConfig(config.EngineNative), media)

	var calls int
	res, err := p.Analyze(context.Background(), "lecture.mp4", AnalyzeOptions{
		Progress: func(second, total int) { calls++ },
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if got := spans(res.Segments); got != "[0 12)[12 30)" {
		t.Errorf("segments = %s", got)
	}
	if res.Duration != 30*time.Second || res.Engine != config.EngineNative || res.RunID == "" {
		t.Errorf("unexpected result header %+v", res)
	}
	if media.opened != 1 || media.closed != 1 {
		t.Errorf("frames opened %d closed %d", media.opened, media.closed)
	}
	if media.lastOpts.Rate != 1 || media.lastOpts.Width != 320 || media.lastOpts.PixelFormat != ffmpeg.PixGray {
		t.Errorf("unexpected frame options %+v", media.lastOpts)
	}
	if calls == 0 {
		t.Error("progress never reported")
	}
}

func TestEdgeCompareMode(t *testing.T) {
	media := &fakeMedia{
		info:   ffmpeg.VideoInfo{Duration: 20 * time.Second, Width: 16, Height: 16},
		values: make([]byte, 20),
	}
	cfg := testConfig(config.EngineNative)
	cfg.Segmenter.Compare = config.CompareEdges
	res, err := newTestPipeline(t, cfg, media).Analyze(context.Background(), "flat.mp4", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got := spans(res.Segments); got != "[0 20)" {
		t.Errorf("segments = %s", got)
	}
}

func TestSceneEngine(t *testing.T) {
	media := &fakeMedia{
		info:   ffmpeg.VideoInfo{Duration: 30 * time.Second, Width: 16, Height: 16},
		scenes: []time.Duration{3 * time.Second, 12400 * time.Millisecond, 20 * time.Second},
	}
	p := newTestPipeline(t, testConfig(config.EngineFFmpeg), media)

	res, err := p.Analyze(context.Background(), "lecture.mp4", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got := spans(res.Segments); got != "[0 12)[12 20)[20 30)" {
		t.Errorf("segments = %s", got)
	}
	if len(media.thresholds) != 1 || media.thresholds[0] != 0.025 {
		t.Errorf("scene thresholds = %v", media.thresholds)
	}
	if media.opened != 0 {
		t.Error("scene engine should not decode frames")
	}
	if res.MergeThreshold != 5*time.Second {
		t.Errorf("merge threshold = %s", res.MergeThreshold)
	}
}

func TestOptimizedRun(t *testing.T) {
	media := &fakeMedia{
		info:   ffmpeg.VideoInfo{Duration: 30 * time.Second, Width: 16, Height: 16},
		scenes: []time.Duration{10 * time.Second, 20 * time.Second},
	}
	cfg := testConfig(config.EngineFFmpeg)
	cfg.Optimizer.Enabled = true
	cfg.Optimizer.PreferredNumber = 3

	res, err := newTestPipeline(t, cfg, media).Analyze(context.Background(), "lecture.mp4", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got := spans(res.Segments); got != "[0 10)[10 20)[20 30)" {
		t.Errorf("segments = %s", got)
	}
	if res.Cycles != 1 || res.Uniform || res.MergeThreshold != 5*time.Second {
		t.Errorf("unexpected optimizer outcome %+v", res)
	}
}

func TestDurationOverride(t *testing.T) {
	media := &fakeMedia{
		info:   ffmpeg.VideoInfo{Width: 16, Height: 16},
		values: make([]byte, 10),
	}
	p := newTestPipeline(t, testConfig(config.EngineNative), media)

	if _, err := p.Analyze(context.Background(), "live.ts", AnalyzeOptions{}); !errors.Is(err, segment.ErrUnknownDuration) {
		t.Fatalf("expected ErrUnknownDuration, got %v", err)
	}

	res, err := p.Analyze(context.Background(), "live.ts", AnalyzeOptions{Duration: 9600 * time.Millisecond})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Duration != 10*time.Second || spans(res.Segments) != "[0 10)" {
		t.Errorf("unexpected result %s over %s", spans(res.Segments), res.Duration)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	boom := errors.New("boom")

	p := newTestPipeline(t, testConfig(config.EngineNative), &fakeMedia{probeErr: boom})
	if _, err := p.Analyze(context.Background(), "", AnalyzeOptions{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := p.Analyze(context.Background(), "x.mp4", AnalyzeOptions{}); !errors.Is(err, boom) {
		t.Errorf("expected probe error, got %v", err)
	}

	media := &fakeMedia{
		info:      ffmpeg.VideoInfo{Duration: 30 * time.Second, Width: 16, Height: 16},
		values:    make([]byte, 30),
		framesErr: boom,
	}
	p = newTestPipeline(t, testConfig(config.EngineNative), media)
	res, err := p.Analyze(context.Background(), "x.mp4", AnalyzeOptions{})
	if !errors.Is(err, segment.ErrFrameSource) || !errors.Is(err, boom) || res != nil {
		t.Errorf("expected wrapped frame source error, got %v", err)
	}
	if media.closed != 1 {
		t.Error("frames not closed after failure")
	}

	empty := &fakeMedia{info: ffmpeg.VideoInfo{Duration: 30 * time.Second, Width: 16, Height: 16}}
	p = newTestPipeline(t, testConfig(config.EngineNative), empty)
	if res, err := p.Analyze(context.Background(), "x.mp4", AnalyzeOptions{}); !errors.Is(err, segment.ErrFrameSource) || res != nil {
		t.Errorf("expected ErrFrameSource when nothing is decoded, got %v %v", res, err)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := testConfig(config.EngineNative)
	cfg.Segmenter.ChangesThreshold = -1
	if _, err := NewWithMedia(zerolog.Nop(), cfg, &fakeMedia{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}
