package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/compare"
	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/internal/logging"
	"github.com/kikiluvv/scenecut/internal/segment"
)

// prefilter is the shortest gap between two ffmpeg scene changes that still
// produces a cut before merging.
const prefilter = time.Second

// Pipeline orchestrates probing, frame decoding and segmentation.
type Pipeline struct {
	logger zerolog.Logger
	config *config.Config
	media  Media
	diff   compare.Differencer
}

// New creates a pipeline backed by the ffmpeg binaries named in cfg.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return NewWithMedia(logger, cfg, executorMedia{exec})
}

// NewWithMedia creates a pipeline over an arbitrary backend.
func NewWithMedia(logger zerolog.Logger, cfg *config.Config, media Media) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var diff compare.Differencer
	switch cfg.Segmenter.Compare {
	case config.CompareLuminance:
		diff = compare.NewLuminanceDifferencer(cfg.Segmenter.PixelTolerance, cfg.Segmenter.AnalysisWidth, logger)
	default:
		ed, err := compare.NewEdgeDifferencer(cfg.EdgeConfig(), cfg.Segmenter.AnalysisWidth, logger)
		if err != nil {
			return nil, err
		}
		diff = ed
	}

	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		config: cfg,
		media:  media,
		diff:   diff,
	}, nil
}

// Analyze segments the video at input.
func (p *Pipeline) Analyze(ctx context.Context, input string, opts AnalyzeOptions) (*Result, error) {
	if input == "" {
		return nil, ErrEmptyInput
	}

	started := time.Now()
	runID := logging.NewRunID()
	logger := logging.WithRun(p.logger, runID, input)
	seg := p.config.Segmenter

	logger.Info().
		Str("engine", seg.Engine).
		Str("compare", seg.Compare).
		Int("stability", seg.StabilityThreshold).
		Float64("changes", seg.ChangesThreshold).
		Msg("starting segmentation")

	info, err := p.media.ProbeVideo(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	duration := info.Duration
	if opts.Duration > 0 {
		duration = opts.Duration
	}
	total := int(math.Round(duration.Seconds()))
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s", segment.ErrUnknownDuration, input)
	}
	totalDur := time.Duration(total) * time.Second

	logger.Info().
		Dur("duration", totalDur).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Msg("video metadata extracted")

	var fn segment.SegmentFunc
	switch seg.Engine {
	case config.EngineFFmpeg:
		fn = p.sceneEngine(input, totalDur)
	default:
		fn = p.nativeEngine(info, total, logger, opts.Progress)
	}

	result := &Result{
		RunID:              runID,
		Input:              input,
		Engine:             seg.Engine,
		Duration:           totalDur,
		Video:              info,
		StabilityThreshold: seg.StabilityThreshold,
		ChangesThreshold:   seg.ChangesThreshold,
	}

	if p.config.Optimizer.Enabled {
		opt := p.config.SegmentOptimizer()
		opt.Logger = logger
		out, err := opt.Optimize(ctx, totalDur, seg.ChangesThreshold, fn)
		if err != nil {
			return nil, err
		}
		result.Segments = out.Segments
		result.ChangesThreshold = out.ChangesThreshold
		result.MergeThreshold = out.MergeThreshold
		result.Cycles = out.Cycles
		result.Uniform = out.Uniform
	} else {
		segments, err := fn(ctx, seg.ChangesThreshold)
		if err != nil {
			return nil, err
		}
		if seg.Engine == config.EngineFFmpeg {
			merge := time.Duration(seg.StabilityThreshold) * time.Second
			segments = segment.Filter(segments, totalDur, merge)
			result.MergeThreshold = merge
		}
		result.Segments = segments
	}

	if err := segment.Check(result.Segments, totalDur); err != nil {
		return nil, fmt.Errorf("inconsistent segmentation: %w", err)
	}

	result.Elapsed = time.Since(started)
	logger.Info().
		Int("segments", len(result.Segments)).
		Dur("elapsed", result.Elapsed).
		Msg("segmentation complete")
	return result, nil
}

// nativeEngine decodes the video once per call and runs the segment driver
// over it.
func (p *Pipeline) nativeEngine(info *ffmpeg.VideoInfo, total int, logger zerolog.Logger, progress func(int, int)) segment.SegmentFunc {
	pix := ffmpeg.PixelFormat(p.config.FFmpeg.PixelFormat)
	return func(ctx context.Context, changes float64) ([]segment.Segment, error) {
		driver, err := segment.NewDriver(segment.Options{
			StabilityThreshold: p.config.Segmenter.StabilityThreshold,
			ChangesThreshold:   changes,
			Differencer:        p.diff,
			Logger:             logger,
			Progress:           progress,
		})
		if err != nil {
			return nil, err
		}

		frames, err := p.media.OpenFrames(ctx, info, ffmpeg.FrameOptions{
			Rate:        1,
			Width:       p.config.Segmenter.AnalysisWidth,
			PixelFormat: pix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open frames: %w", err)
		}
		defer frames.Close()

		segs, err := driver.Run(ctx, frames, total)
		logger.Debug().
			Int("decoded", frames.Frames()).
			Int("expected", total).
			Float64("changes_threshold", changes).
			Msg("frame pass finished")
		return segs, err
	}
}

// sceneEngine delegates change detection to ffmpeg's scene score.
func (p *Pipeline) sceneEngine(input string, total time.Duration) segment.SegmentFunc {
	return func(ctx context.Context, changes float64) ([]segment.Segment, error) {
		times, err := p.media.DetectScenes(ctx, input, changes)
		if err != nil {
			return nil, err
		}
		return segment.FromBoundaries(times, total, prefilter), nil
	}
}
