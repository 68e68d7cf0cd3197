package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/internal/segment"
)

// ErrEmptyInput is returned when Analyze is called without a path.
var ErrEmptyInput = errors.New("input path cannot be empty")

// Result is the outcome of one segmentation run.
type Result struct {
	RunID              string            `json:"run_id" yaml:"run_id"`
	Input              string            `json:"input" yaml:"input"`
	Engine             string            `json:"engine" yaml:"engine"`
	Duration           time.Duration     `json:"duration" yaml:"duration"`
	Video              *ffmpeg.VideoInfo `json:"video,omitempty" yaml:"video,omitempty"`
	StabilityThreshold int               `json:"stability_threshold" yaml:"stability_threshold"`
	ChangesThreshold   float64           `json:"changes_threshold" yaml:"changes_threshold"`
	MergeThreshold     time.Duration     `json:"merge_threshold,omitempty" yaml:"merge_threshold,omitempty"`
	Cycles             int               `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Uniform            bool              `json:"uniform,omitempty" yaml:"uniform,omitempty"`
	Segments           []segment.Segment `json:"segments" yaml:"segments"`
	Elapsed            time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// AnalyzeOptions configures a single run.
type AnalyzeOptions struct {
	// Duration overrides the probed container duration when positive.
	Duration time.Duration
	// Progress receives the number of frames read and the total to read. It
	// restarts from one for every optimizer pass.
	Progress func(read, total int)
}

// Frames is a decoded frame stream that must be closed.
type Frames interface {
	segment.FrameSource
	// Frames returns how many frames the stream has produced.
	Frames() int
	Close() error
}

// Media is the video backend the pipeline drives.
type Media interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	DetectScenes(ctx context.Context, input string, threshold float64) ([]time.Duration, error)
	OpenFrames(ctx context.Context, info *ffmpeg.VideoInfo, opts ffmpeg.FrameOptions) (Frames, error)
}

// executorMedia adapts *ffmpeg.Executor to Media.
type executorMedia struct {
	*ffmpeg.Executor
}

func (m executorMedia) OpenFrames(ctx context.Context, info *ffmpeg.VideoInfo, opts ffmpeg.FrameOptions) (Frames, error) {
	r, err := m.Executor.OpenFrames(ctx, info, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}
