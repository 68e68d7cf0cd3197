package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kikiluvv/scenecut/pkg/util"
)

const (
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultCRF        = 23
)

// ExportOptions describe one segment written to its own file.
type ExportOptions struct {
	Start    time.Duration
	Duration time.Duration
	Output   string
	// Reencode cuts frame-accurately; stream copy snaps to keyframes.
	Reencode     bool
	CRF          int
	ProgressFunc ProgressFunc
}

// ExportSegment cuts [Start, Start+Duration) of input into opts.Output.
func (e *Executor) ExportSegment(ctx context.Context, input string, opts ExportOptions) error {
	args, err := exportArgs(input, opts)
	if err != nil {
		return err
	}

	e.logger.Debug().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", opts.Duration).
		Bool("reencode", opts.Reencode).
		Msg("exporting segment")

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("segment export")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("segment export failed: %w", err)
	}
	return nil
}

func exportArgs(input string, opts ExportOptions) ([]string, error) {
	if input == "" || opts.Output == "" {
		return nil, fmt.Errorf("input and output paths are required")
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("invalid segment duration %s", opts.Duration)
	}

	args := []string{
		"-y",
		"-ss", util.FormatDuration(opts.Start),
		"-i", input,
		"-t", util.FormatDuration(opts.Duration),
	}

	if !opts.Reencode {
		args = append(args, "-c", "copy", "-avoid_negative_ts", "make_zero")
	} else {
		crf := opts.CRF
		if crf == 0 {
			crf = DefaultCRF
		}
		args = append(args,
			"-c:v", DefaultVideoCodec,
			"-c:a", DefaultAudioCodec,
			"-crf", strconv.Itoa(crf),
		)
	}

	return append(args, opts.Output), nil
}
