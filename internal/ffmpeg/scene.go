package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kikiluvv/scenecut/pkg/util"
)

var ptsTimePattern = regexp.MustCompile(`pts_time:(\d+(?:\.\d+)?)`)

// DetectScenes asks ffmpeg's own scene filter for the timestamps of frames
// whose scene score exceeds threshold.
func (e *Executor) DetectScenes(ctx context.Context, input string, threshold float64) ([]time.Duration, error) {
	if input == "" {
		return nil, fmt.Errorf("input path is required")
	}

	e.logger.Info().
		Str("input", input).
		Float64("threshold", threshold).
		Msg("detecting scene changes")

	var showinfo strings.Builder
	err := e.Run(ctx, RunOptions{
		Args: []string{
			"-nostats",
			"-i", input,
			"-filter:v", NewFilterBuilder().SceneSelect(threshold).Build(),
			"-an",
			"-f", "null",
			"-",
		},
		LogHandler: func(line string) {
			if strings.HasPrefix(line, "[Parsed_showinfo") {
				showinfo.WriteString(line)
				showinfo.WriteByte('\n')
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	scenes, err := parseSceneOutput(showinfo.String())
	if err != nil {
		return nil, err
	}
	e.logger.Info().Int("scenes", len(scenes)).Msg("scene detection complete")
	return scenes, nil
}

// parseSceneOutput extracts scene change timestamps from showinfo lines.
// Lines without a pts_time are skipped; showinfo also reports stream info.
func parseSceneOutput(output string) ([]time.Duration, error) {
	var scenes []time.Duration

	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "[Parsed_showinfo") {
			continue
		}
		m := ptsTimePattern.FindAllStringSubmatch(line, -1)
		if len(m) == 0 {
			continue
		}
		raw := m[len(m)-1][1]
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: pts_time %q", ErrUnparsableOutput, raw)
		}
		scenes = append(scenes, time.Duration(seconds*float64(time.Second)).Round(time.Millisecond))
	}

	return scenes, nil
}

// ExtractFrame writes the frame at timestamp to output as an image; the
// format follows the output extension.
func (e *Executor) ExtractFrame(ctx context.Context, input, output string, timestamp time.Duration, width int) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Debug().
		Str("input", input).
		Str("output", output).
		Dur("timestamp", timestamp).
		Msg("extracting frame")

	args := []string{
		"-y",
		"-ss", util.FormatDuration(timestamp),
		"-i", input,
		"-frames:v", "1",
		"-q:v", "2", // high quality JPEG
	}
	if width > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", width))
	}
	args = append(args, output)

	return e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("frame extraction")
		},
	})
}
