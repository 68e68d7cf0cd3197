package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/internal/logging"
	"github.com/kikiluvv/scenecut/internal/pipeline"
	"github.com/kikiluvv/scenecut/pkg/util"
)

var segmentFlags struct {
	engine     string
	compare    string
	stability  int
	changes    float64
	optimize   bool
	preferred  int
	duration   string
	format     string
	previews   string
	export     string
	reencode   bool
	noProgress bool
}

var segmentCmd = &cobra.Command{
	Use:   "segment [input video]",
	Short: "Split a video into segments of stable picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		applySegmentFlags(cmd, cfg)

		format, err := parseFormat(segmentFlags.format)
		if err != nil {
			return err
		}

		opts := pipeline.AnalyzeOptions{}
		if segmentFlags.duration != "" {
			opts.Duration, err = util.ParseTimestamp(segmentFlags.duration)
			if err != nil {
				return fmt.Errorf("--duration: %w", err)
			}
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if !segmentFlags.noProgress {
			last := -1
			opts.Progress = func(read, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("Segmenting"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
					)
				}
				if read < last {
					bar.Reset()
				}
				last = read
				_ = bar.Set(read)
			}
		}

		result, err := pipe.Analyze(cmd.Context(), args[0], opts)
		if bar != nil {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			return err
		}

		if segmentFlags.previews != "" || segmentFlags.export != "" {
			if err := writeArtifacts(cmd, cfg, result); err != nil {
				return err
			}
		}

		return writeResult(cmd.OutOrStdout(), result, format)
	},
}

func init() {
	f := segmentCmd.Flags()
	f.StringVar(&segmentFlags.engine, "engine", "", "segmentation engine: native or ffmpeg")
	f.StringVar(&segmentFlags.compare, "compare", "", "frame comparison: edges or luminance")
	f.IntVarP(&segmentFlags.stability, "stability", "s", 0, "seconds a picture must hold to start a segment")
	f.Float64VarP(&segmentFlags.changes, "changes", "c", 0, "fraction of changed pixels that marks a new picture")
	f.BoolVar(&segmentFlags.optimize, "optimize", false, "adapt the changes threshold towards a preferred segment count")
	f.IntVar(&segmentFlags.preferred, "preferred", 0, "preferred number of segments when optimizing")
	f.StringVar(&segmentFlags.duration, "duration", "", "override the probed duration (HH:MM:SS or seconds)")
	f.StringVarP(&segmentFlags.format, "format", "f", "text", "output format: text, json or yaml")
	f.StringVar(&segmentFlags.previews, "previews", "", "write one preview image per segment into this directory")
	f.StringVar(&segmentFlags.export, "export", "", "cut every segment into its own file in this directory")
	f.BoolVar(&segmentFlags.reencode, "reencode", false, "re-encode exported segments for frame-accurate cuts")
	f.BoolVar(&segmentFlags.noProgress, "no-progress", false, "hide the progress bar")
}

// applySegmentFlags lets explicitly set flags win over the config file.
func applySegmentFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("engine") {
		cfg.Segmenter.Engine = segmentFlags.engine
	}
	if f.Changed("compare") {
		cfg.Segmenter.Compare = segmentFlags.compare
	}
	if f.Changed("stability") {
		cfg.Segmenter.StabilityThreshold = segmentFlags.stability
	}
	if f.Changed("changes") {
		cfg.Segmenter.ChangesThreshold = segmentFlags.changes
	}
	if f.Changed("optimize") {
		cfg.Optimizer.Enabled = segmentFlags.optimize
	}
	if f.Changed("preferred") {
		cfg.Optimizer.PreferredNumber = segmentFlags.preferred
	}
}

// writeArtifacts renders the optional per-segment preview stills and clips.
func writeArtifacts(cmd *cobra.Command, cfg *config.Config, result *pipeline.Result) error {
	exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
	if err != nil {
		return err
	}

	for _, dir := range []string{segmentFlags.previews, segmentFlags.export} {
		if dir == "" {
			continue
		}
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
	}

	ext := filepath.Ext(result.Input)
	if ext == "" {
		ext = ".mp4"
	}

	for _, s := range result.Segments {
		if segmentFlags.previews != "" {
			out := filepath.Join(segmentFlags.previews, fmt.Sprintf("segment-%03d.jpg", s.Index))
			if err := exec.ExtractFrame(cmd.Context(), result.Input, out, s.Start, cfg.Segmenter.AnalysisWidth); err != nil {
				return fmt.Errorf("preview for segment %d: %w", s.Index, err)
			}
		}
		if segmentFlags.export != "" {
			err := exec.ExportSegment(cmd.Context(), result.Input, ffmpeg.ExportOptions{
				Start:    s.Start,
				Duration: s.Duration,
				Output:   filepath.Join(segmentFlags.export, fmt.Sprintf("segment-%03d%s", s.Index, ext)),
				Reencode: segmentFlags.reencode,
			})
			if err != nil {
				return fmt.Errorf("export of segment %d: %w", s.Index, err)
			}
		}
	}

	logger := logging.WithComponent("cli")
	logger.Info().
		Str("previews", segmentFlags.previews).
		Str("export", segmentFlags.export).
		Int("segments", len(result.Segments)).
		Msg("segment artifacts written")
	return nil
}
