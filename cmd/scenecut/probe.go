package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/ffmpeg"
	"github.com/kikiluvv/scenecut/pkg/util"
)

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Print the stream facts segmentation relies on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "file:      %s\n", info.FilePath)
		fmt.Fprintf(w, "duration:  %s (%s)\n", util.FormatDuration(info.Duration), util.FormatClock(info.Duration))
		fmt.Fprintf(w, "size:      %dx%d\n", info.Width, info.Height)
		fmt.Fprintf(w, "fps:       %.3f\n", info.FPS)
		fmt.Fprintf(w, "codec:     %s (%s)\n", info.VideoCodec, info.PixelFormat)
		fmt.Fprintf(w, "audio:     %t\n", info.HasAudio)
		return nil
	},
}
