package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kikiluvv/scenecut/internal/config"
	"github.com/kikiluvv/scenecut/internal/edge"
	"github.com/kikiluvv/scenecut/internal/frame"
	"github.com/kikiluvv/scenecut/internal/logging"
	"github.com/kikiluvv/scenecut/pkg/util"
)

var (
	edgesOutput    string
	edgesNormalize bool
)

var edgesCmd = &cobra.Command{
	Use:   "edges [input image]",
	Short: "Write the edge map of a still image as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		ec := cfg.EdgeConfig()
		if cmd.Flags().Changed("normalize") {
			ec.ContrastNormalized = edgesNormalize
		}

		out := edgesOutput
		if out == "" {
			out = util.ReplaceExt(args[0], ".edges.png")
		}

		count, err := writeEdgeMap(args[0], out, ec)
		if err != nil {
			return err
		}

		logger := logging.WithComponent("edges")
		logger.Info().
			Str("input", args[0]).
			Str("output", out).
			Int("edges", count).
			Msg("edge map written")
		return nil
	},
}

func init() {
	edgesCmd.Flags().StringVarP(&edgesOutput, "output", "o", "", "output PNG (default: <input>.edges.png)")
	edgesCmd.Flags().BoolVar(&edgesNormalize, "normalize", false, "equalize contrast before detecting edges")
}

// writeEdgeMap decodes input, runs the detector and encodes the map to output.
// It returns the number of edge pixels.
func writeEdgeMap(input, output string, cfg edge.Config) (int, error) {
	f, err := os.Open(input)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", input, err)
	}
	logger := logging.WithComponent("edges")
	logger.Debug().Str("format", format).Stringer("bounds", src.Bounds()).Msg("image decoded")

	img, err := frame.FromImage(src)
	if err != nil {
		return 0, err
	}
	edges, err := edge.Detect(img, cfg)
	if err != nil {
		return 0, err
	}

	dst, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	if err := png.Encode(dst, edges); err != nil {
		dst.Close()
		return 0, err
	}
	return edges.Count(), dst.Close()
}
