package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/scenecut/internal/pipeline"
	"github.com/kikiluvv/scenecut/pkg/util"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

func writeResult(w io.Writer, res *pipeline.Result, format outputFormat) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tSTART\tEND\tDURATION\n")
	for _, s := range res.Segments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			s.Index, util.FormatDuration(s.Start), util.FormatDuration(s.End()), util.FormatClock(s.Duration))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d segments over %s (engine %s, changes %g)\n",
		len(res.Segments), util.FormatClock(res.Duration), res.Engine, res.ChangesThreshold)
	return err
}
