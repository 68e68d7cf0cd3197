package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/scenecut/internal/compare"
	"github.com/kikiluvv/scenecut/internal/edge"
	"github.com/kikiluvv/scenecut/internal/segment"
)

type contextKey string

const configKey contextKey = "config"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Engines and compare modes accepted by the segmenter section.
const (
	EngineNative = "native"
	EngineFFmpeg = "ffmpeg"

	CompareEdges     = "edges"
	CompareLuminance = "luminance"
)

// Config holds all application configuration
type Config struct {
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Detector  DetectorConfig  `yaml:"detector"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	Threads     int    `yaml:"threads"`
	PixelFormat string `yaml:"pixel_format"`
}

type DetectorConfig struct {
	LowThreshold       float64 `yaml:"low_threshold"`
	HighThreshold      float64 `yaml:"high_threshold"`
	KernelRadius       float64 `yaml:"kernel_radius"`
	KernelWidth        int     `yaml:"kernel_width"`
	ContrastNormalized bool    `yaml:"contrast_normalized"`
}

type SegmenterConfig struct {
	Engine             string  `yaml:"engine"`
	StabilityThreshold int     `yaml:"stability_threshold"`
	ChangesThreshold   float64 `yaml:"changes_threshold"`
	Compare            string  `yaml:"compare"`
	AnalysisWidth      int     `yaml:"analysis_width"`
	PixelTolerance     int     `yaml:"pixel_tolerance"`
}

type OptimizerConfig struct {
	Enabled           bool    `yaml:"enabled"`
	PreferredNumber   int     `yaml:"preferred_number"`
	MaxCycles         int     `yaml:"max_cycles"`
	MaxError          float64 `yaml:"max_error"`
	AbsoluteMin       int     `yaml:"absolute_min"`
	AbsoluteMax       int     `yaml:"absolute_max"`
	DurationDependent bool    `yaml:"duration_dependent"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks every section against the limits of the components it
// configures.
func (c *Config) Validate() error {
	if err := c.EdgeConfig().Validate(); err != nil {
		return fmt.Errorf("%w: detector: %w", ErrInvalid, err)
	}

	s := c.Segmenter
	switch s.Engine {
	case EngineNative, EngineFFmpeg:
	default:
		return fmt.Errorf("%w: segmenter.engine %q", ErrInvalid, s.Engine)
	}
	switch s.Compare {
	case CompareEdges, CompareLuminance:
	default:
		return fmt.Errorf("%w: segmenter.compare %q", ErrInvalid, s.Compare)
	}
	if s.StabilityThreshold < 1 {
		return fmt.Errorf("%w: segmenter.stability_threshold must be at least 1", ErrInvalid)
	}
	if s.ChangesThreshold < 0 || s.ChangesThreshold > 1 {
		return fmt.Errorf("%w: segmenter.changes_threshold must be within [0, 1]", ErrInvalid)
	}

	if c.Optimizer.Enabled {
		if err := c.SegmentOptimizer().Validate(); err != nil {
			return fmt.Errorf("%w: optimizer: %w", ErrInvalid, err)
		}
	}
	return nil
}

// EdgeConfig converts the detector section.
func (c *Config) EdgeConfig() edge.Config {
	return edge.Config{
		LowThreshold:       c.Detector.LowThreshold,
		HighThreshold:      c.Detector.HighThreshold,
		KernelRadius:       c.Detector.KernelRadius,
		KernelWidth:        c.Detector.KernelWidth,
		ContrastNormalized: c.Detector.ContrastNormalized,
	}
}

// SegmentOptimizer converts the optimizer section. The logger is left for the
// caller to set.
func (c *Config) SegmentOptimizer() segment.Optimizer {
	return segment.Optimizer{
		PreferredNumber:    c.Optimizer.PreferredNumber,
		MaxCycles:          c.Optimizer.MaxCycles,
		MaxError:           c.Optimizer.MaxError,
		AbsoluteMin:        c.Optimizer.AbsoluteMin,
		AbsoluteMax:        c.Optimizer.AbsoluteMax,
		DurationDependent:  c.Optimizer.DurationDependent,
		StabilityThreshold: c.Segmenter.StabilityThreshold,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	ec := edge.DefaultConfig()
	return &Config{
		FFmpeg: FFmpegConfig{
			BinaryPath:  "ffmpeg",
			ProbePath:   "ffprobe",
			Threads:     0,
			PixelFormat: "gray",
		},
		Detector: DetectorConfig{
			LowThreshold:       ec.LowThreshold,
			HighThreshold:      ec.HighThreshold,
			KernelRadius:       ec.KernelRadius,
			KernelWidth:        ec.KernelWidth,
			ContrastNormalized: ec.ContrastNormalized,
		},
		Segmenter: SegmenterConfig{
			Engine:             EngineNative,
			StabilityThreshold: segment.DefaultStabilityThreshold,
			ChangesThreshold:   segment.DefaultChangesThreshold,
			Compare:            CompareEdges,
			AnalysisWidth:      compare.DefaultAnalysisWidth,
			PixelTolerance:     compare.DefaultPixelTolerance,
		},
		Optimizer: OptimizerConfig{
			Enabled:         false,
			PreferredNumber: segment.DefaultPreferredNumber,
			MaxCycles:       segment.DefaultMaxCycles,
			MaxError:        segment.DefaultMaxError,
			AbsoluteMin:     segment.DefaultAbsoluteMin,
			AbsoluteMax:     segment.DefaultAbsoluteMax,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./scenecut.yaml",
		"./scenecut.yml",
		filepath.Join(os.Getenv("HOME"), ".scenecut", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
