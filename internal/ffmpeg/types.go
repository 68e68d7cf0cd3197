package ffmpeg

import (
	"errors"
	"time"
)

var (
	// ErrBinaryNotFound is returned when ffmpeg or ffprobe cannot be located.
	ErrBinaryNotFound = errors.New("binary not found")
	// ErrNoVideoStream is returned for inputs without a video stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrUnparsableOutput is returned when ffmpeg output cannot be interpreted.
	ErrUnparsableOutput = errors.New("unparsable ffmpeg output")
)

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath    string        `json:"file" yaml:"file"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Width       int           `json:"width" yaml:"width"`
	Height      int           `json:"height" yaml:"height"`
	FPS         float64       `json:"fps" yaml:"fps"`
	VideoCodec  string        `json:"codec" yaml:"codec"`
	PixelFormat string        `json:"pix_fmt" yaml:"pix_fmt"`
	Bitrate     int64         `json:"bitrate,omitempty" yaml:"bitrate,omitempty"`
	HasAudio    bool          `json:"has_audio" yaml:"has_audio"`
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// ProgressFunc is called periodically while ffmpeg runs.
type ProgressFunc func(*Progress)
