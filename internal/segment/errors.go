package segment

import "errors"

var (
	// ErrUnknownDuration is returned when the declared duration is not positive.
	ErrUnknownDuration = errors.New("unknown video duration")
	// ErrFrameSource wraps failures while pulling a frame.
	ErrFrameSource = errors.New("frame source failure")
	// ErrInvalidOptions is returned for unusable driver or optimizer settings.
	ErrInvalidOptions = errors.New("invalid segmentation options")
)
