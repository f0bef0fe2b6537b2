package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Library errors
	ErrListingFailed      = fmt.Errorf("listing request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrFolderNotFound     = fmt.Errorf("folder not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrNoTracks           = fmt.Errorf("no songs found")

	// Playback errors
	ErrPlaybackFailed    = fmt.Errorf("playback failed")
	ErrUnsupportedFormat = fmt.Errorf("unsupported audio format")
	ErrIndexOutOfRange   = fmt.Errorf("index out of range")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
