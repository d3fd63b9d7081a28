// Package audio wraps the external ffmpeg/ffprobe tooling used to convert,
// probe, split and enhance audio files.
package audio

import (
	"errors"
)

// Common error kinds for the audio package. Callers classify failures with
// errors.Is; every returned error wraps exactly one of these.
var (
	// ErrNotFound indicates that an input file does not exist
	ErrNotFound = errors.New("input file not found")

	// ErrInvalidArgument indicates an invalid parameter such as a non-positive part count
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrToolFailure indicates that an external tool exited non-zero or produced no output file
	ErrToolFailure = errors.New("external tool failed")

	// ErrParseFailure indicates that tool output could not be parsed
	ErrParseFailure = errors.New("unparseable tool output")
)
