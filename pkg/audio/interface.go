package audio

import (
	"time"
)

// Segment is one bounded-duration slice of an audio file. PartNumber is
// 1-based; a zero Length marks the final, open-ended segment that extends to
// the end of the file.
type Segment struct {
	PartNumber int
	Start      time.Duration
	Length     time.Duration
}

// OpenEnded reports whether the segment extends to the end of the file
func (s Segment) OpenEnded() bool {
	return s.Length == 0
}

// Processor handles format conversion and duration probing
type Processor interface {
	// Duration returns the total duration of an audio/video file
	Duration(filePath string) (time.Duration, error)

	// ConvertToMP3 converts an audio/video file to an audio-only MP3
	ConvertToMP3(inputPath, outputPath string, quality int) error
}

// Splitter plans and executes duration-based file splits
type Splitter interface {
	// PlanSegments computes segment windows for the given total duration
	PlanSegments(total, max time.Duration) []Segment

	// Split cuts the planned segments into standalone files under outputDir
	Split(inputPath, outputDir, prefix string, segments []Segment) ([]string, error)
}

// Enhancer runs the audio enhancement filter chain
type Enhancer interface {
	// Enhance writes an enhanced copy of inputPath to outputPath
	Enhance(inputPath, outputPath string) error
}
