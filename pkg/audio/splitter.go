package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/batchscribe/batchscribe/pkg/logger"
)

// SplitterImpl implements the Splitter interface
type SplitterImpl struct{}

// NewSplitter creates a new audio splitter
func NewSplitter() *SplitterImpl {
	return &SplitterImpl{}
}

// PlanSegments computes segment windows for the given total duration. Files
// no longer than max yield a single open-ended segment. Longer files are cut
// into equal integer-second parts; the sub-second remainder is absorbed into
// the final, open-ended segment so no audio is lost to truncation.
func (s *SplitterImpl) PlanSegments(total, max time.Duration) []Segment {
	if total <= max {
		return []Segment{{PartNumber: 1, Start: 0}}
	}

	// A bounded part must span at least one whole second: a zero-length
	// window would read as open-ended and overlap its successors. Cap the
	// part count at one part per second; when even that does not fit, the
	// file is transcribed whole.
	numParts := int(total/max) + 1
	if maxParts := int(total.Seconds()); numParts > maxParts {
		numParts = maxParts
	}
	if numParts <= 1 {
		return []Segment{{PartNumber: 1, Start: 0}}
	}

	segments, _ := s.PlanParts(total, numParts)
	return segments
}

// PlanParts computes numParts segment windows over the given total duration.
// The final segment is always open-ended.
func (s *SplitterImpl) PlanParts(total time.Duration, numParts int) ([]Segment, error) {
	if numParts < 1 {
		return nil, fmt.Errorf("%w: numParts must be at least 1, got %d", ErrInvalidArgument, numParts)
	}

	partDuration := time.Duration(int(total.Seconds())/numParts) * time.Second
	if numParts > 1 && partDuration == 0 {
		return nil, fmt.Errorf("%w: %v cannot be cut into %d integer-second parts", ErrInvalidArgument, total, numParts)
	}

	segments := make([]Segment, 0, numParts)
	for i := 1; i <= numParts; i++ {
		seg := Segment{
			PartNumber: i,
			Start:      time.Duration(i-1) * partDuration,
		}
		if i < numParts {
			seg.Length = partDuration
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// Split cuts the planned segments into standalone files under outputDir.
// Each cut stream-copies the source codec without re-encoding and overwrites
// any pre-existing file at the target path. A failed cut aborts the split:
// a missing segment would silently drop audio from the final transcript.
func (s *SplitterImpl) Split(inputPath, outputDir, prefix string, segments []Segment) ([]string, error) {
	log := logger.WithComponent("audio-splitter").WithField("file", filepath.Base(inputPath))

	if !fileExists(inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if prefix == "" {
		prefix = stem(inputPath)
	}

	paths := make([]string, 0, len(segments))
	for _, seg := range segments {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_part%02d%s", prefix, seg.PartNumber, filepath.Ext(inputPath)))

		log.Debug().
			Int("part", seg.PartNumber).
			Dur("start", seg.Start).
			Dur("length", seg.Length).
			Msg("cutting segment")

		inputArgs := ffmpeg.KwArgs{"ss": formatDuration(seg.Start)}
		if !seg.OpenEnded() {
			inputArgs["t"] = formatDuration(seg.Length)
		}

		err := ffmpeg.Input(inputPath, inputArgs).
			Output(outputPath, ffmpeg.KwArgs{"c": "copy"}).
			OverWriteOutput().ErrorToStdOut().Run()
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d cut: %v", ErrToolFailure, seg.PartNumber, err)
		}

		if !fileExists(outputPath) {
			return nil, fmt.Errorf("%w: segment %d not created: %s", ErrToolFailure, seg.PartNumber, outputPath)
		}

		paths = append(paths, outputPath)
	}

	log.Info().Int("parts", len(paths)).Msg("split completed")
	return paths, nil
}

// formatDuration formats a time.Duration for ffmpeg
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)
}

// stem returns the file name without its extension
func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
