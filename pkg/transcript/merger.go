package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/batchscribe/batchscribe/pkg/logger"
)

// Part is the transcription output for one segment. Either path may be empty
// when the recognizer produced nothing for that format.
type Part struct {
	PartNumber   int
	TextPath     string
	SubtitlePath string
}

// Merger combines per-segment transcript parts into one pair of output files
type Merger interface {
	// Merge writes the combined plain-text and subtitle files
	Merge(parts []Part, outputTxt, outputSRT string) error
}

// MergerImpl implements the Merger interface
type MergerImpl struct{}

// NewMerger creates a new transcript merger
func NewMerger() *MergerImpl {
	return &MergerImpl{}
}

// Merge combines the parts in part-number order and writes one merged .txt
// and one merged .srt. PartNumber is the sole sort key; filesystem discovery
// order is never trusted.
func (m *MergerImpl) Merge(parts []Part, outputTxt, outputSRT string) error {
	log := logger.WithComponent("merger").WithField("output", filepath.Base(outputTxt))

	sorted := make([]Part, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	text, err := m.mergeText(sorted)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputTxt, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write merged text: %w", err)
	}

	subtitles, err := m.mergeSubtitles(sorted)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputSRT, []byte(subtitles), 0o644); err != nil {
		return fmt.Errorf("failed to write merged subtitles: %w", err)
	}

	log.Info().Int("parts", len(sorted)).Msg("transcripts merged")
	return nil
}

// mergeText concatenates the parts' text contents with exactly one blank
// line between adjacent non-empty parts. Parts without a text file
// contribute nothing, not even a separator.
func (m *MergerImpl) mergeText(parts []Part) (string, error) {
	var pieces []string
	for _, part := range parts {
		if part.TextPath == "" || !fileExists(part.TextPath) {
			continue
		}

		content, err := os.ReadFile(part.TextPath)
		if err != nil {
			return "", fmt.Errorf("failed to read text part %d: %w", part.PartNumber, err)
		}
		pieces = append(pieces, string(content))
	}

	return strings.Join(pieces, "\n"), nil
}

// mergeSubtitles concatenates the parts' subtitle entries, renumbering cues
// sequentially from 1 and shifting each part's timestamps by a cumulative
// offset. The offset entering part k is the shifted end time of the last cue
// in part k-1, not the nominal segment boundary: the recognizer's final cue
// may end well before the cut point, and trusting the boundary instead would
// double-count that trailing silence. Parts with no cues leave the offset
// unchanged.
func (m *MergerImpl) mergeSubtitles(parts []Part) (string, error) {
	var lines []string
	var cumulativeOffset time.Duration
	nextIndex := 1

	for _, part := range parts {
		if part.SubtitlePath == "" || !fileExists(part.SubtitlePath) {
			continue
		}

		content, err := os.ReadFile(part.SubtitlePath)
		if err != nil {
			return "", fmt.Errorf("failed to read subtitle part %d: %w", part.PartNumber, err)
		}

		var lastEndTime time.Duration
		for _, line := range splitLines(string(content)) {
			switch ClassifyLine(strings.TrimSpace(line)) {
			case LineIndex:
				lines = append(lines, strconv.Itoa(nextIndex))
				nextIndex++
			case LineTiming:
				trimmed := strings.TrimSpace(line)
				match := timingRegexp.FindStringSubmatch(trimmed)
				startTime, startErr := ParseTimestamp(match[1])
				endTime, endErr := ParseTimestamp(match[2])
				if startErr != nil || endErr != nil {
					// Malformed timing degrades to pass-through rather than
					// aborting the whole merge.
					lines = append(lines, trimmed)
					continue
				}

				startTime += cumulativeOffset
				endTime += cumulativeOffset
				lastEndTime = endTime

				lines = append(lines, FormatTimestamp(startTime)+" --> "+FormatTimestamp(endTime))
			default:
				lines = append(lines, line)
			}
		}

		if lastEndTime > 0 {
			cumulativeOffset = lastEndTime
		}
	}

	return strings.Join(lines, "\n"), nil
}

// splitLines splits file content into lines without the trailing newline
// artifact and without carriage returns
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
