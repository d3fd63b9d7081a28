// Package transcript merges per-segment transcript pairs (plain text and SRT
// subtitles) into one continuous, correctly time-aligned pair per source file.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	timestampRegexp = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)
	timingRegexp    = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})$`)
	indexRegexp     = regexp.MustCompile(`^\d+$`)
)

// LineKind classifies one line of an SRT file by its content
type LineKind int

const (
	// LineBody is subtitle text or a blank separator, emitted unchanged
	LineBody LineKind = iota

	// LineIndex is a line consisting solely of digits
	LineIndex

	// LineTiming is a "HH:MM:SS,mmm --> HH:MM:SS,mmm" line
	LineTiming
)

// ClassifyLine tags one trimmed SRT line as index, timing or body.
// Classification is by content, never by position inside the file.
func ClassifyLine(line string) LineKind {
	switch {
	case line != "" && indexRegexp.MatchString(line):
		return LineIndex
	case timingRegexp.MatchString(line):
		return LineTiming
	default:
		return LineBody
	}
}

// ParseTimestamp parses an SRT timestamp ("00:01:23,456") into a duration
func ParseTimestamp(s string) (time.Duration, error) {
	match := timestampRegexp.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("invalid SRT timestamp: %q", s)
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	milliseconds, _ := strconv.Atoi(match[4])

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(milliseconds)*time.Millisecond, nil
}

// FormatTimestamp formats a duration as an SRT timestamp ("00:01:23,456")
func FormatTimestamp(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
