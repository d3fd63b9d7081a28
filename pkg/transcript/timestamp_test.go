package transcript

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{
			name:  "zero",
			input: "00:00:00,000",
			want:  0,
		},
		{
			name:  "typical",
			input: "00:01:23,456",
			want:  time.Minute + 23*time.Second + 456*time.Millisecond,
		},
		{
			name:  "hours",
			input: "02:30:00,500",
			want:  2*time.Hour + 30*time.Minute + 500*time.Millisecond,
		},
		{
			name:    "missing milliseconds",
			input:   "00:01:23",
			wantErr: true,
		},
		{
			name:    "dot separator",
			input:   "00:01:23.456",
			wantErr: true,
		},
		{
			name:    "not a timestamp",
			input:   "hello",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	// Formatting a parsed timestamp must reproduce the original string,
	// including zero padding and standard 3600-second hours.
	inputs := []string{
		"00:00:00,000",
		"00:00:01,001",
		"00:01:23,456",
		"00:20:00,000", // 1200s is 20 minutes, not one hour
		"01:00:00,000",
		"02:59:59,999",
		"23:59:59,999",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parsed, err := ParseTimestamp(input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", input, err)
			}
			if got := FormatTimestamp(parsed); got != input {
				t.Errorf("FormatTimestamp(ParseTimestamp(%q)) = %q", input, got)
			}
		})
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{
			name: "index line",
			line: "12",
			want: LineIndex,
		},
		{
			name: "single digit index",
			line: "1",
			want: LineIndex,
		},
		{
			name: "timing line",
			line: "00:00:01,000 --> 00:00:03,500",
			want: LineTiming,
		},
		{
			name: "text line",
			line: "Hello there.",
			want: LineBody,
		},
		{
			name: "blank line",
			line: "",
			want: LineBody,
		},
		{
			name: "digits with trailing text",
			line: "12abc",
			want: LineBody,
		},
		{
			name: "numeric sentence",
			line: "42 is the answer",
			want: LineBody,
		},
		{
			name: "malformed timing",
			line: "00:00:01,000 --> end",
			want: LineBody,
		},
		{
			name: "timing with extra content",
			line: "00:00:01,000 --> 00:00:03,500 X",
			want: LineBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLine(tt.line); got != tt.want {
				t.Errorf("ClassifyLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
