package audio

import (
	"errors"
	"testing"
	"time"
)

func TestPlanSegments(t *testing.T) {
	splitter := NewSplitter()

	tests := []struct {
		name         string
		total        time.Duration
		max          time.Duration
		wantParts    int
		wantPartDur  time.Duration
		wantLastOpen bool
	}{
		{
			name:         "shorter than limit - single open-ended segment",
			total:        10 * time.Minute,
			max:          20 * time.Minute,
			wantParts:    1,
			wantLastOpen: true,
		},
		{
			name:         "exactly at limit - no split",
			total:        1200 * time.Second,
			max:          1200 * time.Second,
			wantParts:    1,
			wantLastOpen: true,
		},
		{
			name:         "1500s at 1200s limit - two equal parts",
			total:        1500 * time.Second,
			max:          1200 * time.Second,
			wantParts:    2,
			wantPartDur:  750 * time.Second,
			wantLastOpen: true,
		},
		{
			name:         "long file - three parts",
			total:        2500 * time.Second,
			max:          1200 * time.Second,
			wantParts:    3,
			wantPartDur:  833 * time.Second,
			wantLastOpen: true,
		},
		{
			name:         "sub-second remainder absorbed into final segment",
			total:        1500*time.Second + 900*time.Millisecond,
			max:          1200 * time.Second,
			wantParts:    2,
			wantPartDur:  750 * time.Second,
			wantLastOpen: true,
		},
		{
			name:         "sub-second overage at tiny limit - transcribed whole",
			total:        1500 * time.Millisecond,
			max:          time.Second,
			wantParts:    1,
			wantLastOpen: true,
		},
		{
			name:         "tiny limit - part count capped at one part per second",
			total:        3500 * time.Millisecond,
			max:          time.Second,
			wantParts:    3,
			wantPartDur:  time.Second,
			wantLastOpen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := splitter.PlanSegments(tt.total, tt.max)

			if len(segments) != tt.wantParts {
				t.Fatalf("PlanSegments() parts = %d, want %d", len(segments), tt.wantParts)
			}

			for i, seg := range segments {
				if seg.PartNumber != i+1 {
					t.Errorf("segment %d has part number %d, want %d", i, seg.PartNumber, i+1)
				}
			}

			if segments[0].Start != 0 {
				t.Errorf("first segment starts at %v, want 0", segments[0].Start)
			}

			last := segments[len(segments)-1]
			if last.OpenEnded() != tt.wantLastOpen {
				t.Errorf("last segment open-ended = %v, want %v", last.OpenEnded(), tt.wantLastOpen)
			}

			// Windows must tile [0, total) with no gap and no overlap
			for i := 1; i < len(segments); i++ {
				prev := segments[i-1]
				if prev.OpenEnded() {
					t.Fatalf("segment %d is open-ended but not last", i-1)
				}
				if prev.Length != tt.wantPartDur {
					t.Errorf("segment %d length = %v, want %v", i-1, prev.Length, tt.wantPartDur)
				}
				if segments[i].Start != prev.Start+prev.Length {
					t.Errorf("segment %d starts at %v, want %v", i, segments[i].Start, prev.Start+prev.Length)
				}
			}

			if !last.OpenEnded() && last.Start+last.Length < tt.total {
				t.Errorf("segments end at %v, dropping audio before %v", last.Start+last.Length, tt.total)
			}
		})
	}
}

func TestPlanParts(t *testing.T) {
	splitter := NewSplitter()

	t.Run("rejects non-positive part count", func(t *testing.T) {
		for _, numParts := range []int{0, -1} {
			if _, err := splitter.PlanParts(time.Hour, numParts); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("PlanParts(%d) error = %v, want ErrInvalidArgument", numParts, err)
			}
		}
	})

	t.Run("rejects plans with zero-length parts", func(t *testing.T) {
		if _, err := splitter.PlanParts(1500*time.Millisecond, 2); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("PlanParts() error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("single part covers whole file", func(t *testing.T) {
		segments, err := splitter.PlanParts(time.Hour, 1)
		if err != nil {
			t.Fatalf("PlanParts() error = %v", err)
		}
		if len(segments) != 1 {
			t.Fatalf("PlanParts() parts = %d, want 1", len(segments))
		}
		if segments[0].Start != 0 || !segments[0].OpenEnded() {
			t.Errorf("got segment %+v, want open-ended at 0", segments[0])
		}
	})
}
