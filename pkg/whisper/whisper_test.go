package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchscribe/batchscribe/pkg/audio"
)

type fakeRunner struct {
	fn func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func (f fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f.fn(ctx, name, args...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestTranscribeFindsOutputs(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "meeting.mp3")
	writeFile(t, inputPath, "audio")
	outputDir := filepath.Join(dir, "out")

	runner := fakeRunner{fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		writeFile(t, filepath.Join(outputDir, "meeting.txt"), "hello\n")
		writeFile(t, filepath.Join(outputDir, "meeting.srt"), "1\n00:00:00,000 --> 00:00:01,000\nhello\n\n")
		return nil, nil
	}}

	cli := NewCLIWithRunner("whisper", "large-v2", "cpu", runner)
	result, err := cli.Transcribe(context.Background(), inputPath, outputDir)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if filepath.Base(result.TextPath) != "meeting.txt" {
		t.Errorf("TextPath = %s, want meeting.txt", result.TextPath)
	}
	if filepath.Base(result.SubtitlePath) != "meeting.srt" {
		t.Errorf("SubtitlePath = %s, want meeting.srt", result.SubtitlePath)
	}
}

func TestTranscribeFallbackTextFromSubtitles(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "talk.mp3")
	writeFile(t, inputPath, "audio")
	outputDir := filepath.Join(dir, "out")

	srt := "1\n00:00:00,000 --> 00:00:01,000\nfirst line\n\n" +
		"2\n00:00:01,000 --> 00:00:02,000\nsecond line\n\n"

	runner := fakeRunner{fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		// Only subtitles produced, no text output
		writeFile(t, filepath.Join(outputDir, "talk.srt"), srt)
		return nil, nil
	}}

	cli := NewCLIWithRunner("whisper", "large-v2", "cpu", runner)
	result, err := cli.Transcribe(context.Background(), inputPath, outputDir)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if result.TextPath == "" {
		t.Fatal("TextPath is empty, want synthesized fallback")
	}

	content, err := os.ReadFile(result.TextPath)
	if err != nil {
		t.Fatalf("failed to read fallback text: %v", err)
	}
	want := "first line\n\nsecond line"
	if string(content) != want {
		t.Errorf("fallback text = %q, want %q", string(content), want)
	}
}

func TestTranscribeFallbackReplacesEmptyText(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "clip.mp3")
	writeFile(t, inputPath, "audio")
	outputDir := filepath.Join(dir, "out")

	runner := fakeRunner{fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		// Zero-byte text output alongside valid subtitles
		writeFile(t, filepath.Join(outputDir, "clip.txt"), "")
		writeFile(t, filepath.Join(outputDir, "clip.srt"), "1\n00:00:00,000 --> 00:00:01,000\nonly line\n\n")
		return nil, nil
	}}

	cli := NewCLIWithRunner("whisper", "large-v2", "cpu", runner)
	result, err := cli.Transcribe(context.Background(), inputPath, outputDir)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	content, err := os.ReadFile(result.TextPath)
	if err != nil {
		t.Fatalf("failed to read text output: %v", err)
	}
	if string(content) != "only line" {
		t.Errorf("text output = %q, want %q", string(content), "only line")
	}
}

func TestTranscribeToolFailure(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "bad.mp3")
	writeFile(t, inputPath, "audio")

	runner := fakeRunner{fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("CUDA out of memory"), fmt.Errorf("exit status 1")
	}}

	cli := NewCLIWithRunner("whisper", "large-v2", "cuda", runner)
	_, err := cli.Transcribe(context.Background(), inputPath, filepath.Join(dir, "out"))
	if !errors.Is(err, audio.ErrToolFailure) {
		t.Errorf("Transcribe() error = %v, want ErrToolFailure", err)
	}
}

func TestTranscribeMissingInput(t *testing.T) {
	dir := t.TempDir()

	cli := NewCLIWithRunner("whisper", "large-v2", "cpu", fakeRunner{
		fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			t.Fatal("runner should not be invoked for a missing input")
			return nil, nil
		},
	})

	_, err := cli.Transcribe(context.Background(), filepath.Join(dir, "nope.mp3"), filepath.Join(dir, "out"))
	if !errors.Is(err, audio.ErrNotFound) {
		t.Errorf("Transcribe() error = %v, want ErrNotFound", err)
	}
}

func TestTranscribeCommandArguments(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "clip.mp3")
	writeFile(t, inputPath, "audio")
	outputDir := filepath.Join(dir, "out")

	var gotName string
	var gotArgs []string
	runner := fakeRunner{fn: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		writeFile(t, filepath.Join(outputDir, "clip.txt"), "x")
		writeFile(t, filepath.Join(outputDir, "clip.srt"), "x")
		return nil, nil
	}}

	cli := NewCLIWithRunner("whisper", "medium", "cpu", runner)
	if _, err := cli.Transcribe(context.Background(), inputPath, outputDir); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if gotName != "whisper" {
		t.Errorf("command = %s, want whisper", gotName)
	}

	want := []string{
		inputPath,
		"--model", "medium",
		"--device", "cpu",
		"--output_dir", outputDir,
		"--output_format", "all",
		"--verbose", "False",
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("arg %d = %s, want %s", i, gotArgs[i], want[i])
		}
	}
}
