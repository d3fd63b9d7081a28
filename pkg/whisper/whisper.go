// Package whisper wraps the Whisper command-line tool used for speech
// recognition.
package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/batchscribe/batchscribe/pkg/audio"
	"github.com/batchscribe/batchscribe/pkg/logger"
	"github.com/batchscribe/batchscribe/pkg/transcript"
)

// Result holds the output files produced by one transcription run. Either
// path may be empty when the tool produced nothing for that format.
type Result struct {
	TextPath     string
	SubtitlePath string
}

// Transcriber runs speech recognition over one audio file
type Transcriber interface {
	// Transcribe writes transcript files for inputPath into outputDir
	Transcribe(ctx context.Context, inputPath, outputDir string) (*Result, error)
}

// CommandRunner executes external commands. Extracted for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// CLI implements Transcriber by invoking the whisper command-line tool
type CLI struct {
	binary string
	model  string
	device string
	runner CommandRunner
}

// NewCLI creates a whisper CLI transcriber
func NewCLI(binary, model, device string) *CLI {
	if binary == "" {
		binary = "whisper"
	}
	return &CLI{
		binary: binary,
		model:  model,
		device: device,
		runner: execRunner{},
	}
}

// NewCLIWithRunner creates a whisper CLI transcriber with a custom command runner
func NewCLIWithRunner(binary, model, device string, runner CommandRunner) *CLI {
	cli := NewCLI(binary, model, device)
	cli.runner = runner
	return cli
}

// Transcribe runs whisper over inputPath, writing transcript files into
// outputDir. All output formats are requested so both the plain-text and
// subtitle transcripts are produced in one pass.
func (c *CLI) Transcribe(ctx context.Context, inputPath, outputDir string) (*Result, error) {
	log := logger.WithComponent("whisper").WithField("file", filepath.Base(inputPath))

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", audio.ErrNotFound, inputPath)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	args := []string{
		inputPath,
		"--model", c.model,
		"--device", c.device,
		"--output_dir", outputDir,
		"--output_format", "all",
		"--verbose", "False",
	}

	log.Info().Str("model", c.model).Str("device", c.device).Msg("transcribing")
	startTime := time.Now()
	output, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: whisper: %v: %s", audio.ErrToolFailure, err, strings.TrimSpace(string(output)))
	}
	log.Info().Dur("elapsed", time.Since(startTime)).Msg("transcription completed")

	result := &Result{
		TextPath:     firstGlob(outputDir, "*.txt"),
		SubtitlePath: firstGlob(outputDir, "*.srt"),
	}

	// Whisper occasionally emits an empty or missing .txt alongside a valid
	// .srt; synthesize the plain text from the subtitle body in that case.
	if result.SubtitlePath != "" && isMissingOrEmpty(result.TextPath) {
		textPath := filepath.Join(outputDir, stem(inputPath)+".txt")
		if err := writeFallbackText(result.SubtitlePath, textPath); err != nil {
			return nil, err
		}
		log.Warn().Msg("text output missing, synthesized from subtitles")
		result.TextPath = textPath
	}

	return result, nil
}

// writeFallbackText extracts the subtitle body lines into a plain-text file,
// skipping index and timing lines and joining cues with a blank line
func writeFallbackText(subtitlePath, textPath string) error {
	content, err := os.ReadFile(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}

	var textLines []string
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || transcript.ClassifyLine(trimmed) != transcript.LineBody {
			continue
		}
		textLines = append(textLines, trimmed)
	}

	if err := os.WriteFile(textPath, []byte(strings.Join(textLines, "\n\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write fallback text: %w", err)
	}

	return nil
}

// firstGlob returns the first file in dir matching pattern, or ""
func firstGlob(dir, pattern string) string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// isMissingOrEmpty reports whether path is empty, absent or a zero-byte file
func isMissingOrEmpty(path string) bool {
	if path == "" {
		return true
	}
	stat, err := os.Stat(path)
	return err != nil || stat.Size() == 0
}

// stem returns the file name without its extension
func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
