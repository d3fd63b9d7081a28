// Package pipeline sequences the per-file transcription steps and drives
// batches of files through them with isolated failure handling.
package pipeline

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/batchscribe/batchscribe/pkg/audio"
	"github.com/batchscribe/batchscribe/pkg/config"
	"github.com/batchscribe/batchscribe/pkg/logger"
	"github.com/batchscribe/batchscribe/pkg/transcript"
	"github.com/batchscribe/batchscribe/pkg/whisper"
)

// SourceFile is one discovered input media file
type SourceFile struct {
	// Absolute or input-root-relative path to the file
	Path string

	// Path relative to the input root, used to namespace temp artifacts
	RelPath string
}

// Stem returns the file's base name without extension
func (f SourceFile) Stem() string {
	base := filepath.Base(f.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// TempKey returns the key under which this file's intermediate artifacts are
// named. The relative path is hashed in so files sharing a base name in
// different input subdirectories cannot clobber each other's temp files.
func (f SourceFile) TempKey() string {
	return fmt.Sprintf("%s-%08x", f.Stem(), crc32.ChecksumIEEE([]byte(f.RelPath)))
}

// Pipeline runs one file through conversion, duration check, optional split,
// optional enhancement, per-segment transcription and merge-or-copy. Every
// error is terminal for that file and surfaces to the batch driver.
type Pipeline struct {
	cfg         *config.Config
	processor   audio.Processor
	splitter    audio.Splitter
	enhancer    audio.Enhancer
	transcriber whisper.Transcriber
	merger      transcript.Merger
}

// New creates a pipeline with the standard external collaborators
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		processor:   audio.NewProcessor(),
		splitter:    audio.NewSplitter(),
		enhancer:    audio.NewEnhancer(),
		transcriber: whisper.NewCLI(cfg.Whisper.Binary, cfg.Whisper.Model, cfg.Whisper.Device),
		merger:      transcript.NewMerger(),
	}
}

// Process runs the full pipeline for one source file
func (p *Pipeline) Process(ctx context.Context, file SourceFile) error {
	log := logger.WithComponent("pipeline").WithField("file", filepath.Base(file.Path))
	startTime := time.Now()

	tempDir := p.cfg.Paths.TempDir
	key := file.TempKey()

	// Convert to MP3 unless the source already is one
	audioPath := file.Path
	if filepath.Ext(file.Path) == ".mp3" {
		log.Debug().Msg("already mp3, skipping conversion")
	} else {
		audioPath = filepath.Join(tempDir, key+".mp3")
		if err := p.processor.ConvertToMP3(file.Path, audioPath, p.cfg.Audio.Quality); err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
	}

	// Check duration and split if needed
	duration, err := p.processor.Duration(audioPath)
	if err != nil {
		return fmt.Errorf("duration check failed: %w", err)
	}

	maxDuration := time.Duration(p.cfg.Audio.MaxSegmentSeconds) * time.Second
	segmentPaths := []string{audioPath}
	if duration > maxDuration {
		segments := p.splitter.PlanSegments(duration, maxDuration)
		log.Info().
			Dur("duration", duration).
			Dur("max", maxDuration).
			Int("parts", len(segments)).
			Msg("duration exceeds limit, splitting")

		segmentPaths, err = p.splitter.Split(audioPath, tempDir, key, segments)
		if err != nil {
			return fmt.Errorf("split failed: %w", err)
		}
	} else {
		log.Debug().Dur("duration", duration).Msg("no split needed")
	}

	// Enhance each segment when enabled. A fallback to the unenhanced
	// original would produce an inconsistent quality profile, so failure
	// is terminal. Output names carry the temp key: segment paths may be
	// the raw source, whose stem is not collision-free across the batch.
	if p.cfg.Audio.Enhance {
		enhanced := make([]string, 0, len(segmentPaths))
		for i, segmentPath := range segmentPaths {
			enhancedPath := filepath.Join(tempDir, fmt.Sprintf("%s_part%02d_enhanced%s", key, i+1, filepath.Ext(segmentPath)))
			if err := p.enhancer.Enhance(segmentPath, enhancedPath); err != nil {
				return fmt.Errorf("enhancement failed: %w", err)
			}
			enhanced = append(enhanced, enhancedPath)
		}
		segmentPaths = enhanced
	}

	// Transcribe each segment in part order. A partial transcript with a
	// missing chunk must not be presented as complete, so any segment
	// failure is terminal for the whole file.
	parts := make([]transcript.Part, 0, len(segmentPaths))
	for i, segmentPath := range segmentPaths {
		partNumber := i + 1
		if len(segmentPaths) > 1 {
			log.Info().Int("part", partNumber).Int("total", len(segmentPaths)).Msg("transcribing part")
		}

		outputDir := filepath.Join(tempDir, fmt.Sprintf("%s_part%02d", key, partNumber))
		result, err := p.transcriber.Transcribe(ctx, segmentPath, outputDir)
		if err != nil {
			return fmt.Errorf("transcription of part %d failed: %w", partNumber, err)
		}

		parts = append(parts, transcript.Part{
			PartNumber:   partNumber,
			TextPath:     result.TextPath,
			SubtitlePath: result.SubtitlePath,
		})
	}

	// Finalize: a single part is copied to the output as-is, multiple parts
	// are merged.
	outputTxt := filepath.Join(p.cfg.Paths.OutputDir, file.Stem()+".txt")
	outputSRT := filepath.Join(p.cfg.Paths.OutputDir, file.Stem()+".srt")

	if len(parts) == 1 {
		if err := copyPart(parts[0], outputTxt, outputSRT); err != nil {
			return err
		}
	} else {
		if err := p.merger.Merge(parts, outputTxt, outputSRT); err != nil {
			return fmt.Errorf("merge failed: %w", err)
		}
	}

	log.Info().Dur("elapsed", time.Since(startTime)).Msg("file completed")
	return nil
}

// copyPart promotes a sole transcript part directly to the output location
func copyPart(part transcript.Part, outputTxt, outputSRT string) error {
	if part.TextPath != "" {
		if err := copyFile(part.TextPath, outputTxt); err != nil {
			return fmt.Errorf("failed to copy text transcript: %w", err)
		}
	}
	if part.SubtitlePath != "" {
		if err := copyFile(part.SubtitlePath, outputSRT); err != nil {
			return fmt.Errorf("failed to copy subtitle transcript: %w", err)
		}
	}
	return nil
}

// copyFile copies src to dst, overwriting dst if it exists
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
