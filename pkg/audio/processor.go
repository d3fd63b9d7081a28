package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/batchscribe/batchscribe/pkg/logger"
)

// ProcessorImpl implements the Processor interface using ffmpeg/ffprobe
type ProcessorImpl struct{}

// NewProcessor creates a new audio processor
func NewProcessor() *ProcessorImpl {
	return &ProcessorImpl{}
}

// Duration returns the total duration of an audio/video file
func (p *ProcessorImpl) Duration(filePath string) (time.Duration, error) {
	log := logger.WithComponent("audio-processor").WithField("file", filepath.Base(filePath))

	if !fileExists(filePath) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}

	log.Debug().Msg("probing file with ffprobe")
	info, err := ffmpeg.Probe(filePath)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v", ErrToolFailure, err)
	}

	duration, err := parseProbeDuration(info)
	if err != nil {
		return 0, err
	}

	log.Debug().Dur("duration", duration).Msg("duration probed")
	return duration, nil
}

// ConvertToMP3 converts an audio/video file to an audio-only MP3.
// quality is the libmp3lame VBR level (0-9, lower is better).
func (p *ProcessorImpl) ConvertToMP3(inputPath, outputPath string, quality int) error {
	log := logger.WithComponent("audio-converter").
		WithField("input", filepath.Base(inputPath)).
		WithField("output", filepath.Base(outputPath))

	if !fileExists(inputPath) {
		return fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Info().Msg("converting to mp3")
	startTime := time.Now()
	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "libmp3lame",
			"q:a":    strconv.Itoa(quality),
		}).
		OverWriteOutput().ErrorToStdOut().Run()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg conversion: %v", ErrToolFailure, err)
	}

	if !fileExists(outputPath) {
		return fmt.Errorf("%w: conversion produced no output file: %s", ErrToolFailure, outputPath)
	}

	log.Info().Dur("elapsed", time.Since(startTime)).Msg("conversion completed")
	return nil
}

// parseProbeDuration extracts the format duration from ffprobe JSON output
func parseProbeDuration(probeData string) (time.Duration, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(probeData), &probe); err != nil {
		return 0, fmt.Errorf("%w: probe JSON: %v", ErrParseFailure, err)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration %q", ErrParseFailure, probe.Format.Duration)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// fileExists checks if a file exists
func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}
