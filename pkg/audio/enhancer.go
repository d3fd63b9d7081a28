package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/batchscribe/batchscribe/pkg/logger"
)

// enhanceFilter is the fixed enhancement chain: FFT noise reduction,
// dynamic range compression and EBU R128 loudness normalization.
const enhanceFilter = "afftdn=nf=-20," +
	"acompressor=ratio=4:threshold=0.1:attack=10:release=100," +
	"loudnorm=I=-16:LRA=11:tp=-1.5"

// EnhancerImpl implements the Enhancer interface
type EnhancerImpl struct{}

// NewEnhancer creates a new audio enhancer
func NewEnhancer() *EnhancerImpl {
	return &EnhancerImpl{}
}

// Enhance writes an enhanced copy of inputPath to outputPath. The caller
// chooses the output name so concurrent runs cannot share a temp file.
func (e *EnhancerImpl) Enhance(inputPath, outputPath string) error {
	log := logger.WithComponent("audio-enhancer").WithField("file", filepath.Base(inputPath))

	if !fileExists(inputPath) {
		return fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Info().Msg("enhancing audio")
	startTime := time.Now()
	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{"af": enhanceFilter}).
		OverWriteOutput().ErrorToStdOut().Run()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg enhancement: %v", ErrToolFailure, err)
	}

	if !fileExists(outputPath) {
		return fmt.Errorf("%w: enhancement produced no output file: %s", ErrToolFailure, outputPath)
	}

	log.Info().Dur("elapsed", time.Since(startTime)).Msg("enhancement completed")
	return nil
}
