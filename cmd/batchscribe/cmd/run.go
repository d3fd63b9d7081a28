package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batchscribe/batchscribe/pkg/config"
	"github.com/batchscribe/batchscribe/pkg/logger"
	"github.com/batchscribe/batchscribe/pkg/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Transcribe every supported file under the input directory",
	Long: `Scan the input directory recursively for supported media files
(m4a, mp3, mp4, mkv, wav) and run each through the transcription pipeline:
conversion to MP3, duration-based splitting, optional enhancement, Whisper
transcription per segment, and transcript merging.

Each file's failure is isolated; the run exits non-zero if any file failed.

Examples:
  # Transcribe everything under ./input with defaults
  batchscribe run

  # Custom folders and model
  batchscribe run -i ./recordings -o ./transcripts -m medium -d cpu

  # Split at 10 minutes and enhance audio before transcription
  batchscribe run --max-duration 600 --enhance`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "input folder containing audio/video files")
	runCmd.Flags().StringP("output", "o", "", "output folder for transcripts")
	runCmd.Flags().String("temp", "", "working folder for intermediate files")
	runCmd.Flags().StringP("model", "m", "", "whisper model (e.g. large-v2, medium, small)")
	runCmd.Flags().StringP("device", "d", "", "processing device (cuda, cpu)")
	runCmd.Flags().Int("max-duration", 0, "max duration before split (seconds)")
	runCmd.Flags().Bool("enhance", false, "enable audio enhancement")
	runCmd.Flags().Bool("keep-temp", false, "keep intermediate files")
	runCmd.Flags().Int("workers", 0, "number of files processed concurrently")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("run")

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.LoadWithOverrides(flagOverrides(cmd))
	if err != nil {
		return err
	}

	log.Info().
		Str("input", cfg.Paths.InputDir).
		Str("output", cfg.Paths.OutputDir).
		Str("model", cfg.Whisper.Model).
		Str("device", cfg.Whisper.Device).
		Int("max_segment_seconds", cfg.Audio.MaxSegmentSeconds).
		Bool("enhance", cfg.Audio.Enhance).
		Msg("Starting batch run")

	batch := pipeline.NewBatch(cfg)
	summary, err := batch.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(summary.Render())

	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %v", len(failed), summary.Total(), failed)
	}

	return nil
}

// flagOverrides maps explicitly set run flags onto config keys
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})

	setString := func(flag, key string) {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			overrides[key] = value
		}
	}
	setInt := func(flag, key string) {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetInt(flag)
			overrides[key] = value
		}
	}
	setBool := func(flag, key string) {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetBool(flag)
			overrides[key] = value
		}
	}

	setString("input", "paths.input_dir")
	setString("output", "paths.output_dir")
	setString("temp", "paths.temp_dir")
	setString("model", "whisper.model")
	setString("device", "whisper.device")
	setInt("max-duration", "audio.max_segment_seconds")
	setBool("enhance", "audio.enhance")
	setBool("keep-temp", "batch.keep_temp_files")
	setInt("workers", "batch.workers")

	return overrides
}
