package config

import (
	"github.com/batchscribe/batchscribe/pkg/logger"
)

// Config represents the application configuration
type Config struct {
	// Directory layout
	Paths PathsConfig `yaml:"paths" mapstructure:"paths"`

	// Whisper CLI settings
	Whisper WhisperConfig `yaml:"whisper" mapstructure:"whisper"`

	// Audio processing settings
	Audio AudioConfig `yaml:"audio" mapstructure:"audio"`

	// Batch run settings
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`

	// Logging configuration
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// PathsConfig contains the input/output/temp directory layout
type PathsConfig struct {
	// Directory scanned recursively for input media
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`

	// Directory receiving final .txt/.srt transcripts
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// Working directory for converted, split and enhanced audio
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// WhisperConfig contains speech recognition settings
type WhisperConfig struct {
	// Binary name or path of the whisper CLI
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Model name (e.g. large-v2, medium, small)
	Model string `yaml:"model" mapstructure:"model"`

	// Processing device (cuda or cpu)
	Device string `yaml:"device" mapstructure:"device"`
}

// AudioConfig contains audio processing settings
type AudioConfig struct {
	// Files longer than this are split before transcription
	MaxSegmentSeconds int `yaml:"max_segment_seconds" mapstructure:"max_segment_seconds"`

	// Run the enhancement filter chain on every segment before transcription
	Enhance bool `yaml:"enhance" mapstructure:"enhance"`

	// MP3 conversion quality (-q:a, 0-9 where lower is better)
	Quality int `yaml:"quality" mapstructure:"quality"`
}

// BatchConfig contains batch run settings
type BatchConfig struct {
	// Number of files processed concurrently
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Keep the temp directory after the run instead of deleting it
	KeepTempFiles bool `yaml:"keep_temp_files" mapstructure:"keep_temp_files"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:  "./input",
			OutputDir: "./output",
			TempDir:   "./temp",
		},
		Whisper: WhisperConfig{
			Binary: "whisper",
			Model:  "large-v2",
			Device: "cuda",
		},
		Audio: AudioConfig{
			MaxSegmentSeconds: 1200,
			Quality:           2,
		},
		Batch: BatchConfig{
			Workers: 1,
		},
		Logging: *logger.DefaultConfig(),
	}
}
