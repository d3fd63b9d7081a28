package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Loader handles configuration loading and management
type Loader struct {
	configPath string
	viper      *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader(configPath string) *Loader {
	v := viper.New()

	// Set up environment variable handling
	v.SetEnvPrefix("BATCHSCRIBE")
	v.AutomaticEnv()

	// Set up configuration file search paths
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".batchscribe")
		v.SetConfigType("yaml")
	}

	return &Loader{
		configPath: configPath,
		viper:      v,
	}
}

// Load reads and returns the configuration
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	// Config file not found is not an error - defaults and env vars apply
	if err := l.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithOverrides loads configuration with command-line overrides
func (l *Loader) LoadWithOverrides(overrides map[string]interface{}) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	for key, value := range overrides {
		l.viper.Set(key, value)
	}

	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config with overrides: %w", err)
	}

	if err := l.validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// GetConfigFile returns the path to the config file being used
func (l *Loader) GetConfigFile() string {
	return l.viper.ConfigFileUsed()
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.viper.SetDefault("paths.input_dir", defaults.Paths.InputDir)
	l.viper.SetDefault("paths.output_dir", defaults.Paths.OutputDir)
	l.viper.SetDefault("paths.temp_dir", defaults.Paths.TempDir)

	l.viper.SetDefault("whisper.binary", defaults.Whisper.Binary)
	l.viper.SetDefault("whisper.model", defaults.Whisper.Model)
	l.viper.SetDefault("whisper.device", defaults.Whisper.Device)

	l.viper.SetDefault("audio.max_segment_seconds", defaults.Audio.MaxSegmentSeconds)
	l.viper.SetDefault("audio.enhance", defaults.Audio.Enhance)
	l.viper.SetDefault("audio.quality", defaults.Audio.Quality)

	l.viper.SetDefault("batch.workers", defaults.Batch.Workers)
	l.viper.SetDefault("batch.keep_temp_files", defaults.Batch.KeepTempFiles)
}

// validateConfig validates the loaded configuration
func (l *Loader) validateConfig(cfg *Config) error {
	if cfg.Paths.InputDir == "" {
		return fmt.Errorf("paths.input_dir is required")
	}

	if cfg.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}

	if cfg.Paths.TempDir == "" {
		return fmt.Errorf("paths.temp_dir is required")
	}

	if cfg.Whisper.Model == "" {
		return fmt.Errorf("whisper.model is required")
	}

	if cfg.Whisper.Device != "cuda" && cfg.Whisper.Device != "cpu" {
		return fmt.Errorf("whisper.device must be cuda or cpu, got %q", cfg.Whisper.Device)
	}

	if cfg.Audio.MaxSegmentSeconds <= 0 {
		return fmt.Errorf("audio.max_segment_seconds must be positive")
	}

	if cfg.Audio.Quality < 0 || cfg.Audio.Quality > 9 {
		return fmt.Errorf("audio.quality must be between 0 and 9")
	}

	if cfg.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}

	return nil
}
