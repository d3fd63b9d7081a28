package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/batchscribe/batchscribe/pkg/config"
	"github.com/batchscribe/batchscribe/pkg/logger"
)

// supportedExtensions is the fixed allow-list of recognized input formats.
// Matching is case-sensitive.
var supportedExtensions = []string{".m4a", ".mp3", ".mp4", ".mkv", ".wav"}

// FileProcessor processes one source file end to end
type FileProcessor interface {
	Process(ctx context.Context, file SourceFile) error
}

// FileResult records the outcome of one file's pipeline run
type FileResult struct {
	Name string
	Err  error
}

// Summary aggregates the outcome of a batch run
type Summary struct {
	Results []FileResult
}

// Total returns the number of files processed
func (s *Summary) Total() int {
	return len(s.Results)
}

// Failed returns the names of files whose pipeline failed
func (s *Summary) Failed() []string {
	var failed []string
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r.Name)
		}
	}
	return failed
}

// Succeeded returns the number of files processed without error
func (s *Summary) Succeeded() int {
	return s.Total() - len(s.Failed())
}

// Batch discovers input files and runs the file pipeline over each
type Batch struct {
	cfg       *config.Config
	processor FileProcessor
}

// NewBatch creates a batch driver backed by the standard file pipeline
func NewBatch(cfg *config.Config) *Batch {
	return &Batch{
		cfg:       cfg,
		processor: New(cfg),
	}
}

// DiscoverFiles returns all supported media files under the input root,
// sorted lexicographically by path for a reproducible run order
func (b *Batch) DiscoverFiles() ([]SourceFile, error) {
	root := b.cfg.Paths.InputDir

	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupported(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, SourceFile{Path: path, RelPath: relPath})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Run processes every discovered file, isolating per-file failures, and
// returns the batch summary. The temp directory is removed afterwards unless
// keep_temp_files is set.
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	log := logger.WithComponent("batch")

	if err := b.ensureDirs(); err != nil {
		return nil, err
	}

	files, err := b.DiscoverFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported audio/video files found in %s", b.cfg.Paths.InputDir)
	}

	log.Info().Int("files", len(files)).Int("workers", b.cfg.Batch.Workers).Msg("starting batch")

	summary := &Summary{Results: make([]FileResult, len(files))}

	// Per-file pipelines are independent; temp artifacts are namespaced by
	// a path-derived key, so files can run concurrently up to the worker
	// bound.
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, b.cfg.Batch.Workers)

	for i, file := range files {
		wg.Add(1)
		go func(index int, file SourceFile) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			name := filepath.Base(file.Path)
			fileLog := log.WithField("file", name)
			fileLog.Info().Int("num", index+1).Int("total", len(files)).Msg("processing file")

			err := b.processor.Process(ctx, file)
			if err != nil {
				fileLog.Error().Err(err).Msg("file failed")
			}
			summary.Results[index] = FileResult{Name: name, Err: err}
		}(i, file)
	}

	wg.Wait()

	if !b.cfg.Batch.KeepTempFiles {
		log.Debug().Str("temp_dir", b.cfg.Paths.TempDir).Msg("removing temp directory")
		if err := os.RemoveAll(b.cfg.Paths.TempDir); err != nil {
			log.Warn().Err(err).Msg("failed to remove temp directory")
		}
	}

	log.Info().
		Int("total", summary.Total()).
		Int("succeeded", summary.Succeeded()).
		Int("failed", len(summary.Failed())).
		Msg("batch completed")

	return summary, nil
}

// ensureDirs creates the input, output and temp directories if missing
func (b *Batch) ensureDirs() error {
	for _, dir := range []string{b.cfg.Paths.InputDir, b.cfg.Paths.OutputDir, b.cfg.Paths.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// isSupported reports whether the path carries a recognized extension
func isSupported(path string) bool {
	ext := filepath.Ext(path)
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
