// Package refix checks Go source for rewrite opportunities and applies
// the mechanical ones. The root package is the embedding surface:
// construct an engine from a configuration file, then feed it paths,
// directories, or in-memory source. The moving parts live in the
// subpackages: match describes syntax shapes, checker turns matches
// into findings, edit splices replacement text, and verify replays a
// rule against paired before/after fixtures.
package refix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/internal/engine"
	"github.com/refixlabs/refix/scanner"
)

// Config is the engine configuration; the init command writes a
// starter file.
type Config = engine.Config

// Engine is the checking surface the process helpers drive.
// *engine.Engine implements it; tests substitute lighter ones.
type Engine interface {
	Run(filename string) ([]checker.Finding, error)
	RunSource(name string, src []byte) ([]checker.Finding, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// Processor turns one file into findings. ProcessFile is the standard
// implementation.
type Processor func(Engine, string) ([]checker.Finding, error)

// New builds an engine from the configuration file at configPath. A
// missing file yields the default rule set.
func New(configPath string) (*engine.Engine, error) {
	config, err := engine.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return engine.New(config)
}

// ProcessFile checks a single file.
func ProcessFile(eng Engine, filename string) ([]checker.Finding, error) {
	return eng.Run(filename)
}

// ProcessSource checks in-memory source under the given name.
func ProcessSource(eng Engine, name string, src []byte) ([]checker.Finding, error) {
	return eng.RunSource(name, src)
}

// ProcessFiles checks every path in order and pools the findings.
func ProcessFiles(ctx context.Context, logger *zap.Logger, eng Engine, paths []string, processor Processor) ([]checker.Finding, error) {
	var all []checker.Finding
	for _, path := range paths {
		findings, err := ProcessPath(ctx, logger, eng, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, findings...)
	}
	engine.Sort(all)
	return all, nil
}

// ProcessPath checks one file, or every Go file under one directory.
// Directory entries run concurrently on a bounded pool; a file that
// fails to process is logged and skipped so one broken file does not
// sink the whole tree. Findings come back in report order.
func ProcessPath(ctx context.Context, logger *zap.Logger, eng Engine, path string, processor Processor) ([]checker.Finding, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !isGoFile(path) {
			return nil, nil
		}
		return processor(eng, path)
	}

	files, err := scanner.New(path, ".go").Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	bar := newProgressBar(path, len(files))
	defer func() { _ = bar.Finish() }()

	var (
		mu  sync.Mutex
		all []checker.Finding
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for _, file := range files {
		file := file
		group.Go(func() error {
			defer func() { _ = bar.Add(1) }()
			if err := ctx.Err(); err != nil {
				return err
			}
			findings, err := processor(eng, file.Path)
			if err != nil {
				if logger != nil {
					logger.Error("processing file", zap.String("file", file.Path), zap.Error(err))
				}
				return nil
			}
			mu.Lock()
			all = append(all, findings...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	engine.Sort(all)
	return all, nil
}

func newProgressBar(description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func isGoFile(path string) bool {
	return filepath.Ext(path) == ".go"
}
