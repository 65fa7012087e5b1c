package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/scan"
	"github.com/jdziat/simple-reminders/pkg/security"
	"github.com/jdziat/simple-reminders/pkg/storage"
)

// Result is the outcome of importing one source.
type Result struct {
	Report *scan.Report
	Stored int
	Err    error // Set when the source could not be read or stored
}

// Importer scans sources and stores their rules.
type Importer struct {
	store   core.Storage
	config  Config
	scanner *scan.Scanner
	logger  *slog.Logger
}

// New creates an Importer writing to store.
func New(store core.Storage, opts ...Option) *Importer {
	config := Config{
		Files:         1,
		LineWorkers:   4,
		MaxLineLength: security.MaxLineLength,
		Logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt.ApplyImporter(&config)
	}

	if config.StorageRetry == nil {
		defaultCfg := DefaultRetryConfig()
		config.StorageRetry = &defaultCfg
	}

	scanOpts := []scan.Option{
		scan.Concurrency(config.LineWorkers),
		scan.MaxLineLength(config.MaxLineLength),
		scan.Strict(config.Strict),
		scan.WithLogger(config.Logger),
	}
	if config.OnEvent != nil {
		scanOpts = append(scanOpts, scan.OnEvent(config.OnEvent))
	}

	return &Importer{
		store:   store,
		config:  config,
		scanner: scan.New(scanOpts...),
		logger:  config.Logger,
	}
}

// Import scans r and replaces the stored rules of source with the accepted ones.
func (im *Importer) Import(ctx context.Context, source string, r io.Reader) (*Result, error) {
	report, err := im.scanner.Scan(ctx, source, r)
	if err != nil {
		return nil, err
	}

	recs := make([]*core.RuleRecord, len(report.Entries))
	for i, e := range report.Entries {
		recs[i] = storage.NewRecord(source, e.Line, e.Rule)
	}

	err = retryWithBackoff(ctx, *im.config.StorageRetry, func() error {
		return im.store.Replace(ctx, source, recs)
	})
	if err != nil {
		im.logger.Error("failed to store rules after retries", "source", source, "error", err)
		return &Result{Report: report}, fmt.Errorf("store %s: %w", source, err)
	}

	im.logger.Info("imported source", "source", source, "stored", len(recs), "rejected", len(report.Failures))
	return &Result{Report: report, Stored: len(recs)}, nil
}

// ImportFile imports the file at path, using the path as the source name.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return im.Import(ctx, path, f)
}

// ImportFiles imports every path, Files at a time. One failing file does not
// stop the others; results are returned in path order with Err set on the
// failures. The returned error joins every per-file error.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	sem := make(chan struct{}, im.config.Files)

	var wg sync.WaitGroup
	for i, path := range paths {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results, ctx.Err()
		case sem <- struct{}{}:
		}

		i, path := i, path
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := im.ImportFile(ctx, path)
			if res != nil {
				results[i] = *res
			}
			results[i].Err = err
		}()
	}
	wg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}
