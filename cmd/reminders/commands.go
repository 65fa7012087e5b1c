package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/cronspec"
	"github.com/jdziat/simple-reminders/pkg/importer"
	"github.com/jdziat/simple-reminders/pkg/parser"
	"github.com/jdziat/simple-reminders/pkg/scan"
	"github.com/jdziat/simple-reminders/pkg/storage"
)

var errNoFiles = errors.New("no files given")

func addListFlags(fs *pflag.FlagSet) {
	fs.String("cadence", "", "list: only rules with this cadence (a, m, w, d or its name)")
	fs.String("source", "", "list: only rules imported from this file")
	fs.Int("limit", 0, "list: maximum rules to print")
}

func (e *env) scanner() *scan.Scanner {
	return scan.New(
		scan.Concurrency(e.cfg.Concurrency),
		scan.MaxLineLength(e.cfg.MaxLineLength),
		scan.Strict(e.cfg.Strict),
		scan.WithLogger(e.logger),
	)
}

func (e *env) scanFile(ctx context.Context, s *scan.Scanner, path string) (*scan.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Scan(ctx, path, f)
}

// openStorage opens and migrates the configured database. The caller must
// close the returned handle.
func (e *env) openStorage(ctx context.Context) (*storage.GormStorage, io.Closer, error) {
	db, err := storage.Open(e.cfg.Database, e.logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewGormStorage(db)
	if err := store.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store, sqlDB, nil
}

// unreadable reports a file that could not be scanned. Context errors abort
// the command; anything else is printed so the remaining files still run.
func (e *env) unreadable(ctx context.Context, path string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	fmt.Fprintf(e.stderr, "error: %s: %v\n", path, err)
	e.logger.Debug("skipped unreadable file", "file", path, "error", err)
	return nil
}

func runCheck(ctx context.Context, e *env) (int, error) {
	if len(e.args) == 0 {
		return exitUsage, errNoFiles
	}
	s := e.scanner()
	code := exitOK
	for _, path := range e.args {
		report, err := e.scanFile(ctx, s, path)
		if err != nil {
			if err := e.unreadable(ctx, path, err); err != nil {
				return exitFailures, err
			}
			code = exitFailures
			continue
		}
		for _, f := range report.Failures {
			fmt.Fprintf(e.stdout, "%s:%d: %v\n", path, f.Line, f.Err)
		}
		if !report.OK() {
			code = exitFailures
		}
		e.logger.Info("checked", "file", path, "rules", len(report.Entries), "failures", len(report.Failures))
	}
	return code, nil
}

func runImport(ctx context.Context, e *env) (int, error) {
	if len(e.args) == 0 {
		return exitUsage, errNoFiles
	}
	store, db, err := e.openStorage(ctx)
	if err != nil {
		return exitFailures, err
	}
	defer db.Close()

	im := importer.New(store,
		importer.Files(e.cfg.Files),
		importer.LineWorkers(e.cfg.Concurrency),
		importer.MaxLineLength(e.cfg.MaxLineLength),
		importer.Strict(e.cfg.Strict),
		importer.WithLogger(e.logger),
	)

	results, err := im.ImportFiles(ctx, e.args)
	code := exitOK
	for i, res := range results {
		if res.Report == nil {
			continue
		}
		fmt.Fprintf(e.stdout, "%s: stored %d, rejected %d, skipped %d\n",
			e.args[i], res.Stored, len(res.Report.Failures), res.Report.Skipped)
		if !res.Report.OK() {
			code = exitFailures
		}
	}
	if err != nil {
		return exitFailures, err
	}
	return code, nil
}

func runList(ctx context.Context, e *env) (int, error) {
	filter, err := listFilter(e.flags)
	if err != nil {
		return exitUsage, err
	}
	store, db, err := e.openStorage(ctx)
	if err != nil {
		return exitFailures, err
	}
	defer db.Close()

	recs, err := store.List(ctx, filter)
	if err != nil {
		return exitFailures, err
	}
	for _, rec := range recs {
		fmt.Fprintf(e.stdout, "%s:%d: %s\n", rec.Source, rec.Line, storage.RecordRule(rec))
	}
	return exitOK, nil
}

func listFilter(fs *pflag.FlagSet) (core.Filter, error) {
	var f core.Filter
	if name, _ := fs.GetString("cadence"); name != "" {
		c, ok := parser.ParseRecurrenceCode(name)
		if !ok {
			c = core.Cadence(name)
		}
		if c == core.CadenceNone || !c.Valid() {
			return f, fmt.Errorf("unknown cadence %q", name)
		}
		f.Cadence = &c
	}
	f.Source, _ = fs.GetString("source")
	f.Limit, _ = fs.GetInt("limit")
	return f, nil
}

func runCron(ctx context.Context, e *env) (int, error) {
	if len(e.args) == 0 {
		return exitUsage, errNoFiles
	}
	s := e.scanner()
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	code := exitOK
	for _, path := range e.args {
		report, err := e.scanFile(ctx, s, path)
		if err != nil {
			if err := e.unreadable(ctx, path, err); err != nil {
				return exitFailures, err
			}
			code = exitFailures
			continue
		}
		for _, entry := range report.Entries {
			spec, err := cronspec.Spec(entry.Rule)
			switch {
			case errors.Is(err, cronspec.ErrNotRecurring):
				continue
			case err != nil:
				var re *core.RuleError
				if errors.As(err, &re) {
					err = re.Err
				}
				fmt.Fprintf(tw, "%s:%d\t-\t%s\t(%v)\n", path, entry.Line, entry.Rule.Description, err)
			default:
				fmt.Fprintf(tw, "%s:%d\t%s\t%s\n", path, entry.Line, spec, entry.Rule.Description)
			}
		}
	}
	return code, tw.Flush()
}
