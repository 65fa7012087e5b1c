// Command reminders checks, imports, lists, and exports reminder files.
//
// Usage:
//
//	reminders [flags] check FILE...
//	reminders [flags] import FILE...
//	reminders [flags] list [--cadence c] [--source s] [--limit n]
//	reminders [flags] cron FILE...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jdziat/simple-reminders/internal/config"
)

// Exit codes
const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// env bundles what a subcommand needs.
type env struct {
	cfg    *config.Config
	flags  *pflag.FlagSet
	args   []string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

type command func(ctx context.Context, e *env) (int, error)

var commands = map[string]command{
	"check":  runCheck,
	"import": runImport,
	"list":   runList,
	"cron":   runCron,
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := pflag.NewFlagSet("reminders", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.AddFlags(fs)
	addListFlags(fs)
	fs.BoolP("help", "h", false, "show help")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if help, _ := fs.GetBool("help"); help {
		printUsage(stdout, fs)
		return exitOK
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr, fs)
		return exitUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "error: unknown command %q\n", rest[0])
		printUsage(stderr, fs)
		return exitUsage
	}

	cfg, err := config.Load(fs, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	logger.Debug("loaded config",
		"file", cfg.ConfigFile,
		"database", cfg.Database,
		"concurrency", cfg.Concurrency,
		"strict", cfg.Strict,
	)

	code, err := cmd(ctx, &env{
		cfg:    cfg,
		flags:  fs,
		args:   rest[1:],
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return code
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: reminders [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  check FILE...   report lines with unusable schedules")
	fmt.Fprintln(w, "  import FILE...  store the rules of each file, replacing earlier imports")
	fmt.Fprintln(w, "  list            print stored rules")
	fmt.Fprintln(w, "  cron FILE...    print cron expressions for recurring rules")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
