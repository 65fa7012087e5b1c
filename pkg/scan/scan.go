package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/parser"
	"github.com/jdziat/simple-reminders/pkg/security"
)

// Entry is an accepted line.
type Entry struct {
	Line int
	Rule core.Rule
}

// Failure is a line whose schedule could not be used.
type Failure struct {
	Line int
	Text string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("line %d: %v", f.Line, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report is the outcome of scanning one source.
type Report struct {
	Source   string
	Entries  []Entry
	Failures []Failure
	Skipped  int
}

// Rules returns the accepted rules in line order.
func (r *Report) Rules() []core.Rule {
	rules := make([]core.Rule, len(r.Entries))
	for i, e := range r.Entries {
		rules[i] = e.Rule
	}
	return rules
}

// OK reports whether no line was rejected.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Scanner parses reminder sources.
type Scanner struct {
	config Config
	logger *slog.Logger
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	config := Config{
		Concurrency:   4,
		MaxLineLength: security.MaxLineLength,
		Logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt.ApplyScanner(&config)
	}

	return &Scanner{
		config: config,
		logger: config.Logger,
	}
}

// result is the per-line outcome, indexed by line position.
type result struct {
	rule *core.Rule
	err  error
}

// Scan reads every line of r and parses it. source names r in the report
// and in log output. Only read errors and context cancellation abort a scan.
func (s *Scanner) Scan(ctx context.Context, source string, r io.Reader) (*Report, error) {
	start := time.Now()

	lines, err := s.readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	results, err := s.parseAll(ctx, lines)
	if err != nil {
		return nil, err
	}

	report := &Report{Source: source}
	for i, res := range results {
		lineNo := i + 1
		switch {
		case res.err != nil:
			f := Failure{Line: lineNo, Text: lines[i].text, Err: res.err}
			report.Failures = append(report.Failures, f)
			s.logger.Debug("rejected line", "source", source, "line", lineNo, "error", res.err)
			s.emit(&core.LineRejected{Source: source, Line: lineNo, Text: lines[i].text, Error: res.err, Timestamp: time.Now()})
		case res.rule == nil:
			report.Skipped++
			s.emit(&core.LineSkipped{Source: source, Line: lineNo, Timestamp: time.Now()})
		default:
			report.Entries = append(report.Entries, Entry{Line: lineNo, Rule: *res.rule})
			s.emit(&core.LineAccepted{Source: source, Line: lineNo, Rule: *res.rule, Timestamp: time.Now()})
		}
	}

	s.logger.Info("scanned source",
		"source", source,
		"accepted", len(report.Entries),
		"rejected", len(report.Failures),
		"skipped", report.Skipped,
	)
	s.emit(&core.ScanCompleted{
		Source:    source,
		Accepted:  len(report.Entries),
		Rejected:  len(report.Failures),
		Skipped:   report.Skipped,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	})

	return report, nil
}

// line is one raw input line.
type line struct {
	text    string
	tooLong bool // text is a truncated prefix
}

// previewLength bounds the text kept for an over-long line.
const previewLength = 64

// readLines splits r into lines. Over-long lines keep their position so
// numbering stays correct and they can be reported individually.
func (s *Scanner) readLines(r io.Reader) ([]line, error) {
	// Room for the line plus "\r\n".
	br := bufio.NewReaderSize(r, s.config.MaxLineLength+2)

	var lines []line
	for {
		raw, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			lines = append(lines, line{text: string(raw[:min(len(raw), previewLength)]), tooLong: true})
			if err := discardRest(br); err != nil {
				if errors.Is(err, io.EOF) {
					return lines, nil
				}
				return nil, err
			}
			continue
		}
		if len(raw) > 0 {
			text := strings.TrimRight(string(raw), "\r\n")
			if len(text) > s.config.MaxLineLength {
				lines = append(lines, line{text: text[:min(len(text), previewLength)], tooLong: true})
			} else {
				lines = append(lines, line{text: text})
			}
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// discardRest skips to just past the next newline.
func discardRest(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

// parseAll parses lines on a goroutine pool, keeping results by index.
func (s *Scanner) parseAll(ctx context.Context, lines []line) ([]result, error) {
	results := make([]result, len(lines))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < min(s.config.Concurrency, max(len(lines), 1)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = s.parseOne(lines[idx])
			}
		}()
	}

	var err error
feed:
	for i := range lines {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) parseOne(l line) result {
	if l.tooLong {
		return result{err: core.ErrLineTooLong}
	}

	rule, err := parser.ParseLine(l.text)
	if err != nil || rule == nil {
		return result{rule: rule, err: err}
	}

	if s.config.Strict {
		if err := rule.Validate(); err != nil {
			return result{err: err}
		}
	}
	return result{rule: rule}
}

func (s *Scanner) emit(e core.Event) {
	if s.config.OnEvent != nil {
		s.config.OnEvent(e)
	}
}
