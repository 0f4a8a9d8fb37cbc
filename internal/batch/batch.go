// Package batch evaluates durations from arguments and input sources.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/lucrnz/timeparse/internal/input"
	"github.com/lucrnz/timeparse/internal/output"
	"github.com/lucrnz/timeparse/internal/progress"
	"github.com/lucrnz/timeparse/pkg/timeparser"
)

// ErrInvalid is reported, once per run, when check mode saw invalid input.
var ErrInvalid = errors.New("one or more durations are invalid")

// Runner evaluates entries and writes one result per entry.
type Runner struct {
	Parser timeparser.Parser
	Check  bool // only report validity, like TryParse
	Writer output.Writer
	Logger *slog.Logger

	errs    error
	invalid int
}

// Evaluate parses one entry and writes its result. A parse failure is recorded
// and does not stop the run; only write failures are returned.
func (r *Runner) Evaluate(e input.Entry) error {
	res := output.Result{Source: e.Source, Line: e.Line, Input: e.Text}

	if r.Check {
		if d, ok := r.Parser.TryParse(e.Text); ok {
			res.Valid = true
			res.Seconds = d.Seconds()
			td := timeparser.Duration(d)
			res.Duration = &td
		} else {
			r.invalid++
			r.logger().Debug("check_failed", "entry", e.String(), "input", e.Text)
		}
		return r.Writer.Write(res)
	}

	d, err := r.Parser.Parse(e.Text)
	if err != nil {
		res.Error = err.Error()
		r.errs = multierr.Append(r.errs, fmt.Errorf("%s: %w", e, err))
		r.logger().Warn("parse_failed", "entry", e.String(), "error", err)
		return r.Writer.Write(res)
	}

	res.Valid = true
	res.Seconds = d.Seconds()
	td := timeparser.Duration(d)
	res.Duration = &td
	r.logger().Debug("parsed", "entry", e.String(), "seconds", res.Seconds)
	return r.Writer.Write(res)
}

// Args evaluates command-line arguments.
func (r *Runner) Args(ctx context.Context, args []string) error {
	for _, a := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Evaluate(input.Entry{Source: "args", Text: a}); err != nil {
			return err
		}
	}
	return nil
}

// Source evaluates every line of src. bar may be nil.
func (r *Runner) Source(ctx context.Context, src *input.Source, bar *progress.Bar) error {
	r.logger().Debug("source_opened", "source", src.Name, "compression", src.Compression.String())
	return input.Scan(ctx, src, src.Name, func(e input.Entry) error {
		if bar != nil {
			bar.Entry()
		}
		return r.Evaluate(e)
	})
}

// Err returns the aggregated parse failures, or ErrInvalid in check mode.
func (r *Runner) Err() error {
	if r.Check && r.invalid > 0 {
		return fmt.Errorf("%w (%d)", ErrInvalid, r.invalid)
	}
	return r.errs
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
