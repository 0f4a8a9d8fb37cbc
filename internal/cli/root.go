package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/lucrnz/timeparse/internal/batch"
	"github.com/lucrnz/timeparse/internal/cleanup"
	"github.com/lucrnz/timeparse/internal/config"
	"github.com/lucrnz/timeparse/internal/input"
	"github.com/lucrnz/timeparse/internal/locale"
	"github.com/lucrnz/timeparse/internal/logging"
	"github.com/lucrnz/timeparse/internal/output"
	"github.com/lucrnz/timeparse/internal/progress"
	"github.com/lucrnz/timeparse/internal/util"
	"github.com/lucrnz/timeparse/internal/version"
	"github.com/lucrnz/timeparse/pkg/timeparser"
)

type options struct {
	separator        string
	locale           string
	exactFraction    bool
	format           string
	check            bool
	files            []string
	output           string
	maxBytesStr      string
	progressInterval timeparser.Duration
	quiet            bool
	logLevel         string
	logFormat        string
	configFile       string
}

// lookupEnv is swapped in tests so the host locale does not leak in.
var lookupEnv = os.LookupEnv

func newRootCmd(tracker *cleanup.Tracker) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "timeparse [flags] [duration...]",
		Short: "Convert human-written durations such as \"1d 1h 1m 1s\" into seconds",
		Long: `timeparse

Converts durations written as a sequence of number and unit pairs (d, h, m, s)
into seconds. Durations are read from the arguments, from --file inputs
(optionally gzip, bzip2, xz or zstd compressed) or from stdin.

Copyright (c) 2025 Luciano Hillcoat.
This program is open-source and warranty-free, read more at: https://github.com/lucrnz/timeparse/blob/main/LICENSE
`,
		Args:    cobra.ArbitraryArgs,
		Version: version.Print(),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.Load("timeparse", opts.configFile, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, tracker)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.separator, "decimal-separator", "s", "", "Decimal separator character (default: from --locale or the environment, else \".\")")
	f.StringVarP(&opts.locale, "locale", "L", "", "Locale whose decimal separator is used (e.g., \"de-DE\", \"fr_FR.UTF-8\")")
	f.BoolVar(&opts.exactFraction, "exact-fraction", false, "Count fraction digits as typed, so \"1.05s\" is 1.05 seconds instead of 1.5")
	f.StringVarP(&opts.format, "format", "F", "seconds", "Output format: "+strings.Join(output.Formats, ", "))
	f.BoolVarP(&opts.check, "check", "c", false, "Only report whether each duration is valid")
	f.StringArrayVarP(&opts.files, "file", "f", []string{}, "Read durations from a file, one per line (\"-\" for stdin). Can be specified multiple times.")
	f.StringVarP(&opts.output, "output", "o", "", "Write results to this file instead of stdout")
	f.StringVarP(&opts.maxBytesStr, "max-input-bytes", "M", "16MiB", "Maximum decompressed bytes read per input (e.g., \"16MiB\", \"0\" = unlimited)")
	f.Var(&opts.progressInterval, "progress-interval", "Interval between progress logs for file inputs (e.g., \"5s\", \"0s\" = milestones only)")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log errors")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format: text, json")
	f.StringVar(&opts.configFile, "config", "", "Configuration file (default: ./timeparse.yaml when present)")

	// Silence usage output for runtime errors, but show it for flag errors
	// SilenceErrors is true so we can control error output format in main()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})
	return cmd
}

// ExecuteContext runs the root command with the process arguments.
func ExecuteContext(ctx context.Context, tracker *cleanup.Tracker) error {
	return newRootCmd(tracker).ExecuteContext(ctx)
}

func run(cmd *cobra.Command, args []string, opts *options, tracker *cleanup.Tracker) error {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat, opts.quiet)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	cleanup.SetLogger(logger)
	ctx := logging.WithContext(cmd.Context(), logger)

	sep, err := resolveSeparator(opts.separator, opts.locale)
	if err != nil {
		return err
	}
	parser := timeparser.Parser{DecimalSeparator: sep, ExactFraction: opts.exactFraction}
	if err := parser.Validate(); err != nil {
		return fmt.Errorf("invalid --decimal-separator: %w", err)
	}

	maxBytes, err := util.ParseByteSize(opts.maxBytesStr)
	if err != nil {
		return fmt.Errorf("invalid --max-input-bytes value: %w", err)
	}

	format := strings.ToLower(opts.format)
	if opts.check && format != "json" && format != "yaml" {
		format = "check"
	}

	files := opts.files
	if len(args) == 0 && len(files) == 0 {
		files = []string{"-"}
	}

	var (
		dest io.Writer = cmd.OutOrStdout()
		tmp  *cleanup.File
	)
	if opts.output != "" && opts.output != "-" {
		tmp, err = tracker.CreateTemp(opts.output)
		if err != nil {
			return err
		}
		dest = tmp
	}

	w, err := output.New(format, dest)
	if err != nil {
		if tmp != nil {
			tmp.Discard()
		}
		return err
	}

	logger.Debug("run_started",
		"separator", string(sep),
		"exact_fraction", opts.exactFraction,
		"format", format,
		"args", len(args),
		"files", len(files),
	)

	runner := &batch.Runner{Parser: parser, Check: opts.check, Writer: w, Logger: logger}
	err = evaluate(ctx, cmd, runner, args, files, input.Options{MaxBytes: maxBytes}, opts)
	if cerr := w.Close(); err == nil {
		err = cerr
	}

	if tmp != nil {
		if err != nil {
			tmp.Discard()
			return err
		}
		if err := tmp.Commit(); err != nil {
			return err
		}
		logger.Debug("output_written", "file", opts.output)
	}
	if err != nil {
		return err
	}
	return runner.Err()
}

func evaluate(ctx context.Context, cmd *cobra.Command, runner *batch.Runner, args, files []string, in input.Options, opts *options) error {
	if err := runner.Args(ctx, args); err != nil {
		return err
	}
	for _, path := range files {
		if err := evaluateFile(ctx, cmd, runner, path, in, opts); err != nil {
			return err
		}
	}
	return nil
}

func evaluateFile(ctx context.Context, cmd *cobra.Command, runner *batch.Runner, path string, in input.Options, opts *options) error {
	var size int64
	name := path
	if path == "-" {
		name = "stdin"
	} else if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}

	bar := progress.New(name, size, 25, 0, opts.progressInterval.Duration(), logging.FromContext(ctx), opts.quiet)
	in.Counter = bar.Add

	src, err := input.Open(path, cmd.InOrStdin(), in)
	if err != nil {
		return err
	}
	defer src.Close()

	bar.Start()
	defer bar.Stop()
	return runner.Source(ctx, src, bar)
}

// resolveSeparator picks the decimal separator: the explicit flag, then the
// --locale flag, then the environment locale.
func resolveSeparator(flag, loc string) (rune, error) {
	if flag != "" {
		r, size := utf8.DecodeRuneInString(flag)
		if size != len(flag) {
			return 0, fmt.Errorf("--decimal-separator must be a single character, got %q", flag)
		}
		return r, nil
	}
	if loc != "" {
		tag := locale.Tag(loc)
		if tag == language.Und && loc != "C" && loc != "POSIX" {
			return 0, fmt.Errorf("invalid --locale value %q", loc)
		}
		return locale.Separator(tag), nil
	}
	return locale.Separator(locale.FromEnv(lookupEnv)), nil
}
