// Package output renders parse results in the formats the command supports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	yaml "go.yaml.in/yaml/v3"

	"github.com/lucrnz/timeparse/internal/util"
	"github.com/lucrnz/timeparse/pkg/timeparser"
)

// Result is the outcome of evaluating one input.
type Result struct {
	Source   string               `json:"source,omitempty" yaml:"source,omitempty"`
	Line     int                  `json:"line,omitempty" yaml:"line,omitempty"`
	Input    string               `json:"input" yaml:"input"`
	Valid    bool                 `json:"valid" yaml:"valid"`
	Seconds  float64              `json:"seconds" yaml:"seconds"`
	Duration *timeparser.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Error    string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Writer consumes results. Close flushes buffered formats.
type Writer interface {
	Write(Result) error
	Close() error
}

// Formats lists the accepted format names.
var Formats = []string{"seconds", "go", "compact", "canonical", "human", "check", "json", "yaml"}

// New returns a writer for format writing to w.
func New(format string, w io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "seconds", "":
		return &textWriter{w: w, render: func(r Result) string {
			return strconv.FormatFloat(r.Seconds, 'f', -1, 64)
		}}, nil
	case "go":
		return &textWriter{w: w, render: func(r Result) string { return r.duration().String() }}, nil
	case "compact":
		return &textWriter{w: w, render: func(r Result) string { return util.FormatCompact(r.duration()) }}, nil
	case "canonical":
		return &textWriter{w: w, render: func(r Result) string { return timeparser.Format(r.duration()) }}, nil
	case "human":
		return &textWriter{w: w, render: human}, nil
	case "check":
		return &checkWriter{w: w}, nil
	case "json":
		return &jsonWriter{enc: json.NewEncoder(w)}, nil
	case "yaml":
		return &yamlWriter{w: w, results: []Result{}}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func (r Result) duration() time.Duration {
	if r.Duration != nil {
		return r.Duration.Duration()
	}
	return time.Duration(r.Seconds * float64(time.Second))
}

func human(r Result) string {
	unit := "seconds"
	if r.Seconds == 1 {
		unit = "second"
	}
	return humanize.Commaf(r.Seconds) + " " + unit
}

// textWriter prints one line per valid result; failures are reported by the
// caller's logger only.
type textWriter struct {
	w      io.Writer
	render func(Result) string
}

func (t *textWriter) Write(r Result) error {
	if !r.Valid {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.render(r))
	return err
}

func (t *textWriter) Close() error { return nil }

type checkWriter struct{ w io.Writer }

func (c *checkWriter) Write(r Result) error {
	status := "valid"
	if !r.Valid {
		status = "invalid"
	}
	_, err := fmt.Fprintf(c.w, "%s\t%s\n", status, strconv.Quote(r.Input))
	return err
}

func (c *checkWriter) Close() error { return nil }

type jsonWriter struct{ enc *json.Encoder }

func (j *jsonWriter) Write(r Result) error { return j.enc.Encode(r) }
func (j *jsonWriter) Close() error         { return nil }

type yamlWriter struct {
	w       io.Writer
	results []Result
}

func (y *yamlWriter) Write(r Result) error {
	y.results = append(y.results, r)
	return nil
}

func (y *yamlWriter) Close() error {
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(y.results); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
