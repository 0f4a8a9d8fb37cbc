package cli

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/zenizh/go-capturer"

	"github.com/lucrnz/timeparse/internal/batch"
	"github.com/lucrnz/timeparse/internal/cleanup"
	"github.com/lucrnz/timeparse/internal/input"
	"github.com/lucrnz/timeparse/pkg/timeparser"
)

// execute runs the command and returns what it wrote to stdout and stderr.
func execute(stdin string, args ...string) (stdout, stderr string, err error) {
	cmd := newRootCmd(cleanup.NewTracker())
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	stderr = capturer.CaptureStderr(func() {
		stdout = capturer.CaptureStdout(func() {
			err = cmd.ExecuteContext(context.Background())
		})
	})
	return stdout, stderr, err
}

var _ = Describe("timeparse", func() {
	var env map[string]string

	BeforeEach(func() {
		env = map[string]string{}
		lookupEnv = func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
		DeferCleanup(func() { lookupEnv = os.LookupEnv })
	})

	Context("with durations as arguments", func() {
		It("prints seconds", func() {
			out, _, err := execute("", "1d 1h 1m 1s", "1.5d")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("90061\n129600\n"))
		})

		It("prints the canonical form", func() {
			out, _, err := execute("", "--format", "canonical", "90m", "1d 0h 61s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1h 30m\n1d 1m 1s\n"))
		})

		It("reports every invalid duration", func() {
			out, logs, err := execute("", "1h 1d 3q", "30m", "fnord")
			Expect(err).To(MatchError(timeparser.ErrUnsupportedUnit))
			Expect(err).To(MatchError(timeparser.ErrUnexpectedLetter))
			Expect(err.Error()).To(ContainSubstring("supported units: 'd', 'h', 'm', 's'"))
			Expect(out).To(Equal("1800\n"))
			Expect(logs).To(ContainSubstring("parse_failed"))
		})

		It("keeps the fraction quirk unless asked not to", func() {
			out, _, err := execute("", "1.05s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1.5\n"))

			out, _, err = execute("", "--exact-fraction", "1.05s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1.05\n"))
		})
	})

	Context("in check mode", func() {
		It("lists validity and fails on invalid input", func() {
			out, _, err := execute("", "--check", "1d", "fnord")
			Expect(err).To(MatchError(batch.ErrInvalid))
			Expect(out).To(Equal("valid\t\"1d\"\ninvalid\t\"fnord\"\n"))
		})

		It("succeeds when everything is valid", func() {
			out, _, err := execute("", "-c", "1d", "2h")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("valid\t\"1d\"\nvalid\t\"2h\"\n"))
		})
	})

	Context("reading inputs", func() {
		It("reads stdin without arguments", func() {
			out, _, err := execute("# backups\n1h\n\n30m\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("3600\n1800\n"))
		})

		It("reads compressed files", func() {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write([]byte("1d\n2m\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(zw.Close()).To(Succeed())

			path := filepath.Join(GinkgoT().TempDir(), "retention.txt.gz")
			Expect(os.WriteFile(path, buf.Bytes(), 0o600)).To(Succeed())

			out, _, err := execute("", "--file", path, "--format", "json")
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(out), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(ContainSubstring(`"seconds":86400`))
			Expect(lines[1]).To(ContainSubstring(`"line":2`))
		})

		It("enforces the input limit", func() {
			_, _, err := execute("1h\n2h\n3h\n", "--file", "-", "--max-input-bytes", "4B")
			Expect(err).To(MatchError(input.ErrInputTooLarge))
		})

		It("fails on a missing file", func() {
			_, _, err := execute("", "--file", filepath.Join(GinkgoT().TempDir(), "missing"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	Context("choosing the decimal separator", func() {
		It("uses the flag", func() {
			out, _, err := execute("", "-s", ",", "1,5h")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("5400\n"))
		})

		It("uses the locale flag over the environment", func() {
			env["LANG"] = "en_US.UTF-8"
			out, _, err := execute("", "--locale", "de_DE.UTF-8", "1,5h")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("5400\n"))
		})

		It("falls back to the environment locale", func() {
			env["LC_NUMERIC"] = "fr_FR.UTF-8"
			out, _, err := execute("", "0,5m")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("30\n"))

			_, _, err = execute("", "0.5m")
			Expect(err).To(MatchError(timeparser.ErrInvalidCharacter))
		})

		It("rejects unusable separators", func() {
			_, _, err := execute("", "-s", "ab", "1h")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("single character"))

			_, _, err = execute("", "-s", "x", "1h")
			Expect(err).To(MatchError(timeparser.ErrInvalidDecimalSeparator))
		})

		It("rejects unknown locales", func() {
			_, _, err := execute("", "--locale", "not a locale", "1h")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("writing to a file", func() {
		It("replaces the destination atomically", func() {
			dir := GinkgoT().TempDir()
			dest := filepath.Join(dir, "out.yaml")
			Expect(os.WriteFile(dest, []byte("old"), 0o600)).To(Succeed())

			out, _, err := execute("", "-o", dest, "-F", "yaml", "2h")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())

			data, err := os.ReadFile(dest)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("seconds: 7200"))
			Expect(string(data)).To(ContainSubstring("duration: 2h"))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("leaves the destination alone when reading fails", func() {
			dir := GinkgoT().TempDir()
			dest := filepath.Join(dir, "out.txt")
			Expect(os.WriteFile(dest, []byte("old"), 0o600)).To(Succeed())

			_, _, err := execute("", "-o", dest, "-f", filepath.Join(dir, "missing"))
			Expect(err).To(HaveOccurred())

			data, err := os.ReadFile(dest)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("old"))
			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})
	})

	Context("with configuration", func() {
		It("reads a config file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "timeparse.yaml")
			Expect(os.WriteFile(path, []byte("format: compact\nexact-fraction: true\n"), 0o600)).To(Succeed())

			out, _, err := execute("", "--config", path, "1d 1h 1m 1s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1d1h1m1s\n"))
		})

		It("lets flags win over the config file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "timeparse.yaml")
			Expect(os.WriteFile(path, []byte("format: compact\n"), 0o600)).To(Succeed())

			out, _, err := execute("", "--config", path, "-F", "go", "90s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1m30s\n"))
		})

		It("reads the environment", func() {
			Expect(os.Setenv("TIMEPARSE_EXACT_FRACTION", "true")).To(Succeed())
			DeferCleanup(os.Unsetenv, "TIMEPARSE_EXACT_FRACTION")

			out, _, err := execute("", "1.05s")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1.05\n"))
		})

		It("fails on a missing config file", func() {
			_, _, err := execute("", "--config", filepath.Join(GinkgoT().TempDir(), "nope.yaml"), "1h")
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	It("shows usage on flag errors", func() {
		_, logs, err := execute("", "--no-such-flag")
		Expect(err).To(HaveOccurred())
		Expect(logs).To(ContainSubstring("Usage:"))
	})

	It("logs debug events as JSON", func() {
		_, logs, err := execute("", "--log-level", "debug", "--log-format", "json", "1h")
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(ContainSubstring(`"msg":"run_started"`))
	})
})
