package progress

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucrnz/timeparse/internal/util"
)

// Bar emits structured progress logs while a source is consumed.
type Bar struct {
	Name           string
	Total          int64         // raw bytes expected, 0 when unknown
	MilestoneStep  int           // percentage step for known sizes
	ByteStep       int64         // byte step for unknown sizes
	RenderInterval time.Duration // interval for interval-based logs, 0 disables them
	Logger         *slog.Logger
	Quiet          bool

	consumed atomic.Int64
	entries  atomic.Int64

	mu            sync.Mutex
	nextMilestone int
	nextByteLog   int64
	lastLogged    int64
	done          chan struct{}
	stopOnce      sync.Once
}

// New creates a progress bar instance with sane defaults.
func New(name string, total int64, step int, byteStep int64, interval time.Duration, logger *slog.Logger, quiet bool) *Bar {
	if step <= 0 {
		step = 25
	}
	if step > 50 {
		step = 50
	}
	if byteStep <= 0 {
		byteStep = 1024 * 1024
	}
	if interval < 0 {
		interval = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bar{
		Name:           name,
		Total:          total,
		MilestoneStep:  step,
		ByteStep:       byteStep,
		RenderInterval: interval,
		Logger:         logger,
		Quiet:          quiet,
		nextMilestone:  step,
		nextByteLog:    byteStep,
		done:           make(chan struct{}),
	}
}

// Add records n raw bytes read. It is safe to call from any goroutine.
func (b *Bar) Add(n int64) {
	if n <= 0 {
		return
	}
	b.consumed.Add(n)

	if !b.Quiet {
		if b.Total > 0 {
			b.maybeLogMilestone()
		} else {
			b.maybeLogBytes()
		}
	}
}

// Entry records one evaluated duration.
func (b *Bar) Entry() { b.entries.Add(1) }

// Consumed returns the raw bytes recorded so far.
func (b *Bar) Consumed() int64 { return b.consumed.Load() }

// Entries returns the number of evaluated durations.
func (b *Bar) Entries() int64 { return b.entries.Load() }

// Start begins interval-based logging in a goroutine.
func (b *Bar) Start() {
	if b.Quiet || b.RenderInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(b.RenderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.logCurrentProgress()
			case <-b.done:
				return
			}
		}
	}()
}

// Stop ends interval-based logging and logs a final summary.
func (b *Bar) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		if !b.Quiet {
			b.Logger.Debug("batch_done",
				"source", b.Name,
				"entries", b.Entries(),
				"consumed_bytes", b.Consumed(),
				"consumed", util.HumanReadableBytes(b.Consumed()),
			)
		}
	})
}

func (b *Bar) logCurrentProgress() {
	consumed := b.Consumed()
	b.mu.Lock()
	if consumed == b.lastLogged {
		b.mu.Unlock()
		return
	}
	b.lastLogged = consumed
	b.mu.Unlock()

	attrs := []any{
		"source", b.Name,
		"entries", b.Entries(),
		"consumed_bytes", consumed,
		"consumed", util.HumanReadableBytes(consumed),
	}
	if b.Total > 0 {
		attrs = append(attrs, "percent", int(b.percent(consumed)), "total", util.HumanReadableBytes(b.Total))
	}
	b.Logger.Info("batch_progress", attrs...)
}

func (b *Bar) maybeLogMilestone() {
	consumed := b.Consumed()
	pct := int(b.percent(consumed))

	b.mu.Lock()
	defer b.mu.Unlock()
	for pct >= b.nextMilestone && b.nextMilestone <= 100 {
		b.Logger.Info("batch_progress",
			"source", b.Name,
			"percent", b.nextMilestone,
			"consumed_bytes", consumed,
			"total", util.HumanReadableBytes(b.Total),
		)
		b.nextMilestone += b.MilestoneStep
	}
}

func (b *Bar) maybeLogBytes() {
	consumed := b.Consumed()

	b.mu.Lock()
	defer b.mu.Unlock()
	for consumed >= b.nextByteLog {
		b.Logger.Info("batch_progress",
			"source", b.Name,
			"consumed_bytes", b.nextByteLog,
			"consumed", util.HumanReadableBytes(b.nextByteLog),
		)
		b.nextByteLog += b.ByteStep
	}
}

func (b *Bar) percent(consumed int64) float64 {
	if b.Total <= 0 {
		return 0
	}
	p := (float64(consumed) / float64(b.Total)) * 100
	if p > 100 {
		return 100
	}
	return p
}
