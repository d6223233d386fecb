// Package analytics records site events such as signup conversions.
//
// Tracking is fire-and-forget: Track never blocks on I/O and never returns an
// error, so a broken analytics backend cannot break a signup. Components get
// a Sink through their constructor; there is no package-level recorder.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Event is one analytics hit. Label and Value are optional.
type Event struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	Value    *int   `json:"value,omitempty"`
}

// Sink accepts events. Implementations must not block the caller.
type Sink interface {
	Track(ctx context.Context, e Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Track(context.Context, Event) {}

// Recorded is an Event as kept in the trailing window.
type Recorded struct {
	ID         string    `json:"id"`
	Event      Event     `json:"event"`
	RecordedAt time.Time `json:"recordedAt"`
}

const DefaultWindow = 100

type Options struct {
	// Window is the number of recent events kept. Defaults to DefaultWindow.
	Window int
	// File, when set, is where the window is saved by Run and Flush and
	// restored from by NewRecorder.
	File string
	// Registerer receives the events counter. Nil skips metrics.
	Registerer prometheus.Registerer
}

// Recorder keeps a bounded window of recent events, counts them in
// prometheus and optionally persists the window to a local JSON file.
type Recorder struct {
	logger *slog.Logger
	window int
	file   string
	events *prometheus.CounterVec
	now    func() time.Time

	mu     sync.Mutex
	recent []Recorded

	dirty chan struct{}
}

var _ Sink = (*Recorder)(nil)

func NewRecorder(opts Options, logger *slog.Logger) (*Recorder, error) {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	r := &Recorder{
		logger: logger,
		window: opts.Window,
		file:   opts.File,
		now:    time.Now,
		dirty:  make(chan struct{}, 1),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spark_analytics_events_total",
			Help: "Total analytics events tracked, by category and action",
		}, []string{"category", "action"}),
	}
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(r.events); err != nil {
			return nil, fmt.Errorf("registering analytics metrics: %w", err)
		}
	}
	if r.file != "" {
		r.restore()
	}
	return r, nil
}

// Track stamps e and appends it to the window, evicting the oldest event
// once the window is full.
func (r *Recorder) Track(_ context.Context, e Event) {
	rec := Recorded{
		ID:         uuid.NewString(),
		Event:      e,
		RecordedAt: r.now().UTC(),
	}

	r.mu.Lock()
	r.recent = append(r.recent, rec)
	if over := len(r.recent) - r.window; over > 0 {
		r.recent = append(r.recent[:0:0], r.recent[over:]...)
	}
	r.mu.Unlock()

	r.events.WithLabelValues(e.Category, e.Action).Inc()

	select {
	case r.dirty <- struct{}{}:
	default:
	}

	r.logger.Debug("analytics event",
		slog.String("category", e.Category),
		slog.String("action", e.Action),
		slog.String("label", e.Label),
	)
}

// Recent returns a copy of the window, oldest first.
func (r *Recorder) Recent() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.recent))
	copy(out, r.recent)
	return out
}

// Run saves the window whenever it changes until ctx is done, then saves
// once more. It returns immediately when no file is configured.
func (r *Recorder) Run(ctx context.Context) error {
	if r.file == "" {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			r.Flush()
			return nil
		case <-r.dirty:
			r.Flush()
		}
	}
}

// Flush writes the window to the configured file. Failures are logged only.
func (r *Recorder) Flush() {
	if r.file == "" {
		return
	}
	if err := r.save(); err != nil {
		r.logger.Warn("failed to persist analytics window",
			slog.String("file", r.file),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Recorder) save() error {
	data, err := json.Marshal(r.Recent())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.file), 0o755); err != nil {
		return err
	}
	tmp := r.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.file)
}

func (r *Recorder) restore() {
	data, err := os.ReadFile(r.file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read analytics window",
				slog.String("file", r.file),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	var saved []Recorded
	if err := json.Unmarshal(data, &saved); err != nil {
		r.logger.Warn("ignoring corrupt analytics window",
			slog.String("file", r.file),
			slog.String("error", err.Error()),
		)
		return
	}
	if over := len(saved) - r.window; over > 0 {
		saved = saved[over:]
	}
	r.recent = saved
}
