package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
)

// Reader is the part of the store a refresh reads from.
type Reader interface {
	ListHackathons(ctx context.Context, status model.HackathonStatus) ([]model.Hackathon, error)
	ListTeams(ctx context.Context, hackathonID string) ([]model.Team, error)
	ListRegistrations(ctx context.Context, hackathonID string) ([]model.Registration, error)
	ListSubmissions(ctx context.Context, hackathonID string) ([]model.Submission, error)
}

// Subscriber is implemented by *changefeed.Feed.
type Subscriber interface {
	Subscribe(topics ...changefeed.Topic) *changefeed.Subscription
}

// Topics are the changes that can move a score.
var Topics = []changefeed.Topic{
	{Table: model.TableHackathonTeams, Event: changefeed.EventInsert},
	{Table: model.TableHackathonRegistrations, Event: changefeed.EventInsert},
	{Table: model.TableHackathonRegistrations, Event: changefeed.EventUpdate},
	{Table: model.TableHackathonSubmissions, Event: changefeed.EventInsert},
}

// State is what readers of a Live leaderboard see.
//
// Board is nil until the first successful refresh. Err is the error of the
// most recent refresh; when both are set the board is the last good one and
// is stale.
type State struct {
	Board *Board
	Err   error
}

// Live keeps a Board current.
//
// Refreshes run one at a time on the Run goroutine. Notifications that
// arrive during a refresh are folded into a single follow-up refresh, which
// always reads a complete new snapshot, so the board never lags behind the
// last notification it received.
type Live struct {
	reader Reader
	feed   Subscriber
	logger *slog.Logger
	now    func() time.Time

	refreshes *prometheus.CounterVec

	mu    sync.RWMutex
	state State

	listenersMu sync.Mutex
	listeners   map[chan struct{}]struct{}
}

func NewLive(reader Reader, feed Subscriber, logger *slog.Logger, reg prometheus.Registerer) (*Live, error) {
	l := &Live{
		reader:    reader,
		feed:      feed,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[chan struct{}]struct{}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spark_leaderboard_refreshes_total",
			Help: "Leaderboard recomputes, by result",
		}, []string{"result"}),
	}
	if reg != nil {
		if err := reg.Register(l.refreshes); err != nil {
			return nil, fmt.Errorf("registering leaderboard metrics: %w", err)
		}
	}
	return l, nil
}

// Run computes the board once and then again after every matching change,
// until ctx is done.
func (l *Live) Run(ctx context.Context) error {
	sub := l.feed.Subscribe(Topics...)
	defer sub.Close()

	l.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub.C():
			if !ok {
				return nil
			}
			drain(sub.C())
			l.Refresh(ctx)
		}
	}
}

func drain(ch <-chan changefeed.Change) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Refresh fetches a full snapshot and replaces the board. On a read failure
// the previous board is kept and the error is recorded in State.
func (l *Live) Refresh(ctx context.Context) {
	snap, err := l.fetch(ctx)
	if err != nil {
		l.refreshes.WithLabelValues("error").Inc()
		l.logger.Warn("leaderboard refresh failed", slog.String("error", err.Error()))
		l.mu.Lock()
		l.state.Err = err
		l.mu.Unlock()
		return
	}

	board := Compute(snap)
	board.ComputedAt = l.now().UTC()

	l.mu.Lock()
	l.state = State{Board: &board}
	l.mu.Unlock()

	l.refreshes.WithLabelValues("ok").Inc()
	l.logger.Debug("leaderboard refreshed",
		slog.Int("teams", len(board.Teams)),
		slog.Int("participants", len(board.Participants)),
	)
	l.notify()
}

func (l *Live) fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Hackathons, err = l.reader.ListHackathons(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Teams, err = l.reader.ListTeams(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Registrations, err = l.reader.ListRegistrations(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Submissions, err = l.reader.ListSubmissions(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("reading leaderboard snapshot: %w", err)
	}
	return snap, nil
}

func (l *Live) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Current returns the latest board, or an ErrUnavailable when there has
// never been a successful refresh.
func (l *Live) Current() (*Board, error) {
	st := l.State()
	if st.Board != nil {
		return st.Board, nil
	}
	if st.Err != nil {
		return nil, apperror.Unavailable("The leaderboard is unavailable right now. Please try again soon.", st.Err)
	}
	return nil, apperror.Unavailable("The leaderboard is still loading.", nil)
}

// Listen returns a channel that receives a signal after each successful
// refresh, and a function that stops listening. Signals are coalesced.
func (l *Live) Listen() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	l.listenersMu.Lock()
	l.listeners[ch] = struct{}{}
	l.listenersMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.listenersMu.Lock()
			delete(l.listeners, ch)
			l.listenersMu.Unlock()
		})
	}
}

func (l *Live) notify() {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	for ch := range l.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
