package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/leaderboard"
)

// LeaderboardHandler serves the live leaderboard as JSON and as a
// server-sent event stream.
type LeaderboardHandler struct {
	live   *leaderboard.Live
	logger *slog.Logger
	ping   time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func NewLeaderboardHandler(live *leaderboard.Live, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		live:   live,
		logger: logger,
		ping:   30 * time.Second,
		done:   make(chan struct{}),
	}
}

// Close ends every open event stream. http.Server.Shutdown does not cancel
// request contexts, so streams would otherwise hold shutdown open.
func (h *LeaderboardHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// LeaderboardResponse is the board plus whether the last refresh failed.
// A stale board is still the most recent complete ranking.
type LeaderboardResponse struct {
	*leaderboard.Board
	Stale bool `json:"stale"`
}

func (h *LeaderboardHandler) current() (LeaderboardResponse, error) {
	board, err := h.live.Current()
	if err != nil {
		return LeaderboardResponse{}, err
	}
	return LeaderboardResponse{Board: board, Stale: h.live.State().Err != nil}, nil
}

// HandleGet returns the current board.
//
// HTTP: GET /api/leaderboard
// 503 until the first refresh has succeeded.
func (h *LeaderboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := h.current()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleEvents streams the board.
//
// HTTP: GET /api/leaderboard/events
//
// SSE FORMAT:
//
//	event: leaderboard
//	data: {"teams": [...], "participants": [...], ...}
//
// One event is sent on connect (if a board exists) and one after every
// refresh. A comment line keeps idle connections open through proxies.
func (h *LeaderboardHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.logger, fmt.Errorf("streaming not supported by %T", w))
		return
	}

	// The server's write timeout is meant for ordinary requests.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", slog.String("error", err.Error()))
	}

	updates, stop := h.live.Listen()
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.sendBoard(w, flusher)

	ping := time.NewTicker(h.ping)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-updates:
			h.sendBoard(w, flusher)
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func (h *LeaderboardHandler) sendBoard(w http.ResponseWriter, flusher http.Flusher) {
	resp, err := h.current()
	if err != nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode leaderboard", slog.String("error", err.Error()))
		return
	}
	fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
	flusher.Flush()
}
