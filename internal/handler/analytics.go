package handler

import (
	"net/http"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/analytics"
)

// AnalyticsHandler exposes the recent analytics window for debugging.
type AnalyticsHandler struct {
	recorder *analytics.Recorder
}

func NewAnalyticsHandler(recorder *analytics.Recorder) *AnalyticsHandler {
	return &AnalyticsHandler{recorder: recorder}
}

// HandleRecent returns the trailing window, oldest first.
//
// HTTP: GET /api/analytics/recent
func (h *AnalyticsHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recorder.Recent())
}
