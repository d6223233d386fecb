package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/signup"
)

// SignupHandler serves the lead-capture forms: newsletter, contact,
// program and workshop registration.
type SignupHandler struct {
	signups signup.Submitter
	logger  *slog.Logger
}

func NewSignupHandler(signups signup.Submitter, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{signups: signups, logger: logger}
}

// HandleSubmit stores one form submission.
//
// HTTP: POST /api/signups/{variant}
// REQUEST BODY: {"email": "kid@example.com", "name": "Kid", "source": "footer"}
// RESPONSE:     201 {"id": "...", "message": "Thanks for subscribing! ..."}
func (h *SignupHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	schema, ok := signup.LeadForm(variant)
	if !ok {
		writeError(w, h.logger, apperror.NotFound("signup form", variant))
		return
	}

	values, source, err := decodeForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.signups.Submit(r.Context(), schema, values, source)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
