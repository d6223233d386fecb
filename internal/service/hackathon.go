// Package service contains the hackathon use cases of the site.
//
// THE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → enforces hackathon rules, orchestrates
//	Repository (data layer)  → reads/writes rows
//
// Form validation and the insert itself belong to the signup pipeline; the
// service adds what a bare form cannot know: whether the hackathon exists,
// is still open, has seats left, and whether a team belongs to it.
//
// Errors are domain errors from internal/apperror. The handler decides which
// HTTP status they become.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/signup"
)

// Signups is the part of signup.Pipeline the service uses.
type Signups interface {
	Validate(schema signup.Schema, values map[string]string) error
	Submit(ctx context.Context, schema signup.Schema, values map[string]string, source string) (signup.Result, error)
}

// Messages shown for hackathon rule violations.
const (
	MsgRegistrationClosed = "Registration for this hackathon is closed."
	MsgHackathonFull      = "Sorry, this hackathon is full."
	MsgHackathonEnded     = "This hackathon has ended."
	MsgSubmissionsClosed  = "Project submissions are only open while the hackathon is live."
	MsgUnknownTeam        = "Please choose a team from this hackathon."
)

type HackathonService struct {
	repo    repository.HackathonRepository
	signups Signups
	logger  *slog.Logger
	now     func() time.Time

	// registering collapses identical registrations in flight so a double
	// click takes one seat.
	registering singleflight.Group
}

func NewHackathonService(repo repository.HackathonRepository, signups Signups, logger *slog.Logger) *HackathonService {
	return &HackathonService{
		repo:    repo,
		signups: signups,
		logger:  logger,
		now:     time.Now,
	}
}

// ListHackathons returns hackathons in creation order. status may be empty
// to list every hackathon.
func (s *HackathonService) ListHackathons(ctx context.Context, status string) ([]model.Hackathon, error) {
	st := model.HackathonStatus(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, apperror.ValidationFailed("status", "status must be one of upcoming, live, ended")
	}
	return s.repo.ListHackathons(ctx, st)
}

func (s *HackathonService) GetHackathon(ctx context.Context, id string) (*model.Hackathon, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "hackathon ID is required")
	}
	return s.repo.GetHackathon(ctx, id)
}

// ListTeams returns the teams of one hackathon in creation order.
func (s *HackathonService) ListTeams(ctx context.Context, hackathonID string) ([]model.Team, error) {
	h, err := s.GetHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTeams(ctx, h.ID)
}

// Register signs a participant up for a hackathon.
//
// Order of checks:
//  1. the hackathon exists and registration is open
//  2. the form is valid (first failing field wins)
//  3. an optional team belongs to this hackathon
//  4. a seat is available
//
// The seat is taken before the insert and given back if the insert fails,
// so a full hackathon never gets an extra registration. Identical
// registrations in flight at the same time share one seat and one row.
func (s *HackathonService) Register(ctx context.Context, hackathonID string, values map[string]string, source string) (signup.Result, error) {
	h, err := s.GetHackathon(ctx, hackathonID)
	if err != nil {
		return signup.Result{}, err
	}
	if !h.RegistrationOpen(s.now()) {
		return signup.Result{}, apperror.ValidationFailed("hackathon_id", MsgRegistrationClosed)
	}

	schema := signup.HackathonRegistration.WithFixed(repository.Record{"hackathon_id": h.ID})
	if err := s.signups.Validate(schema, values); err != nil {
		return signup.Result{}, err
	}
	if teamID := strings.TrimSpace(values["team_id"]); teamID != "" {
		if err := s.checkTeam(ctx, h.ID, teamID); err != nil {
			return signup.Result{}, err
		}
	}

	key, err := registrationKey(h.ID, values, source)
	if err != nil {
		return signup.Result{}, fmt.Errorf("registration key: %w", err)
	}
	v, err, shared := s.registering.Do(key, func() (any, error) {
		return s.register(context.WithoutCancel(ctx), h.ID, schema, values, source)
	})
	if shared {
		s.logger.Debug("collapsed duplicate registration", slog.String("hackathon_id", h.ID))
	}
	if err != nil {
		return signup.Result{}, err
	}
	return v.(signup.Result), nil
}

// register takes a seat and inserts the registration, giving the seat back
// if the insert fails.
func (s *HackathonService) register(ctx context.Context, hackathonID string, schema signup.Schema, values map[string]string, source string) (signup.Result, error) {
	ok, err := s.repo.ReserveSeat(ctx, hackathonID)
	if err != nil {
		return signup.Result{}, fmt.Errorf("reserving seat: %w", err)
	}
	if !ok {
		return signup.Result{}, apperror.ValidationFailed("hackathon_id", MsgHackathonFull)
	}

	res, err := s.signups.Submit(ctx, schema, values, source)
	if err != nil {
		if relErr := s.repo.ReleaseSeat(ctx, hackathonID); relErr != nil {
			s.logger.Error("failed to release seat",
				slog.String("hackathon_id", hackathonID),
				slog.String("error", relErr.Error()),
			)
		}
		return signup.Result{}, err
	}

	s.logger.Info("hackathon registration",
		slog.String("hackathon_id", hackathonID),
		slog.String("registration_id", res.ID),
	)
	return res, nil
}

// registrationKey identifies a registration by hackathon, trimmed values and
// source. encoding/json sorts map keys, so equal forms give equal keys.
func registrationKey(hackathonID string, values map[string]string, source string) (string, error) {
	trimmed := make(map[string]string, len(values))
	for k, v := range values {
		trimmed[k] = strings.TrimSpace(v)
	}
	b, err := json.Marshal(trimmed)
	if err != nil {
		return "", err
	}
	return hackathonID + "|" + source + "|" + string(b), nil
}

// CreateTeam creates a team in a hackathon that has not ended.
func (s *HackathonService) CreateTeam(ctx context.Context, hackathonID string, values map[string]string, source string) (signup.Result, error) {
	h, err := s.GetHackathon(ctx, hackathonID)
	if err != nil {
		return signup.Result{}, err
	}
	if h.Status == model.StatusEnded {
		return signup.Result{}, apperror.ValidationFailed("hackathon_id", MsgHackathonEnded)
	}

	schema := signup.HackathonTeam.WithFixed(repository.Record{"hackathon_id": h.ID})
	return s.signups.Submit(ctx, schema, values, source)
}

// JoinTeam moves a registration into a team of the same hackathon and
// clears its looking-for-team flag. It is the only in-place update the site
// performs.
func (s *HackathonService) JoinTeam(ctx context.Context, registrationID, teamID string) (*model.Registration, error) {
	registrationID = strings.TrimSpace(registrationID)
	teamID = strings.TrimSpace(teamID)
	if registrationID == "" {
		return nil, apperror.ValidationFailed("registration_id", "registration ID is required")
	}
	if teamID == "" {
		return nil, apperror.ValidationFailed("team_id", MsgUnknownTeam)
	}

	reg, err := s.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeam(ctx, reg.HackathonID, teamID); err != nil {
		return nil, err
	}

	n, err := s.repo.Update(ctx, model.TableHackathonRegistrations,
		repository.Record{"team_id": teamID, "looking_for_team": false},
		repository.Filter{"id": reg.ID},
	)
	if err != nil {
		return nil, fmt.Errorf("joining team: %w", err)
	}
	if n == 0 {
		return nil, apperror.NotFound("registration", reg.ID)
	}

	s.logger.Info("joined team",
		slog.String("registration_id", reg.ID),
		slog.String("team_id", teamID),
	)
	return s.repo.GetRegistration(ctx, reg.ID)
}

// Submit records a team's project. Only live hackathons accept submissions
// and each team may submit once.
func (s *HackathonService) Submit(ctx context.Context, hackathonID string, values map[string]string, source string) (signup.Result, error) {
	h, err := s.GetHackathon(ctx, hackathonID)
	if err != nil {
		return signup.Result{}, err
	}
	if h.Status != model.StatusLive {
		return signup.Result{}, apperror.ValidationFailed("hackathon_id", MsgSubmissionsClosed)
	}

	schema := signup.HackathonSubmission.WithFixed(repository.Record{"hackathon_id": h.ID})
	if err := s.signups.Validate(schema, values); err != nil {
		return signup.Result{}, err
	}
	if err := s.checkTeam(ctx, h.ID, strings.TrimSpace(values["team_id"])); err != nil {
		return signup.Result{}, err
	}
	return s.signups.Submit(ctx, schema, values, source)
}

// checkTeam reports a validation error unless teamID is a team of hackathonID.
func (s *HackathonService) checkTeam(ctx context.Context, hackathonID, teamID string) error {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("team_id", MsgUnknownTeam)
		}
		return err
	}
	if team.HackathonID != hackathonID {
		return apperror.ValidationFailed("team_id", MsgUnknownTeam)
	}
	return nil
}
