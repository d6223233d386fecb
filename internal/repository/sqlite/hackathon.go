package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository"
)

var (
	_ repository.HackathonReader     = (*DB)(nil)
	_ repository.HackathonWriter     = (*DB)(nil)
	_ repository.HackathonRepository = (*DB)(nil)
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const hackathonColumns = `id, title, description, theme, status, starts_at, ends_at,
	registration_deadline, max_participants, current_participants, created_at`

func scanHackathon(s rowScanner) (model.Hackathon, error) {
	var (
		h        model.Hackathon
		status   string
		deadline sql.NullTime
	)
	err := s.Scan(&h.ID, &h.Title, &h.Description, &h.Theme, &status, &h.StartsAt, &h.EndsAt,
		&deadline, &h.MaxParticipants, &h.CurrentParticipants, &h.CreatedAt)
	if err != nil {
		return h, err
	}
	h.Status = model.HackathonStatus(status)
	if deadline.Valid {
		h.RegistrationDeadline = deadline.Time
	}
	return h, nil
}

// CreateHackathon inserts h, filling in its ID and CreatedAt. Hackathons are
// normally managed by admin tooling; this is used by the demo seed and tests.
func (db *DB) CreateHackathon(ctx context.Context, h *model.Hackathon) error {
	if !h.Status.Valid() {
		return apperror.ValidationFailed("status", fmt.Sprintf("unknown hackathon status %q", h.Status))
	}

	h.ID = xid.New().String()
	h.CreatedAt = time.Now().UTC()

	var deadline any
	if !h.RegistrationDeadline.IsZero() {
		deadline = h.RegistrationDeadline.UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO hackathons (id, title, description, theme, status, starts_at, ends_at,
			registration_deadline, max_participants, current_participants, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Title, h.Description, h.Theme, string(h.Status), h.StartsAt.UTC(), h.EndsAt.UTC(),
		deadline, h.MaxParticipants, h.CurrentParticipants, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating hackathon: %w", err)
	}

	db.publish(model.TableHackathons, changefeed.EventInsert, h.ID)
	return nil
}

// ListHackathons returns hackathons in creation order, optionally filtered by status.
func (db *DB) ListHackathons(ctx context.Context, status model.HackathonStatus) ([]model.Hackathon, error) {
	query := `SELECT ` + hackathonColumns + ` FROM hackathons`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY rowid`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing hackathons: %w", err)
	}
	defer rows.Close()

	hackathons := []model.Hackathon{}
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning hackathon row: %w", err)
		}
		hackathons = append(hackathons, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating hackathons: %w", err)
	}
	return hackathons, nil
}

// GetHackathon returns apperror.ErrNotFound when id does not exist.
func (db *DB) GetHackathon(ctx context.Context, id string) (*model.Hackathon, error) {
	h, err := scanHackathon(db.conn.QueryRowContext(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("hackathon", id)
		}
		return nil, fmt.Errorf("sqlite: getting hackathon %s: %w", id, err)
	}
	return &h, nil
}

// ReserveSeat takes one participant slot. The capacity check and the
// increment are one statement, so two concurrent registrations cannot both
// take the last seat.
func (db *DB) ReserveSeat(ctx context.Context, hackathonID string) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE hackathons SET current_participants = current_participants + 1
		 WHERE id = ? AND (max_participants = 0 OR current_participants < max_participants)`,
		hackathonID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: reserving seat in %s: %w", hackathonID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		// Either full or missing; tell the two apart.
		if _, err := db.GetHackathon(ctx, hackathonID); err != nil {
			return false, err
		}
		return false, nil
	}
	db.publish(model.TableHackathons, changefeed.EventUpdate, hackathonID)
	return true, nil
}

// ReleaseSeat undoes ReserveSeat when the registration insert fails.
func (db *DB) ReleaseSeat(ctx context.Context, hackathonID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE hackathons SET current_participants = current_participants - 1
		 WHERE id = ? AND current_participants > 0`,
		hackathonID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: releasing seat in %s: %w", hackathonID, err)
	}
	db.publish(model.TableHackathons, changefeed.EventUpdate, hackathonID)
	return nil
}

const teamColumns = `id, hackathon_id, name, description, creator_email, created_at`

func scanTeam(s rowScanner) (model.Team, error) {
	var (
		t    model.Team
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.HackathonID, &t.Name, &desc, &t.CreatorEmail, &t.CreatedAt); err != nil {
		return t, err
	}
	t.Description = nullString(desc)
	return t, nil
}

// ListTeams returns teams in creation order. An empty hackathonID lists all teams.
func (db *DB) ListTeams(ctx context.Context, hackathonID string) ([]model.Team, error) {
	query, args := scopedQuery(`SELECT `+teamColumns+` FROM hackathon_teams`, hackathonID)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating teams: %w", err)
	}
	return teams, nil
}

func (db *DB) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	t, err := scanTeam(db.conn.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM hackathon_teams WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("team", id)
		}
		return nil, fmt.Errorf("sqlite: getting team %s: %w", id, err)
	}
	return &t, nil
}

const registrationColumns = `id, hackathon_id, name, email, phone, age, team_id, looking_for_team, created_at`

func scanRegistration(s rowScanner) (model.Registration, error) {
	var (
		r      model.Registration
		phone  sql.NullString
		age    sql.NullInt64
		teamID sql.NullString
	)
	if err := s.Scan(&r.ID, &r.HackathonID, &r.Name, &r.Email, &phone, &age, &teamID,
		&r.LookingForTeam, &r.CreatedAt); err != nil {
		return r, err
	}
	r.Phone = nullString(phone)
	r.TeamID = nullString(teamID)
	if age.Valid {
		a := int(age.Int64)
		r.Age = &a
	}
	return r, nil
}

// ListRegistrations returns registrations in creation order. An empty
// hackathonID lists all registrations.
func (db *DB) ListRegistrations(ctx context.Context, hackathonID string) ([]model.Registration, error) {
	query, args := scopedQuery(`SELECT `+registrationColumns+` FROM hackathon_registrations`, hackathonID)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing registrations: %w", err)
	}
	defer rows.Close()

	regs := []model.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning registration row: %w", err)
		}
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating registrations: %w", err)
	}
	return regs, nil
}

func (db *DB) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	r, err := scanRegistration(db.conn.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM hackathon_registrations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("registration", id)
		}
		return nil, fmt.Errorf("sqlite: getting registration %s: %w", id, err)
	}
	return &r, nil
}

const submissionColumns = `id, hackathon_id, team_id, project_name, description,
	demo_url, repo_url, video_url, technologies, created_at`

// ListSubmissions returns submissions in creation order. An empty
// hackathonID lists all submissions.
func (db *DB) ListSubmissions(ctx context.Context, hackathonID string) ([]model.Submission, error) {
	query, args := scopedQuery(`SELECT `+submissionColumns+` FROM hackathon_submissions`, hackathonID)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var (
			s                      model.Submission
			demo, repo, video, tec sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.HackathonID, &s.TeamID, &s.ProjectName, &s.Description,
			&demo, &repo, &video, &tec, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning submission row: %w", err)
		}
		s.DemoURL = nullString(demo)
		s.RepoURL = nullString(repo)
		s.VideoURL = nullString(video)
		s.Technologies = splitList(tec.String)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating submissions: %w", err)
	}
	return subs, nil
}

func scopedQuery(base, hackathonID string) (string, []any) {
	if hackathonID == "" {
		return base + ` ORDER BY rowid`, nil
	}
	return base + ` WHERE hackathon_id = ? ORDER BY rowid`, []any{hackathonID}
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// splitList parses the comma-separated technologies column.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
