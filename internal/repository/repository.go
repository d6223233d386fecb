// Package repository declares the persistence collaborator the site is built
// against.
//
// The hosted store offers flat tables with select / insert / update and a
// change feed. Store is the generic row interface used by the signup
// pipeline; HackathonReader is the typed snapshot interface used by the
// leaderboard and the hackathon services.
package repository

import (
	"context"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
)

// Record is one row, column name to value. A nil value is the explicit
// "absent" marker and is stored as NULL.
type Record map[string]any

// Filter is a conjunction of column equality conditions.
type Filter map[string]any

// Store is the generic row-level persistence interface.
//
// Insert assigns the row id and creation time and returns the id. A
// uniqueness violation is returned as an apperror.ErrConflict.
type Store interface {
	Insert(ctx context.Context, table string, rec Record) (string, error)
	Select(ctx context.Context, table string, filter Filter) ([]Record, error)
	Update(ctx context.Context, table string, patch Record, filter Filter) (int64, error)
}

// HackathonReader returns typed snapshots in creation order. An empty
// hackathonID means "across all hackathons".
type HackathonReader interface {
	ListHackathons(ctx context.Context, status model.HackathonStatus) ([]model.Hackathon, error)
	GetHackathon(ctx context.Context, id string) (*model.Hackathon, error)
	ListTeams(ctx context.Context, hackathonID string) ([]model.Team, error)
	GetTeam(ctx context.Context, id string) (*model.Team, error)
	ListRegistrations(ctx context.Context, hackathonID string) ([]model.Registration, error)
	GetRegistration(ctx context.Context, id string) (*model.Registration, error)
	ListSubmissions(ctx context.Context, hackathonID string) ([]model.Submission, error)
}

// HackathonWriter covers the hackathon writes that are not plain form inserts.
type HackathonWriter interface {
	CreateHackathon(ctx context.Context, h *model.Hackathon) error
	// ReserveSeat increments the participant count unless the hackathon is
	// full. It returns false when no seat was available.
	ReserveSeat(ctx context.Context, hackathonID string) (bool, error)
	ReleaseSeat(ctx context.Context, hackathonID string) error
}

// HackathonRepository is everything the hackathon services need.
type HackathonRepository interface {
	Store
	HackathonReader
	HackathonWriter
}
