// Package model defines the records the site reads and writes.
//
// All of these live as flat rows in the persistence collaborator. The site
// owns no derived state of its own: leaderboard entries are computed from
// these records on every read (see internal/leaderboard).
package model

import "time"

// HackathonStatus is managed by admin tooling outside this service; the
// site only reads it.
type HackathonStatus string

const (
	StatusUpcoming HackathonStatus = "upcoming"
	StatusLive     HackathonStatus = "live"
	StatusEnded    HackathonStatus = "ended"
)

// Valid reports whether s is one of the known statuses.
func (s HackathonStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusEnded:
		return true
	}
	return false
}

// Hackathon is a kids' coding event participants can register for.
//
// MaxParticipants of zero means "no capacity limit".
type Hackathon struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Theme                string          `json:"theme"`
	Status               HackathonStatus `json:"status"`
	StartsAt             time.Time       `json:"startsAt"`
	EndsAt               time.Time       `json:"endsAt"`
	RegistrationDeadline time.Time       `json:"registrationDeadline"`
	MaxParticipants      int             `json:"maxParticipants"`
	CurrentParticipants  int             `json:"currentParticipants"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// IsFull returns true when the participant capacity has been reached.
func (h *Hackathon) IsFull() bool {
	return h.MaxParticipants > 0 && h.CurrentParticipants >= h.MaxParticipants
}

// RegistrationOpen reports whether new participants may still sign up at now.
func (h *Hackathon) RegistrationOpen(now time.Time) bool {
	if h.Status == StatusEnded {
		return false
	}
	if !h.RegistrationDeadline.IsZero() && now.After(h.RegistrationDeadline) {
		return false
	}
	return true
}

// Team is created once through the signup pipeline and never mutated.
// Name is unique per hackathon.
type Team struct {
	ID           string    `json:"id"`
	HackathonID  string    `json:"hackathonId"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	CreatorEmail string    `json:"creatorEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Registration is one participant signed up for one hackathon.
// TeamID is the only field ever updated in place (the "join team" action).
type Registration struct {
	ID             string    `json:"id"`
	HackathonID    string    `json:"hackathonId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	Age            *int      `json:"age,omitempty"`
	TeamID         *string   `json:"teamId,omitempty"`
	LookingForTeam bool      `json:"lookingForTeam"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Submission is a team's project entry. At most one per team per hackathon.
type Submission struct {
	ID           string    `json:"id"`
	HackathonID  string    `json:"hackathonId"`
	TeamID       string    `json:"teamId"`
	ProjectName  string    `json:"projectName"`
	Description  string    `json:"description"`
	DemoURL      *string   `json:"demoUrl,omitempty"`
	RepoURL      *string   `json:"repoUrl,omitempty"`
	VideoURL     *string   `json:"videoUrl,omitempty"`
	Technologies []string  `json:"technologies"`
	SubmittedAt  time.Time `json:"submittedAt"`
}
