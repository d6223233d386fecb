// Package leaderboard ranks hackathon teams and participants.
//
// Nothing here is persisted. Compute is a pure function of a snapshot of the
// team, registration, submission and hackathon collections; Live keeps the
// latest result current by recomputing from a fresh snapshot whenever the
// store reports a relevant change.
package leaderboard

import (
	"sort"
	"time"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
)

// Scoring constants.
const (
	TeamBasePoints        = 100
	PointsPerMember       = 50
	PointsPerSubmission   = 200
	PointsPerRegistration = 100
	PointsPerTeamCreated  = 150
)

// Achievements.
const (
	FirstTeam    = "First Team"
	FullSquad    = "Full Squad"
	DreamTeam    = "Dream Team"
	ShipIt       = "Ship It"
	TeamLeader   = "Team Leader"
	TopHacker    = "Top Hacker"
	RunnerUp     = "Runner Up"
	BronzeStar   = "Bronze Star"
	SerialHacker = "Serial Hacker"
)

// Snapshot is the input of Compute. Every slice is in creation order.
type Snapshot struct {
	Hackathons    []model.Hackathon
	Teams         []model.Team
	Registrations []model.Registration
	Submissions   []model.Submission
}

// TeamScore is one team's points and achievements across its hackathon.
type TeamScore struct {
	TeamID          string   `json:"teamId"`
	TeamName        string   `json:"teamName"`
	HackathonID     string   `json:"hackathonId"`
	HackathonTitle  string   `json:"hackathonTitle"`
	CreatorEmail    string   `json:"creatorEmail"`
	MemberCount     int      `json:"memberCount"`
	SubmissionCount int      `json:"submissionCount"`
	Points          int      `json:"points"`
	Achievements    []string `json:"achievements"`
}

// ParticipantScore is keyed by the exact registration email; no case folding.
type ParticipantScore struct {
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	HackathonsJoined int      `json:"hackathonsJoined"`
	TeamsCreated     int      `json:"teamsCreated"`
	Points           int      `json:"points"`
	Rank             int      `json:"rank"`
	Achievements     []string `json:"achievements"`
}

// Board is one complete ranking. A published Board is never modified.
type Board struct {
	Teams        []TeamScore        `json:"teams"`
	Participants []ParticipantScore `json:"participants"`
	ComputedAt   time.Time          `json:"computedAt"`
}

// Compute ranks teams and participants from snap. ComputedAt is left zero.
func Compute(snap Snapshot) Board {
	return Board{
		Teams:        scoreTeams(snap),
		Participants: scoreParticipants(snap),
	}
}

func scoreTeams(snap Snapshot) []TeamScore {
	titles := make(map[string]string, len(snap.Hackathons))
	for _, h := range snap.Hackathons {
		titles[h.ID] = h.Title
	}
	members := make(map[string]int)
	for _, r := range snap.Registrations {
		if r.TeamID != nil {
			members[*r.TeamID]++
		}
	}
	submissions := make(map[string]int)
	for _, s := range snap.Submissions {
		submissions[s.TeamID]++
	}

	teams := make([]TeamScore, 0, len(snap.Teams))
	for i, t := range snap.Teams {
		m, s := members[t.ID], submissions[t.ID]
		ts := TeamScore{
			TeamID:          t.ID,
			TeamName:        t.Name,
			HackathonID:     t.HackathonID,
			HackathonTitle:  titles[t.HackathonID],
			CreatorEmail:    t.CreatorEmail,
			MemberCount:     m,
			SubmissionCount: s,
			Points:          TeamBasePoints + m*PointsPerMember + s*PointsPerSubmission,
			Achievements:    []string{},
		}
		if i == 0 {
			ts.Achievements = append(ts.Achievements, FirstTeam)
		}
		if m >= 3 {
			ts.Achievements = append(ts.Achievements, FullSquad)
		}
		if m >= 5 {
			ts.Achievements = append(ts.Achievements, DreamTeam)
		}
		if s > 0 {
			ts.Achievements = append(ts.Achievements, ShipIt)
		}
		teams = append(teams, ts)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Points > teams[j].Points
	})
	return teams
}

// scoreParticipants credits every registration first and then every team.
// A team creator is only credited when some registration in the snapshot
// carries the same email, whatever the order the two were created in.
func scoreParticipants(snap Snapshot) []ParticipantScore {
	var participants []ParticipantScore
	index := make(map[string]int)

	for _, r := range snap.Registrations {
		i, ok := index[r.Email]
		if !ok {
			i = len(participants)
			index[r.Email] = i
			participants = append(participants, ParticipantScore{
				Email:        r.Email,
				Name:         r.Name,
				Achievements: []string{},
			})
		}
		participants[i].Points += PointsPerRegistration
		participants[i].HackathonsJoined++
	}

	for _, t := range snap.Teams {
		i, ok := index[t.CreatorEmail]
		if !ok {
			continue
		}
		p := &participants[i]
		p.Points += PointsPerTeamCreated
		p.TeamsCreated++
		if p.TeamsCreated == 1 {
			p.Achievements = append(p.Achievements, TeamLeader)
		}
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Points > participants[j].Points
	})

	rankBadges := []string{TopHacker, RunnerUp, BronzeStar}
	for i := range participants {
		p := &participants[i]
		p.Rank = i + 1
		if i < len(rankBadges) {
			p.Achievements = append(p.Achievements, rankBadges[i])
		}
		if p.HackathonsJoined >= 2 {
			p.Achievements = append(p.Achievements, SerialHacker)
		}
	}

	if participants == nil {
		participants = []ParticipantScore{}
	}
	return participants
}
