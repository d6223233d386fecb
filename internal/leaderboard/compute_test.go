package leaderboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
)

// snapshotBuilder assembles snapshots in creation order.
type snapshotBuilder struct {
	snap Snapshot
	n    int
}

func (b *snapshotBuilder) id(prefix string) string {
	b.n++
	return fmt.Sprintf("%s%d", prefix, b.n)
}

func (b *snapshotBuilder) hackathon(title string) string {
	id := b.id("h")
	b.snap.Hackathons = append(b.snap.Hackathons, model.Hackathon{ID: id, Title: title})
	return id
}

func (b *snapshotBuilder) team(hackathonID, name, creator string) string {
	id := b.id("t")
	b.snap.Teams = append(b.snap.Teams, model.Team{ID: id, HackathonID: hackathonID, Name: name, CreatorEmail: creator})
	return id
}

func (b *snapshotBuilder) register(hackathonID, email, teamID string) {
	r := model.Registration{ID: b.id("r"), HackathonID: hackathonID, Name: email, Email: email}
	if teamID != "" {
		r.TeamID = &teamID
	}
	b.snap.Registrations = append(b.snap.Registrations, r)
}

func (b *snapshotBuilder) submit(hackathonID, teamID string) {
	b.snap.Submissions = append(b.snap.Submissions, model.Submission{ID: b.id("s"), HackathonID: hackathonID, TeamID: teamID})
}

func teamByName(t *testing.T, board Board, name string) TeamScore {
	t.Helper()
	for _, ts := range board.Teams {
		if ts.TeamName == name {
			return ts
		}
	}
	t.Fatalf("team %q not on board", name)
	return TeamScore{}
}

func participantByEmail(t *testing.T, board Board, email string) ParticipantScore {
	t.Helper()
	for _, p := range board.Participants {
		if p.Email == email {
			return p
		}
	}
	t.Fatalf("participant %q not on board", email)
	return ParticipantScore{}
}

func countAchievement(list []string, a string) int {
	n := 0
	for _, v := range list {
		if v == a {
			n++
		}
	}
	return n
}

// =========================================================================
// TEAMS
// =========================================================================

func TestTeamPoints(t *testing.T) {
	for m := 0; m <= 6; m++ {
		for s := 0; s <= 2; s++ {
			t.Run(fmt.Sprintf("m=%d,s=%d", m, s), func(t *testing.T) {
				var b snapshotBuilder
				h := b.hackathon("Jam")
				team := b.team(h, "Alpha", "lead@x.com")
				for i := 0; i < m; i++ {
					b.register(h, fmt.Sprintf("kid%d@x.com", i), team)
				}
				for i := 0; i < s; i++ {
					b.submit(h, team)
				}

				ts := Compute(b.snap).Teams[0]
				assert.Equal(t, 100+50*m+200*s, ts.Points)
				assert.Equal(t, m, ts.MemberCount)
				assert.Equal(t, s, ts.SubmissionCount)
				assert.Equal(t, m >= 3, countAchievement(ts.Achievements, FullSquad) == 1)
				assert.Equal(t, m >= 5, countAchievement(ts.Achievements, DreamTeam) == 1)
				assert.Equal(t, s > 0, countAchievement(ts.Achievements, ShipIt) == 1)
			})
		}
	}
}

func TestTeamPoints_Example(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	team := b.team(h, "Alpha", "lead@x.com")
	b.register(h, "a@x.com", team)
	b.register(h, "b@x.com", team)
	b.register(h, "c@x.com", team)
	b.submit(h, team)

	ts := Compute(b.snap).Teams[0]
	assert.Equal(t, 450, ts.Points)
	assert.Equal(t, []string{FirstTeam, FullSquad, ShipIt}, ts.Achievements)
	assert.Equal(t, "Jam", ts.HackathonTitle)
}

func TestTeamSort_StableOnTies(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")

	// C: 500, created first.
	c := b.team(h, "C", "c@x.com")
	b.submit(h, c)
	b.submit(h, c)
	// A: 450.
	a := b.team(h, "A", "a@x.com")
	for i := 0; i < 3; i++ {
		b.register(h, fmt.Sprintf("a%d@x.com", i), a)
	}
	b.submit(h, a)
	// B: 450, created after A.
	bt := b.team(h, "B", "b@x.com")
	b.register(h, "b0@x.com", bt)
	b.register(h, "b1@x.com", bt)
	b.register(h, "b2@x.com", bt)
	b.submit(h, bt)
	// D: 100, created last, stays last.
	b.team(h, "D", "d@x.com")

	board := Compute(b.snap)
	var names []string
	for _, ts := range board.Teams {
		names = append(names, ts.TeamName)
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, names)
}

func TestTeamSort_HigherPointsFirst(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	b.team(h, "Early", "e@x.com")
	late := b.team(h, "Late", "l@x.com")
	b.submit(h, late)

	board := Compute(b.snap)
	require.Len(t, board.Teams, 2)
	assert.Equal(t, "Late", board.Teams[0].TeamName)
	assert.Equal(t, "Early", board.Teams[1].TeamName)
	assert.Contains(t, board.Teams[1].Achievements, FirstTeam, "First Team follows creation order, not points")
	assert.NotContains(t, board.Teams[0].Achievements, FirstTeam)
}

// =========================================================================
// PARTICIPANTS
// =========================================================================

func TestParticipantAccumulation(t *testing.T) {
	var b snapshotBuilder
	h1 := b.hackathon("One")
	h2 := b.hackathon("Two")
	b.register(h1, "sam@x.com", "")
	b.register(h2, "sam@x.com", "")
	b.team(h1, "Sam's Squad", "sam@x.com")

	p := participantByEmail(t, Compute(b.snap), "sam@x.com")
	assert.Equal(t, 350, p.Points)
	assert.Equal(t, 2, p.HackathonsJoined)
	assert.Equal(t, 1, p.TeamsCreated)
	assert.Equal(t, 1, countAchievement(p.Achievements, TeamLeader))
	assert.Contains(t, p.Achievements, SerialHacker)
}

func TestParticipant_TeamLeaderOnce(t *testing.T) {
	var b snapshotBuilder
	h1 := b.hackathon("One")
	h2 := b.hackathon("Two")
	b.register(h1, "lee@x.com", "")
	b.team(h1, "First", "lee@x.com")
	b.team(h2, "Second", "lee@x.com")

	p := participantByEmail(t, Compute(b.snap), "lee@x.com")
	assert.Equal(t, 100+2*150, p.Points)
	assert.Equal(t, 2, p.TeamsCreated)
	assert.Equal(t, 1, countAchievement(p.Achievements, TeamLeader))
}

func TestParticipant_EmailIsCaseSensitive(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	b.register(h, "Kim@x.com", "")
	b.register(h, "kim@x.com", "")
	b.team(h, "K", "KIM@x.com")

	board := Compute(b.snap)
	require.Len(t, board.Participants, 2)
	for _, p := range board.Participants {
		assert.Equal(t, 100, p.Points)
		assert.Zero(t, p.TeamsCreated)
	}
}

func TestParticipant_CreatorWithoutRegistrationNotCredited(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	b.team(h, "Ghost", "ghost@x.com")
	b.register(h, "kid@x.com", "")

	board := Compute(b.snap)
	require.Len(t, board.Participants, 1)
	assert.Equal(t, "kid@x.com", board.Participants[0].Email)
}

func TestRankBadges(t *testing.T) {
	var b snapshotBuilder
	h1 := b.hackathon("One")
	h2 := b.hackathon("Two")
	h3 := b.hackathon("Three")

	// Points: a=300, b=200, c=100, d=100, e=100.
	for _, h := range []string{h1, h2, h3} {
		b.register(h, "a@x.com", "")
	}
	b.register(h1, "b@x.com", "")
	b.register(h2, "b@x.com", "")
	b.register(h1, "c@x.com", "")
	b.register(h1, "d@x.com", "")
	b.register(h1, "e@x.com", "")

	board := Compute(b.snap)
	require.Len(t, board.Participants, 5)

	tally := map[string]int{}
	for i, p := range board.Participants {
		assert.Equal(t, i+1, p.Rank)
		for _, a := range p.Achievements {
			tally[a]++
		}
	}
	assert.Equal(t, 1, tally[TopHacker])
	assert.Equal(t, 1, tally[RunnerUp])
	assert.Equal(t, 1, tally[BronzeStar])
	assert.Equal(t, 2, tally[SerialHacker])

	assert.Equal(t, "a@x.com", board.Participants[0].Email)
	assert.Equal(t, []string{TopHacker, SerialHacker}, board.Participants[0].Achievements)
	assert.Equal(t, "b@x.com", board.Participants[1].Email)
	assert.Equal(t, "c@x.com", board.Participants[2].Email, "ties keep first-seen order")
	assert.Equal(t, []string{BronzeStar}, board.Participants[2].Achievements)
	assert.Empty(t, board.Participants[3].Achievements)
}

func TestRankBadges_FewerThanThree(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	b.register(h, "solo@x.com", "")

	board := Compute(b.snap)
	require.Len(t, board.Participants, 1)
	assert.Equal(t, []string{TopHacker}, board.Participants[0].Achievements)
}

// =========================================================================
// WHOLE BOARD
// =========================================================================

func TestCompute_Empty(t *testing.T) {
	board := Compute(Snapshot{})
	assert.NotNil(t, board.Teams)
	assert.NotNil(t, board.Participants)
	assert.Empty(t, board.Teams)
	assert.Empty(t, board.Participants)
}

func TestCompute_Deterministic(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("Jam")
	t1 := b.team(h, "Alpha", "a@x.com")
	t2 := b.team(h, "Beta", "b@x.com")
	b.register(h, "a@x.com", t1)
	b.register(h, "b@x.com", t2)
	b.register(h, "c@x.com", t2)
	b.submit(h, t1)

	assert.Equal(t, Compute(b.snap), Compute(b.snap))
}

// Team Alpha is created by alice before she registers. Registrations are
// credited before teams across the whole snapshot, so alice still gets the
// creation bonus.
func TestCompute_EndToEndScenario(t *testing.T) {
	var b snapshotBuilder
	h := b.hackathon("AI for Good")
	alpha := b.team(h, "Alpha", "alice@x.com")
	b.register(h, "alice@x.com", alpha)
	b.register(h, "bob@y.com", alpha)
	b.submit(h, alpha)

	board := Compute(b.snap)

	team := teamByName(t, board, "Alpha")
	assert.Equal(t, 400, team.Points)
	assert.Equal(t, 2, team.MemberCount)
	assert.Contains(t, team.Achievements, ShipIt)
	assert.NotContains(t, team.Achievements, FullSquad)

	bob := participantByEmail(t, board, "bob@y.com")
	assert.Equal(t, 100, bob.Points)
	assert.Zero(t, bob.TeamsCreated)

	alice := participantByEmail(t, board, "alice@x.com")
	assert.Equal(t, 250, alice.Points)
	assert.Equal(t, 1, alice.TeamsCreated)
	assert.Equal(t, []string{TeamLeader, TopHacker}, alice.Achievements)
	assert.Equal(t, 1, alice.Rank)
}
