package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
)

// SeedDemo creates a small set of demo hackathons if none exist.
// Idempotent: does nothing once any hackathon is present.
func (db *DB) SeedDemo(ctx context.Context, now time.Time) (int, error) {
	existing, err := db.ListHackathons(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	day := 24 * time.Hour
	demo := []model.Hackathon{
		{
			Title:                "Robo Rally Junior",
			Description:          "Teach a robot to find its way home.",
			Theme:                "robotics",
			Status:               model.StatusUpcoming,
			StartsAt:             now.Add(14 * day),
			EndsAt:               now.Add(16 * day),
			RegistrationDeadline: now.Add(10 * day),
			MaxParticipants:      60,
		},
		{
			Title:           "AI for Good Weekend",
			Description:     "Build a friendly AI helper for your school or town.",
			Theme:           "ai-for-good",
			Status:          model.StatusLive,
			StartsAt:        now.Add(-day),
			EndsAt:          now.Add(day),
			MaxParticipants: 100,
		},
		{
			Title:       "Spring Game Jam",
			Description: "Make a tiny game with a big idea.",
			Theme:       "games",
			Status:      model.StatusEnded,
			StartsAt:    now.Add(-60 * day),
			EndsAt:      now.Add(-58 * day),
		},
	}

	for i := range demo {
		if err := db.CreateHackathon(ctx, &demo[i]); err != nil {
			return i, fmt.Errorf("seeding hackathon %q: %w", demo[i].Title, err)
		}
	}
	return len(demo), nil
}
