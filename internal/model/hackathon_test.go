package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHackathonIsFull(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		current int
		want    bool
	}{
		{"unlimited", 0, 500, false},
		{"room left", 30, 29, false},
		{"exactly full", 30, 30, true},
		{"over capacity", 30, 31, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hackathon{MaxParticipants: tt.max, CurrentParticipants: tt.current}
			assert.Equal(t, tt.want, h.IsFull())
		})
	}
}

func TestHackathonRegistrationOpen(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	open := Hackathon{Status: StatusUpcoming, RegistrationDeadline: now.Add(time.Hour)}
	assert.True(t, open.RegistrationOpen(now))

	noDeadline := Hackathon{Status: StatusLive}
	assert.True(t, noDeadline.RegistrationOpen(now))

	pastDeadline := Hackathon{Status: StatusUpcoming, RegistrationDeadline: now.Add(-time.Minute)}
	assert.False(t, pastDeadline.RegistrationOpen(now))

	ended := Hackathon{Status: StatusEnded}
	assert.False(t, ended.RegistrationOpen(now))
}

func TestHackathonStatusValid(t *testing.T) {
	assert.True(t, StatusLive.Valid())
	assert.False(t, HackathonStatus("archived").Valid())
	assert.False(t, HackathonStatus("").Valid())
}
