package changefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscription) (Change, bool) {
	t.Helper()
	select {
	case c, ok := <-s.C():
		return c, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}, false
	}
}

func TestPublishMatchesTopic(t *testing.T) {
	feed := New()
	sub := feed.Subscribe(Topic{Table: "hackathon_teams", Event: EventInsert})
	defer sub.Close()

	feed.Publish(Change{Table: "hackathon_teams", Event: EventInsert, RowID: "t1"})

	c, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, "t1", c.RowID)
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	feed := New()
	sub := feed.Subscribe(Topic{Table: "hackathon_registrations", Event: EventUpdate})
	defer sub.Close()

	feed.Publish(Change{Table: "hackathon_registrations", Event: EventInsert, RowID: "r1"})
	feed.Publish(Change{Table: "newsletter_signups", Event: EventUpdate, RowID: "n1"})

	select {
	case c := <-sub.C():
		t.Fatalf("unexpected change %+v", c)
	default:
	}
}

func TestEmptyEventMatchesAllEvents(t *testing.T) {
	feed := New()
	sub := feed.Subscribe(Topic{Table: "hackathon_submissions"})
	defer sub.Close()

	feed.Publish(Change{Table: "hackathon_submissions", Event: EventDelete, RowID: "s1"})

	c, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, EventDelete, c.Event)
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	feed := New()
	sub := feed.Subscribe(Topic{Table: "hackathon_teams"})
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			feed.Publish(Change{Table: "hackathon_teams", Event: EventInsert})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	assert.Len(t, sub.C(), subscriberBuffer)
}

func TestCloseUnsubscribes(t *testing.T) {
	feed := New()
	sub := feed.Subscribe(Topic{Table: "hackathon_teams"})
	assert.Equal(t, 1, feed.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, feed.Subscribers())

	_, ok := <-sub.C()
	assert.False(t, ok, "channel should be closed")

	// Publishing after close must not panic.
	feed.Publish(Change{Table: "hackathon_teams", Event: EventInsert})
}
