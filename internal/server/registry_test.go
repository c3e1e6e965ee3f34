package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, clock quartz.Clock) *Registry {
	t.Helper()
	return NewRegistry(DefaultConfig().Game, NewAIPool(2), clock, 30*time.Minute, log.New(io.Discard))
}

func TestRegistryCreateAndGet(t *testing.T) {
	r := newTestRegistry(t, quartz.NewReal())

	s, err := r.Create(CreateGameRequest{
		Players: []string{"alice"},
		Bots:    []BotSeat{{Name: "bot1", Policy: "random", Difficulty: "easy"}},
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	got, ok := r.Get(s.ID)
	assert.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	r.Remove(s.ID)
	_, ok = r.Get(s.ID)
	assert.False(t, ok)
}

func TestRegistryCreateRejectsBadRequests(t *testing.T) {
	r := newTestRegistry(t, quartz.NewReal())

	cases := []struct {
		name string
		req  CreateGameRequest
	}{
		{"too few players", CreateGameRequest{Players: []string{"solo"}}},
		{"duplicate names", CreateGameRequest{Players: []string{"a", "a"}}},
		{"duplicate bot name", CreateGameRequest{
			Players: []string{"a"},
			Bots:    []BotSeat{{Name: "a"}},
		}},
		{"empty name", CreateGameRequest{Players: []string{"a", ""}}},
		{"unknown policy", CreateGameRequest{
			Players: []string{"a"},
			Bots:    []BotSeat{{Name: "b", Policy: "psychic"}},
		}},
		{"inverted blinds", CreateGameRequest{
			Players:    []string{"a", "b"},
			SmallBlind: 50, BigBlind: 25,
		}},
		{"too many seats", CreateGameRequest{
			Players: []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"},
		}},
		{"too many seats with bots", CreateGameRequest{
			Players: []string{"p1", "p2", "p3", "p4", "p5", "p6"},
			Bots:    []BotSeat{{Name: "b1", Policy: "random", Difficulty: "easy"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Create(tc.req)
			assert.Error(t, err)
		})
	}
}

func TestRegistryAllowsFullTable(t *testing.T) {
	r := newTestRegistry(t, quartz.NewReal())
	_, err := r.Create(CreateGameRequest{
		Players: []string{"p1", "p2", "p3", "p4", "p5", "p6"},
	})
	assert.NoError(t, err, "a table at exactly max seats is valid")
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRegistry(t, clock)

	s, err := r.Create(CreateGameRequest{Players: []string{"a", "b"}})
	require.NoError(t, err)

	// Fresh sessions survive a sweep.
	assert.Equal(t, 0, r.EvictIdle())
	assert.Equal(t, 1, r.Len())

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get(s.ID)
	assert.False(t, ok)
}

func TestRegistryActivityResetsIdleClock(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRegistry(t, clock)

	s, err := r.Create(CreateGameRequest{Players: []string{"a", "b"}})
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	s.Snapshot("") // touches the session

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, r.EvictIdle(), "recently used session should survive")

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())
}

func TestRegistryKeepsWatchedSessions(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRegistry(t, clock)

	s, err := r.Create(CreateGameRequest{Players: []string{"a", "b"}})
	require.NoError(t, err)

	conn := NewConnection(nil, "a", log.New(io.Discard))
	s.AddWatcher(conn)

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 0, r.EvictIdle(), "watched session should survive")

	s.RemoveWatcher(conn)
	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())
}
