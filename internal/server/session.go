package server

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/bot"
	"github.com/cardroom/holdem/internal/game"
)

// Session owns one table: the hand engine, the policies for its bot
// seats, and the WebSocket watchers following it. The engine is not
// goroutine-safe, so every access goes through the session mutex. Bot
// decisions run outside the mutex to keep humans responsive while a
// Monte Carlo estimate is in flight.
type Session struct {
	ID string

	mu         sync.Mutex
	hand       *game.Hand
	bots       map[string]bot.Policy
	lastActive time.Time

	// runMu serializes the bot auto-play loop; concurrent human requests
	// must not interleave two loops over the same table.
	runMu sync.Mutex

	wmu      sync.Mutex
	watchers map[*Connection]struct{}

	pool   *AIPool
	clock  quartz.Clock
	logger *log.Logger
}

// newSession wires a session around an engine in the lobby stage.
func newSession(id string, hand *game.Hand, bots map[string]bot.Policy, pool *AIPool, clock quartz.Clock, logger *log.Logger) *Session {
	return &Session{
		ID:         id,
		hand:       hand,
		bots:       bots,
		lastActive: clock.Now(),
		watchers:   make(map[*Connection]struct{}),
		pool:       pool,
		clock:      clock,
		logger:     logger.WithPrefix("session").With("game", id),
	}
}

// buildPolicy constructs a decision policy by name.
func buildPolicy(policy, difficulty string, rng *rand.Rand) (bot.Policy, error) {
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	switch policy {
	case "random":
		return bot.NewRandom(rng), nil
	case "heuristic":
		return bot.NewHeuristic(d, rng), nil
	case "equity":
		return bot.NewEquity(d, rng), nil
	default:
		return nil, fmt.Errorf("unknown bot policy %q", policy)
	}
}

// touch records activity for idle eviction. Callers hold s.mu.
func (s *Session) touch() {
	s.lastActive = s.clock.Now()
}

// LastActive returns when the session last served a request.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot returns the viewer-scoped table state.
func (s *Session) Snapshot(viewer string) game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.hand.Snapshot(viewer)
}

// StartHand begins a new hand and sets any bot seats in motion.
func (s *Session) StartHand(ctx context.Context) error {
	s.mu.Lock()
	s.touch()
	switch {
	case s.hand.Stage() == game.StageLobby:
		// First hand at this table.
	case s.hand.GameOver():
		s.hand.RotateDealer()
	default:
		s.mu.Unlock()
		return game.ErrHandInProgress
	}
	err := s.hand.PlayHand()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.broadcast()
	s.runBots(ctx)
	return nil
}

// Act applies one human action, then lets any bots whose turn follows
// play out before returning.
func (s *Session) Act(ctx context.Context, player, action string, amount int) error {
	a, err := game.ParseAction(action)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.touch()
	idx, ok := s.seatIndex(player)
	if !ok {
		s.mu.Unlock()
		return game.ErrNotYourTurn
	}
	res, err := s.hand.ExecuteAction(idx, a, amount)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.logger.Info(res.Message, "player", player)

	s.broadcast()
	s.runBots(ctx)
	return nil
}

// seatIndex finds a player's seat by name. Callers hold s.mu.
func (s *Session) seatIndex(name string) (int, bool) {
	for i := 0; i < s.hand.SeatCount(); i++ {
		seat := s.hand.Seat(i)
		if seat.Occupied() && seat.Player().Name == name {
			return i, true
		}
	}
	return 0, false
}

// runBots plays out consecutive bot turns. Each decision takes a snapshot
// under the lock, estimates outside it on the bounded pool, then reacquires
// and verifies the turn before acting.
func (s *Session) runBots(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	for {
		s.mu.Lock()
		idx := s.hand.CurrentPlayerIndex()
		if s.hand.GameOver() || idx < 0 {
			s.mu.Unlock()
			return
		}
		name := s.hand.Seat(idx).Player().Name
		policy, isBot := s.bots[name]
		if !isBot {
			s.mu.Unlock()
			return
		}
		snap := s.hand.Snapshot(name)
		s.mu.Unlock()

		var decision bot.Decision
		if err := s.pool.Do(ctx, func() { decision = policy.Decide(snap, name) }); err != nil {
			s.logger.Warn("bot decision cancelled", "bot", name, "error", err)
			return
		}

		s.mu.Lock()
		if s.hand.GameOver() || s.hand.CurrentPlayerIndex() != idx {
			// The table moved on while the bot was thinking.
			s.mu.Unlock()
			continue
		}
		res, err := s.hand.ExecuteAction(idx, decision.Action, decision.RaiseAmount)
		if err != nil {
			res, err = s.forceAction(idx)
		}
		s.mu.Unlock()
		if err != nil {
			s.logger.Error("bot cannot act", "bot", name, "error", err)
			return
		}
		s.logger.Info(res.Message, "bot", name)
		s.broadcast()
	}
}

// forceAction resolves a bot whose chosen action the engine rejected:
// check if possible, otherwise fold. Callers hold s.mu.
func (s *Session) forceAction(idx int) (game.ActionResult, error) {
	if res, err := s.hand.ExecuteAction(idx, game.ActionCheck, 0); err == nil {
		return res, nil
	}
	return s.hand.ExecuteAction(idx, game.ActionFold, 0)
}

// AddWatcher subscribes a connection to state pushes and sends it the
// current state immediately.
func (s *Session) AddWatcher(c *Connection) {
	s.wmu.Lock()
	s.watchers[c] = struct{}{}
	s.wmu.Unlock()

	snap := s.Snapshot(c.Viewer())
	if data, err := encodeState(snap, s.clock.Now()); err == nil {
		_ = c.Send(data)
	}
}

// RemoveWatcher unsubscribes a connection.
func (s *Session) RemoveWatcher(c *Connection) {
	s.wmu.Lock()
	delete(s.watchers, c)
	s.wmu.Unlock()
}

// broadcast pushes a viewer-scoped snapshot to every watcher.
func (s *Session) broadcast() {
	s.wmu.Lock()
	conns := make([]*Connection, 0, len(s.watchers))
	for c := range s.watchers {
		conns = append(conns, c)
	}
	s.wmu.Unlock()

	now := s.clock.Now()
	for _, c := range conns {
		s.mu.Lock()
		snap := s.hand.Snapshot(c.Viewer())
		s.mu.Unlock()

		data, err := encodeState(snap, now)
		if err != nil {
			s.logger.Error("failed to encode state", "error", err)
			continue
		}
		if err := c.Send(data); err != nil {
			s.logger.Debug("dropping watcher", "viewer", c.Viewer(), "error", err)
			s.RemoveWatcher(c)
		}
	}
}

// WatcherCount returns how many connections follow this session.
func (s *Session) WatcherCount() int {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return len(s.watchers)
}
