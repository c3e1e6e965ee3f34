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
	"github.com/cardroom/holdem/internal/gameid"
)

// evictInterval is how often the registry sweeps for idle sessions.
const evictInterval = time.Minute

// Registry owns every live session, keyed by game ID. It replaces any
// notion of process-global table state: handlers resolve a session here
// and the registry evicts tables nobody has touched within the TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	defaults GameSettings
	pool     *AIPool
	clock    quartz.Clock
	ttl      time.Duration
	logger   *log.Logger
}

// NewRegistry creates an empty registry. The clock is injectable so tests
// can drive eviction deterministically.
func NewRegistry(defaults GameSettings, pool *AIPool, clock quartz.Clock, ttl time.Duration, logger *log.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		defaults: defaults,
		pool:     pool,
		clock:    clock,
		ttl:      ttl,
		logger:   logger.WithPrefix("registry"),
	}
}

// Create builds a session from a create-game request, applying the
// configured defaults for anything the request leaves zero.
func (r *Registry) Create(req CreateGameRequest) (*Session, error) {
	smallBlind := req.SmallBlind
	if smallBlind == 0 {
		smallBlind = r.defaults.SmallBlind
	}
	bigBlind := req.BigBlind
	if bigBlind == 0 {
		bigBlind = r.defaults.BigBlind
	}
	chips := req.StartingChips
	if chips == 0 {
		chips = r.defaults.StartingChips
	}
	if bigBlind <= smallBlind {
		return nil, fmt.Errorf("big blind %d must exceed small blind %d", bigBlind, smallBlind)
	}
	if chips < bigBlind {
		return nil, fmt.Errorf("starting chips %d cannot cover the big blind", chips)
	}

	names := make([]string, 0, len(req.Players)+len(req.Bots))
	seen := make(map[string]bool)
	for _, name := range req.Players {
		if name == "" {
			return nil, fmt.Errorf("player names cannot be empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
		names = append(names, name)
	}

	policies := make(map[string]bot.Policy, len(req.Bots))
	for _, seat := range req.Bots {
		if seat.Name == "" {
			return nil, fmt.Errorf("bot names cannot be empty")
		}
		if seen[seat.Name] {
			return nil, fmt.Errorf("duplicate player name %q", seat.Name)
		}
		seen[seat.Name] = true

		policyName := seat.Policy
		if policyName == "" {
			policyName = r.defaults.BotPolicy
		}
		difficulty := seat.Difficulty
		if difficulty == "" {
			difficulty = r.defaults.BotDifficulty
		}
		policy, err := buildPolicy(policyName, difficulty, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", seat.Name, err)
		}
		policies[seat.Name] = policy
		names = append(names, seat.Name)
	}

	if len(names) < 2 {
		return nil, game.ErrNotEnoughPlayers
	}
	if len(names) > r.defaults.MaxSeats {
		return nil, fmt.Errorf("table seats at most %d players, got %d", r.defaults.MaxSeats, len(names))
	}

	id := gameid.New()
	hand := game.New(names,
		game.WithBlinds(smallBlind, bigBlind),
		game.WithStartingChips(chips),
		game.WithLogger(r.logger),
	)
	session := newSession(id, hand, policies, r.pool, r.clock, r.logger)

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	r.logger.Info("game created", "game", id, "players", len(req.Players), "bots", len(req.Bots))
	return session, nil
}

// Get resolves a session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle drops sessions idle past the TTL that nobody is watching, and
// returns how many were removed.
func (r *Registry) EvictIdle() int {
	cutoff := r.clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Session
	for _, s := range r.sessions {
		if s.WatcherCount() == 0 && s.LastActive().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	for _, s := range stale {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	for _, s := range stale {
		r.logger.Info("evicted idle game", "game", s.ID, "idle_since", s.LastActive())
	}
	return len(stale)
}

// Run sweeps for idle sessions until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := r.clock.TickerFunc(ctx, evictInterval, func() error {
		r.EvictIdle()
		return nil
	})
	_ = ticker.Wait()
}
