package game

import (
	"fmt"

	"github.com/cardroom/holdem/internal/deck"
)

// Player holds one seated player's per-hand state. Chips persist across
// hands; hole cards, folded, and the round bet reset via the explicit
// reset methods.
type Player struct {
	Name   string
	Chips  int
	Hole   []deck.Card
	Folded bool
	Bet    int // chips committed this betting round

	dealtIn bool // dealt into the current hand
}

// put moves amount from the stack into the player's round bet and returns
// it. Betting more than the stack is a contract violation: the engine caps
// every committed amount before calling.
func (p *Player) put(amount int) int {
	if amount > p.Chips {
		panic(fmt.Sprintf("game: %s bet %d with %d chips", p.Name, amount, p.Chips))
	}
	p.Chips -= amount
	p.Bet += amount
	return amount
}

func (p *Player) resetForNewHand() {
	p.Hole = nil
	p.Folded = false
	p.Bet = 0
	p.dealtIn = false
}

func (p *Player) resetForBettingRound() {
	p.Bet = 0
}

// Seat is an explicitly empty-or-occupied table position. An emptied seat
// remembers its chips so the same player can rejoin with their stack.
type Seat struct {
	player   *Player
	reserved int
}

// Occupied reports whether a player is seated.
func (s Seat) Occupied() bool { return s.player != nil }

// Player returns the seated player, or nil for an empty seat.
func (s Seat) Player() *Player { return s.player }
