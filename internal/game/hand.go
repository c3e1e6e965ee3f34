// Package game implements the betting-round state machine for one Texas
// Hold'em hand: turn order, legal actions, pot accounting, stage
// transitions, and showdown. The engine is single-threaded; the session
// layer serializes access with a per-hand lock.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// Hand is the per-table aggregate. One Hand is created per session and
// mutated in place hand after hand: PlayHand resets deck, pot, community
// cards, and per-player round state but preserves chip stacks and the
// dealer rotation.
type Hand struct {
	seats      []Seat
	deck       *deck.Deck
	community  []deck.Card
	pot        int
	dealerIdx  int
	smallBlind int
	bigBlind   int
	currentBet int
	stage      Stage
	current    int // seat index of the actor, -1 when none
	toAct      map[int]struct{}
	order      []int
	orderIdx   int
	gameOver   bool
	winners    []int
	bestDesc   string
	startChips int
	rng        *rand.Rand
	logger     *log.Logger
}

// ActionResult reports a successfully executed action.
type ActionResult struct {
	Message string
}

// New seats the named players and returns a hand in the lobby stage. An
// empty name leaves that seat open for JoinSeat.
func New(playerNames []string, opts ...Option) *Hand {
	h := &Hand{
		seats:      make([]Seat, len(playerNames)),
		smallBlind: 10,
		bigBlind:   20,
		startChips: 1000,
		stage:      StageLobby,
		current:    -1,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	for i, name := range playerNames {
		if name == "" {
			continue
		}
		h.seats[i] = Seat{player: &Player{Name: name, Chips: h.startChips}}
	}
	return h
}

// JoinSeat seats a player at an open seat. Only allowed in the lobby. A
// seat that was previously vacated restores its reserved stack.
func (h *Hand) JoinSeat(idx int, name string) error {
	if h.stage != StageLobby {
		return ErrNotInLobby
	}
	if idx < 0 || idx >= len(h.seats) {
		return ErrSeatOutOfRange
	}
	if h.seats[idx].Occupied() {
		return ErrSeatTaken
	}
	chips := h.seats[idx].reserved
	if chips <= 0 {
		chips = h.startChips
	}
	h.seats[idx] = Seat{player: &Player{Name: name, Chips: chips}}
	h.logger.Info("player joined", "seat", idx, "name", name, "chips", chips)
	return nil
}

// LeaveSeat vacates a seat, keeping its chips for a rejoin. Lobby only.
func (h *Hand) LeaveSeat(idx int) error {
	if h.stage != StageLobby {
		return ErrNotInLobby
	}
	if idx < 0 || idx >= len(h.seats) {
		return ErrSeatOutOfRange
	}
	if !h.seats[idx].Occupied() {
		return ErrSeatEmpty
	}
	h.seats[idx] = Seat{reserved: h.seats[idx].player.Chips}
	return nil
}

// RotateDealer moves the button to the next occupied seat.
func (h *Hand) RotateDealer() {
	h.dealerIdx = h.nextOccupied(h.dealerIdx)
}

// PlayHand starts a new hand: resets per-hand state, posts blinds, deals
// hole cards, and opens the preflop betting round.
func (h *Hand) PlayHand() error {
	playable := 0
	for _, s := range h.seats {
		if s.Occupied() && s.player.Chips > 0 {
			playable++
		}
	}
	if playable < 2 {
		return ErrNotEnoughPlayers
	}

	h.deck = deck.NewShuffled(h.rng)
	h.community = nil
	h.pot = 0
	h.currentBet = 0
	h.gameOver = false
	h.winners = nil
	h.bestDesc = ""
	for _, s := range h.seats {
		if s.Occupied() {
			s.player.resetForNewHand()
			if s.player.Chips > 0 {
				s.player.dealtIn = true
			}
		}
	}

	h.stage = StagePreflop
	h.postBlinds()
	h.dealHoleCards()
	h.setupBettingRound()
	return nil
}

// postBlinds deducts the blinds from the two seats clockwise of the dealer.
// Heads-up the dealer posts the small blind. A short stack posts what it
// has (all-in blind); the table bet still advances to the full big blind.
func (h *Hand) postBlinds() {
	var sbIdx int
	if h.inHandCount() == 2 {
		sbIdx = h.dealerIdx
		if !h.inHand(sbIdx) {
			sbIdx = h.nextInHand(h.dealerIdx)
		}
	} else {
		sbIdx = h.nextInHand(h.dealerIdx)
	}
	bbIdx := h.nextInHand(sbIdx)

	sb := h.seats[sbIdx].player
	bb := h.seats[bbIdx].player
	h.pot += sb.put(min(h.smallBlind, sb.Chips))
	h.pot += bb.put(min(h.bigBlind, bb.Chips))
	h.currentBet = h.bigBlind

	dealer := "empty"
	if h.seats[h.dealerIdx].Occupied() {
		dealer = h.seats[h.dealerIdx].player.Name
	}
	h.logger.Debug("blinds posted",
		"dealer", dealer,
		"small_blind", sb.Name, "big_blind", bb.Name, "pot", h.pot)
}

func (h *Hand) dealHoleCards() {
	for _, s := range h.seats {
		if s.Occupied() && s.player.dealtIn {
			s.player.Hole = h.deck.Deal(2)
		}
	}
}

// setupBettingRound computes the rotation for the street and advances to
// the first eligible actor. Preflop heads-up the dealer acts first; preflop
// multiway action starts after the big blind; post-flop action starts after
// the dealer.
func (h *Hand) setupBettingRound() {
	var start int
	if h.stage == StagePreflop && h.inHandCount() == 2 {
		start = h.dealerIdx
	} else if h.stage == StagePreflop {
		start = (h.dealerIdx + 3) % len(h.seats)
	} else {
		start = (h.dealerIdx + 1) % len(h.seats)
	}

	h.toAct = make(map[int]struct{})
	for i, s := range h.seats {
		if s.Occupied() && s.player.dealtIn && !s.player.Folded && s.player.Chips > 0 {
			h.toAct[i] = struct{}{}
		}
	}

	h.order = h.order[:0]
	for i := 0; i < len(h.seats); i++ {
		idx := (start + i) % len(h.seats)
		if h.seats[idx].Occupied() && h.seats[idx].player.dealtIn {
			h.order = append(h.order, idx)
		}
	}
	h.orderIdx = 0
	h.advanceToNextPlayer()
}

// advanceToNextPlayer walks the rotation for the next player still owing a
// decision, dropping folded and all-in seats along the way. When nobody
// remains the street is complete and the stage advances.
func (h *Hand) advanceToNextPlayer() {
	for attempts := 0; attempts < len(h.order)*2; attempts++ {
		if len(h.toAct) == 0 {
			break
		}
		if h.orderIdx >= len(h.order) {
			h.orderIdx = 0
		}
		idx := h.order[h.orderIdx]
		if _, waiting := h.toAct[idx]; !waiting {
			h.orderIdx++
			continue
		}
		p := h.seats[idx].player
		if p.Folded || p.Chips <= 0 {
			delete(h.toAct, idx)
			h.orderIdx++
			continue
		}
		h.current = idx
		return
	}
	h.current = -1
	h.advanceStage()
}

// advanceStage deals the next street or resolves the hand. Runs only when
// the current street's betting is complete.
func (h *Hand) advanceStage() {
	if h.unfoldedCount() <= 1 {
		h.awardPotToLastPlayer()
		return
	}
	switch h.stage {
	case StagePreflop:
		h.startStreet(StageFlop, 3)
	case StageFlop:
		h.startStreet(StageTurn, 1)
	case StageTurn:
		h.startStreet(StageRiver, 1)
	case StageRiver:
		h.showdown()
	}
}

func (h *Hand) startStreet(next Stage, cardCount int) {
	h.currentBet = 0
	for _, s := range h.seats {
		if s.Occupied() {
			s.player.resetForBettingRound()
		}
	}
	h.stage = next
	h.community = append(h.community, h.deck.Deal(cardCount)...)
	h.logger.Debug("street dealt", "stage", next, "community", h.community, "pot", h.pot)
	h.setupBettingRound()
}

// LegalActions returns the action names available to the current actor, in
// presentation order. Empty when no actor is pending.
func (h *Hand) LegalActions() []Action {
	if h.stage == StageLobby || h.gameOver || h.current < 0 {
		return nil
	}
	p := h.seats[h.current].player
	toCall := h.currentBet - p.Bet

	var actions []Action
	if toCall <= 0 {
		actions = append(actions, ActionCheck)
	} else {
		actions = append(actions, ActionCall)
	}
	actions = append(actions, ActionFold)
	if toCall < p.Chips {
		actions = append(actions, ActionRaise)
	}
	return actions
}

// ExecuteAction applies one action for the player at playerIdx. Illegal
// actions return an error with no state mutated. A raise of raiseAmount
// commits to-call plus raiseAmount and reopens the action to every other
// live player.
func (h *Hand) ExecuteAction(playerIdx int, action Action, raiseAmount int) (ActionResult, error) {
	if h.stage == StageLobby {
		return ActionResult{}, ErrHandNotStarted
	}
	if h.gameOver {
		return ActionResult{}, ErrHandComplete
	}
	if playerIdx != h.current {
		return ActionResult{}, ErrNotYourTurn
	}

	p := h.seats[playerIdx].player
	toCall := max(0, h.currentBet-p.Bet)

	switch action {
	case ActionCall:
		if toCall == 0 {
			return ActionResult{}, ErrNothingToCall
		}
		// Calling with a short stack is the all-in path: commit what
		// remains rather than rejecting.
		h.pot += p.put(min(toCall, p.Chips))
		delete(h.toAct, playerIdx)
		h.orderIdx++
		h.advanceToNextPlayer()
		return h.result("%s calls %d", p.Name, toCall), nil

	case ActionCheck:
		if toCall > 0 {
			return ActionResult{}, ErrCannotCheck
		}
		delete(h.toAct, playerIdx)
		h.orderIdx++
		h.advanceToNextPlayer()
		return h.result("%s checks", p.Name), nil

	case ActionFold:
		p.Folded = true
		delete(h.toAct, playerIdx)
		if h.unfoldedCount() == 1 {
			h.awardPotToLastPlayer()
			return h.result("%s folds, hand over", p.Name), nil
		}
		h.orderIdx++
		h.advanceToNextPlayer()
		return h.result("%s folds", p.Name), nil

	case ActionRaise:
		if toCall >= p.Chips {
			return ActionResult{}, ErrCannotRaise
		}
		if raiseAmount <= 0 {
			return ActionResult{}, fmt.Errorf("%w: raise must be positive", ErrInvalidRaise)
		}
		total := toCall + raiseAmount
		if total > p.Chips {
			return ActionResult{}, fmt.Errorf("%w: only %d chips remaining", ErrInvalidRaise, p.Chips)
		}
		h.pot += p.put(total)
		h.currentBet = p.Bet

		// A raise reopens the action: everyone else still live owes a
		// response to the new price.
		h.toAct = make(map[int]struct{})
		for i, s := range h.seats {
			if i == playerIdx || !s.Occupied() || !s.player.dealtIn {
				continue
			}
			if !s.player.Folded && s.player.Chips > 0 {
				h.toAct[i] = struct{}{}
			}
		}
		h.orderIdx++
		h.advanceToNextPlayer()
		return h.result("%s raises to %d", p.Name, h.currentBet), nil

	default:
		return ActionResult{}, ErrUnknownAction
	}
}

func (h *Hand) result(format string, args ...any) ActionResult {
	msg := fmt.Sprintf(format, args...)
	h.logger.Info(msg, "stage", h.stage, "pot", h.pot)
	return ActionResult{Message: msg}
}

// showdown evaluates every remaining player's seven cards and pays the pot.
// Tied hands split evenly; the remainder goes to the tied player closest
// clockwise from the dealer.
func (h *Hand) showdown() {
	best := evaluator.Score(0)
	var winners []int
	for i, s := range h.seats {
		if !s.Occupied() || !s.player.dealtIn || s.player.Folded {
			continue
		}
		all := append(append([]deck.Card{}, s.player.Hole...), h.community...)
		score, _, err := evaluator.Evaluate(all)
		if err != nil {
			// Unreachable: every dealt-in player holds 2 cards and the
			// board has 5 by the river.
			panic(err)
		}
		switch score.Compare(best) {
		case 1:
			best = score
			winners = winners[:0]
			winners = append(winners, i)
		case 0:
			winners = append(winners, i)
		}
	}

	share := h.pot / len(winners)
	remainder := h.pot % len(winners)
	for _, idx := range winners {
		h.seats[idx].player.Chips += share
	}
	if remainder > 0 {
		h.seats[h.closestToDealer(winners)].player.Chips += remainder
	}

	h.winners = winners
	h.bestDesc = best.Category().String()
	h.gameOver = true
	h.stage = StageShowdown
	h.current = -1
	h.toAct = nil

	h.logger.Info("showdown", "winners", h.WinnerNames(), "hand", h.bestDesc, "pot", h.pot)
}

// closestToDealer returns the member of seat indices nearest clockwise
// from the dealer.
func (h *Hand) closestToDealer(indices []int) int {
	for i := 1; i <= len(h.seats); i++ {
		idx := (h.dealerIdx + i) % len(h.seats)
		for _, w := range indices {
			if w == idx {
				return idx
			}
		}
	}
	return indices[0]
}

// awardPotToLastPlayer ends the hand when everyone else has folded.
func (h *Hand) awardPotToLastPlayer() {
	for i, s := range h.seats {
		if s.Occupied() && s.player.dealtIn && !s.player.Folded {
			s.player.Chips += h.pot
			h.winners = []int{i}
			break
		}
	}
	h.gameOver = true
	h.current = -1
	h.toAct = nil
	h.logger.Info("hand over, everyone else folded", "winners", h.WinnerNames(), "pot", h.pot)
}

// helpers

func (h *Hand) inHand(idx int) bool {
	return h.seats[idx].Occupied() && h.seats[idx].player.dealtIn
}

func (h *Hand) inHandCount() int {
	n := 0
	for i := range h.seats {
		if h.inHand(i) {
			n++
		}
	}
	return n
}

func (h *Hand) unfoldedCount() int {
	n := 0
	for i, s := range h.seats {
		if h.inHand(i) && !s.player.Folded {
			n++
		}
	}
	return n
}

func (h *Hand) nextOccupied(from int) int {
	for i := 1; i <= len(h.seats); i++ {
		idx := (from + i) % len(h.seats)
		if h.seats[idx].Occupied() {
			return idx
		}
	}
	return from
}

func (h *Hand) nextInHand(from int) int {
	for i := 1; i <= len(h.seats); i++ {
		idx := (from + i) % len(h.seats)
		if h.inHand(idx) {
			return idx
		}
	}
	return from
}

// accessors

// Pot returns the chips committed to the hand so far.
func (h *Hand) Pot() int { return h.pot }

// Stage returns the current stage.
func (h *Hand) Stage() Stage { return h.stage }

// CurrentBet returns the table's highest current-round commitment.
func (h *Hand) CurrentBet() int { return h.currentBet }

// CurrentPlayerIndex returns the acting seat, or -1 when none.
func (h *Hand) CurrentPlayerIndex() int { return h.current }

// DealerIndex returns the button seat.
func (h *Hand) DealerIndex() int { return h.dealerIdx }

// Community returns a copy of the community cards.
func (h *Hand) Community() []deck.Card {
	out := make([]deck.Card, len(h.community))
	copy(out, h.community)
	return out
}

// GameOver reports whether the hand has been resolved.
func (h *Hand) GameOver() bool { return h.gameOver }

// SeatCount returns the number of seats at the table.
func (h *Hand) SeatCount() int { return len(h.seats) }

// Seat returns the seat at idx.
func (h *Hand) Seat(idx int) Seat { return h.seats[idx] }

// WinnerNames returns the names of the hand's winners, empty until resolved.
func (h *Hand) WinnerNames() []string {
	names := make([]string, 0, len(h.winners))
	for _, idx := range h.winners {
		names = append(names, h.seats[idx].player.Name)
	}
	return names
}
