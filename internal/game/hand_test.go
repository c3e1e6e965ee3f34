package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cardroom/holdem/internal/deck"
)

func newTestHand(t *testing.T, names []string, opts ...Option) *Hand {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return New(names, opts...)
}

func mustPlay(t *testing.T, h *Hand) {
	t.Helper()
	if err := h.PlayHand(); err != nil {
		t.Fatalf("PlayHand: %v", err)
	}
}

func mustAct(t *testing.T, h *Hand, idx int, action Action, raise int) {
	t.Helper()
	if _, err := h.ExecuteAction(idx, action, raise); err != nil {
		t.Fatalf("ExecuteAction(%d, %s, %d): %v", idx, action, raise, err)
	}
}

func TestHeadsUpBlindsAndFirstStreet(t *testing.T) {
	// Two players, chips 1000, blinds 10/20. The dealer posts the small
	// blind and acts first preflop. Call then check completes the street:
	// pot 40, three community cards, round bets reset.
	h := newTestHand(t, []string{"alice", "bob"})
	mustPlay(t, h)

	if h.Stage() != StagePreflop {
		t.Fatalf("stage = %s, want preflop", h.Stage())
	}
	dealer := h.Seat(h.DealerIndex()).Player()
	if dealer.Bet != 10 {
		t.Errorf("dealer posted %d, want small blind 10", dealer.Bet)
	}
	if h.CurrentPlayerIndex() != h.DealerIndex() {
		t.Errorf("first to act = %d, want dealer %d", h.CurrentPlayerIndex(), h.DealerIndex())
	}

	mustAct(t, h, h.CurrentPlayerIndex(), ActionCall, 0)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionCheck, 0)

	if h.Stage() != StageFlop {
		t.Errorf("stage = %s, want flop", h.Stage())
	}
	if h.Pot() != 40 {
		t.Errorf("pot = %d, want 40", h.Pot())
	}
	if got := len(h.Community()); got != 3 {
		t.Errorf("community cards = %d, want 3", got)
	}
	for i := 0; i < h.SeatCount(); i++ {
		if bet := h.Seat(i).Player().Bet; bet != 0 {
			t.Errorf("seat %d round bet = %d, want 0 after street", i, bet)
		}
	}
}

func TestPreflopOrderThreeHanded(t *testing.T) {
	// With 3+ players action starts after the big blind: the dealer.
	h := newTestHand(t, []string{"a", "b", "c"})
	mustPlay(t, h)

	if h.CurrentPlayerIndex() != 0 {
		t.Errorf("first to act = %d, want dealer seat 0", h.CurrentPlayerIndex())
	}
	if got := h.Seat(1).Player().Bet; got != 10 {
		t.Errorf("seat 1 posted %d, want small blind", got)
	}
	if got := h.Seat(2).Player().Bet; got != 20 {
		t.Errorf("seat 2 posted %d, want big blind", got)
	}
}

func TestPotConservation(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c"})
	mustPlay(t, h)

	assertPot := func() {
		t.Helper()
		committed := 0
		for i := 0; i < h.SeatCount(); i++ {
			committed += 1000 - h.Seat(i).Player().Chips
		}
		if h.GameOver() {
			// Pot already paid back out.
			return
		}
		if h.Pot() != committed {
			t.Fatalf("pot = %d, committed = %d", h.Pot(), committed)
		}
	}

	script := []struct {
		action Action
		raise  int
	}{
		{ActionRaise, 40}, // dealer raises to 60
		{ActionCall, 0},
		{ActionCall, 0},
		// flop
		{ActionCheck, 0},
		{ActionRaise, 100},
		{ActionCall, 0},
		{ActionCall, 0},
		// turn
		{ActionCheck, 0},
		{ActionCheck, 0},
		{ActionCheck, 0},
		// river
		{ActionCheck, 0},
		{ActionCheck, 0},
		{ActionCheck, 0},
	}
	for _, step := range script {
		assertPot()
		mustAct(t, h, h.CurrentPlayerIndex(), step.action, step.raise)
	}

	if !h.GameOver() {
		t.Fatal("hand should be over after river checks")
	}
	// All chips paid out: pot went somewhere, stacks sum to 3000.
	total := 0
	for i := 0; i < h.SeatCount(); i++ {
		total += h.Seat(i).Player().Chips
	}
	if total != 3000 {
		t.Errorf("stacks sum to %d, want 3000", total)
	}
}

func TestRaiseReopensAction(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c", "d"})
	mustPlay(t, h)

	// Everyone calls around to the big blind, who checks; the flop comes.
	mustAct(t, h, h.CurrentPlayerIndex(), ActionCall, 0)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionCall, 0)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionCall, 0)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionCheck, 0)
	if h.Stage() != StageFlop {
		t.Fatalf("stage = %s, want flop", h.Stage())
	}

	// First two check, third raises: both checkers and the fourth player
	// are back on the clock.
	first := h.CurrentPlayerIndex()
	mustAct(t, h, first, ActionCheck, 0)
	second := h.CurrentPlayerIndex()
	mustAct(t, h, second, ActionCheck, 0)
	raiser := h.CurrentPlayerIndex()
	mustAct(t, h, raiser, ActionRaise, 50)

	if _, ok := h.toAct[raiser]; ok {
		t.Error("raiser should not owe another decision")
	}
	for _, idx := range []int{first, second} {
		if _, ok := h.toAct[idx]; !ok {
			t.Errorf("seat %d not reinstated after raise", idx)
		}
	}
	if len(h.toAct) != 3 {
		t.Errorf("players to act = %d, want 3", len(h.toAct))
	}
}

func TestFoldOutEndsHandImmediately(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c"})
	mustPlay(t, h)

	mustAct(t, h, h.CurrentPlayerIndex(), ActionFold, 0)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionFold, 0)

	if !h.GameOver() {
		t.Fatal("hand should end when all but one fold")
	}
	if got := len(h.Community()); got != 0 {
		t.Errorf("community cards = %d, want none dealt", got)
	}
	winners := h.WinnerNames()
	if len(winners) != 1 || winners[0] != "c" {
		t.Errorf("winners = %v, want [c]", winners)
	}
	// c posted the 20 big blind and wins the 30 pot.
	if got := h.Seat(2).Player().Chips; got != 1010 {
		t.Errorf("winner chips = %d, want 1010", got)
	}
}

func TestTurnInvariant(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c", "d"})
	mustPlay(t, h)

	rng := rand.New(rand.NewSource(99))
	for steps := 0; steps < 500 && !h.GameOver(); steps++ {
		actions := h.LegalActions()
		if len(actions) == 0 {
			t.Fatal("no legal actions for pending actor")
		}
		action := actions[rng.Intn(len(actions))]
		raise := 0
		if action == ActionRaise {
			p := h.Seat(h.CurrentPlayerIndex()).Player()
			margin := p.Chips - max(0, h.CurrentBet()-p.Bet)
			if margin < 10 {
				action = ActionFold
			} else {
				raise = 10
			}
		}
		mustAct(t, h, h.CurrentPlayerIndex(), action, raise)

		cur := h.CurrentPlayerIndex()
		if h.GameOver() {
			continue
		}
		if cur < 0 {
			t.Fatal("no current player while hand still running")
		}
		p := h.Seat(cur).Player()
		if p == nil || p.Folded || p.Chips <= 0 {
			t.Fatalf("current player %d is not eligible to act", cur)
		}
	}
	if !h.GameOver() {
		t.Fatal("hand did not resolve")
	}
}

func TestShortStackPostsCappedBlind(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c"})
	h.Seat(2).Player().Chips = 5 // big blind seat, cannot cover 20
	mustPlay(t, h)

	bb := h.Seat(2).Player()
	if bb.Bet != 5 || bb.Chips != 0 {
		t.Errorf("short stack posted %d leaving %d, want all-in 5/0", bb.Bet, bb.Chips)
	}
	if h.CurrentBet() != 20 {
		t.Errorf("table bet = %d, want full big blind 20", h.CurrentBet())
	}
	if h.Pot() != 15 {
		t.Errorf("pot = %d, want 15", h.Pot())
	}
}

func TestIllegalActionsLeaveStateUntouched(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c"})

	if _, err := h.ExecuteAction(0, ActionCall, 0); !errors.Is(err, ErrHandNotStarted) {
		t.Errorf("lobby action error = %v, want ErrHandNotStarted", err)
	}

	mustPlay(t, h)
	potBefore := h.Pot()
	cur := h.CurrentPlayerIndex()

	wrong := (cur + 1) % h.SeatCount()
	if _, err := h.ExecuteAction(wrong, ActionCall, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn error = %v, want ErrNotYourTurn", err)
	}
	if _, err := h.ExecuteAction(cur, ActionCheck, 0); !errors.Is(err, ErrCannotCheck) {
		t.Errorf("check facing bet error = %v, want ErrCannotCheck", err)
	}
	if _, err := h.ExecuteAction(cur, ActionRaise, 0); !errors.Is(err, ErrInvalidRaise) {
		t.Errorf("zero raise error = %v, want ErrInvalidRaise", err)
	}
	if _, err := h.ExecuteAction(cur, ActionRaise, 10_000); !errors.Is(err, ErrInvalidRaise) {
		t.Errorf("oversized raise error = %v, want ErrInvalidRaise", err)
	}
	if _, err := h.ExecuteAction(cur, Action(42), 0); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action error = %v, want ErrUnknownAction", err)
	}

	if h.Pot() != potBefore {
		t.Errorf("pot changed by rejected actions: %d -> %d", potBefore, h.Pot())
	}
	if h.CurrentPlayerIndex() != cur {
		t.Errorf("turn changed by rejected actions")
	}
}

func TestShowdownSplitsTiedPot(t *testing.T) {
	h := newTestHand(t, []string{"a", "b", "c"})
	mustPlay(t, h)

	// Fold c and rig a board both remaining players play in full, so
	// their hands tie exactly.
	h.seats[2].player.Folded = true

	h.community = []deck.Card{
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.King, deck.Spades),
		deck.NewCard(deck.Queen, deck.Spades),
		deck.NewCard(deck.Jack, deck.Spades),
		deck.NewCard(deck.Ten, deck.Spades),
	}
	h.seats[0].player.Hole = []deck.Card{
		deck.NewCard(deck.Two, deck.Hearts),
		deck.NewCard(deck.Three, deck.Hearts),
	}
	h.seats[1].player.Hole = []deck.Card{
		deck.NewCard(deck.Two, deck.Diamonds),
		deck.NewCard(deck.Three, deck.Diamonds),
	}

	aBefore := h.seats[0].player.Chips
	bBefore := h.seats[1].player.Chips
	h.pot = 101
	h.showdown()

	if len(h.winners) != 2 {
		t.Fatalf("winners = %v, want both remaining players", h.WinnerNames())
	}
	// 101 splits 50/50 with the odd chip to the seat closest clockwise
	// from the dealer (seat 1, since seat 0 is the dealer).
	if got := h.seats[1].player.Chips - bBefore; got != 51 {
		t.Errorf("seat 1 won %d, want 51 (share + odd chip)", got)
	}
	if got := h.seats[0].player.Chips - aBefore; got != 50 {
		t.Errorf("seat 0 won %d, want 50", got)
	}
}

func TestLobbySeatManagement(t *testing.T) {
	h := newTestHand(t, []string{"a", "", "c"})

	if err := h.JoinSeat(1, "b"); err != nil {
		t.Fatalf("JoinSeat: %v", err)
	}
	if err := h.JoinSeat(1, "intruder"); !errors.Is(err, ErrSeatTaken) {
		t.Errorf("double join error = %v, want ErrSeatTaken", err)
	}

	// Leaving keeps the stack reserved for a rejoin.
	h.Seat(1).Player().Chips = 750
	if err := h.LeaveSeat(1); err != nil {
		t.Fatalf("LeaveSeat: %v", err)
	}
	if err := h.JoinSeat(1, "b"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if got := h.Seat(1).Player().Chips; got != 750 {
		t.Errorf("rejoined with %d chips, want reserved 750", got)
	}

	mustPlay(t, h)
	if err := h.JoinSeat(1, "x"); !errors.Is(err, ErrNotInLobby) {
		t.Errorf("mid-hand join error = %v, want ErrNotInLobby", err)
	}
}

func TestPlayHandWithEmptyDealerSeat(t *testing.T) {
	// An open seat on the button is a normal table state and must not
	// disturb dealing or blind posting.
	h := newTestHand(t, []string{"", "b", "c"})
	mustPlay(t, h)

	if got := h.Seat(1).Player().Bet; got != 10 {
		t.Errorf("seat 1 posted %d, want small blind", got)
	}
	if got := h.Seat(2).Player().Bet; got != 20 {
		t.Errorf("seat 2 posted %d, want big blind", got)
	}

	// Same state reached through the lobby: the dealer leaves before the
	// hand starts.
	h = newTestHand(t, []string{"a", "b", "c"})
	if err := h.LeaveSeat(h.DealerIndex()); err != nil {
		t.Fatalf("LeaveSeat: %v", err)
	}
	mustPlay(t, h)
	if h.Stage() != StagePreflop {
		t.Errorf("stage = %s, want preflop", h.Stage())
	}
}

func TestPlayHandNeedsTwoPlayers(t *testing.T) {
	h := newTestHand(t, []string{"solo", ""})
	if err := h.PlayHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("PlayHand error = %v, want ErrNotEnoughPlayers", err)
	}
}

func TestRotateDealerSkipsEmptySeats(t *testing.T) {
	h := newTestHand(t, []string{"a", "", "c"})
	if h.DealerIndex() != 0 {
		t.Fatalf("dealer starts at %d", h.DealerIndex())
	}
	h.RotateDealer()
	if h.DealerIndex() != 2 {
		t.Errorf("dealer = %d, want 2 (seat 1 is empty)", h.DealerIndex())
	}
}
