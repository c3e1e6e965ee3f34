package game

import "github.com/cardroom/holdem/internal/deck"

// PlayerView is one player's row in a snapshot. Hand is the full hole cards
// for the viewer (or when no viewer is given), "??" placeholders for other
// active players, and empty for folded players, empty seats, and the lobby.
type PlayerView struct {
	Name       string   `json:"name"`
	Chips      int      `json:"chips"`
	Hand       []string `json:"hand"`
	CurrentBet int      `json:"current_bet"`
	Folded     bool     `json:"folded"`
	Seated     bool     `json:"seated"`
}

// Snapshot is a read-only, serializable projection of the hand for one
// viewer. Building it never mutates the hand.
type Snapshot struct {
	Stage              string       `json:"stage"`
	Pot                int          `json:"pot"`
	CurrentBet         int          `json:"current_bet"`
	CommunityCards     []string     `json:"community_cards"`
	CurrentPlayer      string       `json:"current_player,omitempty"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	ToCall             int          `json:"to_call"`
	LegalActions       []string     `json:"legal_actions"`
	GameOver           bool         `json:"game_over"`
	Winner             string       `json:"winner,omitempty"`
	Winners            []string     `json:"winners,omitempty"`
	WinningHand        string       `json:"winning_hand,omitempty"`
	Dealer             string       `json:"dealer,omitempty"`
	Players            []PlayerView `json:"players"`
}

// Snapshot projects the hand state as seen by viewer. The hide-the-hole-
// cards rule is a hard contract: an active opponent's cards never appear
// in another player's snapshot. An empty viewer sees everything (server-
// side observer).
func (h *Hand) Snapshot(viewer string) Snapshot {
	snap := Snapshot{
		Stage:              h.stage.String(),
		Pot:                h.pot,
		CurrentBet:         h.currentBet,
		CommunityCards:     cardStrings(h.community),
		CurrentPlayerIndex: h.current,
		GameOver:           h.gameOver,
		Winners:            h.WinnerNames(),
		WinningHand:        h.bestDesc,
	}
	if len(snap.Winners) > 0 {
		snap.Winner = snap.Winners[0]
	}
	if h.seats[h.dealerIdx].Occupied() {
		snap.Dealer = h.seats[h.dealerIdx].player.Name
	}
	if h.current >= 0 {
		p := h.seats[h.current].player
		snap.CurrentPlayer = p.Name
		snap.ToCall = max(0, h.currentBet-p.Bet)
	}
	for _, a := range h.LegalActions() {
		snap.LegalActions = append(snap.LegalActions, a.String())
	}

	snap.Players = make([]PlayerView, len(h.seats))
	for i, s := range h.seats {
		if !s.Occupied() {
			continue
		}
		p := s.player
		view := PlayerView{
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.Bet,
			Folded:     p.Folded,
			Seated:     true,
		}
		if h.stage != StageLobby {
			switch {
			case viewer == "" || p.Name == viewer:
				view.Hand = cardStrings(p.Hole)
			case !p.Folded && len(p.Hole) > 0:
				view.Hand = []string{"??", "??"}
			}
		}
		snap.Players[i] = view
	}
	return snap
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
