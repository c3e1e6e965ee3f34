package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/holdem/internal/game"
)

// CreateGameRequest is the body of POST /games. Zero-valued table settings
// fall back to the configured defaults.
type CreateGameRequest struct {
	Players       []string  `json:"players"`
	Bots          []BotSeat `json:"bots,omitempty"`
	SmallBlind    int       `json:"small_blind,omitempty"`
	BigBlind      int       `json:"big_blind,omitempty"`
	StartingChips int       `json:"starting_chips,omitempty"`
}

// BotSeat configures one computer-controlled seat.
type BotSeat struct {
	Name       string `json:"name"`
	Policy     string `json:"policy,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// CreateGameResponse is the body returned for a created game.
type CreateGameResponse struct {
	ID string `json:"id"`
}

// ActionRequest is the body of POST /games/{id}/actions.
type ActionRequest struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StateMessage is the WebSocket push envelope.
type StateMessage struct {
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	State     game.Snapshot `json:"state"`
}

func encodeState(snap game.Snapshot, now time.Time) ([]byte, error) {
	return json.Marshal(StateMessage{Type: "state", Timestamp: now, State: snap})
}
