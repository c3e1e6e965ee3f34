package game

import (
	"math/rand"

	"github.com/charmbracelet/log"
)

// Option configures a Hand at construction.
type Option func(*Hand)

// WithBlinds sets the small and big blind amounts.
func WithBlinds(small, big int) Option {
	return func(h *Hand) {
		h.smallBlind = small
		h.bigBlind = big
	}
}

// WithStartingChips sets the buy-in stack for newly seated players.
func WithStartingChips(chips int) Option {
	return func(h *Hand) { h.startChips = chips }
}

// WithDealerIndex sets the initial dealer seat.
func WithDealerIndex(idx int) Option {
	return func(h *Hand) { h.dealerIdx = idx }
}

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(h *Hand) { h.rng = rng }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hand) { h.logger = logger.WithPrefix("game") }
}
