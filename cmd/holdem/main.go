package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/bot"
	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	handStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	redCard   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	blackCard = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
)

type CLI struct {
	Players    int    `short:"p" help:"Number of bot players at the table" default:"4"`
	Hands      int    `short:"n" help:"Number of hands to play" default:"10"`
	Policy     string `help:"Bot policy (random, heuristic, equity)" default:"equity" enum:"random,heuristic,equity"`
	Difficulty string `short:"d" help:"Bot difficulty (easy, medium, hard)" default:"medium" enum:"easy,medium,hard"`
	Chips      int    `help:"Starting chips per player" default:"1000"`
	Seed       int64  `help:"Random seed (0 for time-based)" default:"0"`
	Verbose    bool   `short:"v" help:"Log every action"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if cli.Players < 2 || cli.Players > 10 {
		log.Fatal("Invalid number of players, must be between 2 and 10")
	}

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := log.New(io.Discard)
	if cli.Verbose {
		logger = log.New(os.Stderr)
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ Texas Hold'em Simulator ♦ ♣ "))
	fmt.Println()

	if err := simulate(cli, seed, logger); err != nil {
		log.Fatal("Simulation failed", "error", err)
	}
	kctx.Exit(0)
}

func simulate(cli CLI, seed int64, logger *log.Logger) error {
	rng := rand.New(rand.NewSource(seed))

	names := make([]string, cli.Players)
	policies := make(map[string]bot.Policy, cli.Players)
	difficulty, err := bot.ParseDifficulty(cli.Difficulty)
	if err != nil {
		return err
	}
	for i := range names {
		names[i] = fmt.Sprintf("bot-%d", i+1)
		botRng := rand.New(rand.NewSource(rng.Int63()))
		switch cli.Policy {
		case "random":
			policies[names[i]] = bot.NewRandom(botRng)
		case "heuristic":
			policies[names[i]] = bot.NewHeuristic(difficulty, botRng)
		default:
			policies[names[i]] = bot.NewEquity(difficulty, botRng)
		}
	}

	h := game.New(names,
		game.WithStartingChips(cli.Chips),
		game.WithRand(rng),
		game.WithLogger(logger),
	)

	for n := 1; n <= cli.Hands; n++ {
		if err := h.PlayHand(); err != nil {
			fmt.Println(handStyle.Render(fmt.Sprintf("Stopping after %d hands: %v", n-1, err)))
			break
		}
		fmt.Println(handStyle.Render(fmt.Sprintf("─── Hand %d ───", n)))

		if err := playOut(h, policies); err != nil {
			return err
		}
		printResult(h)
		h.RotateDealer()
	}

	fmt.Println()
	fmt.Println(titleStyle.Render(" Final stacks "))
	for i := 0; i < h.SeatCount(); i++ {
		if seat := h.Seat(i); seat.Occupied() {
			p := seat.Player()
			fmt.Printf("  %-8s %5d\n", p.Name, p.Chips)
		}
	}
	return nil
}

// playOut runs bot decisions until the hand resolves.
func playOut(h *game.Hand, policies map[string]bot.Policy) error {
	for !h.GameOver() {
		idx := h.CurrentPlayerIndex()
		if idx < 0 {
			return fmt.Errorf("no player to act but hand is not over")
		}
		name := h.Seat(idx).Player().Name
		policy := policies[name]

		decision := policy.Decide(h.Snapshot(name), name)
		if _, err := h.ExecuteAction(idx, decision.Action, decision.RaiseAmount); err != nil {
			// The policy picked something the table state no longer
			// allows; resolve with a check or fold.
			if _, err := h.ExecuteAction(idx, game.ActionCheck, 0); err != nil {
				if _, err := h.ExecuteAction(idx, game.ActionFold, 0); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func printResult(h *game.Hand) {
	if community := h.Community(); len(community) > 0 {
		fmt.Printf("  Board: %s\n", renderCards(community))
	}
	snap := h.Snapshot("")
	line := fmt.Sprintf("Winner: %s", strings.Join(snap.Winners, ", "))
	if snap.WinningHand != "" {
		line += fmt.Sprintf(" (%s)", snap.WinningHand)
	}
	line += fmt.Sprintf("  pot %d", snap.Pot)
	fmt.Println("  " + winnerStyle.Render(line))
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = redCard.Render(c.String())
		} else {
			parts[i] = blackCard.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}
