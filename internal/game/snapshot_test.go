package game

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
)

func TestSnapshotHidesOpponentHoleCards(t *testing.T) {
	h := New([]string{"alice", "bob", "carol"}, WithRand(rand.New(rand.NewSource(7))))
	mustPlay(t, h)

	snap := h.Snapshot("alice")
	for _, pv := range snap.Players {
		switch pv.Name {
		case "alice":
			if len(pv.Hand) != 2 || pv.Hand[0] == "??" {
				t.Errorf("viewer's own hand = %v, want real cards", pv.Hand)
			}
		default:
			for _, c := range pv.Hand {
				if c != "??" {
					t.Errorf("%s's cards visible to alice: %v", pv.Name, pv.Hand)
				}
			}
		}
	}

	// The serialized form must not leak either. Preflop there are no
	// community cards, and no two cards repeat, so an opponent's card
	// string appearing anywhere in the JSON is a leak.
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, seat := range []int{1, 2} {
		for _, c := range h.Seat(seat).Player().Hole {
			if strings.Contains(string(raw), c.String()) {
				t.Errorf("opponent card %s leaked into snapshot JSON", c)
			}
		}
	}
}

func TestSnapshotObserverSeesEverything(t *testing.T) {
	h := New([]string{"alice", "bob"}, WithRand(rand.New(rand.NewSource(7))))
	mustPlay(t, h)

	snap := h.Snapshot("")
	for _, pv := range snap.Players {
		if len(pv.Hand) != 2 {
			t.Errorf("%s's hand hidden from observer: %v", pv.Name, pv.Hand)
		}
		for _, c := range pv.Hand {
			if c == "??" {
				t.Errorf("%s's hand masked for observer", pv.Name)
			}
		}
	}
}

func TestSnapshotFoldedAndLobbyHandsEmpty(t *testing.T) {
	h := New([]string{"alice", "bob", "carol"}, WithRand(rand.New(rand.NewSource(7))))

	lobby := h.Snapshot("alice")
	if lobby.Stage != StageLobby.String() {
		t.Fatalf("stage = %s, want lobby", lobby.Stage)
	}
	for _, pv := range lobby.Players {
		if len(pv.Hand) != 0 {
			t.Errorf("lobby snapshot carries cards for %s", pv.Name)
		}
	}

	mustPlay(t, h)
	mustAct(t, h, h.CurrentPlayerIndex(), ActionFold, 0)
	snap := h.Snapshot("bob")
	for _, pv := range snap.Players {
		if pv.Folded && len(pv.Hand) != 0 {
			t.Errorf("folded player %s still shows cards: %v", pv.Name, pv.Hand)
		}
	}
}

func TestSnapshotTurnFields(t *testing.T) {
	h := New([]string{"alice", "bob"}, WithRand(rand.New(rand.NewSource(7))))
	mustPlay(t, h)

	snap := h.Snapshot("")
	if snap.CurrentPlayerIndex != h.CurrentPlayerIndex() {
		t.Errorf("current index = %d, want %d", snap.CurrentPlayerIndex, h.CurrentPlayerIndex())
	}
	if snap.CurrentPlayer != "alice" {
		t.Errorf("current player = %q, want alice (heads-up dealer)", snap.CurrentPlayer)
	}
	if snap.ToCall != 10 {
		t.Errorf("to_call = %d, want 10", snap.ToCall)
	}
	want := []string{"call", "fold", "raise"}
	if len(snap.LegalActions) != len(want) {
		t.Fatalf("legal actions = %v, want %v", snap.LegalActions, want)
	}
	for i, a := range want {
		if snap.LegalActions[i] != a {
			t.Errorf("legal action %d = %q, want %q", i, snap.LegalActions[i], a)
		}
	}
}
