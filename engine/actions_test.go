package engine

import (
	"errors"
	"testing"
)

func TestDrawMovesTopCard(t *testing.T) {
	g := NewDealtGame(17)
	top := g.Deck[g.DeckLen-1]
	mustApply(t, &g, act(ActionDraw, "", ""))
	if g.handIndex(0, top) < 0 {
		t.Fatalf("top card %s not in hand after draw", top)
	}
	if g.Turn != 1 {
		t.Fatal("draw did not pass the turn")
	}
}

func TestThreePassesStalemate(t *testing.T) {
	g := NewGame(1)
	g.DeckLen = 0
	mustApply(t, &g, act(ActionPass, "", ""))
	mustApply(t, &g, act(ActionPass, "", ""))
	if g.IsTerminal() {
		t.Fatal("game ended after two passes")
	}
	mustApply(t, &g, act(ActionPass, "", ""))
	if s, _ := g.Status(); s != StatusStalemate {
		t.Fatalf("status = %v after three passes", s)
	}
	if g.Winner != -1 {
		t.Fatalf("stalemate has winner %d", g.Winner)
	}
}

func TestPassCountResetByAnyOtherAction(t *testing.T) {
	g := NewGame(1)
	g.DeckLen = 0
	giveHand := func(p uint8, s string) { g.addToHand(p, mustCard(s)) }
	giveHand(1, "AC")

	mustApply(t, &g, act(ActionPass, "", ""))       // p0
	mustApply(t, &g, act(ActionPlayPoints, "AC", "")) // p1 plays instead
	mustApply(t, &g, act(ActionPass, "", ""))       // p0
	mustApply(t, &g, act(ActionPass, "", ""))       // p1
	if g.IsTerminal() {
		t.Fatal("stalemate declared over non-consecutive passes")
	}
	mustApply(t, &g, act(ActionPass, "", ""))
	if !g.IsTerminal() {
		t.Fatal("third consecutive pass did not end the game")
	}
}

func TestPlayPointsMovesCardToField(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "8H")
	mustApply(t, &g, act(ActionPlayPoints, "8H", ""))
	if g.PointLen[0] != 1 || g.Points[0][0].Card != mustCard("8H") {
		t.Fatal("8H not on the point field")
	}
	if g.Points[0][0].Owner != 0 || g.Points[0][0].Jack != EmptyCard {
		t.Fatal("fresh point slot has wrong owner or jack")
	}
	if g.HandLen[0] != 0 {
		t.Fatal("8H still in hand")
	}
}

func TestEightPlayableBothWays(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "8H")
	legal := g.LegalActions()
	if !containsAction(legal, act(ActionPlayPoints, "8H", "")) {
		t.Error("eight not playable for points")
	}
	if !containsAction(legal, act(ActionPlayRoyal, "8H", "")) {
		t.Error("eight not playable as glasses")
	}
}

func TestScuttleScrapsBothAndAttachedJack(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "9H")
	giveStolen(t, &g, 1, "5C", "JC") // p1 controls p0's 5C via JC

	mustApply(t, &g, act(ActionScuttle, "9H", "5C"))
	for _, s := range []string{"9H", "5C", "JC"} {
		if g.scrapIndex(mustCard(s)) < 0 {
			t.Errorf("%s not in scrap after scuttle", s)
		}
	}
	if g.PointLen[1] != 0 {
		t.Fatal("target slot survived the scuttle")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestCounterChainParity(t *testing.T) {
	cases := []struct {
		name     string
		twos     [2][]string // twos available per player
		play     []Action    // counter-window actions in order
		resolved bool
	}{
		{
			name:     "uncountered resolves",
			play:     []Action{act(ActionDeclineCounter, "", "")},
			resolved: true,
		},
		{
			name:     "one two voids",
			twos:     [2][]string{nil, {"2C"}},
			play:     []Action{act(ActionCounter, "2C", ""), act(ActionDeclineCounter, "", "")},
			resolved: false,
		},
		{
			name:     "two twos resolves",
			twos:     [2][]string{{"2D"}, {"2C"}},
			play:     []Action{act(ActionCounter, "2C", ""), act(ActionCounter, "2D", ""), act(ActionDeclineCounter, "", "")},
			resolved: true,
		},
		{
			name: "three twos voids",
			twos: [2][]string{{"2D"}, {"2C", "2H"}},
			play: []Action{
				act(ActionCounter, "2C", ""), act(ActionCounter, "2D", ""),
				act(ActionCounter, "2H", ""), act(ActionDeclineCounter, "", ""),
			},
			resolved: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGame(1)
			giveHand(t, &g, 0, "AH")
			givePoints(t, &g, 1, "10C")
			for p := uint8(0); p < NumPlayers; p++ {
				giveHand(t, &g, p, tc.twos[p]...)
			}

			mustApply(t, &g, act(ActionPlayOneOff, "AH", ""))
			for _, a := range tc.play {
				mustApply(t, &g, a)
			}

			if resolved := g.PointLen[1] == 0; resolved != tc.resolved {
				t.Fatalf("ace resolved = %v, want %v", resolved, tc.resolved)
			}
			// Either way the ace, the played twos, and the turn are spent.
			if g.scrapIndex(mustCard("AH")) < 0 {
				t.Fatal("ace not in scrap after the chain closed")
			}
			if g.Turn != 1 {
				t.Fatal("announcing a one-off did not consume the turn")
			}
			if g.CardCount() != DeckSize {
				t.Fatalf("card count = %d", g.CardCount())
			}
		})
	}
}

func TestCounterAlternatesResponder(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "AH", "2D")
	giveHand(t, &g, 1, "2C")

	mustApply(t, &g, act(ActionPlayOneOff, "AH", ""))
	if g.ActingPlayer() != 1 {
		t.Fatal("counter window did not open for the opponent")
	}
	mustApply(t, &g, act(ActionCounter, "2C", ""))
	if g.ActingPlayer() != 0 {
		t.Fatal("counter did not hand the window back")
	}
	// The countering two is spent immediately, not held in limbo.
	if g.scrapIndex(mustCard("2C")) < 0 {
		t.Fatal("played two not in scrap during the chain")
	}
}

func TestPendingCardCountedInLimbo(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "AH")
	mustApply(t, &g, act(ActionPlayOneOff, "AH", ""))
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d with a card in the counter window", g.CardCount())
	}
}

func TestApplyAfterGameOver(t *testing.T) {
	g := NewDealtGame(2)
	g.declareWinner(0)
	err := g.Apply(act(ActionDraw, "", ""))
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
}

func TestIllegalActionError(t *testing.T) {
	g := NewGame(1)
	err := g.Apply(act(ActionPlayPoints, "5H", "")) // not in hand
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("err = %v, want ErrIllegalAction", err)
	}
}
