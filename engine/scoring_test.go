package engine

import "testing"

func TestKingThresholds(t *testing.T) {
	kings := []string{"KC", "KD", "KH", "KS"}
	want := []int{21, 14, 10, 5, 0}

	g := NewGame(1)
	for n := 0; n <= 4; n++ {
		if got := g.Threshold(0); got != want[n] {
			t.Fatalf("threshold with %d kings = %d, want %d", n, got, want[n])
		}
		if n < 4 {
			giveRoyals(t, &g, 0, kings[n])
		}
	}
}

func TestQueensAndEightsDoNotLowerThreshold(t *testing.T) {
	g := NewGame(1)
	giveRoyals(t, &g, 0, "QC", "8H")
	if got := g.Threshold(0); got != 21 {
		t.Fatalf("threshold = %d with no kings", got)
	}
}

func TestStolenPointsCountForController(t *testing.T) {
	g := NewGame(1)
	givePoints(t, &g, 0, "5H")
	giveStolen(t, &g, 0, "10C", "JC") // p0 controls p1's 10C
	if got := g.PlayerPoints(0); got != 15 {
		t.Fatalf("points = %d, want 15", got)
	}
	if got := g.PlayerPoints(1); got != 0 {
		t.Fatalf("victim points = %d, want 0", got)
	}
}

func TestWinOnReachingThreshold(t *testing.T) {
	g := NewGame(1)
	givePoints(t, &g, 0, "10H", "10C")
	giveHand(t, &g, 0, "AC")
	mustApply(t, &g, act(ActionPlayPoints, "AC", ""))
	if s, w := g.Status(); s != StatusWon || w != 0 {
		t.Fatalf("status = %v/%d at 21 points", s, w)
	}
	if g.LegalActions() != nil {
		t.Fatal("terminal game still offers actions")
	}
}

func TestKingCanWinOnPlay(t *testing.T) {
	g := NewGame(1)
	givePoints(t, &g, 0, "10H", "4C") // 14 points
	giveRoyals(t, &g, 0, "KC")
	giveHand(t, &g, 0, "KD")

	mustApply(t, &g, act(ActionPlayRoyal, "KD", ""))
	if s, w := g.Status(); s != StatusWon || w != 0 {
		t.Fatalf("status = %v/%d: second king should drop the threshold to 14", s, w)
	}
}

func TestFourKingsWinOutright(t *testing.T) {
	g := NewGame(1)
	giveRoyals(t, &g, 0, "KC", "KD", "KH")
	giveHand(t, &g, 0, "KS")
	mustApply(t, &g, act(ActionPlayRoyal, "KS", ""))
	if s, w := g.Status(); s != StatusWon || w != 0 {
		t.Fatalf("status = %v/%d with four kings and zero points", s, w)
	}
}

func TestActingPlayerWinPrecedence(t *testing.T) {
	// Both players sit at or above their thresholds after one mutation; the
	// acting player's win is declared.
	g := NewGame(1)
	giveRoyals(t, &g, 0, "KC", "KD", "KH") // p0 threshold 5
	givePoints(t, &g, 0, "4C", "AD")       // p0 at 5 of 5
	givePoints(t, &g, 1, "10H", "10C", "AC") // p1 at 21 of 21

	// Both sides satisfy their thresholds; the player whose action triggered
	// the check wins.
	g.checkWin(0)
	if s, w := g.Status(); s != StatusWon || w != 0 {
		t.Fatalf("status = %v/%d, want the acting player's win", s, w)
	}
}

func TestWinClearsPendingWindow(t *testing.T) {
	g := NewGame(1)
	giveRoyals(t, &g, 0, "KC", "KD", "KH") // threshold 5
	giveStolen(t, &g, 1, "5C", "JC")       // p0's five hostage at p1
	giveHand(t, &g, 0, "2H")

	// Scrapping the jack returns the five and wins immediately; no further
	// decision may be offered.
	mustApply(t, &g, act(ActionPlayOneOffTarget, "2H", "JC"))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))
	if !g.IsTerminal() {
		t.Fatal("game not over after the winning return")
	}
	if g.Pending.Type != PendingNone {
		t.Fatal("terminal state left a pending resolution")
	}
	if g.LegalActions() != nil {
		t.Fatal("terminal state offers actions")
	}
}
