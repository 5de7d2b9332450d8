package engine

import "testing"

// playOneOff announces card (optionally targeted) and lets it resolve
// uncountered.
func playOneOff(t *testing.T, g *GameState, card, target string) {
	t.Helper()
	typ := ActionPlayOneOff
	if target != "" {
		typ = ActionPlayOneOffTarget
	}
	mustApply(t, g, act(typ, card, target))
	mustApply(t, g, act(ActionDeclineCounter, "", ""))
}

func TestAceScrapsAllPoints(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "AH")
	givePoints(t, &g, 0, "3C", "4C")
	givePoints(t, &g, 1, "10C")
	giveStolen(t, &g, 1, "9C", "JC")
	giveRoyals(t, &g, 1, "KC")

	playOneOff(t, &g, "AH", "")

	if g.PointLen[0] != 0 || g.PointLen[1] != 0 {
		t.Fatal("point fields survived the ace")
	}
	for _, s := range []string{"AH", "3C", "4C", "10C", "9C", "JC"} {
		if g.scrapIndex(mustCard(s)) < 0 {
			t.Errorf("%s not in scrap", s)
		}
	}
	if g.RoyalLen[1] != 1 {
		t.Fatal("ace touched the royal field")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestTwoScrapsRoyal(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "2H")
	giveRoyals(t, &g, 1, "KC")

	playOneOff(t, &g, "2H", "KC")

	if g.RoyalLen[1] != 0 {
		t.Fatal("king survived")
	}
	if g.scrapIndex(mustCard("KC")) < 0 || g.scrapIndex(mustCard("2H")) < 0 {
		t.Fatal("king or two not in scrap")
	}
}

func TestTwoOnAttachedJackReturnsCard(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "2H")
	giveStolen(t, &g, 1, "10C", "JC") // p1 controls p0's 10C

	playOneOff(t, &g, "2H", "JC")

	if g.scrapIndex(mustCard("JC")) < 0 {
		t.Fatal("jack not scrapped")
	}
	if g.PointLen[1] != 0 {
		t.Fatal("stolen card still on the thief's field")
	}
	if g.PointLen[0] != 1 || g.Points[0][0].Card != mustCard("10C") {
		t.Fatal("10C did not return to its owner")
	}
	if g.Points[0][0].Jack != EmptyCard {
		t.Fatal("returned slot still marked stolen")
	}
}

func TestTwoReturningCardCanWinForOwner(t *testing.T) {
	g := NewGame(1)
	givePoints(t, &g, 0, "10H", "8H", "2C") // 20 points on the field
	giveStolen(t, &g, 1, "10C", "JC")       // plus 10 held hostage
	giveHand(t, &g, 0, "2H")

	playOneOff(t, &g, "2H", "JC")

	if s, w := g.Status(); s != StatusWon || w != 0 {
		t.Fatalf("status = %v/%d, want won/0 at 30 points", s, w)
	}
}

func TestThreeRetrievesFromScrap(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "3H")
	g.toScrap(takeDeck(t, &g, mustCard("KC")))
	g.toScrap(takeDeck(t, &g, mustCard("5D")))

	playOneOff(t, &g, "3H", "")
	if g.DecisionCtx() != CtxScrapChoice {
		t.Fatalf("ctx = %v, want scrap choice", g.DecisionCtx())
	}
	// The resolving three is in limbo, not in scrap: it cannot take itself.
	if containsAction(g.LegalActions(), act(ActionChooseFromScrap, "3H", "")) {
		t.Fatal("three offered itself as a retrieval target")
	}

	mustApply(t, &g, act(ActionChooseFromScrap, "KC", ""))
	if g.handIndex(0, mustCard("KC")) < 0 {
		t.Fatal("KC not retrieved to hand")
	}
	if g.scrapIndex(mustCard("3H")) < 0 {
		t.Fatal("three not scrapped after resolving")
	}
	if g.Turn != 1 {
		t.Fatal("turn did not pass after the choice")
	}
}

func TestThreeOnEmptyScrapIsNoOp(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "3H")
	playOneOff(t, &g, "3H", "")
	if g.Pending.Type != PendingNone {
		t.Fatal("empty-scrap three left a pending choice")
	}
	if g.scrapIndex(mustCard("3H")) < 0 {
		t.Fatal("three not scrapped")
	}
	if g.Turn != 1 {
		t.Fatal("no-op three did not consume the turn")
	}
}

func TestFourForcesTwoDiscards(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "4H")
	giveHand(t, &g, 1, "AC", "2C", "3C")

	playOneOff(t, &g, "4H", "")
	if g.ActingPlayer() != 1 {
		t.Fatal("discard choice not given to the victim")
	}
	mustApply(t, &g, act(ActionChooseDiscards, "AC", "3C"))

	if g.HandLen[1] != 1 || g.Hands[1][0] != mustCard("2C") {
		t.Fatal("wrong cards discarded")
	}
	for _, s := range []string{"AC", "3C", "4H"} {
		if g.scrapIndex(mustCard(s)) < 0 {
			t.Errorf("%s not in scrap", s)
		}
	}
}

func TestFourOnEmptyHandIsNoOp(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "4H")
	playOneOff(t, &g, "4H", "")
	if g.Pending.Type != PendingNone || g.Turn != 1 {
		t.Fatal("empty-hand four should resolve as a no-op")
	}
}

func TestFiveDiscardThenDrawThree(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "5H", "AC")

	playOneOff(t, &g, "5H", "")
	if g.ActingPlayer() != 0 {
		t.Fatal("five discard belongs to the actor")
	}
	expected := [3]Card{g.Deck[g.DeckLen-1], g.Deck[g.DeckLen-2], g.Deck[g.DeckLen-3]}
	mustApply(t, &g, act(ActionChooseFiveDiscard, "AC", ""))

	if g.HandLen[0] != 3 {
		t.Fatalf("hand = %d cards, want 3 drawn", g.HandLen[0])
	}
	for _, c := range expected {
		if g.handIndex(0, c) < 0 {
			t.Errorf("%s not drawn", c)
		}
	}
	if g.scrapIndex(mustCard("AC")) < 0 || g.scrapIndex(mustCard("5H")) < 0 {
		t.Fatal("discard or five not in scrap")
	}
}

func TestFiveDrawCappedByDeck(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "5H")
	keep := takeDeck(t, &g, mustCard("KD"))
	for g.DeckLen > 0 {
		g.toScrap(g.Deck[g.DeckLen-1])
		g.Deck[g.DeckLen-1] = EmptyCard
		g.DeckLen--
	}
	g.Deck[0] = keep
	g.DeckLen = 1

	playOneOff(t, &g, "5H", "")
	mustApply(t, &g, act(ActionChooseFiveDiscard, "", "")) // hand empty after playing the five

	if g.HandLen[0] != 1 || g.Hands[0][0] != mustCard("KD") {
		t.Fatal("five did not draw the lone deck card")
	}
	if g.DeckLen != 0 {
		t.Fatal("deck not exhausted")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestSixScrapsRoyalsAndFreesStolen(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "6H")
	giveRoyals(t, &g, 0, "KH")
	giveRoyals(t, &g, 1, "QC", "8D")
	giveStolen(t, &g, 1, "10C", "JC")

	playOneOff(t, &g, "6H", "")

	if g.RoyalLen[0] != 0 || g.RoyalLen[1] != 0 {
		t.Fatal("royal fields survived the six")
	}
	for _, s := range []string{"6H", "KH", "QC", "8D", "JC"} {
		if g.scrapIndex(mustCard(s)) < 0 {
			t.Errorf("%s not in scrap", s)
		}
	}
	if g.PointLen[0] != 1 || g.Points[0][0].Card != mustCard("10C") {
		t.Fatal("stolen card did not return home")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestSixBypassesQueenProtection(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "6H")
	giveRoyals(t, &g, 1, "QC", "QD", "KC")
	playOneOff(t, &g, "6H", "")
	if g.RoyalLen[1] != 0 {
		t.Fatal("queens shielded the royal field from a six")
	}
}

func TestSevenPlayRevealedCard(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "7H")

	playOneOff(t, &g, "7H", "")
	if g.DecisionCtx() != CtxSevenChoice || g.RevealedLen != 2 {
		t.Fatalf("ctx = %v revealed = %d", g.DecisionCtx(), g.RevealedLen)
	}
	chosen := g.Revealed[0]
	other := g.Revealed[1]
	mustApply(t, &g, Action{Type: ActionChooseRevealed, Card: chosen, Target: EmptyCard})

	// The unchosen card is scrapped, the chosen one must now be played.
	if g.scrapIndex(other) < 0 {
		t.Fatal("unchosen revealed card not scrapped")
	}
	if g.DecisionCtx() != CtxSevenPlay {
		t.Fatalf("ctx = %v, want seven play", g.DecisionCtx())
	}
	legal := g.LegalActions()
	if len(legal) == 0 {
		t.Fatal("no plays offered for the chosen card")
	}
	for _, a := range legal {
		if a.Card != chosen {
			t.Fatalf("offered a play of %s, not the chosen %s", a.Card, chosen)
		}
		if a.Type == ActionDraw || a.Type == ActionPass {
			t.Fatal("draw or pass offered during a seven play")
		}
	}
	mustApply(t, &g, legal[0])
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestSevenUnplayableChoiceAutoScraps(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "7H")
	// Stack the deck: both revealed cards will be jacks, and the opponent's
	// empty point field means a jack has no legal play.
	jc, jd := takeDeck(t, &g, mustCard("JC")), takeDeck(t, &g, mustCard("JD"))
	g.Deck[g.DeckLen] = jd
	g.Deck[g.DeckLen+1] = jc
	g.DeckLen += 2

	deckBefore := g.DeckLen - 2 // the seven reveals both jacks
	playOneOff(t, &g, "7H", "")
	mustApply(t, &g, act(ActionChooseRevealed, "JC", ""))

	if g.scrapIndex(mustCard("JC")) < 0 {
		t.Fatal("unplayable chosen jack not scrapped")
	}
	if g.DeckLen != deckBefore+1 || g.Deck[g.DeckLen-1] != jd {
		t.Fatal("other revealed card not returned to the deck top")
	}
	if g.Turn != 1 {
		t.Fatal("auto-scrap did not end the turn")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestSevenWithOneDeckCard(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "7H")
	keep := takeDeck(t, &g, mustCard("5D"))
	for g.DeckLen > 0 {
		g.toScrap(g.Deck[g.DeckLen-1])
		g.Deck[g.DeckLen-1] = EmptyCard
		g.DeckLen--
	}
	g.Deck[0] = keep
	g.DeckLen = 1

	playOneOff(t, &g, "7H", "")
	if g.RevealedLen != 1 || g.Revealed[0] != mustCard("5D") {
		t.Fatalf("revealed %d cards", g.RevealedLen)
	}
	mustApply(t, &g, act(ActionChooseRevealed, "5D", ""))
	mustApply(t, &g, act(ActionPlayPoints, "5D", ""))
	if g.PointLen[0] != 1 || g.Points[0][0].Card != mustCard("5D") {
		t.Fatal("revealed five not played for points")
	}
}

func TestSevenOnEmptyDeckIsNoOp(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "7H")
	for g.DeckLen > 0 {
		g.toScrap(g.Deck[g.DeckLen-1])
		g.Deck[g.DeckLen-1] = EmptyCard
		g.DeckLen--
	}
	playOneOff(t, &g, "7H", "")
	if g.Pending.Type != PendingNone || g.Turn != 1 {
		t.Fatal("empty-deck seven should resolve as a no-op")
	}
}

func TestSevenOneOffFromDeckOpensCounterWindow(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "7H")
	giveHand(t, &g, 1, "2C")
	givePoints(t, &g, 1, "10C")
	// Top of deck will be an ace, playable as a one-off.
	ah := takeDeck(t, &g, mustCard("AH"))
	g.Deck[g.DeckLen] = ah
	g.DeckLen++

	playOneOff(t, &g, "7H", "")
	mustApply(t, &g, act(ActionChooseRevealed, "AH", ""))
	mustApply(t, &g, act(ActionPlayOneOff, "AH", ""))

	// The opponent may counter a one-off played from the deck.
	if g.DecisionCtx() != CtxCounter || g.ActingPlayer() != 1 {
		t.Fatalf("ctx = %v acting = %d", g.DecisionCtx(), g.ActingPlayer())
	}
	mustApply(t, &g, act(ActionCounter, "2C", ""))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))

	if g.PointLen[1] != 1 {
		t.Fatal("countered deck-played ace still resolved")
	}
	if g.scrapIndex(mustCard("AH")) < 0 {
		t.Fatal("voided ace not in scrap")
	}
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestNineBouncesAttachedJack(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "9H")
	giveStolen(t, &g, 1, "10C", "JC")

	playOneOff(t, &g, "9H", "JC")

	if g.handIndex(1, mustCard("JC")) < 0 {
		t.Fatal("jack not bounced to the thief's hand")
	}
	if g.PointLen[0] != 1 || g.Points[0][0].Card != mustCard("10C") {
		t.Fatal("stolen card did not return home")
	}
	if !g.Nine.Active || g.Nine.Card != mustCard("JC") || g.Nine.Owner != 1 {
		t.Fatal("nine block not recorded for the bounced jack")
	}
}

func TestJackStealCountsForThief(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "JH")
	givePoints(t, &g, 1, "10C")

	mustApply(t, &g, act(ActionPlayJack, "JH", "10C"))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))

	if g.PointLen[1] != 0 {
		t.Fatal("target still on the victim's field")
	}
	slot := g.Points[0][0]
	if slot.Card != mustCard("10C") || slot.Jack != mustCard("JH") || slot.Owner != 1 {
		t.Fatalf("stolen slot = %+v", slot)
	}
	if g.PlayerPoints(0) != 10 || g.PlayerPoints(1) != 0 {
		t.Fatal("stolen points not credited to the thief")
	}
}

func TestJackCanBeCountered(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "JH")
	giveHand(t, &g, 1, "2C")
	givePoints(t, &g, 1, "10C")

	mustApply(t, &g, act(ActionPlayJack, "JH", "10C"))
	mustApply(t, &g, act(ActionCounter, "2C", ""))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))

	if g.PointLen[1] != 1 {
		t.Fatal("countered jack still stole the card")
	}
	if g.scrapIndex(mustCard("JH")) < 0 {
		t.Fatal("voided jack not in scrap")
	}
}

func TestReStealScrapsPreviousJack(t *testing.T) {
	g := NewGame(1)
	giveStolen(t, &g, 1, "10C", "JC") // p1 holds p0's 10C
	giveHand(t, &g, 0, "JH")
	g.Turn = 0

	mustApply(t, &g, act(ActionPlayJack, "JH", "10C"))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))

	if g.scrapIndex(mustCard("JC")) < 0 {
		t.Fatal("replaced jack not scrapped")
	}
	slot := g.Points[0][0]
	if slot.Jack != mustCard("JH") || slot.Owner != 0 {
		t.Fatalf("re-stolen slot = %+v, want owner 0 under JH", slot)
	}
	// Back home under a jack: the chain never grows past one.
	if g.CardCount() != DeckSize {
		t.Fatalf("card count = %d", g.CardCount())
	}
}

func TestOneOffVoidedStillConsumesTurn(t *testing.T) {
	g := NewGame(1)
	giveHand(t, &g, 0, "AH")
	giveHand(t, &g, 1, "2C")
	mustApply(t, &g, act(ActionPlayOneOff, "AH", ""))
	mustApply(t, &g, act(ActionCounter, "2C", ""))
	mustApply(t, &g, act(ActionDeclineCounter, "", ""))
	if g.Turn != 1 {
		t.Fatal("voided one-off did not consume the announcer's turn")
	}
}
