package engine

// resolveEffect applies a one-off or Jack whose counter chain closed with
// the effect surviving. Single-shot effects scrap their card and end the
// turn here; multi-step effects park the card in the pending slot and wait
// for the relevant Choose action.
func (g *GameState) resolveEffect(actor uint8, card, target Card) {
	switch card.Rank() {
	case RankAce:
		g.resolveAce(actor, card)
	case RankTwo:
		g.resolveTwo(actor, card, target)
	case RankThree:
		g.resolveThree(actor, card)
	case RankFour:
		g.resolveFour(actor, card)
	case RankFive:
		g.resolveFive(actor, card)
	case RankSix:
		g.resolveSix(actor, card)
	case RankSeven:
		g.resolveSeven(actor, card)
	case RankNine:
		g.resolveNine(actor, card, target)
	case RankJack:
		g.resolveJack(actor, card, target)
	}
}

// resolveAce scraps every point card on both fields. Controlling Jacks are
// discarded along with the cards they hold.
func (g *GameState) resolveAce(actor uint8, ace Card) {
	for p := uint8(0); p < NumPlayers; p++ {
		for i := uint8(0); i < g.PointLen[p]; i++ {
			slot := g.Points[p][i]
			g.toScrap(slot.Card)
			if slot.Jack != EmptyCard {
				g.toScrap(slot.Jack)
			}
			g.Points[p][i] = PointSlot{Card: EmptyCard, Jack: EmptyCard}
		}
		g.PointLen[p] = 0
	}
	g.toScrap(ace)
	g.endTurn()
}

// resolveTwo scraps the single targeted royal. Scrapping a controlling Jack
// sends the stolen point card home, which can win the game for its owner.
func (g *GameState) resolveTwo(actor uint8, two, target Card) {
	opp := g.OpponentOf(actor)
	if g.removeRoyal(opp, target) {
		g.toScrap(target)
	} else {
		g.scrapAttachedJack(opp, target)
	}
	g.toScrap(two)
	g.checkWin(actor)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// scrapAttachedJack scraps the Jack controlling one of player's stolen
// point cards and returns that card to its original owner's field.
func (g *GameState) scrapAttachedJack(player uint8, jack Card) {
	for i := uint8(0); i < g.PointLen[player]; i++ {
		if g.Points[player][i].Jack != jack {
			continue
		}
		slot := g.removePointSlot(player, int(i))
		g.toScrap(slot.Jack)
		slot.Jack = EmptyCard
		g.addPointSlot(slot.Owner, slot)
		return
	}
}

// resolveThree lets the actor retrieve any scrap card. The Three stays in
// the pending slot until the choice completes, so it cannot retrieve
// itself; an empty scrap pile degrades to a no-op.
func (g *GameState) resolveThree(actor uint8, three Card) {
	if g.ScrapLen == 0 {
		g.toScrap(three)
		g.endTurn()
		return
	}
	g.Pending = Pending{Type: PendingScrapChoice, Player: actor, Actor: actor, Card: three, Target: EmptyCard}
}

// resolveFour forces the opponent to discard two cards (all they have when
// fewer). An empty hand degrades to a no-op.
func (g *GameState) resolveFour(actor uint8, four Card) {
	victim := g.OpponentOf(actor)
	if g.HandLen[victim] == 0 {
		g.toScrap(four)
		g.endTurn()
		return
	}
	g.Pending = Pending{Type: PendingFourDiscard, Player: victim, Actor: actor, Card: four, Target: EmptyCard}
}

// resolveFive starts the discard-then-draw: the actor discards one card
// (none only if the hand is already empty), then draws up to three.
func (g *GameState) resolveFive(actor uint8, five Card) {
	g.Pending = Pending{Type: PendingFiveDiscard, Player: actor, Actor: actor, Card: five, Target: EmptyCard}
}

// resolveSix scraps every royal and Glasses Eight on both fields. Jacks
// count as royals: stolen point cards return to their original owners,
// which can win the game for either player.
func (g *GameState) resolveSix(actor uint8, six Card) {
	for p := uint8(0); p < NumPlayers; p++ {
		for i := uint8(0); i < g.RoyalLen[p]; i++ {
			g.toScrap(g.Royals[p][i])
			g.Royals[p][i] = EmptyCard
		}
		g.RoyalLen[p] = 0
	}

	// Detach every Jack, returning stolen cards home.
	var returned [DeckSize]PointSlot
	var nReturned int
	for p := uint8(0); p < NumPlayers; p++ {
		kept := uint8(0)
		for i := uint8(0); i < g.PointLen[p]; i++ {
			slot := g.Points[p][i]
			if slot.Jack != EmptyCard {
				g.toScrap(slot.Jack)
				slot.Jack = EmptyCard
				returned[nReturned] = slot
				nReturned++
				continue
			}
			g.Points[p][kept] = slot
			kept++
		}
		for i := kept; i < g.PointLen[p]; i++ {
			g.Points[p][i] = PointSlot{Card: EmptyCard, Jack: EmptyCard}
		}
		g.PointLen[p] = kept
	}
	for i := 0; i < nReturned; i++ {
		g.addPointSlot(returned[i].Owner, returned[i])
	}

	g.toScrap(six)
	g.checkWin(actor)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// resolveSeven reveals the top two deck cards (one if only one remains) and
// waits for the actor's choice. An empty deck degrades to a no-op.
func (g *GameState) resolveSeven(actor uint8, seven Card) {
	if g.DeckLen == 0 {
		g.toScrap(seven)
		g.endTurn()
		return
	}
	n := uint8(2)
	if g.DeckLen < n {
		n = g.DeckLen
	}
	for i := uint8(0); i < n; i++ {
		g.DeckLen--
		g.Revealed[i] = g.Deck[g.DeckLen]
		g.Deck[g.DeckLen] = EmptyCard
	}
	g.RevealedLen = n
	g.toScrap(seven)
	g.Pending = Pending{Type: PendingSevenChoice, Player: actor, Actor: actor, Card: EmptyCard, Target: EmptyCard}
}

// resolveNine returns the targeted royal from the opponent's field to their
// hand and freezes that card instance for the owner's next turn. Bouncing a
// controlling Jack sends the stolen point card home first.
func (g *GameState) resolveNine(actor uint8, nine, target Card) {
	opp := g.OpponentOf(actor)
	if !g.removeRoyal(opp, target) {
		g.detachJackToHand(opp, target)
	} else {
		g.addToHand(opp, target)
	}
	// The opponent acts on the turn after this one ends.
	g.Nine = NineBlock{Active: true, Card: target, Owner: opp, Turn: g.TurnNumber + 1}
	g.toScrap(nine)
	g.checkWin(actor)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// detachJackToHand bounces the Jack controlling one of player's stolen
// point cards into player's hand, returning the card to its owner's field.
func (g *GameState) detachJackToHand(player uint8, jack Card) {
	for i := uint8(0); i < g.PointLen[player]; i++ {
		if g.Points[player][i].Jack != jack {
			continue
		}
		slot := g.removePointSlot(player, int(i))
		g.addToHand(player, slot.Jack)
		slot.Jack = EmptyCard
		g.addPointSlot(slot.Owner, slot)
		return
	}
}

// resolveJack moves the targeted opponent point card under the actor's
// control. Re-stealing an already-stolen card scraps the previous Jack; the
// slot's Owner field always names the true original owner.
func (g *GameState) resolveJack(actor uint8, jack, target Card) {
	opp := g.OpponentOf(actor)
	slot := g.removePointSlot(opp, g.pointIndex(opp, target))
	if slot.Jack != EmptyCard {
		g.toScrap(slot.Jack)
	}
	slot.Jack = jack
	g.addPointSlot(actor, slot)
	g.checkWin(actor)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// ---------------------------------------------------------------------------
// Choose handlers
// ---------------------------------------------------------------------------

// chooseRevealed picks one revealed card. A card with at least one legal
// play must be played (the pending slot narrows to its play actions); a
// card with none is auto-scrapped and the remaining card goes back on top
// of the deck.
func (g *GameState) chooseRevealed(p uint8, card Card) {
	var other Card = EmptyCard
	if g.RevealedLen == 2 {
		other = g.Revealed[0]
		if other == card {
			other = g.Revealed[1]
		}
	}
	g.Revealed = [2]Card{EmptyCard, EmptyCard}
	g.RevealedLen = 0

	if len(g.legalPlaysOf(p, card, nil)) == 0 {
		g.toScrap(card)
		if other != EmptyCard {
			g.Deck[g.DeckLen] = other
			g.DeckLen++
		}
		g.endTurn()
		return
	}

	if other != EmptyCard {
		g.toScrap(other)
	}
	g.Pending = Pending{Type: PendingSevenPlay, Player: p, Actor: p, Card: card, Target: EmptyCard, FromRevealed: true}
}

// chooseDiscards resolves a Four: the victim's chosen cards go to scrap,
// then the Four follows them.
func (g *GameState) chooseDiscards(p uint8, first, second Card) {
	four := g.Pending.Card
	g.clearPending()

	g.removeFromHand(p, first)
	g.toScrap(first)
	if second != EmptyCard {
		g.removeFromHand(p, second)
		g.toScrap(second)
	}
	g.toScrap(four)
	g.endTurn()
}

// chooseFromScrap resolves a Three: the chosen card moves to the actor's
// hand, then the Three goes to scrap.
func (g *GameState) chooseFromScrap(p uint8, card Card) {
	three := g.Pending.Card
	g.clearPending()

	g.removeFromScrap(card)
	g.addToHand(p, card)
	g.toScrap(three)
	g.endTurn()
}

// chooseFiveDiscard resolves a Five: discard the chosen card (EmptyCard
// only when the hand is empty), then draw up to three, bounded by the deck
// and the 8-card hand limit.
func (g *GameState) chooseFiveDiscard(p uint8, card Card) {
	five := g.Pending.Card
	g.clearPending()

	if card != EmptyCard {
		g.removeFromHand(p, card)
		g.toScrap(card)
	}
	g.toScrap(five)

	for drawn := 0; drawn < 3 && g.DeckLen > 0 && g.HandLen[p] < DrawLimit; drawn++ {
		g.DeckLen--
		g.addToHand(p, g.Deck[g.DeckLen])
		g.Deck[g.DeckLen] = EmptyCard
	}
	g.endTurn()
}
