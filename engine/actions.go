package engine

import "fmt"

// Apply applies an action for the acting player, mutating the state in
// place. Actions outside the current legal set fail with ErrIllegalAction
// and leave the state untouched; there is no partial application. Next wraps
// Apply for callers that want the pure value-to-value form.
func (g *GameState) Apply(a Action) error {
	if g.IsTerminal() {
		return fmt.Errorf("apply %s: %w", a.Type, ErrGameOver)
	}
	if !g.isLegal(a) {
		return fmt.Errorf("apply %s: not in the current legal set: %w", a.Type, ErrIllegalAction)
	}

	// Any action but a pass restarts the stalemate countdown.
	if a.Type != ActionPass {
		g.PassCount = 0
	}

	p := g.ActingPlayer()
	switch a.Type {
	case ActionDraw:
		g.draw(p)
	case ActionPass:
		g.pass()
	case ActionPlayPoints:
		g.playPoints(p, a.Card)
	case ActionScuttle:
		g.scuttle(p, a.Card, a.Target)
	case ActionPlayRoyal:
		g.playRoyal(p, a.Card)
	case ActionPlayOneOff, ActionPlayOneOffTarget:
		g.announce(p, a.Card, a.Target)
	case ActionPlayJack:
		g.announce(p, a.Card, a.Target)
	case ActionCounter:
		g.counter(p, a.Card)
	case ActionDeclineCounter:
		g.declineCounter()
	case ActionChooseRevealed:
		g.chooseRevealed(p, a.Card)
	case ActionChooseDiscards:
		g.chooseDiscards(p, a.Card, a.Target)
	case ActionChooseFromScrap:
		g.chooseFromScrap(p, a.Card)
	case ActionChooseFiveDiscard:
		g.chooseFiveDiscard(p, a.Card)
	}
	return nil
}

// draw moves the top deck card into the acting player's hand.
func (g *GameState) draw(p uint8) {
	g.DeckLen--
	g.addToHand(p, g.Deck[g.DeckLen])
	g.Deck[g.DeckLen] = EmptyCard
	g.endTurn()
}

// pass spends the turn; the third consecutive pass is a stalemate.
func (g *GameState) pass() {
	g.PassCount++
	if g.PassCount >= 3 {
		g.declareStalemate()
		return
	}
	g.endTurn()
}

// playPoints moves a number card onto the acting player's point field.
func (g *GameState) playPoints(p uint8, card Card) {
	g.takePlayed(p, card)
	g.addPointSlot(p, PointSlot{Card: card, Owner: p, Jack: EmptyCard})
	g.checkWin(p)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// scuttle destroys an opponent point card with a higher hand card. Both
// cards go to scrap, along with any Jack controlling the target. Scuttling
// is never counterable and ignores Queen protection.
func (g *GameState) scuttle(p uint8, attacker, target Card) {
	g.takePlayed(p, attacker)
	g.toScrap(attacker)

	opp := g.OpponentOf(p)
	slot := g.removePointSlot(opp, g.pointIndex(opp, target))
	g.toScrap(slot.Card)
	if slot.Jack != EmptyCard {
		g.toScrap(slot.Jack)
	}
	g.checkWin(p)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// playRoyal moves a King, Queen or Glasses Eight onto the royal field.
// Royals are not counterable. A King lowers the player's own threshold, so
// the win check runs before the turn passes.
func (g *GameState) playRoyal(p uint8, card Card) {
	g.takePlayed(p, card)
	g.addRoyal(p, card)
	g.checkWin(p)
	if g.IsTerminal() {
		return
	}
	g.endTurn()
}

// announce opens the counter window for a one-off or Jack. The played card
// leaves its source zone and is held in the pending slot until the chain
// closes; the non-acting player responds first.
func (g *GameState) announce(p uint8, card, target Card) {
	fromRevealed := g.Pending.Type == PendingSevenPlay
	g.takePlayed(p, card)
	g.Pending = Pending{
		Type:         PendingCounter,
		Player:       g.OpponentOf(p),
		Actor:        p,
		Card:         card,
		Target:       target,
		Depth:        0,
		FromRevealed: fromRevealed,
	}
}

// counter plays a Two against the pending effect and reopens the window for
// the other player, supporting arbitrary-depth stacks. The Two is spent
// immediately.
func (g *GameState) counter(p uint8, two Card) {
	g.removeFromHand(p, two)
	g.toScrap(two)
	g.Pending.Depth++
	g.Pending.Player = g.OpponentOf(p)
}

// declineCounter closes the chain: an odd depth voids the contested card,
// an even depth (including zero) lets its effect resolve. Either way the
// announcement consumed the actor's turn.
func (g *GameState) declineCounter() {
	actor := g.Pending.Actor
	card := g.Pending.Card
	target := g.Pending.Target
	voided := g.Pending.Depth%2 == 1
	g.clearPending()

	if voided {
		g.toScrap(card)
		g.endTurn()
		return
	}
	g.resolveEffect(actor, card, target)
}

// takePlayed removes card from the zone it is being played from: the chosen
// revealed card held in the pending slot during a Seven, otherwise the
// player's hand.
func (g *GameState) takePlayed(p uint8, card Card) {
	if g.Pending.Type == PendingSevenPlay && g.Pending.Card == card {
		g.Pending.Card = EmptyCard
		return
	}
	g.removeFromHand(p, card)
}

// clearPending empties the pending-resolution slot.
func (g *GameState) clearPending() {
	g.Pending = Pending{Card: EmptyCard, Target: EmptyCard}
}

// endTurn hands the turn to the other player.
func (g *GameState) endTurn() {
	g.clearPending()
	g.Turn = g.OpponentOf(g.Turn)
	g.TurnNumber++
	if g.Nine.Active && g.TurnNumber > g.Nine.Turn {
		g.Nine = NineBlock{}
	}
}
