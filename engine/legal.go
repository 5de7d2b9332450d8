package engine

// DecisionCtx returns the current decision context for the acting player.
func (g *GameState) DecisionCtx() DecisionContext {
	if g.IsTerminal() {
		return CtxTerminal
	}
	switch g.Pending.Type {
	case PendingCounter:
		return CtxCounter
	case PendingSevenChoice:
		return CtxSevenChoice
	case PendingSevenPlay:
		return CtxSevenPlay
	case PendingFourDiscard:
		return CtxFourDiscard
	case PendingFiveDiscard:
		return CtxFiveDiscard
	case PendingScrapChoice:
		return CtxScrapChoice
	}
	return CtxMain
}

// LegalActions returns every action the acting player may take. The result
// is empty once the game is terminal.
func (g *GameState) LegalActions() []Action {
	switch g.DecisionCtx() {
	case CtxTerminal:
		return nil
	case CtxMain:
		return g.legalMain(g.Turn, nil)
	case CtxCounter:
		return g.legalCounter()
	case CtxSevenChoice:
		return g.legalSevenChoice()
	case CtxSevenPlay:
		return g.legalPlaysOf(g.Pending.Player, g.Pending.Card, nil)
	case CtxFourDiscard:
		return g.legalFourDiscard()
	case CtxFiveDiscard:
		return g.legalFiveDiscard()
	case CtxScrapChoice:
		return g.legalScrapChoice()
	}
	return nil
}

// LegalActionsFor returns the legal actions for the given player: the full
// set when it is their decision, empty otherwise. Drives both UI action
// masking and RL policy masking.
func (g *GameState) LegalActionsFor(player uint8) []Action {
	if g.IsTerminal() || player != g.ActingPlayer() {
		return nil
	}
	return g.LegalActions()
}

// legalMain populates the normal-turn action set for player p.
func (g *GameState) legalMain(p uint8, out []Action) []Action {
	// Draw and Pass are mutually exclusive on deck state: drawing requires a
	// non-empty deck and room under the 8-card limit; passing is how a turn
	// is spent once the deck runs out.
	if g.DeckLen > 0 {
		if g.HandLen[p] < DrawLimit {
			out = append(out, Action{Type: ActionDraw, Card: EmptyCard, Target: EmptyCard})
		}
	} else {
		out = append(out, Action{Type: ActionPass, Card: EmptyCard, Target: EmptyCard})
	}

	for i := uint8(0); i < g.HandLen[p]; i++ {
		out = g.legalPlaysOf(p, g.Hands[p][i], out)
	}
	return out
}

// legalPlaysOf appends every way player p may play the given card this turn.
// Shared between the main phase and the Seven play-from-deck sub-phase.
func (g *GameState) legalPlaysOf(p uint8, card Card, out []Action) []Action {
	opp := g.OpponentOf(p)

	if card.IsPointCard() {
		out = append(out, Action{Type: ActionPlayPoints, Card: card, Target: EmptyCard})

		// Scuttling ignores Queen protection.
		for i := uint8(0); i < g.PointLen[opp]; i++ {
			if target := g.Points[opp][i].Card; card.Beats(target) {
				out = append(out, Action{Type: ActionScuttle, Card: card, Target: target})
			}
		}
	}

	if card.IsRoyal() && !g.nineBlocked(p, card) {
		out = append(out, Action{Type: ActionPlayRoyal, Card: card, Target: EmptyCard})
	}

	if card.Rank() == RankJack && !g.nineBlocked(p, card) && !g.HasQueen(opp) {
		for i := uint8(0); i < g.PointLen[opp]; i++ {
			out = append(out, Action{Type: ActionPlayJack, Card: card, Target: g.Points[opp][i].Card})
		}
	}

	if card.HasOneOff() {
		if card.OneOffTargets() {
			for _, target := range g.royalTargets(opp) {
				out = append(out, Action{Type: ActionPlayOneOffTarget, Card: card, Target: target})
			}
		} else {
			// Untargeted one-offs are always legal; effects with nothing to
			// act on resolve as no-ops.
			out = append(out, Action{Type: ActionPlayOneOff, Card: card, Target: EmptyCard})
		}
	}

	return out
}

// nineBlocked reports whether card is frozen for player p this turn.
func (g *GameState) nineBlocked(p uint8, card Card) bool {
	return g.Nine.Active && g.Nine.Owner == p && g.Nine.Card == card && g.Nine.Turn == g.TurnNumber
}

// royalTargets returns the royals controlled by player that a Two or Nine
// may target: field royals plus Jacks attached to stolen point cards. A
// Queen shields all of the controller's other cards but never herself, so
// with exactly one Queen only that Queen is targetable, and with two or more
// every royal is shielded by another Queen.
func (g *GameState) royalTargets(player uint8) []Card {
	queens := g.queenCount(player)
	var out []Card
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		c := g.Royals[player][i]
		if queens == 0 || (queens == 1 && c.Rank() == RankQueen) {
			out = append(out, c)
		}
	}
	if queens == 0 {
		for i := uint8(0); i < g.PointLen[player]; i++ {
			if j := g.Points[player][i].Jack; j != EmptyCard {
				out = append(out, j)
			}
		}
	}
	return out
}

// legalCounter populates the counter-window set: a Counter for each Two in
// the responder's hand, plus DeclineCounter. Queen protection never applies
// to countering.
func (g *GameState) legalCounter() []Action {
	p := g.Pending.Player
	var out []Action
	for i := uint8(0); i < g.HandLen[p]; i++ {
		if c := g.Hands[p][i]; c.Rank() == RankTwo {
			out = append(out, Action{Type: ActionCounter, Card: c, Target: EmptyCard})
		}
	}
	out = append(out, Action{Type: ActionDeclineCounter, Card: EmptyCard, Target: EmptyCard})
	return out
}

// legalSevenChoice offers each revealed card. A choice with no legal play is
// still offered; the resolver scraps it and returns the other card to the
// deck.
func (g *GameState) legalSevenChoice() []Action {
	var out []Action
	for i := uint8(0); i < g.RevealedLen; i++ {
		out = append(out, Action{Type: ActionChooseRevealed, Card: g.Revealed[i], Target: EmptyCard})
	}
	return out
}

// legalFourDiscard offers every pair of hand cards (or the lone card when
// only one remains). A victim with an empty hand never reaches this state.
func (g *GameState) legalFourDiscard() []Action {
	p := g.Pending.Player
	n := g.HandLen[p]
	var out []Action
	if n == 1 {
		return append(out, Action{Type: ActionChooseDiscards, Card: g.Hands[p][0], Target: EmptyCard})
	}
	for i := uint8(0); i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Action{Type: ActionChooseDiscards, Card: g.Hands[p][i], Target: g.Hands[p][j]})
		}
	}
	return out
}

// legalFiveDiscard offers each hand card; discarding nothing is legal only
// when the hand is already empty.
func (g *GameState) legalFiveDiscard() []Action {
	p := g.Pending.Player
	if g.HandLen[p] == 0 {
		return []Action{{Type: ActionChooseFiveDiscard, Card: EmptyCard, Target: EmptyCard}}
	}
	var out []Action
	for i := uint8(0); i < g.HandLen[p]; i++ {
		out = append(out, Action{Type: ActionChooseFiveDiscard, Card: g.Hands[p][i], Target: EmptyCard})
	}
	return out
}

// legalScrapChoice offers every card in the scrap pile. The resolving Three
// is still held in the pending slot, so it can never retrieve itself.
func (g *GameState) legalScrapChoice() []Action {
	var out []Action
	for i := uint8(0); i < g.ScrapLen; i++ {
		out = append(out, Action{Type: ActionChooseFromScrap, Card: g.Scrap[i], Target: EmptyCard})
	}
	return out
}

// isLegal reports whether a is in the current legal set.
func (g *GameState) isLegal(a Action) bool {
	for _, l := range g.LegalActions() {
		if l == a {
			return true
		}
	}
	// ChooseDiscards pairs are unordered.
	if a.Type == ActionChooseDiscards && a.Target != EmptyCard {
		swapped := Action{Type: ActionChooseDiscards, Card: a.Target, Target: a.Card}
		for _, l := range g.LegalActions() {
			if l == swapped {
				return true
			}
		}
	}
	return false
}
