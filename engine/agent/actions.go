// Package agent maps game states and actions onto the fixed-size tensors a
// reinforcement-learning policy consumes: a stable action index space, a
// legality mask over it, and a flat observation vector. Indices are derived
// only from card identity, never from zone positions, so the same move maps
// to the same index in every game.
package agent

import (
	"fmt"

	"github.com/cuttle-cards/cuttle/engine"
)

const (
	numCards  = int(engine.DeckSize)
	pairSpace = numCards * numCards
)

// Action space layout. Blocks are indexed by card (0..51, rank-major) and,
// for targeted moves, by card*52+target.
const (
	idxDraw = 0
	idxPass = 1

	offPoints       = 2
	offRoyal        = offPoints + numCards
	offOneOff       = offRoyal + numCards
	offOneOffTarget = offOneOff + numCards
	offJack         = offOneOffTarget + pairSpace
	offScuttle      = offJack + pairSpace

	offCounter = offScuttle + pairSpace
	idxDecline = offCounter + numCards

	offChooseRevealed = idxDecline + 1
	offChooseScrap    = offChooseRevealed + numCards
	offFiveDiscard    = offChooseScrap + numCards
	idxFiveSkip       = offFiveDiscard + numCards
	offFourSingle     = idxFiveSkip + 1
	offFourPair       = offFourSingle + numCards

	// ActionSpaceSize is the policy head width.
	ActionSpaceSize = offFourPair + pairSpace
)

func pairIndex(card, target engine.Card) int {
	return int(card.Index())*numCards + int(target.Index())
}

// ActionIndex returns the fixed index of a. Discard pairs are unordered and
// canonicalized to the lower card index first.
func ActionIndex(a engine.Action) int {
	switch a.Type {
	case engine.ActionDraw:
		return idxDraw
	case engine.ActionPass:
		return idxPass
	case engine.ActionPlayPoints:
		return offPoints + int(a.Card.Index())
	case engine.ActionPlayRoyal:
		return offRoyal + int(a.Card.Index())
	case engine.ActionPlayOneOff:
		return offOneOff + int(a.Card.Index())
	case engine.ActionPlayOneOffTarget:
		return offOneOffTarget + pairIndex(a.Card, a.Target)
	case engine.ActionPlayJack:
		return offJack + pairIndex(a.Card, a.Target)
	case engine.ActionScuttle:
		return offScuttle + pairIndex(a.Card, a.Target)
	case engine.ActionCounter:
		return offCounter + int(a.Card.Index())
	case engine.ActionDeclineCounter:
		return idxDecline
	case engine.ActionChooseRevealed:
		return offChooseRevealed + int(a.Card.Index())
	case engine.ActionChooseFromScrap:
		return offChooseScrap + int(a.Card.Index())
	case engine.ActionChooseFiveDiscard:
		if a.Card == engine.EmptyCard {
			return idxFiveSkip
		}
		return offFiveDiscard + int(a.Card.Index())
	case engine.ActionChooseDiscards:
		if a.Target == engine.EmptyCard {
			return offFourSingle + int(a.Card.Index())
		}
		lo, hi := a.Card, a.Target
		if hi.Index() < lo.Index() {
			lo, hi = hi, lo
		}
		return offFourPair + pairIndex(lo, hi)
	}
	return -1
}

// ActionFromIndex is the inverse of ActionIndex.
func ActionFromIndex(idx int) (engine.Action, error) {
	a := engine.Action{Card: engine.EmptyCard, Target: engine.EmptyCard}
	splitPair := func(off int) (engine.Card, engine.Card) {
		rel := idx - off
		return engine.CardFromIndex(uint8(rel / numCards)), engine.CardFromIndex(uint8(rel % numCards))
	}
	switch {
	case idx == idxDraw:
		a.Type = engine.ActionDraw
	case idx == idxPass:
		a.Type = engine.ActionPass
	case idx >= offPoints && idx < offRoyal:
		a.Type = engine.ActionPlayPoints
		a.Card = engine.CardFromIndex(uint8(idx - offPoints))
	case idx >= offRoyal && idx < offOneOff:
		a.Type = engine.ActionPlayRoyal
		a.Card = engine.CardFromIndex(uint8(idx - offRoyal))
	case idx >= offOneOff && idx < offOneOffTarget:
		a.Type = engine.ActionPlayOneOff
		a.Card = engine.CardFromIndex(uint8(idx - offOneOff))
	case idx >= offOneOffTarget && idx < offJack:
		a.Type = engine.ActionPlayOneOffTarget
		a.Card, a.Target = splitPair(offOneOffTarget)
	case idx >= offJack && idx < offScuttle:
		a.Type = engine.ActionPlayJack
		a.Card, a.Target = splitPair(offJack)
	case idx >= offScuttle && idx < offCounter:
		a.Type = engine.ActionScuttle
		a.Card, a.Target = splitPair(offScuttle)
	case idx >= offCounter && idx < idxDecline:
		a.Type = engine.ActionCounter
		a.Card = engine.CardFromIndex(uint8(idx - offCounter))
	case idx == idxDecline:
		a.Type = engine.ActionDeclineCounter
	case idx >= offChooseRevealed && idx < offChooseScrap:
		a.Type = engine.ActionChooseRevealed
		a.Card = engine.CardFromIndex(uint8(idx - offChooseRevealed))
	case idx >= offChooseScrap && idx < offFiveDiscard:
		a.Type = engine.ActionChooseFromScrap
		a.Card = engine.CardFromIndex(uint8(idx - offChooseScrap))
	case idx >= offFiveDiscard && idx < idxFiveSkip:
		a.Type = engine.ActionChooseFiveDiscard
		a.Card = engine.CardFromIndex(uint8(idx - offFiveDiscard))
	case idx == idxFiveSkip:
		a.Type = engine.ActionChooseFiveDiscard
	case idx >= offFourSingle && idx < offFourPair:
		a.Type = engine.ActionChooseDiscards
		a.Card = engine.CardFromIndex(uint8(idx - offFourSingle))
	case idx >= offFourPair && idx < ActionSpaceSize:
		a.Type = engine.ActionChooseDiscards
		a.Card, a.Target = splitPair(offFourPair)
	default:
		return engine.Action{}, fmt.Errorf("action index %d out of range [0,%d)", idx, ActionSpaceSize)
	}
	return a, nil
}

// LegalMask returns the boolean legality mask over the action space for the
// acting player. A nil slice from LegalActions yields an all-false mask.
func LegalMask(g *engine.GameState) []bool {
	mask := make([]bool, ActionSpaceSize)
	for _, a := range g.LegalActions() {
		mask[ActionIndex(a)] = true
	}
	return mask
}
