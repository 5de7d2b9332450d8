// Package engine implements the Cuttle card game rules for exactly two
// players: the authoritative game state, the legal-action generator, and the
// effect resolver that drives counter windows and multi-step resolutions.
//
// The engine is a pure state-transition library. It performs no I/O, holds
// no locks, and never blocks: a pending resolution is a value in the state,
// not a suspended goroutine, so a game can be serialized and resumed mid
// resolution. Callers own scheduling and must serialize Apply calls per game.
package engine

import (
	"errors"
	"fmt"
)

const (
	NumPlayers = 2
	DeckSize   = 52

	// MaxHand is the hand array capacity. The 8-card limit is enforced only
	// at draw time: Nine bounces and Jack detaches add cards regardless of
	// hand size, so the array is sized for the whole deck.
	MaxHand = DeckSize

	// DrawLimit is the hand size at or above which drawing is illegal.
	DrawLimit = 8

	// MaxFieldPoints bounds one player's point field: any eleventh card
	// would cross the lowest reachable sum threshold and end the game.
	MaxFieldPoints = 13

	// MaxFieldRoyals bounds one player's royal field (4 Kings + 4 Queens +
	// 4 Eights).
	MaxFieldRoyals = 12
)

// Errors returned by Apply. ErrIllegalAction covers every caller-visible
// failure, including actions referencing absent targets; it is always
// recoverable by re-querying LegalActions.
var (
	ErrIllegalAction = errors.New("illegal action")
	ErrGameOver      = errors.New("game is over")
	ErrEmptyDeck     = errors.New("deck is empty")
)

// PointSlot is one card on a point field. Owner is the original owner and
// differs from the field index while the card is stolen. Jack is the single
// controlling Jack (EmptyCard when unstolen); re-stealing replaces it, so
// the chain never grows past one.
type PointSlot struct {
	Card  Card
	Owner uint8
	Jack  Card
}

// GameState holds the complete, self-contained state of a Cuttle game.
// It is a flat value type (no pointers, no slices): assignment is a deep
// copy, which makes snapshot/undo and pure transition wrappers plain struct
// copies.
type GameState struct {
	Hands    [NumPlayers][MaxHand]Card
	HandLen  [NumPlayers]uint8
	Points   [NumPlayers][MaxFieldPoints]PointSlot
	PointLen [NumPlayers]uint8
	Royals   [NumPlayers][MaxFieldRoyals]Card
	RoyalLen [NumPlayers]uint8

	Deck    [DeckSize]Card // top of the deck is Deck[DeckLen-1]
	DeckLen uint8
	Scrap   [DeckSize]Card // append-only visible history
	ScrapLen uint8

	Revealed    [2]Card // transient buffer for a Seven
	RevealedLen uint8

	Turn       uint8  // player whose turn it is
	TurnNumber uint16 // increments when the turn passes over
	PassCount  uint8  // consecutive passes; 3 is a stalemate

	Pending Pending
	Nine    NineBlock

	Flags  uint16
	Winner int8 // -1 until someone wins

	RNG uint64
}

const (
	FlagGameOver    uint16 = 1 << 0
	FlagDealt       uint16 = 1 << 1
)

// Status is the caller-visible game status.
type Status uint8

const (
	StatusInProgress Status = iota
	StatusWon
	StatusStalemate
)

// ---------------------------------------------------------------------------
// xorshift64 RNG, kept inline so state stays a plain uint64
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed. The deck is built
// in canonical order but not yet shuffled or dealt; the same seed always
// produces the same game.
func NewGame(seed uint64) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Winner = -1
	g.Pending.Card = EmptyCard
	g.Pending.Target = EmptyCard

	idx := 0
	for suit := uint8(0); suit < 4; suit++ {
		for rank := RankAce; rank <= RankKing; rank++ {
			g.Deck[idx] = NewCard(suit, rank)
			idx++
		}
	}
	g.DeckLen = DeckSize

	return g
}

// Deal shuffles the deck and deals the opening hands: five cards to player 0
// (who moves first) and six to player 1.
func (g *GameState) Deal() {
	// Fisher-Yates shuffle.
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}

	deal := [NumPlayers]uint8{5, 6}
	for p := uint8(0); p < NumPlayers; p++ {
		for c := uint8(0); c < deal[p]; c++ {
			g.DeckLen--
			g.Hands[p][g.HandLen[p]] = g.Deck[g.DeckLen]
			g.HandLen[p]++
		}
	}

	g.Turn = 0
	g.Flags |= FlagDealt
}

// NewDealtGame is a convenience for callers that want a ready-to-play state.
func NewDealtGame(seed uint64) GameState {
	g := NewGame(seed)
	g.Deal()
	return g
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagGameOver != 0 }

// Status reports the current game status and, for StatusWon, the winner.
func (g *GameState) Status() (Status, uint8) {
	if !g.IsTerminal() {
		return StatusInProgress, g.ActingPlayer()
	}
	if g.Winner >= 0 {
		return StatusWon, uint8(g.Winner)
	}
	return StatusStalemate, 0
}

// ActingPlayer returns the index of the player who must act next. During a
// counter window or a multi-step resolution that player takes priority.
func (g *GameState) ActingPlayer() uint8 {
	if g.Pending.Type != PendingNone {
		return g.Pending.Player
	}
	return g.Turn
}

// OpponentOf returns the other player's index.
func (g *GameState) OpponentOf(player uint8) uint8 { return 1 - player }

// HasQueen reports whether player controls at least one Queen, which shields
// that player's other cards from Two (royal scrap), Nine and Jack targeting.
func (g *GameState) HasQueen(player uint8) bool {
	return g.queenCount(player) > 0
}

func (g *GameState) queenCount(player uint8) uint8 {
	var n uint8
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		if g.Royals[player][i].Rank() == RankQueen {
			n++
		}
	}
	return n
}

// HasGlasses reports whether player controls a Glasses Eight, granting a
// read-only view of the opponent's hand at the serialization boundary.
func (g *GameState) HasGlasses(player uint8) bool {
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		if g.Royals[player][i].Rank() == RankEight {
			return true
		}
	}
	return false
}

// CardCount returns the number of cards across all zones. It must equal 52
// for every reachable state; the counter-window limbo card and chosen
// revealed card are counted from the pending slot.
func (g *GameState) CardCount() int {
	n := int(g.DeckLen) + int(g.ScrapLen) + int(g.RevealedLen)
	for p := uint8(0); p < NumPlayers; p++ {
		n += int(g.HandLen[p]) + int(g.RoyalLen[p])
		for i := uint8(0); i < g.PointLen[p]; i++ {
			n++
			if g.Points[p][i].Jack != EmptyCard {
				n++
			}
		}
	}
	switch g.Pending.Type {
	case PendingCounter, PendingSevenPlay, PendingFourDiscard,
		PendingFiveDiscard, PendingScrapChoice:
		if g.Pending.Card != EmptyCard {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Zone helpers
// ---------------------------------------------------------------------------

// handIndex returns the position of card in player's hand, or -1.
func (g *GameState) handIndex(player uint8, card Card) int {
	for i := uint8(0); i < g.HandLen[player]; i++ {
		if g.Hands[player][i] == card {
			return int(i)
		}
	}
	return -1
}

// removeFromHand removes card from player's hand. Returns false if absent.
func (g *GameState) removeFromHand(player uint8, card Card) bool {
	idx := g.handIndex(player, card)
	if idx < 0 {
		return false
	}
	last := g.HandLen[player] - 1
	g.Hands[player][idx] = g.Hands[player][last]
	g.Hands[player][last] = EmptyCard
	g.HandLen[player] = last
	return true
}

// addToHand appends card to player's hand.
func (g *GameState) addToHand(player uint8, card Card) {
	g.Hands[player][g.HandLen[player]] = card
	g.HandLen[player]++
}

// toScrap appends card to the scrap pile.
func (g *GameState) toScrap(card Card) {
	g.Scrap[g.ScrapLen] = card
	g.ScrapLen++
}

// pointIndex locates card on player's point field, or -1.
func (g *GameState) pointIndex(player uint8, card Card) int {
	for i := uint8(0); i < g.PointLen[player]; i++ {
		if g.Points[player][i].Card == card {
			return int(i)
		}
	}
	return -1
}

// removePointSlot removes slot i from player's point field and returns it.
func (g *GameState) removePointSlot(player uint8, i int) PointSlot {
	slot := g.Points[player][i]
	last := g.PointLen[player] - 1
	g.Points[player][i] = g.Points[player][last]
	g.Points[player][last] = PointSlot{Card: EmptyCard, Jack: EmptyCard}
	g.PointLen[player] = last
	return slot
}

// addPointSlot appends a slot to player's point field.
func (g *GameState) addPointSlot(player uint8, slot PointSlot) {
	g.Points[player][g.PointLen[player]] = slot
	g.PointLen[player]++
}

// royalIndex locates card on player's royal field, or -1.
func (g *GameState) royalIndex(player uint8, card Card) int {
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		if g.Royals[player][i] == card {
			return int(i)
		}
	}
	return -1
}

// removeRoyal removes card from player's royal field. Returns false if absent.
func (g *GameState) removeRoyal(player uint8, card Card) bool {
	idx := g.royalIndex(player, card)
	if idx < 0 {
		return false
	}
	last := g.RoyalLen[player] - 1
	g.Royals[player][idx] = g.Royals[player][last]
	g.Royals[player][last] = EmptyCard
	g.RoyalLen[player] = last
	return true
}

// addRoyal appends card to player's royal field.
func (g *GameState) addRoyal(player uint8, card Card) {
	g.Royals[player][g.RoyalLen[player]] = card
	g.RoyalLen[player]++
}

// scrapIndex locates card in the scrap pile, or -1.
func (g *GameState) scrapIndex(card Card) int {
	for i := uint8(0); i < g.ScrapLen; i++ {
		if g.Scrap[i] == card {
			return int(i)
		}
	}
	return -1
}

// removeFromScrap removes card from the scrap pile. Returns false if absent.
// Unlike every other zone the scrap keeps its order: it is the visible
// played-card history.
func (g *GameState) removeFromScrap(card Card) bool {
	idx := g.scrapIndex(card)
	if idx < 0 {
		return false
	}
	copy(g.Scrap[idx:], g.Scrap[idx+1:g.ScrapLen])
	g.ScrapLen--
	g.Scrap[g.ScrapLen] = EmptyCard
	return true
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }

// ---------------------------------------------------------------------------
// Pure transition wrapper
// ---------------------------------------------------------------------------

// Next is the pure form of Apply: it leaves g untouched and returns the
// successor state. Because GameState is a flat value, the copy is a single
// struct assignment.
func Next(g GameState, a Action) (GameState, error) {
	if err := g.Apply(a); err != nil {
		return g, fmt.Errorf("apply %s: %w", a.Type, err)
	}
	return g, nil
}
