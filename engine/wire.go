package engine

import (
	"encoding/json"
	"fmt"
)

// Wire boundary. WireState is the JSON form of a game: Serialize emits the
// full-fidelity state (deck order and RNG included) for persistence and
// resume, View emits a per-viewer redacted form for clients. Deserialize
// validates structurally before producing a GameState, so a stored snapshot
// that was corrupted or hand-edited is rejected instead of resumed.

var rankSymbols = [14]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suitSymbols = [4]string{"C", "D", "H", "S"}

// String renders the card as rank then suit, e.g. "AS", "10H", "QC".
func (c Card) String() string {
	if c == EmptyCard {
		return ""
	}
	r, s := c.Rank(), c.Suit()
	if r < 1 || r > 13 || s > 3 {
		return fmt.Sprintf("?%02x", uint8(c))
	}
	return rankSymbols[r] + suitSymbols[s]
}

// ParseCard is the inverse of Card.String.
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return EmptyCard, fmt.Errorf("parse card %q: bad length", s)
	}
	rankStr, suitStr := s[:len(s)-1], s[len(s)-1:]
	var rank uint8
	for r := uint8(1); r <= 13; r++ {
		if rankSymbols[r] == rankStr {
			rank = r
			break
		}
	}
	if rank == 0 {
		return EmptyCard, fmt.Errorf("parse card %q: unknown rank %q", s, rankStr)
	}
	for suit := uint8(0); suit < 4; suit++ {
		if suitSymbols[suit] == suitStr {
			return NewCard(suit, rank), nil
		}
	}
	return EmptyCard, fmt.Errorf("parse card %q: unknown suit %q", s, suitStr)
}

// WirePoint is one point-field slot on the wire.
type WirePoint struct {
	Card  string `json:"card"`
	Owner uint8  `json:"owner"`
	Jack  string `json:"jack,omitempty"`
}

// WirePlayer is one player's visible zones. Hand is omitted in redacted
// views of the opponent unless the viewer holds a Glasses Eight; HandCount
// is always present.
type WirePlayer struct {
	Hand      []string    `json:"hand,omitempty"`
	HandCount uint8       `json:"handCount"`
	Points    []WirePoint `json:"points"`
	Royals    []string    `json:"royals"`
}

// WirePending is the in-flight resolution on the wire. The contested card
// and its target are public: both were announced when played.
type WirePending struct {
	Type         string `json:"type"`
	Player       uint8  `json:"player"`
	Actor        uint8  `json:"actor"`
	Card         string `json:"card,omitempty"`
	Target       string `json:"target,omitempty"`
	Depth        uint8  `json:"depth"`
	FromRevealed bool   `json:"fromRevealed,omitempty"`
}

// WireNine is an active Nine freeze on the wire.
type WireNine struct {
	Card  string `json:"card"`
	Owner uint8  `json:"owner"`
	Turn  uint16 `json:"turn"`
}

// WireState is the JSON form of a GameState.
type WireState struct {
	Players    [NumPlayers]WirePlayer `json:"players"`
	Deck       []string               `json:"deck,omitempty"`
	DeckCount  uint8                  `json:"deckCount"`
	Scrap      []string               `json:"scrap"`
	Revealed   []string               `json:"revealed,omitempty"`
	Turn       uint8                  `json:"turn"`
	TurnNumber uint16                 `json:"turnNumber"`
	PassCount  uint8                  `json:"passCount"`
	Pending    *WirePending           `json:"pending,omitempty"`
	NineBlock  *WireNine              `json:"nineBlock,omitempty"`
	Status     string                 `json:"status"`
	Winner     int8                   `json:"winner"`
	RNG        uint64                 `json:"rng,omitempty"`
}

// WireAction is the JSON form of an Action.
type WireAction struct {
	Type   string `json:"type"`
	Card   string `json:"card,omitempty"`
	Target string `json:"target,omitempty"`
}

var pendingNames = map[PendingType]string{
	PendingCounter:     "counter",
	PendingSevenChoice: "seven_choice",
	PendingSevenPlay:   "seven_play",
	PendingFourDiscard: "four_discard",
	PendingFiveDiscard: "five_discard",
	PendingScrapChoice: "scrap_choice",
}

var statusNames = map[Status]string{
	StatusInProgress: "in_progress",
	StatusWon:        "won",
	StatusStalemate:  "stalemate",
}

func cardStrings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func wirePlayer(g *GameState, p uint8, withHand bool) WirePlayer {
	wp := WirePlayer{
		HandCount: g.HandLen[p],
		Points:    make([]WirePoint, 0, g.PointLen[p]),
		Royals:    cardStrings(g.Royals[p][:g.RoyalLen[p]]),
	}
	if withHand {
		wp.Hand = cardStrings(g.Hands[p][:g.HandLen[p]])
	}
	for i := uint8(0); i < g.PointLen[p]; i++ {
		slot := g.Points[p][i]
		wpt := WirePoint{Card: slot.Card.String(), Owner: slot.Owner}
		if slot.Jack != EmptyCard {
			wpt.Jack = slot.Jack.String()
		}
		wp.Points = append(wp.Points, wpt)
	}
	return wp
}

func wireCommon(g *GameState) WireState {
	status, _ := g.Status()
	ws := WireState{
		DeckCount:  g.DeckLen,
		Scrap:      cardStrings(g.Scrap[:g.ScrapLen]),
		Turn:       g.Turn,
		TurnNumber: g.TurnNumber,
		PassCount:  g.PassCount,
		Status:     statusNames[status],
		Winner:     g.Winner,
	}
	if g.Pending.Type != PendingNone {
		wp := &WirePending{
			Type:         pendingNames[g.Pending.Type],
			Player:       g.Pending.Player,
			Actor:        g.Pending.Actor,
			Depth:        g.Pending.Depth,
			FromRevealed: g.Pending.FromRevealed,
		}
		if g.Pending.Card != EmptyCard {
			wp.Card = g.Pending.Card.String()
		}
		if g.Pending.Target != EmptyCard {
			wp.Target = g.Pending.Target.String()
		}
		ws.Pending = wp
	}
	if g.Nine.Active {
		ws.NineBlock = &WireNine{Card: g.Nine.Card.String(), Owner: g.Nine.Owner, Turn: g.Nine.Turn}
	}
	return ws
}

// Wire returns the full-fidelity wire form: both hands, the deck in order,
// the revealed buffer and the RNG state. Serializing and deserializing it
// round-trips the game exactly, mid-resolution included.
func (g *GameState) Wire() WireState {
	ws := wireCommon(g)
	for p := uint8(0); p < NumPlayers; p++ {
		ws.Players[p] = wirePlayer(g, p, true)
	}
	ws.Deck = cardStrings(g.Deck[:g.DeckLen])
	ws.Revealed = cardStrings(g.Revealed[:g.RevealedLen])
	ws.RNG = g.RNG
	return ws
}

// View returns the wire form redacted for viewer: the deck is a count, the
// opponent's hand collapses to a count unless viewer controls a Glasses
// Eight, and the revealed buffer is visible only to the player choosing
// from it.
func (g *GameState) View(viewer uint8) WireState {
	ws := wireCommon(g)
	opp := g.OpponentOf(viewer)
	ws.Players[viewer] = wirePlayer(g, viewer, true)
	ws.Players[opp] = wirePlayer(g, opp, g.HasGlasses(viewer))
	if g.Pending.Type == PendingSevenChoice && g.Pending.Player == viewer {
		ws.Revealed = cardStrings(g.Revealed[:g.RevealedLen])
	}
	return ws
}

// Serialize encodes the full-fidelity state as JSON.
func (g *GameState) Serialize() ([]byte, error) {
	return json.Marshal(g.Wire())
}

// Deserialize decodes and validates a full-fidelity snapshot. It rejects
// malformed cards, out-of-range zone sizes, duplicate cards and any state
// that breaks 52-card conservation.
func Deserialize(data []byte) (GameState, error) {
	var ws WireState
	if err := json.Unmarshal(data, &ws); err != nil {
		return GameState{}, fmt.Errorf("deserialize: %w", err)
	}
	return ws.State()
}

// State reconstructs a GameState from a full-fidelity WireState.
func (ws WireState) State() (GameState, error) {
	var g GameState
	g.Winner = ws.Winner
	g.Turn = ws.Turn
	g.TurnNumber = ws.TurnNumber
	g.PassCount = ws.PassCount
	g.RNG = ws.RNG
	if g.RNG == 0 {
		g.RNG = 1
	}
	g.Pending = Pending{Card: EmptyCard, Target: EmptyCard}
	g.Flags = FlagDealt

	if ws.Turn >= NumPlayers {
		return GameState{}, fmt.Errorf("deserialize: turn %d out of range", ws.Turn)
	}

	parseInto := func(zone string, src []string, dst []Card, maxLen int) (uint8, error) {
		if len(src) > maxLen {
			return 0, fmt.Errorf("deserialize: %s has %d cards, max %d", zone, len(src), maxLen)
		}
		for i, s := range src {
			c, err := ParseCard(s)
			if err != nil {
				return 0, fmt.Errorf("deserialize: %s: %w", zone, err)
			}
			dst[i] = c
		}
		return uint8(len(src)), nil
	}

	var err error
	for p := uint8(0); p < NumPlayers; p++ {
		wp := ws.Players[p]
		if g.HandLen[p], err = parseInto(fmt.Sprintf("player %d hand", p), wp.Hand, g.Hands[p][:], MaxHand); err != nil {
			return GameState{}, err
		}
		if g.RoyalLen[p], err = parseInto(fmt.Sprintf("player %d royals", p), wp.Royals, g.Royals[p][:], MaxFieldRoyals); err != nil {
			return GameState{}, err
		}
		if len(wp.Points) > MaxFieldPoints {
			return GameState{}, fmt.Errorf("deserialize: player %d points has %d slots, max %d", p, len(wp.Points), MaxFieldPoints)
		}
		for i, pt := range wp.Points {
			slot := PointSlot{Owner: pt.Owner, Jack: EmptyCard}
			if slot.Card, err = ParseCard(pt.Card); err != nil {
				return GameState{}, fmt.Errorf("deserialize: player %d points: %w", p, err)
			}
			if pt.Owner >= NumPlayers {
				return GameState{}, fmt.Errorf("deserialize: player %d points: owner %d out of range", p, pt.Owner)
			}
			if pt.Jack != "" {
				if slot.Jack, err = ParseCard(pt.Jack); err != nil {
					return GameState{}, fmt.Errorf("deserialize: player %d points: %w", p, err)
				}
				if slot.Jack.Rank() != RankJack {
					return GameState{}, fmt.Errorf("deserialize: player %d points: %s is not a jack", p, slot.Jack)
				}
			}
			g.Points[p][i] = slot
		}
		g.PointLen[p] = uint8(len(wp.Points))
	}

	if g.DeckLen, err = parseInto("deck", ws.Deck, g.Deck[:], DeckSize); err != nil {
		return GameState{}, err
	}
	if g.ScrapLen, err = parseInto("scrap", ws.Scrap, g.Scrap[:], DeckSize); err != nil {
		return GameState{}, err
	}
	if g.RevealedLen, err = parseInto("revealed", ws.Revealed, g.Revealed[:], 2); err != nil {
		return GameState{}, err
	}

	if ws.Pending != nil {
		var pt PendingType
		found := false
		for t, name := range pendingNames {
			if name == ws.Pending.Type {
				pt, found = t, true
				break
			}
		}
		if !found {
			return GameState{}, fmt.Errorf("deserialize: unknown pending type %q", ws.Pending.Type)
		}
		if ws.Pending.Player >= NumPlayers || ws.Pending.Actor >= NumPlayers {
			return GameState{}, fmt.Errorf("deserialize: pending player out of range")
		}
		g.Pending = Pending{
			Type:         pt,
			Player:       ws.Pending.Player,
			Actor:        ws.Pending.Actor,
			Card:         EmptyCard,
			Target:       EmptyCard,
			Depth:        ws.Pending.Depth,
			FromRevealed: ws.Pending.FromRevealed,
		}
		if ws.Pending.Card != "" {
			if g.Pending.Card, err = ParseCard(ws.Pending.Card); err != nil {
				return GameState{}, fmt.Errorf("deserialize: pending: %w", err)
			}
		}
		if ws.Pending.Target != "" {
			if g.Pending.Target, err = ParseCard(ws.Pending.Target); err != nil {
				return GameState{}, fmt.Errorf("deserialize: pending: %w", err)
			}
		}
	}

	if ws.NineBlock != nil {
		var c Card
		if c, err = ParseCard(ws.NineBlock.Card); err != nil {
			return GameState{}, fmt.Errorf("deserialize: nine block: %w", err)
		}
		if ws.NineBlock.Owner >= NumPlayers {
			return GameState{}, fmt.Errorf("deserialize: nine block owner out of range")
		}
		g.Nine = NineBlock{Active: true, Card: c, Owner: ws.NineBlock.Owner, Turn: ws.NineBlock.Turn}
	}

	switch ws.Status {
	case statusNames[StatusWon], statusNames[StatusStalemate]:
		g.Flags |= FlagGameOver
	case statusNames[StatusInProgress], "":
	default:
		return GameState{}, fmt.Errorf("deserialize: unknown status %q", ws.Status)
	}

	if err := g.validate(); err != nil {
		return GameState{}, err
	}
	return g, nil
}

// validate checks global invariants that per-zone parsing cannot see.
func (g *GameState) validate() error {
	if n := g.CardCount(); n != DeckSize {
		return fmt.Errorf("deserialize: %d cards across zones, want %d", n, DeckSize)
	}
	var seen [DeckSize]bool
	mark := func(c Card) error {
		if c.Rank() < 1 || c.Rank() > 13 || c.Suit() > 3 {
			return fmt.Errorf("deserialize: invalid card %#02x", uint8(c))
		}
		if seen[c.Index()] {
			return fmt.Errorf("deserialize: duplicate card %s", c)
		}
		seen[c.Index()] = true
		return nil
	}
	for p := uint8(0); p < NumPlayers; p++ {
		for i := uint8(0); i < g.HandLen[p]; i++ {
			if err := mark(g.Hands[p][i]); err != nil {
				return err
			}
		}
		for i := uint8(0); i < g.RoyalLen[p]; i++ {
			if err := mark(g.Royals[p][i]); err != nil {
				return err
			}
		}
		for i := uint8(0); i < g.PointLen[p]; i++ {
			if err := mark(g.Points[p][i].Card); err != nil {
				return err
			}
			if j := g.Points[p][i].Jack; j != EmptyCard {
				if err := mark(j); err != nil {
					return err
				}
			}
		}
	}
	for i := uint8(0); i < g.DeckLen; i++ {
		if err := mark(g.Deck[i]); err != nil {
			return err
		}
	}
	for i := uint8(0); i < g.ScrapLen; i++ {
		if err := mark(g.Scrap[i]); err != nil {
			return err
		}
	}
	for i := uint8(0); i < g.RevealedLen; i++ {
		if err := mark(g.Revealed[i]); err != nil {
			return err
		}
	}
	if g.Pending.Card != EmptyCard {
		switch g.Pending.Type {
		case PendingCounter, PendingSevenPlay, PendingFourDiscard,
			PendingFiveDiscard, PendingScrapChoice:
			if err := mark(g.Pending.Card); err != nil {
				return err
			}
		}
	}
	return nil
}

// EncodeAction converts an Action to its wire form.
func EncodeAction(a Action) WireAction {
	wa := WireAction{Type: a.Type.String()}
	if a.Card != EmptyCard {
		wa.Card = a.Card.String()
	}
	if a.Target != EmptyCard {
		wa.Target = a.Target.String()
	}
	return wa
}

// DecodeAction parses a wire action. The result still has to pass the
// legality check in Apply; decoding only guarantees shape.
func DecodeAction(wa WireAction) (Action, error) {
	a := Action{Card: EmptyCard, Target: EmptyCard}
	found := false
	for t := ActionDraw; t <= ActionChooseFiveDiscard; t++ {
		if t.String() == wa.Type {
			a.Type, found = t, true
			break
		}
	}
	if !found {
		return Action{}, fmt.Errorf("decode action: unknown type %q", wa.Type)
	}
	var err error
	if wa.Card != "" {
		if a.Card, err = ParseCard(wa.Card); err != nil {
			return Action{}, fmt.Errorf("decode action: %w", err)
		}
	}
	if wa.Target != "" {
		if a.Target, err = ParseCard(wa.Target); err != nil {
			return Action{}, fmt.Errorf("decode action: %w", err)
		}
	}
	return a, nil
}
