package engine

// Suit constants, packed into upper 4 bits of Card.
// The order Clubs < Diamonds < Hearts < Spades is the scuttle tiebreak order.
const (
	SuitClubs    uint8 = 0
	SuitDiamonds uint8 = 1
	SuitHearts   uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank constants, packed into lower 4 bits of Card. Ranks are the natural
// card values: Ace is 1, King is 13.
const (
	RankAce   uint8 = 1
	RankTwo   uint8 = 2
	RankThree uint8 = 3
	RankFour  uint8 = 4
	RankFive  uint8 = 5
	RankSix   uint8 = 6
	RankSeven uint8 = 7
	RankEight uint8 = 8
	RankNine  uint8 = 9
	RankTen   uint8 = 10
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Index returns the canonical 0..51 index of the card, (rank-1)*4 + suit.
// Used by the wire boundary and the agent action space.
func (c Card) Index() uint8 { return (c.Rank()-1)*4 + c.Suit() }

// CardFromIndex is the inverse of Index.
func CardFromIndex(idx uint8) Card {
	return NewCard(idx%4, idx/4+1)
}

// Points returns the point value the card contributes on a point field:
// its rank for Ace through Ten, zero for royals.
func (c Card) Points() uint8 {
	if r := c.Rank(); r <= RankTen {
		return r
	}
	return 0
}

// IsPointCard reports whether the card can be played for points (Ace–Ten).
func (c Card) IsPointCard() bool { return c.Rank() <= RankTen }

// IsRoyal reports whether the card is played to the royal field for a
// persistent effect: King, Queen, or the Glasses Eight. Jacks are royals for
// removal purposes but are played with their own targeted action.
func (c Card) IsRoyal() bool {
	r := c.Rank()
	return r == RankKing || r == RankQueen || r == RankEight
}

// HasOneOff reports whether the card can be played as a one-off.
// Eight and Ten have no one-off effect; Jack, Queen and King are not one-offs.
func (c Card) HasOneOff() bool {
	r := c.Rank()
	return (r >= RankAce && r <= RankSeven) || r == RankNine
}

// OneOffTargets reports whether the card's one-off requires a target
// (Two scraps a royal, Nine bounces a royal).
func (c Card) OneOffTargets() bool {
	r := c.Rank()
	return r == RankTwo || r == RankNine
}

// Beats reports whether c may scuttle target: strictly higher rank, or equal
// rank with the strictly higher suit in the order Clubs < Diamonds < Hearts
// < Spades. Equal rank and suit cannot occur since cards are unique.
func (c Card) Beats(target Card) bool {
	if c.Rank() != target.Rank() {
		return c.Rank() > target.Rank()
	}
	return c.Suit() > target.Suit()
}

// ---------------------------------------------------------------------------
// Actions
// ---------------------------------------------------------------------------

// ActionType enumerates the closed set of action variants.
type ActionType uint8

const (
	ActionDraw              ActionType = iota // 0: draw the top deck card
	ActionPass                                // 1: pass (deck empty only)
	ActionPlayPoints                          // 2: play Card for points
	ActionScuttle                             // 3: scuttle Target with Card
	ActionPlayRoyal                           // 4: play Card (K/Q/8) to royal field
	ActionPlayOneOff                          // 5: play Card as untargeted one-off
	ActionPlayOneOffTarget                    // 6: play Card as one-off against Target
	ActionPlayJack                            // 7: play Jack Card onto point card Target
	ActionCounter                             // 8: counter the pending effect with a Two
	ActionDeclineCounter                      // 9: let the pending effect resolve
	ActionChooseRevealed                      // 10: pick Card from the revealed buffer
	ActionChooseDiscards                      // 11: discard Card (+Target) to a Four
	ActionChooseFromScrap                     // 12: take Card from scrap (Three)
	ActionChooseFiveDiscard                   // 13: discard Card to a Five (EmptyCard = none)
)

// Action is one move in the game. Card and Target are EmptyCard when the
// variant does not use them. The resolver never infers missing data: an
// Action is either produced by the legal-action generator or validated
// against its output before being applied.
type Action struct {
	Type   ActionType
	Card   Card
	Target Card
}

func (t ActionType) String() string {
	switch t {
	case ActionDraw:
		return "draw"
	case ActionPass:
		return "pass"
	case ActionPlayPoints:
		return "points"
	case ActionScuttle:
		return "scuttle"
	case ActionPlayRoyal:
		return "royal"
	case ActionPlayOneOff:
		return "one_off"
	case ActionPlayOneOffTarget:
		return "one_off_target"
	case ActionPlayJack:
		return "jack"
	case ActionCounter:
		return "counter"
	case ActionDeclineCounter:
		return "decline"
	case ActionChooseRevealed:
		return "choose_revealed"
	case ActionChooseDiscards:
		return "choose_discards"
	case ActionChooseFromScrap:
		return "choose_from_scrap"
	case ActionChooseFiveDiscard:
		return "choose_five_discard"
	}
	return "unknown"
}

// ---------------------------------------------------------------------------
// Pending resolution
// ---------------------------------------------------------------------------

// PendingType describes an in-flight multi-step effect or open counter window.
type PendingType uint8

const (
	PendingNone        PendingType = iota // 0
	PendingCounter                        // 1: counter window open
	PendingSevenChoice                    // 2: pick one of the revealed cards
	PendingSevenPlay                      // 3: play the chosen revealed card
	PendingFourDiscard                    // 4: opponent must discard to a Four
	PendingFiveDiscard                    // 5: actor must discard to a Five
	PendingScrapChoice                    // 6: actor picks a scrap card (Three)
)

// Pending is the single pending-resolution slot. At most one effect is in
// flight at a time; only the resolver sets or clears it.
//
// During PendingCounter, Card is the contested one-off or Jack (already out
// of the actor's hand), Target its announced target, and Depth the number of
// Twos played so far. Countering Twos move to scrap as they are played; Card
// is held here until the chain closes.
type Pending struct {
	Type         PendingType
	Player       uint8 // who must act next
	Actor        uint8 // who played the effect being resolved
	Card         Card
	Target       Card
	Depth        uint8
	FromRevealed bool // Card came from the revealed buffer (Seven)
}

// DecisionContext describes what kind of decision the acting player faces.
type DecisionContext uint8

const (
	CtxMain         DecisionContext = iota // 0: normal turn action
	CtxCounter                             // 1: counter or decline
	CtxSevenChoice                         // 2: choose a revealed card
	CtxSevenPlay                           // 3: play the chosen revealed card
	CtxFourDiscard                         // 4: choose discards
	CtxFiveDiscard                         // 5: choose the Five discard
	CtxScrapChoice                         // 6: choose from scrap
	CtxTerminal                            // 7: game over
)

// NineBlock marks one specific card instance as unplayable by its owner for
// a single turn after a Nine bounced it to their hand. A single slot
// suffices: at most one Nine effect can resolve per turn, and each block
// covers exactly the owner's next turn.
type NineBlock struct {
	Active bool
	Card   Card
	Owner  uint8
	Turn   uint16 // the turn number on which Owner may not play Card
}
