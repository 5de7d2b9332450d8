package agent

import "github.com/cuttle-cards/cuttle/engine"

// Observation layout: twelve 52-wide multi-hot card planes followed by a
// scalar block. Everything is seen from the observing player's side, and
// only information that player is entitled to is encoded: the opponent's
// hand plane stays zero without a Glasses Eight, the revealed plane is
// filled only for the player choosing from it, and the deck appears as a
// count.
const (
	obsOwnHand    = 0
	obsOwnPoints  = obsOwnHand + numCards
	obsOwnRoyals  = obsOwnPoints + numCards
	obsOwnStolen  = obsOwnRoyals + numCards // cards held on my field under my jacks
	obsOppPoints  = obsOwnStolen + numCards
	obsOppRoyals  = obsOppPoints + numCards
	obsOppStolen  = obsOppRoyals + numCards // my cards hostage on the opponent's field
	obsOppHand    = obsOppStolen + numCards // glasses eight only
	obsScrap      = obsOppHand + numCards
	obsRevealed   = obsScrap + numCards
	obsPendCard   = obsRevealed + numCards
	obsPendTarget = obsPendCard + numCards

	obsScalars = obsPendTarget + numCards
)

const (
	scDeck = obsScalars + iota
	scOwnHandCount
	scOppHandCount
	scOwnScore
	scOppScore
	scOwnThreshold
	scOppThreshold
	scOwnGlasses
	scOppGlasses
	scOwnQueen
	scOppQueen
	scMyTurn
	scActing
	scPendDepth
	scPendMine
	scNineBlocked
	scPassCount

	obsCtx = scPassCount + 1 // 8-wide decision context one-hot

	// ObservationSize is the policy input width.
	ObservationSize = obsCtx + 8
)

func setCard(obs []float32, off int, c engine.Card) {
	if c != engine.EmptyCard {
		obs[off+int(c.Index())] = 1
	}
}

// Observation encodes the game as seen by player into a fixed-size vector.
func Observation(g *engine.GameState, player uint8) []float32 {
	obs := make([]float32, ObservationSize)
	opp := g.OpponentOf(player)

	for i := uint8(0); i < g.HandLen[player]; i++ {
		setCard(obs, obsOwnHand, g.Hands[player][i])
	}
	for i := uint8(0); i < g.PointLen[player]; i++ {
		slot := g.Points[player][i]
		setCard(obs, obsOwnPoints, slot.Card)
		if slot.Jack != engine.EmptyCard {
			setCard(obs, obsOwnStolen, slot.Card)
		}
	}
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		setCard(obs, obsOwnRoyals, g.Royals[player][i])
	}

	for i := uint8(0); i < g.PointLen[opp]; i++ {
		slot := g.Points[opp][i]
		setCard(obs, obsOppPoints, slot.Card)
		if slot.Jack != engine.EmptyCard {
			setCard(obs, obsOppStolen, slot.Card)
		}
	}
	for i := uint8(0); i < g.RoyalLen[opp]; i++ {
		setCard(obs, obsOppRoyals, g.Royals[opp][i])
	}
	if g.HasGlasses(player) {
		for i := uint8(0); i < g.HandLen[opp]; i++ {
			setCard(obs, obsOppHand, g.Hands[opp][i])
		}
	}

	for i := uint8(0); i < g.ScrapLen; i++ {
		setCard(obs, obsScrap, g.Scrap[i])
	}
	if g.Pending.Type == engine.PendingSevenChoice && g.Pending.Player == player {
		for i := uint8(0); i < g.RevealedLen; i++ {
			setCard(obs, obsRevealed, g.Revealed[i])
		}
	}
	if g.Pending.Type != engine.PendingNone {
		setCard(obs, obsPendCard, g.Pending.Card)
		setCard(obs, obsPendTarget, g.Pending.Target)
		obs[scPendDepth] = float32(g.Pending.Depth) / 4
		if g.Pending.Actor == player {
			obs[scPendMine] = 1
		}
	}

	obs[scDeck] = float32(g.DeckLen) / float32(engine.DeckSize)
	obs[scOwnHandCount] = float32(g.HandLen[player]) / float32(engine.DrawLimit)
	obs[scOppHandCount] = float32(g.HandLen[opp]) / float32(engine.DrawLimit)
	obs[scOwnScore] = float32(g.PlayerPoints(player)) / 21
	obs[scOppScore] = float32(g.PlayerPoints(opp)) / 21
	obs[scOwnThreshold] = float32(g.Threshold(player)) / 21
	obs[scOppThreshold] = float32(g.Threshold(opp)) / 21
	if g.HasGlasses(player) {
		obs[scOwnGlasses] = 1
	}
	if g.HasGlasses(opp) {
		obs[scOppGlasses] = 1
	}
	if g.HasQueen(player) {
		obs[scOwnQueen] = 1
	}
	if g.HasQueen(opp) {
		obs[scOppQueen] = 1
	}
	if g.Turn == player {
		obs[scMyTurn] = 1
	}
	if !g.IsTerminal() && g.ActingPlayer() == player {
		obs[scActing] = 1
	}
	if g.Nine.Active && g.Nine.Owner == player {
		obs[scNineBlocked] = 1
	}
	obs[scPassCount] = float32(g.PassCount) / 3

	obs[obsCtx+int(g.DecisionCtx())] = 1
	return obs
}
