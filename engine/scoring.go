package engine

// kingThresholds maps King count to the points needed to win. Four or more
// Kings means the threshold is zero and the player wins outright.
var kingThresholds = [5]uint8{21, 14, 10, 5, 0}

// PlayerPoints returns the points player currently controls: the sum of
// ranks on their point field, stolen cards included.
func (g *GameState) PlayerPoints(player uint8) int {
	var sum int
	for i := uint8(0); i < g.PointLen[player]; i++ {
		sum += int(g.Points[player][i].Card.Points())
	}
	return sum
}

// Threshold returns the points player needs to win, determined by the Kings
// on their royal field.
func (g *GameState) Threshold(player uint8) int {
	var kings uint8
	for i := uint8(0); i < g.RoyalLen[player]; i++ {
		if g.Royals[player][i].Rank() == RankKing {
			kings++
		}
	}
	if kings > 4 {
		kings = 4
	}
	return int(kingThresholds[kings])
}

// checkWin re-evaluates the win condition after a board mutation. preferred
// is the acting player, whose win takes precedence when a single mutation
// pushes both players past their thresholds.
func (g *GameState) checkWin(preferred uint8) {
	if g.IsTerminal() {
		return
	}
	if g.PlayerPoints(preferred) >= g.Threshold(preferred) {
		g.declareWinner(preferred)
		return
	}
	other := g.OpponentOf(preferred)
	if g.PlayerPoints(other) >= g.Threshold(other) {
		g.declareWinner(other)
	}
}

func (g *GameState) declareWinner(player uint8) {
	g.Winner = int8(player)
	g.Flags |= FlagGameOver
	g.clearPending()
}

// declareStalemate ends the game with no winner after three consecutive
// passes.
func (g *GameState) declareStalemate() {
	g.Winner = -1
	g.Flags |= FlagGameOver
	g.clearPending()
}
