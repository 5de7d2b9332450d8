// Package game hosts a single live Cuttle match: it owns the authoritative
// engine state, maps service players onto engine seats, validates and
// applies incoming actions, and fans obfuscated state out to clients.
package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuttle-cards/cuttle/engine"
	"github.com/cuttle-cards/cuttle/internal/cache"
	"github.com/cuttle-cards/cuttle/internal/database"
	"github.com/cuttle-cards/cuttle/internal/models"
)

// OnGameEndFunc is called once when a game finishes. winner is uuid.Nil
// for a stalemate.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, stalemate bool)

// CuttleGame wraps one engine state with the service concerns around it.
// All exported methods take the mutex; the engine itself is a plain value.
type CuttleGame struct {
	ID      uuid.UUID
	LobbyID uuid.UUID

	Players        []*models.Player
	PlayerToEngine map[uuid.UUID]uint8
	EngineToPlayer [engine.NumPlayers]uuid.UUID

	Engine engine.GameState

	TurnDuration time.Duration // 0 disables the turn timer
	turnTimer    *time.Timer

	Started   bool
	GameOver  bool
	StartedAt time.Time

	actionIndex int
	Mu          sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	log *logrus.Entry
}

// NewCuttleGame creates an empty game instance. Players are added before
// Start.
func NewCuttleGame() *CuttleGame {
	id := uuid.New()
	return &CuttleGame{
		ID:             id,
		PlayerToEngine: make(map[uuid.UUID]uint8),
		TurnDuration:   45 * time.Second,
		log:            logrus.WithField("game", id),
	}
}

// AddPlayer seats a player. The first two seats map to engine players 0
// and 1 in join order; later calls only refresh the connection.
func (g *CuttleGame) AddPlayer(p *models.Player) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, existing := range g.Players {
		if existing.ID == p.ID {
			existing.Conn = p.Conn
			existing.Connected = true
			return
		}
	}
	if len(g.Players) < engine.NumPlayers {
		g.PlayerToEngine[p.ID] = uint8(len(g.Players))
		g.EngineToPlayer[len(g.Players)] = p.ID
		g.Players = append(g.Players, p)
	}
}

// Start deals and announces the game. The dealer hands five cards to seat
// 0 and six to seat 1; seat 0 acts first.
func (g *CuttleGame) Start() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Started || g.GameOver || len(g.Players) != engine.NumPlayers {
		g.log.WithFields(logrus.Fields{
			"started": g.Started, "over": g.GameOver, "players": len(g.Players),
		}).Warn("start called in invalid state")
		return
	}

	g.Engine = engine.NewDealtGame(uint64(time.Now().UnixNano()))
	g.Started = true
	g.StartedAt = time.Now()
	g.log.Info("game started")
	g.logAction(uuid.Nil, "game_start", nil)
	if g.BroadcastFn != nil {
		g.BroadcastFn(GameEvent{Type: EventGameStart})
	}

	g.persistSnapshotLocked()
	g.broadcastStateLocked()
	g.scheduleTurnTimerLocked()
}

// Resume restores a game from its stored snapshot instead of dealing.
func (g *CuttleGame) Resume(snapshot []byte) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	st, err := engine.Deserialize(snapshot)
	if err != nil {
		return err
	}
	g.Engine = st
	g.Started = true
	g.GameOver = st.IsTerminal()
	g.log.Info("game resumed from snapshot")
	return nil
}

// actionPayload is the card-bearing body of a client action.
type actionPayload struct {
	Card   string `json:"card,omitempty"`
	Target string `json:"target,omitempty"`
}

// HandlePlayerAction validates and applies one action from a player.
// Illegal or out-of-turn actions produce a private rejection event and
// change nothing.
func (g *CuttleGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if !g.Started || g.GameOver {
		g.rejectLocked(playerID, action.ActionType, "game is not in progress")
		return
	}
	seat, ok := g.PlayerToEngine[playerID]
	if !ok {
		g.rejectLocked(playerID, action.ActionType, "not seated in this game")
		return
	}

	var body actionPayload
	if len(action.Payload) > 0 {
		if err := json.Unmarshal(action.Payload, &body); err != nil {
			g.rejectLocked(playerID, action.ActionType, "malformed action payload")
			return
		}
	}
	a, err := engine.DecodeAction(engine.WireAction{
		Type:   action.ActionType,
		Card:   body.Card,
		Target: body.Target,
	})
	if err != nil {
		g.rejectLocked(playerID, action.ActionType, err.Error())
		return
	}

	if g.Engine.ActingPlayer() != seat {
		g.rejectLocked(playerID, action.ActionType, "not your decision")
		return
	}
	if err := g.Engine.Apply(a); err != nil {
		g.rejectLocked(playerID, action.ActionType, err.Error())
		return
	}

	g.log.WithFields(logrus.Fields{
		"player": playerID, "action": action.ActionType,
		"card": body.Card, "target": body.Target,
	}).Debug("action applied")
	g.logAction(playerID, action.ActionType, action.Payload)

	g.fireActionEventLocked(playerID, a)
	g.broadcastStateLocked()
	g.persistSnapshotLocked()

	if g.Engine.IsTerminal() {
		g.finishLocked()
		return
	}
	g.scheduleTurnTimerLocked()
}

// rejectLocked tells one player their action was refused.
func (g *CuttleGame) rejectLocked(playerID uuid.UUID, actionType, reason string) {
	g.log.WithFields(logrus.Fields{
		"player": playerID, "action": actionType, "reason": reason,
	}).Debug("action rejected")
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, GameEvent{
			Type:    EventActionRejected,
			User:    &EventUser{ID: playerID},
			Payload: map[string]interface{}{"action": actionType, "reason": reason},
		})
	}
}

// scheduleTurnTimerLocked restarts the acting-player timer.
func (g *CuttleGame) scheduleTurnTimerLocked() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 || g.GameOver {
		return
	}
	seat := g.Engine.ActingPlayer()
	turn := g.Engine.TurnNumber
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.handleTurnTimeout(seat, turn)
	})
}

// handleTurnTimeout applies a default action for a player who ran out of
// time: decline during a counter window, otherwise the first generated
// action (draw or pass on a main turn).
func (g *CuttleGame) handleTurnTimeout(seat uint8, turn uint16) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.GameOver || g.Engine.ActingPlayer() != seat || g.Engine.TurnNumber != turn {
		return
	}

	var a engine.Action
	if g.Engine.DecisionCtx() == engine.CtxCounter {
		a = engine.Action{Type: engine.ActionDeclineCounter, Card: engine.EmptyCard, Target: engine.EmptyCard}
	} else {
		legal := g.Engine.LegalActions()
		if len(legal) == 0 {
			return
		}
		a = legal[0]
	}
	if err := g.Engine.Apply(a); err != nil {
		g.log.WithError(err).Error("timeout default action rejected")
		return
	}
	playerID := g.EngineToPlayer[seat]
	g.log.WithFields(logrus.Fields{"player": playerID, "action": a.Type.String()}).
		Info("turn timed out, default action applied")
	g.logAction(playerID, "timeout_"+a.Type.String(), nil)

	g.fireActionEventLocked(playerID, a)
	g.broadcastStateLocked()
	g.persistSnapshotLocked()

	if g.Engine.IsTerminal() {
		g.finishLocked()
		return
	}
	g.scheduleTurnTimerLocked()
}

// finishLocked closes the game, archives it, and notifies the owner.
func (g *CuttleGame) finishLocked() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	status, winnerSeat := g.Engine.Status()
	winner := uuid.Nil
	stalemate := status == engine.StatusStalemate
	if status == engine.StatusWon {
		winner = g.EngineToPlayer[winnerSeat]
	}
	g.log.WithFields(logrus.Fields{"winner": winner, "stalemate": stalemate}).Info("game over")
	g.logAction(uuid.Nil, "game_end", nil)

	g.fireGameEndLocked(winner, stalemate)
	g.archiveLocked(winner, stalemate)

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner, stalemate)
	}
}

// persistSnapshotLocked stores the full state for resume. Fire and forget;
// a failed save costs resumability, not correctness.
func (g *CuttleGame) persistSnapshotLocked() {
	if database.DB == nil {
		return
	}
	data, err := g.Engine.Serialize()
	if err != nil {
		g.log.WithError(err).Error("serialize snapshot")
		return
	}
	gameID := g.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.SaveGameSnapshot(ctx, gameID, data); err != nil {
			logrus.WithError(err).WithField("game", gameID).Error("save snapshot")
		}
	}()
}

// archiveLocked writes the finished-game record.
func (g *CuttleGame) archiveLocked(winner uuid.UUID, stalemate bool) {
	if database.DB == nil {
		return
	}
	rec := models.GameRecord{
		ID:         g.ID,
		Player0:    g.EngineToPlayer[0],
		Player1:    g.EngineToPlayer[1],
		Stalemate:  stalemate,
		TurnCount:  int(g.Engine.TurnNumber),
		StartedAt:  g.StartedAt,
		FinishedAt: time.Now(),
	}
	if winner != uuid.Nil {
		w := winner
		rec.WinnerID = &w
	}
	final, err := g.Engine.Serialize()
	if err != nil {
		g.log.WithError(err).Error("serialize final state")
		final = nil
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.ArchiveGame(ctx, rec, final); err != nil {
			logrus.WithError(err).WithField("game", rec.ID).Error("archive game")
		}
	}()
}

// logAction appends the action to the Redis stream for spectators and
// replay. Nil cache degrades to a no-op.
func (g *CuttleGame) logAction(playerID uuid.UUID, actionType string, payload json.RawMessage) {
	rec := cache.GameActionRecord{
		GameID:     g.ID,
		Index:      g.actionIndex,
		PlayerID:   playerID,
		ActionType: actionType,
		Payload:    payload,
		Timestamp:  time.Now(),
	}
	g.actionIndex++
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			logrus.WithError(err).WithField("game", rec.GameID).Warn("publish action")
		}
	}(rec)
}

// MarkDisconnected flags a player as gone; the game keeps running on the
// turn timer so the opponent is not held hostage.
func (g *CuttleGame) MarkDisconnected(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == playerID {
			p.Connected = false
			p.Conn = nil
			g.log.WithField("player", playerID).Info("player disconnected")
			return
		}
	}
}

func (g *CuttleGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}
