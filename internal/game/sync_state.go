package game

import (
	"github.com/google/uuid"

	"github.com/cuttle-cards/cuttle/engine"
)

// GameEventType names the websocket event variants.
type GameEventType string

const (
	EventGameStart      GameEventType = "game_start"
	EventGameAction     GameEventType = "game_action"       // public: an action was applied
	EventPrivateSync    GameEventType = "private_sync_state" // private: personalized state + legal actions
	EventActionRejected GameEventType = "action_rejected"    // private: an action was refused
	EventGameEnd        GameEventType = "game_end"
)

// EventUser identifies a player in an event payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// PlayerView is the personalized state sent on every sync: the redacted
// engine state plus the service-level identities around it, and the
// recipient's current legal actions so clients never have to re-derive
// rules.
type PlayerView struct {
	GameID          uuid.UUID           `json:"gameId"`
	State           engine.WireState    `json:"state"`
	Seat            uint8               `json:"seat"`
	CurrentPlayerID uuid.UUID           `json:"currentPlayerId"`
	LegalActions    []engine.WireAction `json:"legalActions"`
	GameOver        bool                `json:"gameOver"`
}

// GameEvent is the broadcast envelope.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Action  *engine.WireAction     `json:"action,omitempty"`
	View    *PlayerView            `json:"view,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// viewFor builds the personalized snapshot for one seat. Assumes the game
// lock is held.
func (g *CuttleGame) viewFor(seat uint8) PlayerView {
	v := PlayerView{
		GameID:   g.ID,
		State:    g.Engine.View(seat),
		Seat:     seat,
		GameOver: g.Engine.IsTerminal(),
	}
	if !v.GameOver {
		v.CurrentPlayerID = g.EngineToPlayer[g.Engine.ActingPlayer()]
		for _, a := range g.Engine.LegalActionsFor(seat) {
			v.LegalActions = append(v.LegalActions, engine.EncodeAction(a))
		}
	}
	return v
}

// broadcastStateLocked sends each seated player their private view.
func (g *CuttleGame) broadcastStateLocked() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.Players {
		seat, ok := g.PlayerToEngine[p.ID]
		if !ok {
			continue
		}
		view := g.viewFor(seat)
		g.BroadcastToPlayerFn(p.ID, GameEvent{
			Type: EventPrivateSync,
			User: &EventUser{ID: p.ID},
			View: &view,
		})
	}
}

// SyncPlayer sends one player their current private view, for reconnects
// and explicit resync requests.
func (g *CuttleGame) SyncPlayer(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.Started || g.BroadcastToPlayerFn == nil {
		return
	}
	seat, ok := g.PlayerToEngine[playerID]
	if !ok {
		return
	}
	view := g.viewFor(seat)
	g.BroadcastToPlayerFn(playerID, GameEvent{
		Type: EventPrivateSync,
		User: &EventUser{ID: playerID},
		View: &view,
	})
}

// fireActionEventLocked publishes the applied action. The action itself is
// public information in Cuttle: every play is announced.
func (g *CuttleGame) fireActionEventLocked(playerID uuid.UUID, a engine.Action) {
	if g.BroadcastFn == nil {
		return
	}
	wa := engine.EncodeAction(a)
	g.BroadcastFn(GameEvent{
		Type:   EventGameAction,
		User:   &EventUser{ID: playerID},
		Action: &wa,
	})
}

// fireGameEndLocked publishes the result.
func (g *CuttleGame) fireGameEndLocked(winner uuid.UUID, stalemate bool) {
	if g.BroadcastFn == nil {
		return
	}
	payload := map[string]interface{}{"stalemate": stalemate}
	ev := GameEvent{Type: EventGameEnd, Payload: payload}
	if !stalemate {
		ev.User = &EventUser{ID: winner}
	}
	g.BroadcastFn(ev)
}
