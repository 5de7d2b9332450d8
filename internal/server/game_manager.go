package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuttle-cards/cuttle/engine"
	"github.com/cuttle-cards/cuttle/internal/game"
	"github.com/cuttle-cards/cuttle/internal/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player is not in a game")
)

// GameManager owns every live game and the player-to-game index.
type GameManager struct {
	mu           sync.RWMutex
	games        map[uuid.UUID]*game.CuttleGame
	playerGame   map[uuid.UUID]uuid.UUID
	turnDuration time.Duration

	conns *ConnectionManager
}

func NewGameManager(conns *ConnectionManager, turnDuration time.Duration) *GameManager {
	return &GameManager{
		games:        make(map[uuid.UUID]*game.CuttleGame),
		playerGame:   make(map[uuid.UUID]uuid.UUID),
		turnDuration: turnDuration,
		conns:        conns,
	}
}

// CreateGame opens a new game with the creator in seat 0.
func (gm *GameManager) CreateGame(creator *models.Player) *game.CuttleGame {
	g := game.NewCuttleGame()
	g.TurnDuration = gm.turnDuration
	gm.wireCallbacks(g)
	g.AddPlayer(creator)

	gm.mu.Lock()
	gm.games[g.ID] = g
	gm.playerGame[creator.ID] = g.ID
	gm.mu.Unlock()

	logrus.WithFields(logrus.Fields{"game": g.ID, "creator": creator.ID}).Info("game created")
	return g
}

// JoinGame seats a second player and starts the match.
func (gm *GameManager) JoinGame(gameID uuid.UUID, joiner *models.Player) (*game.CuttleGame, uint8, error) {
	gm.mu.RLock()
	g, ok := gm.games[gameID]
	gm.mu.RUnlock()
	if !ok {
		return nil, 0, ErrGameNotFound
	}

	g.Mu.Lock()
	_, rejoining := g.PlayerToEngine[joiner.ID]
	full := len(g.Players) >= engine.NumPlayers
	g.Mu.Unlock()
	if full && !rejoining {
		return nil, 0, ErrGameFull
	}

	g.AddPlayer(joiner)
	gm.mu.Lock()
	gm.playerGame[joiner.ID] = gameID
	gm.mu.Unlock()
	seat := uint8(0)
	g.Mu.Lock()
	seat = g.PlayerToEngine[joiner.ID]
	shouldStart := len(g.Players) == engine.NumPlayers && !g.Started
	g.Mu.Unlock()

	if shouldStart {
		g.Start()
	}
	return g, seat, nil
}

// GameFor returns the game a player is seated in.
func (gm *GameManager) GameFor(playerID uuid.UUID) (*game.CuttleGame, error) {
	gm.mu.RLock()
	gameID, ok := gm.playerGame[playerID]
	g := gm.games[gameID]
	gm.mu.RUnlock()
	if !ok || g == nil {
		return nil, ErrNotInGame
	}
	return g, nil
}

// Get returns a game by ID.
func (gm *GameManager) Get(gameID uuid.UUID) (*game.CuttleGame, error) {
	gm.mu.RLock()
	g := gm.games[gameID]
	gm.mu.RUnlock()
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// remove drops a finished game and its player index entries.
func (gm *GameManager) remove(gameID uuid.UUID) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	g := gm.games[gameID]
	if g == nil {
		return
	}
	delete(gm.games, gameID)
	for playerID, id := range gm.playerGame {
		if id == gameID {
			delete(gm.playerGame, playerID)
		}
	}
}

// wireCallbacks connects a game's event fan-out to the websocket layer.
func (gm *GameManager) wireCallbacks(g *game.CuttleGame) {
	g.BroadcastFn = func(ev game.GameEvent) {
		g.Mu.Lock()
		ids := make([]uuid.UUID, 0, len(g.Players))
		for _, p := range g.Players {
			ids = append(ids, p.ID)
		}
		g.Mu.Unlock()
		for _, id := range ids {
			gm.conns.Send(id, ServerMessage{Type: string(ev.Type), Payload: ev})
		}
	}
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		gm.conns.Send(playerID, ServerMessage{Type: string(ev.Type), Payload: ev})
	}
	g.OnGameEnd = func(gameID uuid.UUID, winner uuid.UUID, stalemate bool) {
		// Keep the record in memory briefly so clients can fetch the final
		// state, then drop it.
		time.AfterFunc(time.Minute, func() { gm.remove(gameID) })
	}
}
