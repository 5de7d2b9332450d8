// Package models defines the shared service-level types: users, players,
// and the wire form of player actions.
package models

import (
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsEphemeral  bool      `json:"isEphemeral"` // guest accounts, no password
	CreatedAt    time.Time `json:"createdAt"`
}

// Player is a user seated in a specific game.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user,omitempty"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`
}

// GameAction is the client wire form of a move. Payload carries the
// action-specific fields (card, target) and is decoded by the game layer.
type GameAction struct {
	ActionType string          `json:"actionType"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// GameRecord is the persisted summary row for a finished game.
type GameRecord struct {
	ID         uuid.UUID  `json:"id"`
	Player0    uuid.UUID  `json:"player0"`
	Player1    uuid.UUID  `json:"player1"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty"` // nil for stalemates
	Stalemate  bool       `json:"stalemate"`
	TurnCount  int        `json:"turnCount"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}
