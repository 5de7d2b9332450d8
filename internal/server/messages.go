package server

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ClientMessage is the envelope for everything a client sends.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ErrorMessage is the payload of an "error" message.
type ErrorMessage struct {
	Message string `json:"message"`
}

// CreateGameResponse answers create_game.
type CreateGameResponse struct {
	GameID uuid.UUID `json:"gameId"`
}

// JoinGameRequest asks to take the open seat in a game.
type JoinGameRequest struct {
	GameID uuid.UUID `json:"gameId"`
}

// JoinGameResponse answers join_game.
type JoinGameResponse struct {
	GameID uuid.UUID `json:"gameId"`
	Seat   uint8     `json:"seat"`
}

// ActionRequest is a move in the player's current game. Card and Target
// use the rank-then-suit card notation, e.g. "10H", "QS".
type ActionRequest struct {
	ActionType string `json:"actionType"`
	Card       string `json:"card,omitempty"`
	Target     string `json:"target,omitempty"`
}
