package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConnectionManager tracks the live websocket per user. A user has at most
// one connection; a newer one displaces the old.
type ConnectionManager struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*websocket.Conn
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{conns: make(map[uuid.UUID]*websocket.Conn)}
}

// Add registers a connection and returns the displaced one, if any.
func (cm *ConnectionManager) Add(userID uuid.UUID, conn *websocket.Conn) *websocket.Conn {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	old := cm.conns[userID]
	cm.conns[userID] = conn
	return old
}

// Remove drops the mapping, but only if it still points at conn: a
// reconnect may already have replaced it.
func (cm *ConnectionManager) Remove(userID uuid.UUID, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.conns[userID] == conn {
		delete(cm.conns, userID)
	}
}

// Send marshals and writes a message to one user. Disconnected users are
// silently skipped.
func (cm *ConnectionManager) Send(userID uuid.UUID, msg ServerMessage) {
	cm.mu.RLock()
	conn := cm.conns[userID]
	cm.mu.RUnlock()
	if conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("marshal server message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		logrus.WithError(err).WithField("user", userID).Debug("write to client failed")
	}
}
