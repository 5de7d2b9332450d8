// Package server is the transport layer: HTTP endpoints for accounts and
// health, and the websocket protocol games are played over.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuttle-cards/cuttle/internal/auth"
	"github.com/cuttle-cards/cuttle/internal/cache"
	"github.com/cuttle-cards/cuttle/internal/config"
	"github.com/cuttle-cards/cuttle/internal/database"
	"github.com/cuttle-cards/cuttle/internal/models"
)

// Server ties the managers together behind an http.Handler.
type Server struct {
	cfg   config.Config
	auth  *auth.Service
	games *GameManager
	conns *ConnectionManager
}

func NewServer(cfg config.Config) *Server {
	conns := NewConnectionManager()
	return &Server{
		cfg:   cfg,
		auth:  auth.New(cfg.JWTSecret, cfg.SessionTTL),
		games: NewGameManager(conns, cfg.TurnTimer),
		conns: conns,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/guest", s.handleGuest)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AllowAnyOrigin {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleRegister creates an account and issues a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts are not available, use /guest")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	ctx := r.Context()
	if existing, err := database.GetUserByEmail(ctx, req.Email); err != nil {
		logrus.WithError(err).Error("register: lookup user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("register: hash password")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := database.CreateUser(ctx, u); err != nil {
		logrus.WithError(err).Error("register: create user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.issueToken(w, r, u)
}

// handleLogin verifies credentials and issues a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts are not available, use /guest")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}
	u, err := database.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		logrus.WithError(err).Error("login: lookup user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.issueToken(w, r, u)
}

type guestRequest struct {
	Username string `json:"username"`
}

// handleGuest issues a token for an ephemeral account. Guests exist only
// for the token's lifetime and are never written to the database.
func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req guestRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	u := &models.User{
		ID:          uuid.New(),
		Username:    req.Username,
		IsEphemeral: true,
		CreatedAt:   time.Now(),
	}
	if u.Username == "" {
		u.Username = "guest-" + u.ID.String()[:8]
	}
	s.issueToken(w, r, u)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u *models.User) {
	token, err := s.auth.CreateToken(u.ID)
	if err != nil {
		logrus.WithError(err).Error("issue token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := cache.StoreSession(r.Context(), token, u.ID, s.cfg.SessionTTL); err != nil {
		logrus.WithError(err).Warn("store session")
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: *u})
}

// handleWebsocket upgrades the connection and runs the message loop for
// one authenticated user.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	token := auth.FromRequest(r)
	userID, err := s.auth.VerifyToken(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: s.cfg.AllowAnyOrigin,
	})
	if err != nil {
		logrus.WithError(err).Debug("websocket accept failed")
		return
	}
	log := logrus.WithField("user", userID)
	log.Info("websocket connected")

	if old := s.conns.Add(userID, conn); old != nil {
		old.Close(websocket.StatusPolicyViolation, "superseded by a new connection")
	}
	defer func() {
		s.conns.Remove(userID, conn)
		conn.Close(websocket.StatusNormalClosure, "")
		if g, err := s.games.GameFor(userID); err == nil {
			g.MarkDisconnected(userID)
		}
		log.Info("websocket disconnected")
	}()

	// A reconnecting player picks their game back up automatically.
	if g, err := s.games.GameFor(userID); err == nil {
		g.AddPlayer(&models.Player{ID: userID, Conn: conn, Connected: true})
		g.SyncPlayer(userID)
	}

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.conns.Send(userID, ServerMessage{Type: "error", Payload: ErrorMessage{Message: "malformed message"}})
			continue
		}
		s.dispatch(userID, conn, msg)
	}
}

// dispatch routes one client message.
func (s *Server) dispatch(userID uuid.UUID, conn *websocket.Conn, msg ClientMessage) {
	switch msg.Type {
	case "ping":
		s.conns.Send(userID, ServerMessage{Type: "pong"})

	case "create_game":
		g := s.games.CreateGame(&models.Player{ID: userID, Conn: conn, Connected: true})
		s.conns.Send(userID, ServerMessage{Type: "game_created", Payload: CreateGameResponse{GameID: g.ID}})

	case "join_game":
		var req JoinGameRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.GameID == uuid.Nil {
			s.sendError(userID, "join_game requires a gameId")
			return
		}
		g, seat, err := s.games.JoinGame(req.GameID, &models.Player{ID: userID, Conn: conn, Connected: true})
		if err != nil {
			s.sendError(userID, err.Error())
			return
		}
		s.conns.Send(userID, ServerMessage{Type: "game_joined", Payload: JoinGameResponse{GameID: g.ID, Seat: seat}})

	case "action":
		var req ActionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.sendError(userID, "malformed action")
			return
		}
		g, err := s.games.GameFor(userID)
		if err != nil {
			s.sendError(userID, err.Error())
			return
		}
		payload, _ := json.Marshal(map[string]string{"card": req.Card, "target": req.Target})
		g.HandlePlayerAction(userID, models.GameAction{ActionType: req.ActionType, Payload: payload})

	case "resync":
		g, err := s.games.GameFor(userID)
		if err != nil {
			s.sendError(userID, err.Error())
			return
		}
		g.SyncPlayer(userID)

	default:
		s.sendError(userID, "unknown message type "+msg.Type)
	}
}

func (s *Server) sendError(userID uuid.UUID, message string) {
	s.conns.Send(userID, ServerMessage{Type: "error", Payload: ErrorMessage{Message: message}})
}

// Run serves until ctx is canceled, then drains connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debug("write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorMessage{Message: message})
}
