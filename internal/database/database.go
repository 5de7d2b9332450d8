// Package database wraps the pgx connection pool and the game persistence
// queries: user accounts, full-fidelity game snapshots for resume, and the
// finished-game archive.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cuttle-cards/cuttle/internal/models"
)

// DB is the shared pool. Nil when Postgres is not configured; callers
// nil-check and skip persistence.
var DB *pgxpool.Pool

// Connect initializes the pool and verifies the connection.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("database: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	DB = pool
	logrus.Info("database: connected to postgres")
	return nil
}

// CreateUser inserts a new account.
func CreateUser(ctx context.Context, u *models.User) error {
	_, err := DB.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, is_ephemeral, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.IsEphemeral, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("database: create user: %w", err)
	}
	return nil
}

// GetUserByEmail loads an account by email, or nil when absent.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := DB.QueryRow(ctx,
		`SELECT id, email, username, password_hash, is_ephemeral, created_at
		 FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsEphemeral, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: get user: %w", err)
	}
	return &u, nil
}

// SaveGameSnapshot upserts the current full-fidelity state for a live
// game, so a restarted server can resume it.
func SaveGameSnapshot(ctx context.Context, gameID uuid.UUID, state []byte) error {
	_, err := DB.Exec(ctx,
		`INSERT INTO game_snapshots (game_id, state, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (game_id) DO UPDATE SET state = $2, updated_at = now()`,
		gameID, state)
	if err != nil {
		return fmt.Errorf("database: save snapshot: %w", err)
	}
	return nil
}

// LoadGameSnapshot returns the stored state for a live game, or nil.
func LoadGameSnapshot(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	var state []byte
	err := DB.QueryRow(ctx,
		`SELECT state FROM game_snapshots WHERE game_id = $1`, gameID).Scan(&state)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: load snapshot: %w", err)
	}
	return state, nil
}

// ArchiveGame records the final result and removes the live snapshot.
func ArchiveGame(ctx context.Context, rec models.GameRecord, finalState []byte) error {
	tx, err := DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("database: begin archive: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO games (id, player0, player1, winner_id, stalemate, turn_count, started_at, finished_at, final_state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Player0, rec.Player1, rec.WinnerID, rec.Stalemate,
		rec.TurnCount, rec.StartedAt, rec.FinishedAt, finalState)
	if err != nil {
		return fmt.Errorf("database: archive game: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM game_snapshots WHERE game_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("database: drop snapshot: %w", err)
	}
	return tx.Commit(ctx)
}

// Schema is applied at startup. Kept inline: the schema is three tables
// and gains nothing from a migration tool yet.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT UNIQUE NOT NULL,
	username      TEXT NOT NULL,
	password_hash TEXT NOT NULL DEFAULT '',
	is_ephemeral  BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS game_snapshots (
	game_id    UUID PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS games (
	id          UUID PRIMARY KEY,
	player0     UUID NOT NULL,
	player1     UUID NOT NULL,
	winner_id   UUID,
	stalemate   BOOLEAN NOT NULL DEFAULT false,
	turn_count  INT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	final_state JSONB
);`

// Migrate applies the schema.
func Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := DB.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}
