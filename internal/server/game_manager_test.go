package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuttle-cards/cuttle/internal/models"
)

func newTestManager() *GameManager {
	return NewGameManager(NewConnectionManager(), 0)
}

func testPlayer() *models.Player {
	return &models.Player{ID: uuid.New(), Connected: true}
}

func TestCreateGameSeatsCreator(t *testing.T) {
	gm := newTestManager()
	creator := testPlayer()
	g := gm.CreateGame(creator)
	require.NotNil(t, g)

	g.Mu.Lock()
	seat, ok := g.PlayerToEngine[creator.ID]
	g.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, uint8(0), seat)
	assert.False(t, g.Started)

	found, err := gm.GameFor(creator.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)
}

func TestJoinGameStartsMatch(t *testing.T) {
	gm := newTestManager()
	creator := testPlayer()
	joiner := testPlayer()
	g := gm.CreateGame(creator)

	joined, seat, err := gm.JoinGame(g.ID, joiner)
	require.NoError(t, err)
	assert.Equal(t, g.ID, joined.ID)
	assert.Equal(t, uint8(1), seat)

	g.Mu.Lock()
	started := g.Started
	g.Mu.Unlock()
	assert.True(t, started)
}

func TestJoinUnknownGame(t *testing.T) {
	gm := newTestManager()
	_, _, err := gm.JoinGame(uuid.New(), testPlayer())
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestJoinFullGame(t *testing.T) {
	gm := newTestManager()
	g := gm.CreateGame(testPlayer())
	_, _, err := gm.JoinGame(g.ID, testPlayer())
	require.NoError(t, err)

	_, _, err = gm.JoinGame(g.ID, testPlayer())
	assert.ErrorIs(t, err, ErrGameFull)
}

func TestRejoinKeepsSeat(t *testing.T) {
	gm := newTestManager()
	creator := testPlayer()
	joiner := testPlayer()
	g := gm.CreateGame(creator)
	_, seat, err := gm.JoinGame(g.ID, joiner)
	require.NoError(t, err)
	require.Equal(t, uint8(1), seat)

	_, seat, err = gm.JoinGame(g.ID, &models.Player{ID: joiner.ID, Connected: true})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), seat)
}

func TestRemoveDropsIndex(t *testing.T) {
	gm := newTestManager()
	creator := testPlayer()
	g := gm.CreateGame(creator)

	gm.remove(g.ID)

	_, err := gm.Get(g.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.GameFor(creator.ID)
	assert.ErrorIs(t, err, ErrNotInGame)
}
