package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProcessMessageStoresGameCompleted(t *testing.T) {
	store := newTestStorage(t)

	err := store.ProcessMessage([]byte(`{
		"type": "game_completed",
		"room_code": "ABC234",
		"player1_name": "Alice",
		"player2_name": "Bob",
		"winner": 1,
		"is_bot_game": false,
		"duration_seconds": 95
	}`))
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	stats, err := store.GetDailyStats(today)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.PvPGames)
	assert.Equal(t, 0, stats.BotGames)
	assert.Equal(t, 1, stats.Player1Wins)
	assert.InDelta(t, 95.0, stats.AvgDurationSeconds, 0.001)
}

func TestProcessMessageIgnoresOtherTypes(t *testing.T) {
	store := newTestStorage(t)

	err := store.ProcessMessage([]byte(`{"type":"player_connected","room_code":"ABC234"}`))
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	stats, err := store.GetDailyStats(today)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestProcessMessageRejectsInvalidJSON(t *testing.T) {
	store := newTestStorage(t)
	assert.Error(t, store.ProcessMessage([]byte(`{"type":`)))
}

func TestDailyStatsAggregation(t *testing.T) {
	store := newTestStorage(t)

	games := []*GameEvent{
		{RoomCode: "A", Player1Name: "Alice", Player2Name: "Bob", Winner: 1, DurationSeconds: 60},
		{RoomCode: "B", Player1Name: "Alice", Player2Name: "BOT", Winner: 2, IsBotGame: true, DurationSeconds: 30},
		{RoomCode: "C", Player1Name: "Carol", Player2Name: "Dan", Winner: 0, DurationSeconds: 120},
	}
	for _, g := range games {
		require.NoError(t, store.SaveGameEvent(g))
		assert.NotZero(t, g.ID)
	}

	today := time.Now().Format("2006-01-02")
	stats, err := store.GetDailyStats(today)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 1, stats.BotGames)
	assert.Equal(t, 2, stats.PvPGames)
	assert.Equal(t, 1, stats.Player1Wins)
	assert.Equal(t, 1, stats.Player2Wins)
	assert.Equal(t, 1, stats.Draws)
	assert.InDelta(t, 70.0, stats.AvgDurationSeconds, 0.001)
}

func TestGetDailyStatsUnknownDate(t *testing.T) {
	store := newTestStorage(t)

	stats, err := store.GetDailyStats("1999-01-01")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLeaderboardRanksByWins(t *testing.T) {
	store := newTestStorage(t)

	games := []*GameEvent{
		{RoomCode: "A", Player1Name: "Alice", Player2Name: "Bob", Winner: 1},
		{RoomCode: "B", Player1Name: "Bob", Player2Name: "Alice", Winner: 2},
		{RoomCode: "C", Player1Name: "Alice", Player2Name: "Carol", Winner: 1},
		{RoomCode: "D", Player1Name: "Carol", Player2Name: "Bob", Winner: 2},
	}
	for _, g := range games {
		require.NoError(t, store.SaveGameEvent(g))
	}

	entries, err := store.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 3, entries[0].Wins)
	assert.Equal(t, 3, entries[0].Games)
	assert.InDelta(t, 1.0, entries[0].WinRate, 0.001)

	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 1, entries[1].Wins)
	assert.Equal(t, 3, entries[1].Games)

	assert.Equal(t, "Carol", entries[2].Name)
	assert.Equal(t, 0, entries[2].Wins)
}

func TestLeaderboardExcludesBotSeat(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.SaveGameEvent(&GameEvent{
		RoomCode: "A", Player1Name: "Alice", Player2Name: "BOT", Winner: 2, IsBotGame: true,
	}))
	require.NoError(t, store.SaveGameEvent(&GameEvent{
		RoomCode: "B", Player1Name: "Alice", Player2Name: "BOT", Winner: 1, IsBotGame: true,
	}))

	entries, err := store.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 1, entries[0].Wins)
	assert.Equal(t, 2, entries[0].Games)
}

func TestLeaderboardLimit(t *testing.T) {
	store := newTestStorage(t)

	names := []string{"Alice", "Bob", "Carol", "Dan"}
	for i, name := range names {
		require.NoError(t, store.SaveGameEvent(&GameEvent{
			RoomCode: "R", Player1Name: name, Player2Name: names[(i+1)%len(names)], Winner: 1,
		}))
	}

	entries, err := store.GetLeaderboard(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
