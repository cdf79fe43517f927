package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawgdevv/4-rows-game/internal/domain"
)

func newPlayingMatch(t *testing.T) *Match {
	t.Helper()
	m := NewPvPMatch("ABCDEF", "client-1", "Alice")
	num, err := m.Join("client-2", "Bob")
	require.NoError(t, err)
	require.Equal(t, 2, num)
	return m
}

func TestJoinStartsGame(t *testing.T) {
	m := NewPvPMatch("ABCDEF", "client-1", "Alice")
	assert.Equal(t, StatusWaiting, m.Status())

	num, err := m.Join("client-2", "Bob")
	require.NoError(t, err)
	assert.Equal(t, 2, num)
	assert.Equal(t, StatusPlaying, m.Status())

	info := m.StartInfo()
	assert.Equal(t, "ABCDEF", info.RoomCode)
	assert.Equal(t, "Alice", info.Player1Name)
	assert.Equal(t, "Bob", info.Player2Name)
	assert.Equal(t, 1, info.CurrentTurn)
}

func TestJoinFullRoom(t *testing.T) {
	m := newPlayingMatch(t)

	_, err := m.Join("client-3", "Carol")
	assert.ErrorIs(t, err, domain.ErrRoomFull)

	// The intruder is not bound to a slot.
	_, ok := m.PlayerNumberOf("client-3")
	assert.False(t, ok)
}

func TestMoveBeforeOpponentJoins(t *testing.T) {
	m := NewPvPMatch("ABCDEF", "client-1", "Alice")

	_, err := m.SubmitMove(1, 3)
	assert.ErrorIs(t, err, domain.ErrGameNotInProgress)
}

func TestSubmitMoveOutcome(t *testing.T) {
	m := newPlayingMatch(t)

	out, err := m.SubmitMove(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Column)
	assert.Equal(t, 5, out.Row)
	assert.Equal(t, 1, out.Player)
	assert.Equal(t, 2, out.NextPlayer)
	assert.False(t, out.Terminal)

	_, err = m.SubmitMove(1, 3)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)
}

func TestSubmitMoveWin(t *testing.T) {
	m := newPlayingMatch(t)

	moves := []struct {
		player, column int
	}{
		{1, 3}, {2, 4}, {1, 3}, {2, 4}, {1, 3}, {2, 4},
	}
	for _, mv := range moves {
		_, err := m.SubmitMove(mv.player, mv.column)
		require.NoError(t, err)
	}

	out, err := m.SubmitMove(1, 3)
	require.NoError(t, err)
	assert.True(t, out.Terminal)
	assert.Equal(t, 1, out.Winner)
	assert.False(t, out.Draw)
	require.Len(t, out.WinningCells, domain.ToWin)
	assert.Equal(t, domain.Cell{Row: 5, Col: 3}, out.WinningCells[0])
	assert.Equal(t, StatusWon, m.Status())

	_, err = m.SubmitMove(2, 0)
	assert.ErrorIs(t, err, domain.ErrGameNotInProgress)

	res := m.Result("connect_four")
	assert.Equal(t, 1, res.Winner)
	assert.Equal(t, 7, res.TotalMoves)
	assert.False(t, res.IsBotGame)
}

// Two goroutines racing to play the same turn: exactly one move applies.
func TestConcurrentMovesApplyExactlyOnce(t *testing.T) {
	m := newPlayingMatch(t)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			_, err := m.SubmitMove(1, col)
			errs <- err
		}(i % 7)
	}
	wg.Wait()
	close(errs)

	applied := 0
	for err := range errs {
		if err == nil {
			applied++
		} else {
			assert.ErrorIs(t, err, domain.ErrNotYourTurn)
		}
	}
	assert.Equal(t, 1, applied)
}

func TestBotMatchLifecycle(t *testing.T) {
	m := NewBotMatch("bot-1", "client-1", "Alice")
	assert.Equal(t, StatusPlaying, m.Status())
	assert.True(t, m.IsBot())
	assert.Equal(t, domain.BotName, m.StartInfo().Player2Name)

	// Bot does not move while it is the human's turn.
	_, ok := m.SubmitBotMove()
	assert.False(t, ok)

	out, err := m.SubmitMove(1, 3)
	require.NoError(t, err)
	assert.True(t, out.BotTurnNext)

	out, ok = m.SubmitBotMove()
	require.True(t, ok)
	assert.Equal(t, 2, out.Player)
	assert.Equal(t, 1, out.NextPlayer)
	assert.False(t, out.BotTurnNext)

	// A second timer firing for the same turn is a no-op.
	_, ok = m.SubmitBotMove()
	assert.False(t, ok)
}

func TestSubmitBotMoveIgnoredInPvP(t *testing.T) {
	m := newPlayingMatch(t)
	_, err := m.SubmitMove(1, 3)
	require.NoError(t, err)

	_, ok := m.SubmitBotMove()
	assert.False(t, ok)
}

func winQuickly(t *testing.T, m *Match) {
	t.Helper()
	moves := []struct {
		player, column int
	}{
		{1, 3}, {2, 4}, {1, 3}, {2, 4}, {1, 3}, {2, 4}, {1, 3},
	}
	for _, mv := range moves {
		_, err := m.SubmitMove(mv.player, mv.column)
		require.NoError(t, err)
	}
	require.Equal(t, StatusWon, m.Status())
}

func TestRematchNeedsBothSides(t *testing.T) {
	m := newPlayingMatch(t)
	winQuickly(t, m)

	out, err := m.RequestRematch(1)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, 1, out.Requester)
	assert.Equal(t, StatusWon, m.Status())

	out, err = m.RequestRematch(2)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, StatusPlaying, m.Status())
	assert.Equal(t, 1, m.StartInfo().CurrentTurn)

	// Fresh game: the previous winner's run is gone and player 1 moves first.
	mo, err := m.SubmitMove(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, mo.Row)
}

func TestRematchRequestsResetAfterAccept(t *testing.T) {
	m := newPlayingMatch(t)
	winQuickly(t, m)

	_, err := m.RequestRematch(2)
	require.NoError(t, err)
	out, err := m.RequestRematch(1)
	require.NoError(t, err)
	require.True(t, out.Accepted)

	winQuickly(t, m)

	// A fresh negotiation is needed for the next rematch.
	out, err = m.RequestRematch(1)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
}

func TestRematchAgainstBotIsImmediate(t *testing.T) {
	m := NewBotMatch("bot-1", "client-1", "Alice")
	winQuickly(t, m)

	out, err := m.RequestRematch(1)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, StatusPlaying, m.Status())
}

func TestRematchWhilePlaying(t *testing.T) {
	m := newPlayingMatch(t)

	_, err := m.RequestRematch(1)
	assert.ErrorIs(t, err, domain.ErrGameNotInProgress)
}

func TestLeaveAbandonsMatch(t *testing.T) {
	m := newPlayingMatch(t)

	opponentID := m.Leave(1)
	assert.Equal(t, "client-2", opponentID)
	assert.Equal(t, StatusAbandoned, m.Status())

	_, err := m.SubmitMove(2, 0)
	assert.ErrorIs(t, err, domain.ErrGameNotInProgress)

	// Abandonment is terminal, the empty seat is never re-offered.
	_, err = m.Join("client-3", "Carol")
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestLeaveWaitingRoomHasNoOpponent(t *testing.T) {
	m := NewPvPMatch("ABCDEF", "client-1", "Alice")

	opponentID := m.Leave(1)
	assert.Empty(t, opponentID)
	assert.Equal(t, StatusAbandoned, m.Status())
}

func TestLeaveBotMatchReturnsNoConnection(t *testing.T) {
	m := NewBotMatch("bot-1", "client-1", "Alice")

	// The bot slot is occupied but has no client behind it.
	opponentID := m.Leave(1)
	assert.Empty(t, opponentID)
}

func TestLeaveRejectsUnknownSlot(t *testing.T) {
	m := newPlayingMatch(t)

	opponentID := m.Leave(3)
	assert.Empty(t, opponentID)
	assert.Equal(t, StatusAbandoned, m.Status())
}

func TestPlayerNumberOf(t *testing.T) {
	m := newPlayingMatch(t)

	num, ok := m.PlayerNumberOf("client-1")
	require.True(t, ok)
	assert.Equal(t, 1, num)

	num, ok = m.PlayerNumberOf("client-2")
	require.True(t, ok)
	assert.Equal(t, 2, num)

	_, ok = m.PlayerNumberOf("stranger")
	assert.False(t, ok)
}
