package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dawgdevv/4-rows-game/internal/domain"
	"github.com/dawgdevv/4-rows-game/internal/service/match"
)

// StatsRepo persists win/loss aggregates and finished-game records.
type StatsRepo struct {
	DB *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// PlayerStats is one leaderboard row.
type PlayerStats struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	GamesPlayed int    `json:"games_played"`
}

// RecordGame saves a finished game and bumps both players' aggregates in one
// transaction. The bot's synthetic seat is never given a players row.
func (r *StatsRepo) RecordGame(res match.Result) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if res.Player1Name != domain.BotName {
		if err := r.updatePlayerStatsTx(tx, res.Player1Name, res.Winner == 1, res.Draw); err != nil {
			return err
		}
	}
	if res.Player2Name != domain.BotName {
		if err := r.updatePlayerStatsTx(tx, res.Player2Name, res.Winner == 2, res.Draw); err != nil {
			return err
		}
	}

	query := `
	INSERT INTO game (game_id, room_code, player1_username, player2_username, winner, reason, is_bot_game, total_moves, duration_seconds)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(query,
		uuid.NewString(),
		res.RoomCode,
		res.Player1Name,
		res.Player2Name,
		res.Winner,
		res.Reason,
		res.IsBotGame,
		res.TotalMoves,
		res.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

func (r *StatsRepo) updatePlayerStatsTx(tx *sql.Tx, username string, won, draw bool) error {
	query := `
	INSERT INTO players (username, games_played, games_won, games_drawn)
	VALUES ($1, 1, CASE WHEN $2 THEN 1 ELSE 0 END, CASE WHEN $3 THEN 1 ELSE 0 END)
	ON CONFLICT (username) DO UPDATE SET
		games_played = players.games_played + 1,
		games_won = players.games_won + CASE WHEN $2 THEN 1 ELSE 0 END,
		games_drawn = players.games_drawn + CASE WHEN $3 THEN 1 ELSE 0 END;
	`
	if _, err := tx.Exec(query, username, won, draw); err != nil {
		return fmt.Errorf("failed to update player stats: %v", err)
	}
	return nil
}

// TopPlayers returns the leaderboard ordered by win count.
func (r *StatsRepo) TopPlayers(limit int) ([]PlayerStats, error) {
	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY games_won DESC, games_played ASC, username ASC) AS rank,
		username,
		games_won,
		games_played - games_won - games_drawn AS losses,
		games_drawn,
		games_played
	FROM players
	ORDER BY games_won DESC, games_played ASC, username ASC
	LIMIT $1;
	`

	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %v", err)
	}
	defer rows.Close()

	leaderboard := make([]PlayerStats, 0)
	for rows.Next() {
		var p PlayerStats
		if err := rows.Scan(&p.Rank, &p.Username, &p.Wins, &p.Losses, &p.Draws, &p.GamesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %v", err)
		}
		leaderboard = append(leaderboard, p)
	}
	return leaderboard, rows.Err()
}
