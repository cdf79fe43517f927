package analytics

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// GameEvent is one stored game_completed event.
type GameEvent struct {
	ID              int64     `json:"id"`
	RoomCode        string    `json:"room_code"`
	Player1Name     string    `json:"player1_name"`
	Player2Name     string    `json:"player2_name"`
	Winner          int       `json:"winner"`
	IsBotGame       bool      `json:"is_bot_game"`
	DurationSeconds int64     `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// DailyStats aggregates one day of play.
type DailyStats struct {
	Date               string  `json:"date"`
	TotalGames         int     `json:"total_games"`
	BotGames           int     `json:"bot_games"`
	PvPGames           int     `json:"pvp_games"`
	Player1Wins        int     `json:"player1_wins"`
	Player2Wins        int     `json:"player2_wins"`
	Draws              int     `json:"draws"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
}

// LeaderboardEntry is one player's ranking by wins.
type LeaderboardEntry struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// Storage holds the analytics SQLite database.
type Storage struct {
	db *sql.DB
}

func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

func createTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS game_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_code TEXT NOT NULL,
		player1_name TEXT,
		player2_name TEXT,
		winner INTEGER,
		is_bot_game INTEGER,
		duration_seconds INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_game_events_created ON game_events(created_at);

	CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		total_games INTEGER DEFAULT 0,
		bot_games INTEGER DEFAULT 0,
		pvp_games INTEGER DEFAULT 0,
		player1_wins INTEGER DEFAULT 0,
		player2_wins INTEGER DEFAULT 0,
		draws INTEGER DEFAULT 0,
		avg_duration_seconds REAL DEFAULT 0
	);
	`
	_, err := db.Exec(query)
	return err
}

// ProcessMessage decodes one raw event from the stream and stores it.
// Unknown event types are ignored, not errors.
func (s *Storage) ProcessMessage(data []byte) error {
	var msg struct {
		Type            string `json:"type"`
		RoomCode        string `json:"room_code"`
		Player1Name     string `json:"player1_name"`
		Player2Name     string `json:"player2_name"`
		Winner          int    `json:"winner"`
		IsBotGame       bool   `json:"is_bot_game"`
		DurationSeconds int64  `json:"duration_seconds"`
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	if msg.Type != "game_completed" {
		log.Printf("[ANALYTICS] Ignoring message of type %q", msg.Type)
		return nil
	}

	return s.SaveGameEvent(&GameEvent{
		RoomCode:        msg.RoomCode,
		Player1Name:     msg.Player1Name,
		Player2Name:     msg.Player2Name,
		Winner:          msg.Winner,
		IsBotGame:       msg.IsBotGame,
		DurationSeconds: msg.DurationSeconds,
	})
}

// SaveGameEvent stores one event and folds it into the daily aggregates.
func (s *Storage) SaveGameEvent(event *GameEvent) error {
	query := `
	INSERT INTO game_events (room_code, player1_name, player2_name, winner, is_bot_game, duration_seconds)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		event.RoomCode,
		event.Player1Name,
		event.Player2Name,
		event.Winner,
		boolToInt(event.IsBotGame),
		event.DurationSeconds,
	)
	if err != nil {
		return err
	}

	event.ID, _ = result.LastInsertId()

	return s.updateDailyStats(event)
}

func (s *Storage) updateDailyStats(event *GameEvent) error {
	today := time.Now().Format("2006-01-02")

	query := `
	INSERT INTO daily_stats (date, total_games, bot_games, pvp_games, player1_wins, player2_wins, draws, avg_duration_seconds)
	VALUES (?, 1, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		total_games = total_games + 1,
		bot_games = bot_games + ?,
		pvp_games = pvp_games + ?,
		player1_wins = player1_wins + ?,
		player2_wins = player2_wins + ?,
		draws = draws + ?,
		avg_duration_seconds = (avg_duration_seconds * total_games + ?) / (total_games + 1)
	`

	botGame := boolToInt(event.IsBotGame)
	pvpGame := boolToInt(!event.IsBotGame)
	p1Win := boolToInt(event.Winner == 1)
	p2Win := boolToInt(event.Winner == 2)
	draw := boolToInt(event.Winner == 0)

	_, err := s.db.Exec(query,
		today, botGame, pvpGame, p1Win, p2Win, draw, float64(event.DurationSeconds),
		botGame, pvpGame, p1Win, p2Win, draw, float64(event.DurationSeconds),
	)
	return err
}

// GetDailyStats retrieves aggregates for one date (YYYY-MM-DD), nil when the
// date has no games.
func (s *Storage) GetDailyStats(date string) (*DailyStats, error) {
	query := `
	SELECT date, total_games, bot_games, pvp_games, player1_wins, player2_wins, draws, avg_duration_seconds
	FROM daily_stats WHERE date = ?
	`
	row := s.db.QueryRow(query, date)

	var stats DailyStats
	err := row.Scan(
		&stats.Date,
		&stats.TotalGames,
		&stats.BotGames,
		&stats.PvPGames,
		&stats.Player1Wins,
		&stats.Player2Wins,
		&stats.Draws,
		&stats.AvgDurationSeconds,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &stats, err
}

// GetLeaderboard returns the top players ranked by win count. A player's
// games are counted from both seats; the bot's synthetic seat is excluded.
func (s *Storage) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	query := `
	SELECT name, SUM(wins) AS total_wins, SUM(games) AS total_games
	FROM (
		SELECT
			player1_name AS name,
			CASE WHEN winner = 1 THEN 1 ELSE 0 END AS wins,
			1 AS games
		FROM game_events
		WHERE player1_name != '' AND player1_name != 'BOT'

		UNION ALL

		SELECT
			player2_name AS name,
			CASE WHEN winner = 2 THEN 1 ELSE 0 END AS wins,
			1 AS games
		FROM game_events
		WHERE player2_name != '' AND player2_name != 'BOT' AND is_bot_game = 0
	)
	GROUP BY name
	ORDER BY total_wins DESC, total_games DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaderboard []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.Name, &entry.Wins, &entry.Games); err != nil {
			return nil, err
		}
		if entry.Games > 0 {
			entry.WinRate = float64(entry.Wins) / float64(entry.Games)
		}
		leaderboard = append(leaderboard, entry)
	}

	return leaderboard, rows.Err()
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
