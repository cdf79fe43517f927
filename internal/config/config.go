package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisAddr            string
	RedisPassword        string
	KafkaBrokers         []string
	KafkaTopic           string
	BotMoveDelay         time.Duration
	RoomMaxIdle          time.Duration
	CleanupInterval      time.Duration
	LeaderboardCacheTTL  time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	allowedOrigins := []string{
		"http://localhost:5173", // local client development
	}
	if extra := GetEnv("ALLOWED_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	return &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisAddr:            GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:         strings.Split(GetEnv("KAFKA_BROKERS", "127.0.0.1:9094"), ","),
		KafkaTopic:           GetEnv("KAFKA_TOPIC", "game-events"),
		BotMoveDelay:         time.Duration(GetEnvAsInt("BOT_MOVE_DELAY_MS", 500)) * time.Millisecond,
		RoomMaxIdle:          time.Duration(GetEnvAsInt("ROOM_MAX_IDLE_MINUTES", 120)) * time.Minute,
		CleanupInterval:      time.Duration(GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute,
		LeaderboardCacheTTL:  time.Duration(GetEnvAsInt("LEADERBOARD_CACHE_TTL_SECONDS", 30)) * time.Second,
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
