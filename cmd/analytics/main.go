package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/dawgdevv/4-rows-game/internal/analytics"
	"github.com/dawgdevv/4-rows-game/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	kafkaBrokers := strings.Split(config.GetEnv("KAFKA_BROKERS", "127.0.0.1:9094"), ",")
	kafkaTopic := config.GetEnv("KAFKA_TOPIC", "game-events")
	dbPath := config.GetEnv("ANALYTICS_DB", "analytics.db")
	apiPort := config.GetEnv("ANALYTICS_PORT", "8081")

	log.Printf("[ANALYTICS] Starting: brokers=%v topic=%s db=%s", kafkaBrokers, kafkaTopic, dbPath)

	store, err := analytics.NewStorage(dbPath)
	if err != nil {
		log.Fatalf("[ANALYTICS] Failed to initialize storage: %v", err)
	}
	defer store.Close()

	go serveAPI(apiPort, store)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers,
		Topic:    kafkaTopic,
		GroupID:  "analytics-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[ANALYTICS] Shutting down...")
		cancel()
	}()

	log.Println("[ANALYTICS] Consumer started, waiting for events...")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[ANALYTICS] Consumer stopped")
				return
			}
			log.Printf("[ANALYTICS] Error reading message: %v", err)
			continue
		}

		if err := store.ProcessMessage(msg.Value); err != nil {
			log.Printf("[ANALYTICS] Error processing event for room %s: %v", string(msg.Key), err)
		}
	}
}

func serveAPI(port string, store *analytics.Storage) {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/api/leaderboard", func(c *gin.Context) {
		limit := 10
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		entries, err := store.GetLeaderboard(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
			return
		}
		if entries == nil {
			entries = []analytics.LeaderboardEntry{}
		}
		c.JSON(http.StatusOK, entries)
	})

	router.GET("/api/stats", func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		stats, err := store.GetDailyStats(date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
			return
		}
		if stats == nil {
			c.JSON(http.StatusOK, gin.H{"date": date, "total_games": 0})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	log.Printf("[ANALYTICS] API server running on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Printf("[ANALYTICS] API server error: %v", err)
	}
}
