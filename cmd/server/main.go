package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dawgdevv/4-rows-game/internal/config"
	"github.com/dawgdevv/4-rows-game/internal/events"
	"github.com/dawgdevv/4-rows-game/internal/repository/postgres"
	"github.com/dawgdevv/4-rows-game/internal/repository/redis"
	"github.com/dawgdevv/4-rows-game/internal/service/cleanup"
	"github.com/dawgdevv/4-rows-game/internal/service/match"
	transportHttp "github.com/dawgdevv/4-rows-game/internal/transport/http"
	"github.com/dawgdevv/4-rows-game/internal/transport/http/middleware"
	"github.com/dawgdevv/4-rows-game/internal/transport/websocket"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.LoadConfig()

	// Stats store is a best-effort collaborator: the game server runs fine
	// without Postgres, it just records nothing.
	var statsRepo *postgres.StatsRepo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Printf("[STATS] Failed to open database: %v, stats disabled", err)
		} else {
			db.SetMaxOpenConns(cfg.DBMaxOpenConns)
			db.SetMaxIdleConns(cfg.DBMaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMin) * time.Minute)

			if err := db.Ping(); err != nil {
				log.Printf("[STATS] Database unreachable: %v, stats disabled", err)
				db.Close()
			} else if err := postgres.RunMigrations(db); err != nil {
				log.Printf("[STATS] Migration failed: %v, stats disabled", err)
				db.Close()
			} else {
				defer db.Close()
				statsRepo = postgres.NewStatsRepo(db)
				log.Println("[STATS] Postgres stats store ready")
			}
		}
	} else {
		log.Println("[STATS] DATABASE_URL not set, stats disabled")
	}

	cache := redis.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	defer cache.Close()

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	registry := match.NewRegistry()

	cleanupWorker := cleanup.NewWorker(registry, cfg.CleanupInterval, cfg.RoomMaxIdle)
	cleanupWorker.Start()

	hub := websocket.NewHub()
	deps := &websocket.Deps{
		Registry: registry,
		Events:   producer,
		BotDelay: cfg.BotMoveDelay,
	}
	if statsRepo != nil {
		deps.Stats = statsRepo
	}
	wsHandler := websocket.NewHandler(hub, deps)

	leaderboardHandler := transportHttp.NewLeaderboardHandler(statsRepo, cache, cfg.LeaderboardCacheTTL)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"clients": hub.ClientCount(),
			"rooms":   registry.Len(),
		})
	})
	router.GET("/api/leaderboard", leaderboardHandler.Leaderboard)
	router.GET("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
