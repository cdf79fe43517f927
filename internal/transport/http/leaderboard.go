package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dawgdevv/4-rows-game/internal/repository/postgres"
	"github.com/dawgdevv/4-rows-game/internal/repository/redis"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	defaultTopN         = 10
	maxTopN             = 100
)

// LeaderboardHandler serves the top-N players by win count, fronted by a
// short-TTL cache so leaderboard polling never hammers the database.
type LeaderboardHandler struct {
	Repo     *postgres.StatsRepo
	Cache    *redis.Cache
	CacheTTL time.Duration
}

func NewLeaderboardHandler(repo *postgres.StatsRepo, cache *redis.Cache, ttl time.Duration) *LeaderboardHandler {
	return &LeaderboardHandler{Repo: repo, Cache: cache, CacheTTL: ttl}
}

func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	if h.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats store not configured"})
		return
	}

	limit := defaultTopN
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxTopN {
			limit = n
		}
	}

	cacheKey := leaderboardCacheKey + ":" + strconv.Itoa(limit)
	if cached, ok := h.Cache.Get(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	stats, err := h.Repo.TopPlayers(limit)
	if err != nil {
		log.Printf("[STATS] Leaderboard query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}

	body, err := json.Marshal(stats)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode leaderboard"})
		return
	}

	h.Cache.Set(c.Request.Context(), cacheKey, string(body), h.CacheTTL)
	c.Data(http.StatusOK, "application/json", body)
}
