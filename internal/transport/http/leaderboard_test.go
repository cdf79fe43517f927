package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLeaderboardWithoutStatsStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewLeaderboardHandler(nil, nil, 30*time.Second)
	router.GET("/api/leaderboard", h.Leaderboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "stats store not configured")
}
