package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dawgdevv/4-rows-game/internal/service/match"
)

// GameCompletedEvent is published once per concluded game.
type GameCompletedEvent struct {
	Type            string    `json:"type"`
	RoomCode        string    `json:"room_code"`
	Player1Name     string    `json:"player1_name"`
	Player2Name     string    `json:"player2_name"`
	Winner          int       `json:"winner"` // 1, 2, or 0 (draw)
	IsBotGame       bool      `json:"is_bot_game"`
	DurationSeconds int64     `json:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// Producer publishes game events to Kafka. Publishing is best-effort: the
// game server never blocks or fails a match on a broker problem.
type Producer struct {
	writer  *kafka.Writer
	enabled bool
}

// NewProducer connects to the brokers and probes the topic. When the probe
// fails the producer stays constructed but disabled, so callers need no
// nil checks and the server runs without Kafka.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	p := &Producer{writer: writer, enabled: true}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	probe := kafka.Message{
		Key:   []byte("probe"),
		Value: []byte(`{"type":"connection_probe"}`),
	}
	if err := writer.WriteMessages(ctx, probe); err != nil {
		log.Printf("[KAFKA] Connection failed: %v, game events will not be published", err)
		p.enabled = false
	} else {
		log.Printf("[KAFKA] Producer connected, topic %q", topic)
	}

	return p
}

// PublishGameCompleted publishes one result, keyed by room code.
func (p *Producer) PublishGameCompleted(res match.Result) {
	if p == nil || !p.enabled {
		return
	}

	event := GameCompletedEvent{
		Type:            "game_completed",
		RoomCode:        res.RoomCode,
		Player1Name:     res.Player1Name,
		Player2Name:     res.Player2Name,
		Winner:          res.Winner,
		IsBotGame:       res.IsBotGame,
		DurationSeconds: res.DurationSeconds,
		Timestamp:       time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[KAFKA] Error marshaling game event: %v", err)
		return
	}

	err = p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.RoomCode),
		Value: data,
	})
	if err != nil {
		log.Printf("[KAFKA] Error publishing game event for room %s: %v", event.RoomCode, err)
	}
}

func (p *Producer) Close() error {
	if p != nil && p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
