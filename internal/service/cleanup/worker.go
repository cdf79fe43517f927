package cleanup

import (
	"log"
	"time"

	"github.com/dawgdevv/4-rows-game/internal/service/match"
)

// Worker periodically destroys abandoned and idle rooms so the registry
// does not accumulate dead matches and their codes return to the pool.
type Worker struct {
	Registry *match.Registry
	Interval time.Duration
	MaxIdle  time.Duration
}

func NewWorker(registry *match.Registry, interval, maxIdle time.Duration) *Worker {
	return &Worker{Registry: registry, Interval: interval, MaxIdle: maxIdle}
}

// Start initiates the background ticker.
func (w *Worker) Start() {
	ticker := time.NewTicker(w.Interval)
	go func() {
		for range ticker.C {
			if removed := w.Registry.RemoveIdle(w.MaxIdle); removed > 0 {
				log.Printf("[CLEANUP] Removed %d stale rooms (%d live)", removed, w.Registry.Len())
			}
		}
	}()
	log.Printf("[CLEANUP] Background worker started (every %s, max idle %s)", w.Interval, w.MaxIdle)
}
