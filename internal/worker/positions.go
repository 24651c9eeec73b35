package worker

import (
	"log"
	"time"

	"locshare/internal/config"
	"locshare/internal/service/arrival"
)

// StartPositionFlushWorker starts the worker that persists dirty last-known
// positions to Redis
func StartPositionFlushWorker() {
	arrivalService := arrival.GetArrivalService()

	ticker := time.NewTicker(config.PositionFlushInterval)
	go func() {
		for range ticker.C {
			if err := arrivalService.PersistPositions(); err != nil {
				log.Printf("Position flush worker: %v", err)
			}
		}
	}()

	log.Println("Position flush worker started with interval:", config.PositionFlushInterval)
}
