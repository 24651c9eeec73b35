package worker

import (
	"log"
	"time"

	"locshare/internal/config"
	"locshare/internal/service/fence"
)

// StartFenceRefreshWorker starts the worker that rebuilds the active fence
// set from the circle list
func StartFenceRefreshWorker() {
	fenceService := fence.GetFenceService()

	ticker := time.NewTicker(config.FenceRefreshInterval)
	go func() {
		for range ticker.C {
			if err := fenceService.Refresh(); err != nil {
				log.Printf("Fence refresh worker: %v", err)
			}
		}
	}()

	log.Println("Fence refresh worker started with interval:", config.FenceRefreshInterval)
}
