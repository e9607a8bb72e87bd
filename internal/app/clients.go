package app

import (
	"os"
	"strings"

	"github.com/youngclement/preziq-canvas-backend/internal/clients/gcp"
	redisclient "github.com/youngclement/preziq-canvas-backend/internal/clients/redis"
	"github.com/youngclement/preziq-canvas-backend/internal/events"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type Clients struct {
	Bucket gcp.BucketService
	// Bus fans out background changes. Redis-backed when REDIS_ADDR is set,
	// in-process otherwise.
	Bus      events.Bus
	RedisBus *redisclient.BackgroundBus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}

	clients := Clients{Bucket: bucket}
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		bus, err := redisclient.NewBackgroundBus(log)
		if err != nil {
			return Clients{}, err
		}
		clients.Bus = bus
		clients.RedisBus = bus
	} else {
		clients.Bus = events.NewHub(log)
	}
	return clients, nil
}
