package app

import (
	"context"
	"time"

	"github.com/betterlifeboard/lifeboard-api/internal/config"
	"github.com/betterlifeboard/lifeboard-api/internal/services"
)

var stopPushDispatcher = func() {}

// StartPushDispatcher runs the due-alarm scan on a ticker until shutdown.
func StartPushDispatcher() {
	cfg := config.Global().Push

	pushService := services.NewPushService(
		globalLogger,
		globalPostgresPool,
		globalRedisClient,
		services.PushOptions{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.Subscriber,
			DedupTTL:        cfg.DedupTTL,
			TTLSeconds:      cfg.TTLSeconds,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	stopPushDispatcher = func() {
		cancel()
		<-done
	}

	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		globalLogger.Info().
			Dur("interval", cfg.PollInterval).
			Msg("started push dispatcher")

		for {
			select {
			case <-ctx.Done():
				globalLogger.Info().Msg("stopped push dispatcher")
				return
			case <-ticker.C:
				err := pushService.SendDue(ctx, time.Now())
				if err != nil {
					globalLogger.Error().
						Err(err).
						Msg("failed to send due notifications")
				}
			}
		}
	}()
}
