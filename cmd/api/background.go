package main

import (
	"context"
	"time"
)

// Tokens untouched for this long are considered abandoned devices.
const stalePushTokenAge = 90 * 24 * time.Hour

func (app *application) pruneStalePushTokensDaily() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		// Run once immediately
		app.pruneStalePushTokens()

		// Then run every 24 hours
		for range ticker.C {
			app.pruneStalePushTokens()
		}
	}()
}

func (app *application) pruneStalePushTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := app.store.PushTokens.PruneStale(ctx, stalePushTokenAge)
	if err != nil {
		app.logger.Errorf("Error pruning stale push tokens: %v", err)
	} else {
		app.logger.Infof("Successfully pruned stale push tokens at %s", time.Now().Format(time.RFC1123))
	}
}
