// Command digest runs one digest round immediately and exits. Useful for
// testing the crawl-score-email pipeline without waiting for the schedule.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/di"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
)

func main() {
	injector := di.NewContainer()

	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	digestService, err := do.Invoke[*service.DigestService](injector)
	if err != nil {
		log.Error("Failed to build digest service", "error", err)
		os.Exit(1)
	}
	if digestService == nil {
		log.Error("SMTP is not configured, set SMTP_HOST, SMTP_USERNAME and SMTP_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := digestService.Run(ctx)
	if err != nil {
		log.Error("Digest round failed", "error", err)
		os.Exit(1)
	}

	log.Info("Digest round completed",
		"subscribers", result.Subscribers,
		"sent", result.Sent,
		"failed", result.Failed,
	)

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
