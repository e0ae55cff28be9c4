package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
	"github.com/shiftmatch/shiftmatch-server/internal/scheduler"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
)

// SchedulerHandle wraps the cron scheduler with shutdown capability.
type SchedulerHandle struct {
	*scheduler.Scheduler
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *SchedulerHandle) Shutdown() error {
	if h.started {
		h.Stop()
	}
	return nil
}

// ProvideScheduler provides the cron scheduler with the digest job wired in.
// The scheduler only starts when the digest is enabled and mail is configured.
func ProvideScheduler(i do.Injector) (*SchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Digest.Enabled {
		log.Info("Digest schedule disabled by configuration")
		return &SchedulerHandle{started: false}, nil
	}

	digestService := do.MustInvoke[*service.DigestService](i)
	if digestService == nil {
		log.Info("Digest schedule skipped, SMTP not configured")
		return &SchedulerHandle{started: false}, nil
	}

	sched := scheduler.New(log.Logger)

	err := sched.AddJob(cfg.Digest.Schedule, "daily-digest", func(ctx context.Context) {
		result, err := digestService.Run(ctx)
		if err != nil {
			log.Error("Digest round failed", "error", err)
			return
		}
		log.Info("Digest round completed",
			"subscribers", result.Subscribers,
			"sent", result.Sent,
			"failed", result.Failed,
		)
	})
	if err != nil {
		return nil, err
	}

	sched.Start()

	log.Info("Digest scheduled", "schedule", cfg.Digest.Schedule, "top_n", cfg.Digest.TopN)

	return &SchedulerHandle{Scheduler: sched, started: true}, nil
}
