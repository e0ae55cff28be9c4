package providers

import (
	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/ratelimit"
)

// RateLimiterHandle wraps the keyed rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-host portal request limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Portal.RPS, cfg.Portal.Burst),
	}, nil
}

// ProvideDialer provides the portal session dialer.
func ProvideDialer(i do.Injector) (*portal.Dialer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	dialer, err := portal.NewDialer(cfg.Portal.BaseURL, cfg.Portal.Timeout, limiter.KeyedRateLimiter, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Portal dialer ready",
		"base_url", cfg.Portal.BaseURL,
		"rps", cfg.Portal.RPS,
		"burst", cfg.Portal.Burst,
	)

	return dialer, nil
}
