// Package di provides dependency injection configuration for the ShiftMatch server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/di/providers"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
	"github.com/shiftmatch/shiftmatch-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSealKey)
	do.Provide(injector, providers.ProvideSealer)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Portal layer
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideDialer)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideMatchService)
	do.Provide(injector, providers.ProvideSubscriberService)
	do.Provide(injector, providers.ProvideMailer)
	do.Provide(injector, providers.ProvideDigestService)

	// Workers
	do.Provide(injector, providers.ProvideScheduler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.SealKey](injector)
	_ = do.MustInvoke[*auth.Sealer](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*portal.Dialer](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.MatchService](injector)
	_ = do.MustInvoke[*service.SubscriberService](injector)
	_ = do.MustInvoke[*providers.MailerHandle](injector)

	// Workers
	_ = do.MustInvoke[*providers.SchedulerHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
