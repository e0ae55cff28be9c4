package providers

import (
	"errors"

	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
	"github.com/shiftmatch/shiftmatch-server/internal/mailer"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
	"github.com/shiftmatch/shiftmatch-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideMatchService provides the crawl-and-score service.
func ProvideMatchService(i do.Injector) (*service.MatchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	dialer := do.MustInvoke[*portal.Dialer](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewMatchService(dialer, storeHandle.Store, v, log.Logger, cfg.Store.RawHTMLTTL), nil
}

// ProvideSubscriberService provides the digest subscription service.
func ProvideSubscriberService(i do.Injector) (*service.SubscriberService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sealer := do.MustInvoke[*auth.Sealer](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewSubscriberService(storeHandle.Store, sealer, v, log.Logger), nil
}

// MailerHandle wraps the mailer, which may be absent when SMTP is not
// configured. Absent mail is not an error; the digest job just cannot run.
type MailerHandle struct {
	*mailer.Mailer
	Configured bool
}

// ProvideMailer provides the SMTP digest mailer.
func ProvideMailer(i do.Injector) (*MailerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	m, err := mailer.New(cfg.SMTP, log.Logger)
	if errors.Is(err, mailer.ErrNotConfigured) {
		log.Info("SMTP not configured, digest emails disabled")
		return &MailerHandle{Configured: false}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("Mailer ready", "host", cfg.SMTP.Host, "from", cfg.SMTP.From)

	return &MailerHandle{Mailer: m, Configured: true}, nil
}

// ProvideDigestService provides the daily digest round runner.
func ProvideDigestService(i do.Injector) (*service.DigestService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	dialer := do.MustInvoke[*portal.Dialer](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sealer := do.MustInvoke[*auth.Sealer](i)
	mailerHandle := do.MustInvoke[*MailerHandle](i)

	if !mailerHandle.Configured {
		return nil, nil
	}

	return service.NewDigestService(
		dialer,
		storeHandle.Store,
		sealer,
		mailerHandle.Mailer,
		log.Logger,
		cfg.Digest.TopN,
	), nil
}
