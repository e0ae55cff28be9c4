package providers

import (
	"github.com/samber/do/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/logger"
)

// SealKey wraps the credential sealing key bytes.
type SealKey []byte

// ProvideSealKey loads or generates the credential sealing key.
func ProvideSealKey(i do.Injector) (SealKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("Credential sealing key loaded")

	return SealKey(key), nil
}

// ProvideSealer provides the secretbox credential sealer.
func ProvideSealer(i do.Injector) (*auth.Sealer, error) {
	key := do.MustInvoke[SealKey](i)
	return auth.NewSealer([]byte(key))
}
