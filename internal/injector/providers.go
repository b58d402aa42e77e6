package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/bigtime/internal/config"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/engine"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	engine.New,
)

// ProvideLogger builds the process logger at the configured level.
func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.Level())
}
