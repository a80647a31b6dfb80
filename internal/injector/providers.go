package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/nsqcore/internal/core/config"
	"github.com/zeusync/nsqcore/internal/core/observability/log"
	"github.com/zeusync/nsqcore/internal/core/observability/metrics"
	"github.com/zeusync/nsqcore/internal/core/retry"
)

// ProviderSet builds a retry.Supervisor out of a *config.Config and a
// prometheus.Registerer.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideRecorder,
	ProvideRegistry,
	ProvideSupervisor,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

// ProvideRecorder returns a no-op recorder when reg is nil.
func ProvideRecorder(reg prometheus.Registerer) metrics.Recorder {
	if reg == nil {
		return metrics.Nop{}
	}
	return metrics.NewPrometheus(reg)
}

func ProvideRegistry(cfg *config.Config) *retry.Registry {
	return retry.NewRegistry(cfg.Backoff)
}

func ProvideSupervisor(registry *retry.Registry, logger log.Log, rec metrics.Recorder, cfg *config.Config) *retry.Supervisor {
	return retry.NewSupervisor(registry, logger, rec, cfg.Retry)
}
