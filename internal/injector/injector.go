//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/nsqcore/internal/core/config"
	"github.com/zeusync/nsqcore/internal/core/retry"
)

func InitializeSupervisor(cfg *config.Config, reg prometheus.Registerer) *retry.Supervisor {
	wire.Build(ProviderSet)
	return nil
}
