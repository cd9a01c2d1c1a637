package executor

import (
	"go.uber.org/fx"

	"signal_bot/internal/gate"
	"signal_bot/internal/instruments"
	"signal_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			func(cfg *config.Config) (*instruments.Table, error) {
				return instruments.NewFromFile(cfg.InstrumentsFile)
			},
		),
		fx.Provide(
			gate.New,
		),
		fx.Provide(
			func(b Broker, tbl *instruments.Table, cfg *config.Config) *Executor {
				return New(b, tbl, Config{
					DeployTimeout: cfg.DeployTimeout,
					SyncTimeout:   cfg.SyncTimeout,
				})
			},
		),
	)
}
