package metaapi

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/executor"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/metaapi/service"
)

// brokerAdapter подгоняет *service.Client под интерфейс оркестратора:
// конкретная *service.Session отдаётся как executor.Session.
type brokerAdapter struct {
	c *service.Client
}

func (b brokerAdapter) Account(ctx context.Context) (models.AccountInfo, error) {
	return b.c.Account(ctx)
}

func (b brokerAdapter) Deploy(ctx context.Context) error {
	return b.c.Deploy(ctx)
}

func (b brokerAdapter) Connect(ctx context.Context) (executor.Session, error) {
	sess, err := b.c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func Module() fx.Option {
	return fx.Module("metaapi",
		fx.Provide(
			service.NewClient,
		),
		fx.Provide(
			func(c *service.Client) executor.Broker {
				return brokerAdapter{c: c}
			},
		),
	)
}
