package telegram

import (
	"context"

	"go.uber.org/fx"

	metaapi "signal_bot/internal/modules/metaapi/service"
	"signal_bot/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Адаптер: REST-клиент брокера как превью-источник баланса/котировок
		fx.Provide(
			func(c *metaapi.Client) service.Broker {
				return c
			},
		),

		fx.Provide(
			service.NewTelegram,
		),

		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						go func() {
							_ = t.Start(context.Background())
						}()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
