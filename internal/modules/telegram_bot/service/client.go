package service

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/executor"
	"signal_bot/internal/gate"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
)

// Broker — что нужно транспорту от брокера до исполнения: баланс для
// расчёта карточки и REST-котировка для рыночных сигналов.
type Broker interface {
	Account(ctx context.Context) (models.AccountInfo, error)
	CurrentPrice(ctx context.Context, symbol string) (models.Quote, error)
}

// Telegram — чат-транспорт: принимает сигналы и confirm/decline,
// показывает карточку риска и отчёт исполнения.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	gate   *gate.Gate
	exec   *executor.Executor
	broker Broker
	state  *health.State

	cancel context.CancelFunc
}

func NewTelegram(
	cfg *config.Config,
	g *gate.Gate,
	exec *executor.Executor,
	broker Broker,
	state *health.State,
) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:    b,
		cfg:    cfg,
		gate:   g,
		exec:   exec,
		broker: broker,
		state:  state,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.bot.Send(message)
}

// Progress — прогресс-сообщения оркестратора (executor.Notifier).
func (t *Telegram) Progress(ctx context.Context, chatID int64, format string, args ...any) {
	if _, err := t.SendF(ctx, chatID, format, args...); err != nil {
		logger.Error("progress send: %v", err)
	}
}

func (t *Telegram) editReplyMarkupRemove(chatID int64, msgID int) error {
	rm := tgbot.InlineKeyboardMarkup{InlineKeyboard: [][]tgbot.InlineKeyboardButton{}}
	edit := tgbot.NewEditMessageReplyMarkup(chatID, msgID, rm)
	_, err := t.bot.Request(edit)
	return err
}

// Start ...
func (t *Telegram) Start(ctx context.Context) error {
	ctx, t.cancel = context.WithCancel(ctx)

	// янитор: висящая без ответа заявка авто-отклоняется по TTL
	go t.expireLoop(ctx)

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	t.state.SetReady(true)
	logger.Info("[TG] бот запущен, авторизованный оператор: %q", t.cfg.Telegram.User)

	for update := range updates {
		t.handleUpdate(ctx, update)
	}
	return nil
}

func (t *Telegram) Stop() {
	t.state.SetReady(false)
	if t.cancel != nil {
		t.cancel()
	}
	t.bot.StopReceivingUpdates()
}

func (t *Telegram) expireLoop(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, chatID := range t.gate.Expire(t.cfg.ConfirmTTL) {
				t.SendF(ctx, chatID,
					"⏳ Заявка висела без ответа %s и снята автоматически. Пришли новый сигнал.",
					t.cfg.ConfirmTTL)
			}
		}
	}
}
