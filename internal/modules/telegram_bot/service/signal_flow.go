package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
	"signal_bot/internal/risk"
	"signal_bot/internal/signal"
	"signal_bot/pkg/logger"
)

// handleSignal: текст -> интент -> размер -> карточка -> слот гейта.
// Капитал на этом этапе не трогаем, только считаем и спрашиваем.
func (t *Telegram) handleSignal(ctx context.Context, chatID int64, text string) {
	intent, err := signal.Parse(text, t.cfg.RiskFraction, t.exec.Table())
	if err != nil {
		t.replyParseError(ctx, chatID, err)
		return
	}
	t.state.TouchSignal(time.Now())

	reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	acc, err := t.broker.Account(reqCtx)
	if err != nil {
		logger.Error("[TG] account: %v", err)
		t.SendF(ctx, chatID, "❗️ Не удалось получить баланс счёта: %v", err)
		return
	}

	// для рыночных карточка считается от текущей котировки; перед
	// отправкой оркестратор всё равно пересчитает от живой цены
	entry := intent.Entry
	if intent.AtMarket {
		q, err := t.broker.CurrentPrice(reqCtx, intent.Symbol)
		if err != nil {
			logger.Error("[TG] price %s: %v", intent.Symbol, err)
			t.SendF(ctx, chatID, "❗️ Нет котировки по %s: %v", intent.Symbol, err)
			return
		}
		if intent.Type.IsBuy() {
			entry = q.Ask
		} else {
			entry = q.Bid
		}
		if err := models.CheckLevels(intent.Type, entry, intent.StopLoss, intent.TakeProfits); err != nil {
			t.SendF(ctx, chatID, "❌ По текущей цене %.5f уровни перепутаны: %v", entry, err)
			return
		}
	}

	sized, err := risk.Size(intent, acc.Balance, entry, t.exec.Table())
	if err != nil {
		t.replySizeError(ctx, chatID, err)
		return
	}

	seq := t.gate.Offer(chatID, sized)

	card := tgbot.NewMessage(chatID, formatTradeCard(sized))
	card.ParseMode = "Markdown"
	card.ReplyMarkup = confirmKeyboard(seq)
	if _, err := t.SendMessage(ctx, card); err != nil {
		logger.Error("[TG] send card: %v", err)
	}
}

func confirmKeyboard(seq uint64) tgbot.InlineKeyboardMarkup {
	btnYes := tgbot.NewInlineKeyboardButtonData("✅ Войти", fmt.Sprintf("CONF::%d", seq))
	btnNo := tgbot.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("REJ::%d", seq))
	return tgbot.NewInlineKeyboardMarkup(tgbot.NewInlineKeyboardRow(btnYes, btnNo))
}

func (t *Telegram) replyParseError(ctx context.Context, chatID int64, err error) {
	var badField *signal.BadFieldError
	switch {
	case errors.Is(err, signal.ErrUnknownOrderType):
		t.SendF(ctx, chatID, "🤔 Не понял тип заявки. Первая строка должна содержать Buy/Sell (Limit/Stop). /help")
	case errors.Is(err, signal.ErrUnknownSymbol):
		t.SendF(ctx, chatID, "❌ %v", err)
	case errors.Is(err, signal.ErrBadEntry):
		t.SendF(ctx, chatID, "❌ %v", err)
	case errors.As(err, &badField):
		t.SendF(ctx, chatID, "❌ Кривой сигнал: %v", err)
	default:
		t.SendF(ctx, chatID, "❌ Невалидный сигнал: %v. Пришли заново.", err)
	}
}

func (t *Telegram) replySizeError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, risk.ErrZeroRisk):
		t.SendF(ctx, chatID, "❌ Стоп совпадает с ценой входа (0 пипсов риска) — размер не посчитать.")
	case errors.Is(err, risk.ErrNonPositiveBalance):
		t.SendF(ctx, chatID, "❌ Баланс счёта не положительный, торговать нечем.")
	default:
		t.SendF(ctx, chatID, "❌ Ошибка расчёта размера: %v", err)
	}
}

// runExecution гонит подтверждённую заявку через оркестратор и
// репортит итог. Ошибки исполнения процесс не роняют никогда.
func (t *Telegram) runExecution(ctx context.Context, chatID int64, o *models.SizedOrder) {
	t.state.IncExecRuns()
	rep := t.exec.Execute(ctx, chatID, o, t)

	msg := tgbot.NewMessage(chatID, formatReport(o, rep))
	msg.ParseMode = "Markdown"
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("[TG] send report: %v", err)
	}
}
