package service

import (
	"context"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/gate"
	"signal_bot/pkg/logger"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		if !t.authorized(msg.From) {
			logger.Info("[TG] сообщение от чужого пользователя %q — игнорируем", userName(msg.From))
			return
		}
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				t.handleStart(ctx, chatID)
			case "help":
				t.handleHelp(ctx, chatID)
			}
			return
		}

		t.handleTextMessage(ctx, msg)
		return
	}

	// 2) Inline-кнопки карточки (CallbackQuery)
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		if !t.authorized(cb.From) {
			return
		}
		t.handleCallback(ctx, cb.Message.Chat.ID, cb)
		return
	}
}

func (t *Telegram) authorized(u *tgbot.User) bool {
	if t.cfg.Telegram.User == "" {
		return true
	}
	return u != nil && strings.EqualFold(u.UserName, t.cfg.Telegram.User)
}

func userName(u *tgbot.User) string {
	if u == nil {
		return ""
	}
	return u.UserName
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	msgText := "Привет! Я прокидываю торговые сигналы на MetaTrader-счёт.\n\n" +
		"Пришли сигнал в формате:\n\n" +
		"`Buy Limit GBPUSD`\n" +
		"`Entry 1.2500`\n" +
		"`SL 1.2450`\n" +
		"`TP 1.2550`\n" +
		"`TP 1.2600`\n\n" +
		"Для входа по рынку: `Buy EURUSD` и `Entry NOW`.\n" +
		"Я посчитаю размер от риска и спрошу подтверждение перед отправкой."

	msg := tgbot.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("handleStart: %v", err)
	}
}

func (t *Telegram) handleHelp(ctx context.Context, chatID int64) {
	msgText := "Типы заявок: `Buy`, `Sell`, `Buy Limit`, `Sell Limit`, `Buy Stop`, `Sell Stop`.\n" +
		"Одна или две цели TP, объём делится между ними поровну.\n\n" +
		"После карточки отвечай `confirm` или `decline` (или жми кнопки).\n" +
		"Новый сигнал до ответа заменяет предыдущий."

	msg := tgbot.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	_, _ = t.SendMessage(ctx, msg)
}

func (t *Telegram) handleTextMessage(ctx context.Context, msg *tgbot.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// confirm/decline обрабатываем в любом состоянии: гейт сам решает,
	// есть ли что подтверждать
	switch strings.ToLower(text) {
	case "confirm", "decline":
		t.handleDecision(ctx, chatID, strings.ToLower(text))
		return
	}

	// если висит карточка, а пришёл не confirm/decline и не новый сигнал —
	// гейт переспросит; новый сигнал просто перезапишет слот
	t.handleSignal(ctx, chatID, text)
}

// handleCallback обрабатывает кнопки карточки вида CONF::seq / REJ::seq.
func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbot.CallbackQuery) {
	// отвечаем ТГ, чтобы убрать "часики" на кнопке
	_, _ = t.bot.Request(tgbot.NewCallback(cb.ID, ""))

	verb, token := parseConfirmData(cb.Data)
	if verb == "" || token == "" {
		return
	}
	seq, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return
	}

	// клик по устаревшей карточке (слот уже перезаписан новым сигналом)
	// не должен подтвердить чужую заявку
	if cur, ok := t.gate.Seq(chatID); !ok || cur != seq {
		_ = t.editReplyMarkupRemove(chatID, cb.Message.MessageID)
		t.SendF(ctx, chatID, "⚠️ Эта карточка устарела, действует более свежий сигнал.")
		return
	}

	_ = t.editReplyMarkupRemove(chatID, cb.Message.MessageID)

	input := "decline"
	if verb == "CONF" {
		input = "confirm"
	}
	t.handleDecision(ctx, chatID, input)
}

func (t *Telegram) handleDecision(ctx context.Context, chatID int64, input string) {
	decision, pending := t.gate.Resolve(chatID, input)
	switch decision {
	case gate.DecisionConfirm:
		t.SendF(ctx, chatID, "🚀 Принято, отправляю %s %s...", pending.Intent.Type, pending.Intent.Symbol)
		// исполнение не держит цикл обновлений
		go t.runExecution(ctx, chatID, pending)
	case gate.DecisionDecline:
		t.SendF(ctx, chatID, "🛑 Заявка снята. Пришли новый сигнал.")
	default:
		// confirm/decline без отложенной заявки — просто переспрашиваем
		t.SendF(ctx, chatID, "🤷 Подтверждать нечего: нет заявки в ожидании. Пришли сигнал.")
	}
}

func parseConfirmData(data string) (verb, token string) {
	for i := 0; i < len(data); i++ {
		if i+1 < len(data) && data[i] == ':' && data[i+1] == ':' {
			return data[:i], data[i+2:]
		}
	}
	return "", ""
}
