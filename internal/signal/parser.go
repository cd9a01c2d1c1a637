package signal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"signal_bot/internal/instruments"
	"signal_bot/internal/models"
)

// Ошибки парсинга. Все восстановимые — оператору просто отвечаем, что
// сигнал кривой, и ждём следующий.
var (
	ErrUnknownOrderType = errors.New("не распознан тип заявки")
	ErrUnknownSymbol    = errors.New("неизвестный символ")
	ErrBadEntry         = errors.New("некорректная цена входа")
)

// BadFieldError — строка сигнала отсутствует или не парсится как число.
type BadFieldError struct {
	Line  int // индекс строки в сигнале, с нуля
	Field string
}

func (e *BadFieldError) Error() string {
	return fmt.Sprintf("строка %d (%s): отсутствует или не число", e.Line, e.Field)
}

// Ключевое слово входа по рынку в строке Entry.
const marketKeyword = "NOW"

// Порядок важен: "Buy Limit" обязан проверяться раньше "Buy", иначе
// общий префикс перехватит более конкретную фразу.
var orderTypes = []models.OrderType{
	models.OrderBuyLimit,
	models.OrderSellLimit,
	models.OrderBuyStop,
	models.OrderSellStop,
	models.OrderBuy,
	models.OrderSell,
}

// Parse разбирает сырой текст сигнала в OrderIntent. Чистая функция:
// ни сети, ни времени, одинаковый текст — одинаковый результат.
//
// Формат (построчно):
//
//	Buy Limit GBPUSD
//	Entry 1.2500
//	SL 1.2450
//	TP 1.2550
//	TP 1.2600   <- вторая цель опциональна
func Parse(text string, riskFraction float64, tbl *instruments.Table) (*models.OrderIntent, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrUnknownOrderType
	}

	intent := &models.OrderIntent{RiskFraction: riskFraction}

	head := strings.ToLower(lines[0])
	for _, t := range orderTypes {
		if strings.Contains(head, strings.ToLower(string(t))) {
			intent.Type = t
			break
		}
	}
	if intent.Type == "" {
		return nil, ErrUnknownOrderType
	}

	// символ — последний токен первой строки
	fields := strings.Fields(lines[0])
	intent.Symbol = strings.ToUpper(fields[len(fields)-1])
	if !tbl.Known(intent.Symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, intent.Symbol)
	}

	// entry: для рыночных принимаем только ключевое слово NOW,
	// для limit/stop — число
	entryTok, ok := lastToken(lines, 1)
	if !ok {
		return nil, &BadFieldError{Line: 1, Field: "entry"}
	}
	if intent.Type.IsMarket() {
		if !strings.EqualFold(entryTok, marketKeyword) {
			return nil, fmt.Errorf("%w: для рыночной заявки ожидается %q", ErrBadEntry, marketKeyword)
		}
		intent.AtMarket = true
	} else {
		v, err := strconv.ParseFloat(entryTok, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadEntry, entryTok)
		}
		intent.Entry = v
	}

	sl, err := numberAt(lines, 2, "stop loss")
	if err != nil {
		return nil, err
	}
	intent.StopLoss = sl

	tp1, err := numberAt(lines, 3, "take profit")
	if err != nil {
		return nil, err
	}
	intent.TakeProfits = []float64{tp1}

	// вторая цель опциональна, строки дальше четвёртой игнорируем
	if len(lines) > 4 {
		tp2, err := numberAt(lines, 4, "take profit 2")
		if err != nil {
			return nil, err
		}
		intent.TakeProfits = append(intent.TakeProfits, tp2)
	}

	// для заявок с явной ценой сразу проверяем стороны уровней;
	// рыночные проверяются оркестратором после резолва котировки
	if !intent.AtMarket {
		if err := models.CheckLevels(intent.Type, intent.Entry, intent.StopLoss, intent.TakeProfits); err != nil {
			return nil, fmt.Errorf("уровни перепутаны: %w", err)
		}
	}

	return intent, nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func lastToken(lines []string, idx int) (string, bool) {
	if idx >= len(lines) {
		return "", false
	}
	fields := strings.Fields(lines[idx])
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

func numberAt(lines []string, idx int, field string) (float64, error) {
	tok, ok := lastToken(lines, idx)
	if !ok {
		return 0, &BadFieldError{Line: idx, Field: field}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v <= 0 {
		return 0, &BadFieldError{Line: idx, Field: field}
	}
	return v, nil
}
