package models

import "fmt"

// OrderType — тип заявки как он приходит в сигнале.
type OrderType string

const (
	OrderBuy       OrderType = "Buy"
	OrderSell      OrderType = "Sell"
	OrderBuyLimit  OrderType = "Buy Limit"
	OrderSellLimit OrderType = "Sell Limit"
	OrderBuyStop   OrderType = "Buy Stop"
	OrderSellStop  OrderType = "Sell Stop"
)

// IsMarket — вход по рынку (цена определяется котировкой, а не сигналом).
func (t OrderType) IsMarket() bool {
	return t == OrderBuy || t == OrderSell
}

func (t OrderType) IsBuy() bool {
	return t == OrderBuy || t == OrderBuyLimit || t == OrderBuyStop
}

// OrderIntent — распарсенный сигнал. После парсинга не меняется.
type OrderIntent struct {
	Type   OrderType
	Symbol string

	// Entry > 0 только для limit/stop. Для рыночных AtMarket=true, Entry=0.
	Entry    float64
	AtMarket bool

	StopLoss    float64
	TakeProfits []float64 // 1 или 2 цели, по возрастанию удалённости

	RiskFraction float64 // (0, 1], фиксируется конфигом, не сигналом
}

// SizedOrder — OrderIntent плюс расчёт размера. Живёт один цикл
// подтверждения, дальше выбрасывается.
type SizedOrder struct {
	Intent OrderIntent

	// EntryPrice — цена, от которой считали пипсы. Для limit/stop это
	// Intent.Entry, для рыночных — котировка на момент расчёта
	// (перед отправкой оркестратор пересчитает от живой цены).
	EntryPrice float64

	PipSize        float64
	StopLossPips   int
	TakeProfitPips []int

	PositionSize float64 // лоты, с шагом 0.01, округление всегда вниз

	// Balance — снапшот на момент расчёта. Только для карточки в чате,
	// перед исполнением баланс запрашивается заново.
	Balance float64
}

// CheckLevels проверяет, что entry/SL/TP стоят по правильные стороны
// для данного направления: buy — SL < entry < TP, sell — наоборот.
func CheckLevels(t OrderType, entry, stopLoss float64, takeProfits []float64) error {
	if t.IsBuy() {
		if stopLoss >= entry {
			return fmt.Errorf("stop loss %.5f не ниже входа %.5f", stopLoss, entry)
		}
		for i, tp := range takeProfits {
			if tp <= entry {
				return fmt.Errorf("take profit %d (%.5f) не выше входа %.5f", i+1, tp, entry)
			}
		}
		return nil
	}
	if stopLoss <= entry {
		return fmt.Errorf("stop loss %.5f не выше входа %.5f", stopLoss, entry)
	}
	for i, tp := range takeProfits {
		if tp >= entry {
			return fmt.Errorf("take profit %d (%.5f) не ниже входа %.5f", i+1, tp, entry)
		}
	}
	return nil
}
