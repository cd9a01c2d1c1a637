package service

import (
	"fmt"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/internal/risk"
)

// formatTradeCard — карточка сделки перед подтверждением: пипсы, риск,
// размер, потенциальные потери/прибыль.
func formatTradeCard(o *models.SizedOrder) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*📋 %s %s*\n\n", o.Intent.Type, o.Intent.Symbol)

	if o.Intent.AtMarket {
		fmt.Fprintf(&b, "Вход: `по рынку` (сейчас ~`%s`)\n", fprice(o.EntryPrice))
	} else {
		fmt.Fprintf(&b, "Вход: `%s`\n", fprice(o.Intent.Entry))
	}
	fmt.Fprintf(&b, "Stop Loss: `%s` (`%d` пипсов)\n", fprice(o.Intent.StopLoss), o.StopLossPips)
	for i, tp := range o.Intent.TakeProfits {
		fmt.Fprintf(&b, "Take Profit %d: `%s` (`%d` пипсов)\n", i+1, fprice(tp), o.TakeProfitPips[i])
	}

	fmt.Fprintf(&b, "\nРиск: `%.2f%%` от депозита\n", o.Intent.RiskFraction*100)
	fmt.Fprintf(&b, "Баланс: `%.2f`\n", o.Balance)
	fmt.Fprintf(&b, "Размер: `%.2f` лота", o.PositionSize)
	if n := len(o.Intent.TakeProfits); n > 1 {
		fmt.Fprintf(&b, " (`%.2f` на ногу × %d)", risk.LegVolume(o), n)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Потенциальный убыток: `-%.2f`\n", risk.PotentialLoss(o))
	for i := range o.Intent.TakeProfits {
		fmt.Fprintf(&b, "Потенциал TP%d: `+%.2f`\n", i+1, risk.PotentialProfit(o, i))
	}

	b.WriteString("\nВойти в сделку? Ответь `confirm` или `decline`.")
	return b.String()
}

func formatReport(o *models.SizedOrder, rep *models.ExecutionReport) string {
	var b strings.Builder

	switch rep.Status {
	case models.ExecOK:
		fmt.Fprintf(&b, "*✅ %s %s — отправлено*\n", o.Intent.Type, o.Intent.Symbol)
	case models.ExecPartial:
		fmt.Fprintf(&b, "*⚠️ %s %s — отправлено частично*\n", o.Intent.Type, o.Intent.Symbol)
	default:
		fmt.Fprintf(&b, "*❌ %s %s — не отправлено*\n", o.Intent.Type, o.Intent.Symbol)
	}

	if rep.Err != nil {
		fmt.Fprintf(&b, "\nСтадия `%s`: %v\n", rep.FailedAt, rep.Err)
		return b.String()
	}

	if rep.Entry > 0 {
		fmt.Fprintf(&b, "Вход: `%s`\n", fprice(rep.Entry))
	}
	for _, leg := range rep.Legs {
		if leg.OK() {
			fmt.Fprintf(&b, "Нога %d: ✅ `%.2f` лота, TP `%s`, orderId `%s`\n",
				leg.Leg, leg.Volume, fprice(leg.TakeProfit), leg.OrderID)
		} else {
			fmt.Fprintf(&b, "Нога %d: ❌ %v\n", leg.Leg, leg.Err)
		}
	}
	return b.String()
}

func fprice(v float64) string {
	s := fmt.Sprintf("%.5f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
