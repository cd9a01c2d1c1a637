package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"signal_bot/internal/models"
)

// Маппинг типа заявки в actionType облака. Ключи — ровно наши OrderType.
var actionTypes = map[models.OrderType]string{
	models.OrderBuy:       "ORDER_TYPE_BUY",
	models.OrderSell:      "ORDER_TYPE_SELL",
	models.OrderBuyLimit:  "ORDER_TYPE_BUY_LIMIT",
	models.OrderSellLimit: "ORDER_TYPE_SELL_LIMIT",
	models.OrderBuyStop:   "ORDER_TYPE_BUY_STOP",
	models.OrderSellStop:  "ORDER_TYPE_SELL_STOP",
}

// Реткод успешной заявки у MT5.
const retcodeDone = "TRADE_RETCODE_DONE"

// Submit отправляет одну ногу через REST /trade. Ошибка здесь — ошибка
// именно этой ноги, соседние она не трогает.
func (s *Session) Submit(ctx context.Context, r models.OrderRequest) (models.OrderResult, error) {
	action, ok := actionTypes[r.Type]
	if !ok {
		return models.OrderResult{}, fmt.Errorf("submit: неизвестный тип заявки %q", r.Type)
	}
	if r.Volume <= 0 {
		return models.OrderResult{}, fmt.Errorf("submit: volume <= 0")
	}

	body := tradeRequest{
		ActionType: action,
		Symbol:     r.Symbol,
		Volume:     r.Volume,
		OpenPrice:  r.OpenPrice,
		StopLoss:   r.StopLoss,
		TakeProfit: r.TakeProfit,
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return models.OrderResult{}, fmt.Errorf("submit marshal: %w", err)
	}

	c := s.client
	req, err := c.generateRequest(ctx, http.MethodPost, c.accountPath("/trade"), payload)
	if err != nil {
		return models.OrderResult{}, err
	}
	data, err := c.doRaw(req)
	if err != nil {
		return models.OrderResult{}, fmt.Errorf("submit %s %s: %w", action, r.Symbol, err)
	}

	var res tradeResponse
	if err := sonic.Unmarshal(data, &res); err != nil {
		return models.OrderResult{}, fmt.Errorf("submit decode: %w; raw=%s", err, string(data))
	}
	if res.StringCode != retcodeDone {
		return models.OrderResult{}, fmt.Errorf(
			"submit rejected: code=%d (%s) %s", res.NumericCode, res.StringCode, res.Message,
		)
	}
	return models.OrderResult{OrderID: res.OrderID, Code: res.StringCode}, nil
}
