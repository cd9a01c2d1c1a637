package service

// REST-представление аккаунта в облаке брокера.
type accountResponse struct {
	ID      string  `json:"_id"`
	State   string  `json:"state"` // DEPLOYED / DEPLOYING / UNDEPLOYED
	Balance float64 `json:"balance"`
}

type priceResponse struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

// Тело заявки /trade. actionType в терминах MT5-облака.
type tradeRequest struct {
	ActionType string  `json:"actionType"`
	Symbol     string  `json:"symbol"`
	Volume     float64 `json:"volume"`
	OpenPrice  float64 `json:"openPrice,omitempty"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
}

type tradeResponse struct {
	NumericCode int    `json:"numericCode"`
	StringCode  string `json:"stringCode"`
	Message     string `json:"message"`
	OrderID     string `json:"orderId"`
}

// Кадры websocket-сессии терминала.
type wsFrame struct {
	Type         string  `json:"type"` // status / price / error
	RequestID    int64   `json:"requestId,omitempty"`
	Synchronized bool    `json:"synchronized,omitempty"`
	Symbol       string  `json:"symbol,omitempty"`
	Bid          float64 `json:"bid,omitempty"`
	Ask          float64 `json:"ask,omitempty"`
	Message      string  `json:"message,omitempty"`
}
