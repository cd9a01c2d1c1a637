package models

// Состояния деплоя аккаунта на стороне брокера.
const (
	DeployStateDeployed   = "DEPLOYED"
	DeployStateDeploying  = "DEPLOYING"
	DeployStateUndeployed = "UNDEPLOYED"
)

type AccountInfo struct {
	ID      string
	Balance float64
	State   string // DEPLOYED / DEPLOYING / UNDEPLOYED
}

type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
}

// OrderRequest — одна заявка брокеру (одна нога).
type OrderRequest struct {
	Type       OrderType
	Symbol     string
	Volume     float64
	OpenPrice  float64 // 0 для рыночных
	StopLoss   float64
	TakeProfit float64
}

type OrderResult struct {
	OrderID string
	Code    string // строковый retcode брокера
}
