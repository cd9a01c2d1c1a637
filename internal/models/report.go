package models

// Стадии прогона оркестратора.
type ExecStage string

const (
	StageCreated       ExecStage = "created"
	StageDeploying     ExecStage = "deploying"
	StageConnecting    ExecStage = "connecting"
	StageSynchronizing ExecStage = "synchronizing"
	StagePrice         ExecStage = "price_resolution"
	StageSubmitting    ExecStage = "submitting"
	StageClosed        ExecStage = "closed"
)

type ExecStatus string

const (
	ExecOK      ExecStatus = "OK"      // все ноги отправлены
	ExecPartial ExecStatus = "PARTIAL" // часть ног отклонена
	ExecFailed  ExecStatus = "FAILED"  // до отправки не дошли либо все ноги упали
)

// LegResult — исход одной ноги (одна цель TP = один ордер у брокера).
// Ошибка одной ноги не откатывает уже отправленные.
type LegResult struct {
	Leg        int // 1-based
	TakeProfit float64
	Volume     float64
	OrderID    string
	Err        error
}

func (l LegResult) OK() bool { return l.Err == nil }

// ExecutionReport — итог прогона. FailedAt/Err заполнены, если прогон
// оборвался до отправки либо на резолве цены.
type ExecutionReport struct {
	Status   ExecStatus
	FailedAt ExecStage
	Err      error
	Entry    float64 // фактическая цена входа (для рыночных — котировка)
	Legs     []LegResult
}
