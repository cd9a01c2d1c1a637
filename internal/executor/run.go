package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"

	"signal_bot/internal/models"
	"signal_bot/internal/risk"
	"signal_bot/pkg/logger"
)

// Execute прогоняет заявку до конца и возвращает отчёт. Ошибки стадий не
// паникуют и не роняют процесс — всё сворачивается в отчёт. Отмена ctx
// проверяется между стадиями, но никогда посреди отправки ноги.
func (e *Executor) Execute(ctx context.Context, chatID int64, o *models.SizedOrder, n Notifier) *models.ExecutionReport {
	span := opentracing.StartSpan("execute_order")
	span.SetTag("symbol", o.Intent.Symbol)
	span.SetTag("order_type", string(o.Intent.Type))
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	fail := func(stage models.ExecStage, err error) *models.ExecutionReport {
		span.SetTag("error", true)
		span.LogKV("stage", string(stage), "err", err.Error())
		logger.Error("[EXEC] %s %s: stage=%s err=%v", o.Intent.Type, o.Intent.Symbol, stage, err)
		return &models.ExecutionReport{Status: models.ExecFailed, FailedAt: stage, Err: err}
	}

	// --- Deploying ---
	span.LogKV("stage", string(models.StageDeploying))
	n.Progress(ctx, chatID, "⏳ Деплой терминала...")
	if err := e.ensureDeployed(ctx); err != nil {
		return fail(models.StageDeploying, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(models.StageDeploying, err)
	}

	// --- Connecting ---
	span.LogKV("stage", string(models.StageConnecting))
	n.Progress(ctx, chatID, "🔌 Открываю торговую сессию...")
	sess, err := e.broker.Connect(ctx)
	if err != nil {
		return fail(models.StageConnecting, fmt.Errorf("%w: %v", ErrConnectFailed, err))
	}
	// сессия закрывается на любом исходе, включая ошибки отправки
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Error("[EXEC] close session: %v", cerr)
		}
	}()

	// --- Synchronizing ---
	span.LogKV("stage", string(models.StageSynchronizing))
	n.Progress(ctx, chatID, "🔄 Жду синхронизацию терминала...")
	syncCtx, cancel := context.WithTimeout(ctx, e.cfg.SyncTimeout)
	err = sess.WaitSynchronized(syncCtx)
	cancel()
	if err != nil {
		if syncCtx.Err() != nil && ctx.Err() == nil {
			err = ErrSyncTimeout
		}
		return fail(models.StageSynchronizing, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(models.StageSynchronizing, err)
	}

	// --- PriceResolution (только рыночные) ---
	entry := o.EntryPrice
	if o.Intent.AtMarket {
		span.LogKV("stage", string(models.StagePrice))
		q, err := sess.Price(ctx, o.Intent.Symbol)
		if err != nil {
			return fail(models.StagePrice, fmt.Errorf("котировка %s: %w", o.Intent.Symbol, err))
		}
		// buy исполняется по ask, sell — по bid, всегда
		if o.Intent.Type.IsBuy() {
			entry = q.Ask
		} else {
			entry = q.Bid
		}
		if err := models.CheckLevels(o.Intent.Type, entry, o.Intent.StopLoss, o.Intent.TakeProfits); err != nil {
			return fail(models.StagePrice, fmt.Errorf("%w: %v", ErrInvertedLevels, err))
		}
		n.Progress(ctx, chatID, "💱 Цена входа: %.5f", entry)
	}

	// баланс на момент исполнения, а не на момент карточки: пересчитываем
	// размер от свежего equity и фактической цены входа
	acc, err := e.broker.Account(ctx)
	if err != nil {
		return fail(models.StageSubmitting, fmt.Errorf("баланс перед отправкой: %w", err))
	}
	sized, err := risk.Size(&o.Intent, acc.Balance, entry, e.tbl)
	if err != nil {
		return fail(models.StageSubmitting, fmt.Errorf("пересчёт размера: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return fail(models.StageSubmitting, err)
	}

	// --- Submitting ---
	span.LogKV("stage", string(models.StageSubmitting))
	legs := e.submitLegs(ctx, chatID, sized, entry, sess, n)

	rep := &models.ExecutionReport{
		Status: legStatus(legs),
		Entry:  entry,
		Legs:   legs,
	}
	span.SetTag("status", string(rep.Status))
	logger.Info("[EXEC] %s %s: status=%s legs=%d", o.Intent.Type, o.Intent.Symbol, rep.Status, len(legs))
	return rep
}

// ensureDeployed дожидается состояния DEPLOYED, при необходимости
// запрашивая деплой. Ожидание ограничено таймаутом, бесконечно не висим.
func (e *Executor) ensureDeployed(ctx context.Context) error {
	acc, err := e.broker.Account(ctx)
	if err != nil {
		return fmt.Errorf("account: %w", err)
	}
	if acc.State == models.DeployStateDeployed {
		return nil
	}
	if acc.State != models.DeployStateDeploying {
		if err := e.broker.Deploy(ctx); err != nil {
			return fmt.Errorf("deploy: %w", err)
		}
	}

	deadline := time.Now().Add(e.cfg.DeployTimeout)
	ticker := time.NewTicker(e.cfg.DeployPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			acc, err := e.broker.Account(ctx)
			if err != nil {
				return fmt.Errorf("account: %w", err)
			}
			if acc.State == models.DeployStateDeployed {
				return nil
			}
			if time.Now().After(deadline) {
				return ErrDeployTimeout
			}
		}
	}
}

// submitLegs отправляет по одной заявке на каждую цель TP. Ноги
// независимы на стороне брокера: ошибка одной не отменяет и не
// откатывает уже отправленные, исход каждой попадает в отчёт отдельно.
func (e *Executor) submitLegs(ctx context.Context, chatID int64, o *models.SizedOrder, entry float64, sess Session, n Notifier) []models.LegResult {
	vol := risk.LegVolume(o)
	legs := make([]models.LegResult, 0, len(o.Intent.TakeProfits))

	for i, tp := range o.Intent.TakeProfits {
		leg := models.LegResult{Leg: i + 1, TakeProfit: tp, Volume: vol}

		if vol <= 0 {
			leg.Err = fmt.Errorf("объём ноги после деления и округления равен 0 (size=%.2f)", o.PositionSize)
			legs = append(legs, leg)
			continue
		}

		req := models.OrderRequest{
			Type:       o.Intent.Type,
			Symbol:     o.Intent.Symbol,
			Volume:     vol,
			StopLoss:   o.Intent.StopLoss,
			TakeProfit: tp,
		}
		if !o.Intent.AtMarket {
			req.OpenPrice = o.Intent.Entry
		}

		res, err := sess.Submit(ctx, req)
		if err != nil {
			leg.Err = err
			n.Progress(ctx, chatID, "❗️ Нога %d/%d отклонена: %v", i+1, len(o.Intent.TakeProfits), err)
		} else {
			leg.OrderID = res.OrderID
			n.Progress(ctx, chatID, "✅ Нога %d/%d отправлена (orderId=%s)", i+1, len(o.Intent.TakeProfits), res.OrderID)
		}
		legs = append(legs, leg)
	}
	return legs
}

func legStatus(legs []models.LegResult) models.ExecStatus {
	okCnt := 0
	for _, l := range legs {
		if l.OK() {
			okCnt++
		}
	}
	switch {
	case len(legs) == 0 || okCnt == 0:
		return models.ExecFailed
	case okCnt == len(legs):
		return models.ExecOK
	default:
		return models.ExecPartial
	}
}
