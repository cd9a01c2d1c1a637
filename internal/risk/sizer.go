package risk

import (
	"errors"
	"fmt"
	"math"

	"signal_bot/internal/instruments"
	"signal_bot/internal/models"
)

var (
	// ErrZeroRisk — дистанция до стопа округлилась в 0 пипсов,
	// размер не считаем, делить на ноль не будем.
	ErrZeroRisk           = errors.New("нулевая дистанция до стопа")
	ErrNonPositiveBalance = errors.New("баланс <= 0")
	ErrNoEntryPrice       = errors.New("нет цены входа")
)

// Стоимость пипса стандартного лота в валюте счёта.
const pipValuePerLot = 10.0

// Шаг лота у брокера.
const LotStep = 0.01

// Size считает размер позиции от риска. entry — цена, от которой меряем
// дистанции: для limit/stop она берётся из самого интента, для рыночных
// вызывающий обязан передать живую котировку.
//
// Формула размера воспроизводится один в один, включая округление вниз
// к шагу 0.01: floor(((balance*risk)/slPips)/10*100)/100. Округление
// вверх здесь означало бы риск больше заявленного.
func Size(intent *models.OrderIntent, balance, entry float64, tbl *instruments.Table) (*models.SizedOrder, error) {
	if balance <= 0 {
		return nil, fmt.Errorf("%w: %.2f", ErrNonPositiveBalance, balance)
	}
	if !intent.AtMarket {
		entry = intent.Entry
	}
	if entry <= 0 {
		return nil, ErrNoEntryPrice
	}

	pip := tbl.PipSize(intent.Symbol, entry)

	slPips := pipsBetween(intent.StopLoss, entry, pip)
	if slPips == 0 {
		return nil, ErrZeroRisk
	}

	size := math.Floor(((balance*intent.RiskFraction)/float64(slPips))/pipValuePerLot*100) / 100

	tpPips := make([]int, len(intent.TakeProfits))
	for i, tp := range intent.TakeProfits {
		tpPips[i] = pipsBetween(tp, entry, pip)
	}

	return &models.SizedOrder{
		Intent:         *intent,
		EntryPrice:     entry,
		PipSize:        pip,
		StopLossPips:   slPips,
		TakeProfitPips: tpPips,
		PositionSize:   size,
		Balance:        balance,
	}, nil
}

// LegVolume — объём одной ноги: размер делим поровну на число целей и
// прижимаем вниз к шагу лота.
func LegVolume(o *models.SizedOrder) float64 {
	n := len(o.Intent.TakeProfits)
	if n == 0 {
		n = 1
	}
	v := o.PositionSize / float64(n)
	return math.Floor(v/LotStep+1e-9) * LotStep
}

// PotentialLoss — сколько теряем в валюте счёта, если цена дойдёт до стопа.
func PotentialLoss(o *models.SizedOrder) float64 {
	return round2(o.PositionSize * pipValuePerLot * float64(o.StopLossPips))
}

// PotentialProfit — потенциал i-й цели на объёме её ноги.
func PotentialProfit(o *models.SizedOrder, i int) float64 {
	if i < 0 || i >= len(o.TakeProfitPips) {
		return 0
	}
	return round2(LegVolume(o) * pipValuePerLot * float64(o.TakeProfitPips[i]))
}

func pipsBetween(a, b, pip float64) int {
	return int(math.Round(math.Abs(a-b) / pip))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
