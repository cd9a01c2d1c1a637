package instruments

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Встроенный список инструментов. Значение — фиксированный размер пипса,
// 0 — пипс выводится из цены (см. PipSize).
var builtin = map[string]float64{
	"AUDCAD": 0, "AUDCHF": 0, "AUDJPY": 0, "AUDNZD": 0, "AUDUSD": 0,
	"CADCHF": 0, "CADJPY": 0, "CHFJPY": 0,
	"EURAUD": 0, "EURCAD": 0, "EURCHF": 0, "EURGBP": 0, "EURJPY": 0,
	"EURNZD": 0, "EURUSD": 0,
	"GBPAUD": 0, "GBPCAD": 0, "GBPCHF": 0, "GBPJPY": 0, "GBPNZD": 0,
	"GBPUSD": 0,
	"NZDCAD": 0, "NZDCHF": 0, "NZDJPY": 0, "NZDUSD": 0,
	"USDCAD": 0, "USDCHF": 0, "USDJPY": 0,

	// металлы — фиксированные конвенции
	"XAUUSD": 0.1,
	"XAGUSD": 0.001,
}

// Table — реестр торгуемых символов. Собирается на старте и дальше
// только читается, лочить нечего.
type Table struct {
	pips map[string]float64
}

func Default() *Table {
	return New(nil)
}

// New строит таблицу из встроенного списка плюс дополнительные символы
// (например BTCUSD) с явным размером пипса.
func New(extra map[string]float64) *Table {
	m := make(map[string]float64, len(builtin)+len(extra))
	for s, p := range builtin {
		m[s] = p
	}
	for s, p := range extra {
		m[strings.ToUpper(strings.TrimSpace(s))] = p
	}
	return &Table{pips: m}
}

// NewFromFile — New плюс yaml-файл вида "BTCUSD: 0.1". Пустой путь — без файла.
func NewFromFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("instruments file: %w", err)
	}
	extra := map[string]float64{}
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("instruments yaml: %w", err)
	}
	for s, p := range extra {
		if p <= 0 {
			return nil, fmt.Errorf("instrument %s: pip size must be > 0", s)
		}
	}
	return New(extra), nil
}

func (t *Table) Known(symbol string) bool {
	_, ok := t.pips[strings.ToUpper(symbol)]
	return ok
}

// PipSize возвращает размер пипса для символа. Решение принимается от
// числовой цены входа, не от строки сигнала: у пар с 3-значной
// котировкой (JPY-стиль, целая часть >= 10) пипс 0.01, у остальных 0.0001.
// Для символов с фиксированной конвенцией цена не важна.
func (t *Table) PipSize(symbol string, entry float64) float64 {
	if p := t.pips[strings.ToUpper(symbol)]; p > 0 {
		return p
	}
	if entry >= 10 {
		return 0.01
	}
	return 0.0001
}

func (t *Table) Len() int { return len(t.pips) }
