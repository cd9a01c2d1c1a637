package signal

import (
	"errors"
	"reflect"
	"testing"

	"signal_bot/internal/instruments"
	"signal_bot/internal/models"
)

var tbl = instruments.Default()

const limitSignal = `Buy Limit GBPUSD
Entry 1.2500
SL 1.2450
TP 1.2550
TP 1.2600`

func TestParseBuyLimit(t *testing.T) {
	intent, err := Parse(limitSignal, 0.01, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if intent.Type != models.OrderBuyLimit {
		t.Fatalf("type = %q, want Buy Limit", intent.Type)
	}
	if intent.Symbol != "GBPUSD" {
		t.Fatalf("symbol = %q", intent.Symbol)
	}
	if intent.AtMarket || intent.Entry != 1.25 {
		t.Fatalf("entry = %v atMarket=%v", intent.Entry, intent.AtMarket)
	}
	if intent.StopLoss != 1.2450 {
		t.Fatalf("stopLoss = %v", intent.StopLoss)
	}
	if want := []float64{1.2550, 1.2600}; !reflect.DeepEqual(intent.TakeProfits, want) {
		t.Fatalf("takeProfits = %v, want %v", intent.TakeProfits, want)
	}
	if intent.RiskFraction != 0.01 {
		t.Fatalf("riskFraction = %v", intent.RiskFraction)
	}
}

func TestParseDeterministic(t *testing.T) {
	a, err := Parse(limitSignal, 0.01, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse(limitSignal, 0.01, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("один текст дал разные интенты: %+v vs %+v", a, b)
	}
}

// "Buy Limit" не должен распознаваться как "Buy": выигрывает более
// конкретная фраза.
func TestParseSpecificTypeWins(t *testing.T) {
	cases := map[string]models.OrderType{
		"Buy Limit GBPUSD\nEntry 1.2000\nSL 1.1950\nTP 1.2100":  models.OrderBuyLimit,
		"Sell Limit GBPUSD\nEntry 1.2000\nSL 1.2050\nTP 1.1900": models.OrderSellLimit,
		"Buy Stop GBPUSD\nEntry 1.2000\nSL 1.1950\nTP 1.2100":   models.OrderBuyStop,
		"Sell Stop GBPUSD\nEntry 1.2000\nSL 1.2050\nTP 1.1900":  models.OrderSellStop,
		"Buy GBPUSD\nEntry NOW\nSL 1.1950\nTP 1.2100":           models.OrderBuy,
		"sell gbpusd\nentry now\nSL 1.2050\nTP 1.1900":          models.OrderSell,
	}
	for text, want := range cases {
		intent, err := Parse(text, 0.01, tbl)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if intent.Type != want {
			t.Errorf("Parse(%q).Type = %q, want %q", text, intent.Type, want)
		}
	}
}

func TestParseMarketRequiresNow(t *testing.T) {
	intent, err := Parse("Buy EURUSD\nEntry NOW\nSL 1.0950\nTP 1.1100", 0.01, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !intent.AtMarket || intent.Entry != 0 {
		t.Fatalf("market intent: atMarket=%v entry=%v", intent.AtMarket, intent.Entry)
	}

	// число вместо NOW у рыночной заявки — ошибка
	if _, err := Parse("Buy EURUSD\nEntry 1.1000\nSL 1.0950\nTP 1.1100", 0.01, tbl); !errors.Is(err, ErrBadEntry) {
		t.Fatalf("err = %v, want ErrBadEntry", err)
	}
}

func TestParseUnknownSymbol(t *testing.T) {
	_, err := Parse("Buy ZZZZZZ\nEntry NOW\nSL 1.0\nTP 2.0", 0.01, tbl)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("err = %v, want ErrUnknownSymbol", err)
	}
	// регистр символа не важен
	if _, err := Parse("Buy eurusd\nEntry NOW\nSL 1.0950\nTP 1.1100", 0.01, tbl); err != nil {
		t.Fatalf("lowercase symbol: %v", err)
	}
}

func TestParseBadEntryOnPending(t *testing.T) {
	_, err := Parse("Buy Limit EURUSD\nEntry abc\nSL 1.0950\nTP 1.1100", 0.01, tbl)
	if !errors.Is(err, ErrBadEntry) {
		t.Fatalf("err = %v, want ErrBadEntry", err)
	}
}

func TestParseMissingField(t *testing.T) {
	_, err := Parse("Buy EURUSD\nEntry NOW\nSL 1.0950", 0.01, tbl)
	var bf *BadFieldError
	if !errors.As(err, &bf) {
		t.Fatalf("err = %v, want BadFieldError", err)
	}
	if bf.Line != 3 {
		t.Fatalf("line = %d, want 3", bf.Line)
	}
}

func TestParseMalformedNumber(t *testing.T) {
	_, err := Parse("Buy EURUSD\nEntry NOW\nSL oops\nTP 1.1100", 0.01, tbl)
	var bf *BadFieldError
	if !errors.As(err, &bf) {
		t.Fatalf("err = %v, want BadFieldError", err)
	}
	if bf.Line != 2 {
		t.Fatalf("line = %d, want 2", bf.Line)
	}
}

func TestParseExtraLinesIgnored(t *testing.T) {
	text := limitSignal + "\nTP 1.2700\nвсем удачи"
	intent, err := Parse(text, 0.01, tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(intent.TakeProfits) != 2 {
		t.Fatalf("takeProfits = %v, want 2 legs", intent.TakeProfits)
	}
}

func TestParseRejectsInvertedLevels(t *testing.T) {
	// у buy limit стоп обязан быть ниже входа
	_, err := Parse("Buy Limit GBPUSD\nEntry 1.2500\nSL 1.2550\nTP 1.2600", 0.01, tbl)
	if err == nil {
		t.Fatal("ожидали ошибку на SL выше входа")
	}
	// и цель выше входа
	_, err = Parse("Sell Limit GBPUSD\nEntry 1.2500\nSL 1.2550\nTP 1.2600", 0.01, tbl)
	if err == nil {
		t.Fatal("ожидали ошибку на TP выше входа у sell")
	}
}
