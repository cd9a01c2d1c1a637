package instruments

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKnown(t *testing.T) {
	tbl := Default()
	if !tbl.Known("EURUSD") {
		t.Fatal("EURUSD должен быть встроен")
	}
	if !tbl.Known("eurusd") {
		t.Fatal("регистр символа не важен")
	}
	if tbl.Known("FOOBAR") {
		t.Fatal("FOOBAR не должен быть известен")
	}
}

func TestPipSize(t *testing.T) {
	tbl := Default()
	cases := []struct {
		symbol string
		entry  float64
		want   float64
	}{
		{"EURUSD", 1.1000, 0.0001},
		{"USDJPY", 145.50, 0.01},  // 3-значная котировка
		{"XAUUSD", 2000.0, 0.1},   // фиксированная конвенция, цена не важна
		{"XAGUSD", 23.5, 0.001},
	}
	for _, c := range cases {
		if got := tbl.PipSize(c.symbol, c.entry); got != c.want {
			t.Errorf("PipSize(%s, %v) = %v, want %v", c.symbol, c.entry, got, c.want)
		}
	}
}

func TestNewExtraSymbols(t *testing.T) {
	tbl := New(map[string]float64{" btcusd ": 0.1})
	if !tbl.Known("BTCUSD") {
		t.Fatal("дополнительный символ должен нормализоваться и попасть в таблицу")
	}
	if got := tbl.PipSize("BTCUSD", 64000); got != 0.1 {
		t.Fatalf("PipSize(BTCUSD) = %v, want 0.1", got)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.yaml")
	if err := os.WriteFile(path, []byte("BTCUSD: 0.1\nETHUSD: 0.01\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	if !tbl.Known("BTCUSD") || !tbl.Known("ETHUSD") {
		t.Fatal("символы из файла должны быть известны")
	}
	// встроенный список никуда не девается
	if !tbl.Known("EURUSD") {
		t.Fatal("встроенные символы должны сохраниться")
	}
}

func TestNewFromFileRejectsBadPip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.yaml")
	if err := os.WriteFile(path, []byte("BTCUSD: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("отрицательный пипс должен отклоняться")
	}
}

func TestNewFromFileEmptyPath(t *testing.T) {
	tbl, err := NewFromFile("")
	if err != nil {
		t.Fatalf("NewFromFile(\"\"): %v", err)
	}
	if tbl.Len() != Default().Len() {
		t.Fatal("пустой путь должен давать встроенную таблицу")
	}
}
