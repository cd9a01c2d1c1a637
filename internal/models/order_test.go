package models

import "testing"

func TestOrderTypePredicates(t *testing.T) {
	if !OrderBuy.IsMarket() || !OrderSell.IsMarket() {
		t.Fatal("Buy/Sell — рыночные")
	}
	if OrderBuyLimit.IsMarket() || OrderSellStop.IsMarket() {
		t.Fatal("limit/stop — не рыночные")
	}
	for _, tt := range []OrderType{OrderBuy, OrderBuyLimit, OrderBuyStop} {
		if !tt.IsBuy() {
			t.Errorf("%s должен быть buy", tt)
		}
	}
	for _, tt := range []OrderType{OrderSell, OrderSellLimit, OrderSellStop} {
		if tt.IsBuy() {
			t.Errorf("%s не должен быть buy", tt)
		}
	}
}

func TestCheckLevels(t *testing.T) {
	cases := []struct {
		name    string
		typ     OrderType
		entry   float64
		sl      float64
		tps     []float64
		wantErr bool
	}{
		{"buy в порядке", OrderBuyLimit, 1.2000, 1.1950, []float64{1.2100, 1.2200}, false},
		{"buy стоп выше входа", OrderBuyLimit, 1.2000, 1.2050, []float64{1.2100}, true},
		{"buy цель ниже входа", OrderBuyLimit, 1.2000, 1.1950, []float64{1.1900}, true},
		{"buy вторая цель ниже входа", OrderBuyLimit, 1.2000, 1.1950, []float64{1.2100, 1.1900}, true},
		{"sell в порядке", OrderSellLimit, 1.2000, 1.2050, []float64{1.1900}, false},
		{"sell стоп ниже входа", OrderSellLimit, 1.2000, 1.1950, []float64{1.1900}, true},
		{"sell цель выше входа", OrderSellLimit, 1.2000, 1.2050, []float64{1.2100}, true},
		{"стоп на входе", OrderBuy, 1.2000, 1.2000, []float64{1.2100}, true},
	}
	for _, c := range cases {
		err := CheckLevels(c.typ, c.entry, c.sl, c.tps)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: err = %v, wantErr = %v", c.name, err, c.wantErr)
		}
	}
}
