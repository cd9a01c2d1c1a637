package gate

import (
	"testing"
	"time"

	"signal_bot/internal/models"
)

func order(symbol string) *models.SizedOrder {
	return &models.SizedOrder{
		Intent: models.OrderIntent{Type: models.OrderBuy, Symbol: symbol},
	}
}

func TestConfirmReturnsPending(t *testing.T) {
	g := New()
	const chat = int64(42)

	if g.State(chat) != AwaitingSignal {
		t.Fatal("свежий gate обязан ждать сигнал")
	}

	g.Offer(chat, order("EURUSD"))
	if g.State(chat) != AwaitingConfirmation {
		t.Fatal("после Offer ждём подтверждение")
	}

	d, o := g.Resolve(chat, "confirm")
	if d != DecisionConfirm || o == nil || o.Intent.Symbol != "EURUSD" {
		t.Fatalf("Resolve = (%v, %+v)", d, o)
	}
	if g.State(chat) != AwaitingSignal {
		t.Fatal("после confirm слот должен освободиться")
	}
}

func TestDeclineDiscards(t *testing.T) {
	g := New()
	const chat = int64(42)

	g.Offer(chat, order("EURUSD"))
	d, o := g.Resolve(chat, "decline")
	if d != DecisionDecline || o != nil {
		t.Fatalf("Resolve = (%v, %+v)", d, o)
	}

	// повторный confirm уже ни к чему не привязан
	d, o = g.Resolve(chat, "confirm")
	if d != DecisionNone || o != nil {
		t.Fatalf("confirm без заявки: (%v, %+v)", d, o)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	g := New()
	g.Offer(1, order("EURUSD"))
	if d, _ := g.Resolve(1, "  CONFIRM "); d != DecisionConfirm {
		t.Fatalf("Resolve(CONFIRM) = %v", d)
	}
	g.Offer(1, order("EURUSD"))
	if d, _ := g.Resolve(1, "Decline"); d != DecisionDecline {
		t.Fatalf("Resolve(Decline) = %v", d)
	}
}

func TestUnrecognizedInputKeepsPending(t *testing.T) {
	g := New()
	g.Offer(1, order("EURUSD"))

	d, o := g.Resolve(1, "да, погнали")
	if d != DecisionNone || o != nil {
		t.Fatalf("Resolve = (%v, %+v)", d, o)
	}
	if g.State(1) != AwaitingConfirmation {
		t.Fatal("непонятный ввод не должен сбрасывать заявку")
	}
}

func TestOfferOverwrites(t *testing.T) {
	g := New()
	seq1 := g.Offer(1, order("EURUSD"))
	seq2 := g.Offer(1, order("GBPUSD"))
	if seq2 <= seq1 {
		t.Fatalf("seq не растёт: %d -> %d", seq1, seq2)
	}

	if cur, ok := g.Seq(1); !ok || cur != seq2 {
		t.Fatalf("Seq = (%d, %v), want %d", cur, ok, seq2)
	}

	// подтверждается последняя заявка, первая потеряна навсегда
	d, o := g.Resolve(1, "confirm")
	if d != DecisionConfirm || o.Intent.Symbol != "GBPUSD" {
		t.Fatalf("Resolve = (%v, %+v)", d, o)
	}
}

func TestChatsAreIsolated(t *testing.T) {
	g := New()
	g.Offer(1, order("EURUSD"))
	g.Offer(2, order("GBPUSD"))

	if d, o := g.Resolve(1, "confirm"); d != DecisionConfirm || o.Intent.Symbol != "EURUSD" {
		t.Fatalf("chat 1: (%v, %+v)", d, o)
	}
	if g.State(2) != AwaitingConfirmation {
		t.Fatal("заявка чата 2 не должна была пострадать")
	}
}

func TestExpire(t *testing.T) {
	g := New()
	g.Offer(1, order("EURUSD"))
	g.Offer(2, order("GBPUSD"))
	// искусственно старим первую заявку
	g.chats[1].since = time.Now().Add(-time.Hour)

	expired := g.Expire(30 * time.Minute)
	if len(expired) != 1 || expired[0] != 1 {
		t.Fatalf("expired = %v", expired)
	}
	if g.State(1) != AwaitingSignal {
		t.Fatal("просроченный слот должен освободиться")
	}
	if g.State(2) != AwaitingConfirmation {
		t.Fatal("свежая заявка не должна истечь")
	}
}
