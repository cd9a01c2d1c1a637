package gate

import (
	"strings"
	"sync"
	"time"

	"signal_bot/internal/models"
)

// Состояния разговора. Больше двух не бывает: либо ждём сигнал, либо
// держим одну заявку до подтверждения.
type State int

const (
	AwaitingSignal State = iota
	AwaitingConfirmation
)

type Decision int

const (
	DecisionNone Decision = iota // ввод не распознан либо подтверждать нечего
	DecisionConfirm
	DecisionDecline
)

type slot struct {
	pending *models.SizedOrder
	seq     uint64
	since   time.Time
}

// Gate держит по одной отложенной заявке на разговор. Новый сигнал
// перезаписывает старый, очереди нет.
type Gate struct {
	mu    sync.Mutex
	chats map[int64]*slot
	seq   uint64
}

func New() *Gate {
	return &Gate{chats: make(map[int64]*slot)}
}

func (g *Gate) State(chatID int64) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.chats[chatID]; ok && s.pending != nil {
		return AwaitingConfirmation
	}
	return AwaitingSignal
}

// Offer кладёт заявку в слот разговора (перезаписывая предыдущую) и
// возвращает её порядковый номер — им помечаются кнопки карточки,
// чтобы клик по устаревшей карточке не подтвердил новую заявку.
func (g *Gate) Offer(chatID int64, o *models.SizedOrder) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.chats[chatID] = &slot{pending: o, seq: g.seq, since: time.Now()}
	return g.seq
}

func (g *Gate) Seq(chatID int64) (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.chats[chatID]
	if !ok || s.pending == nil {
		return 0, false
	}
	return s.seq, true
}

// Resolve принимает ввод оператора. confirm/decline — без учёта регистра,
// всё остальное (и confirm без отложенной заявки) — DecisionNone,
// состояние не меняется, вызывающий просто переспрашивает.
func (g *Gate) Resolve(chatID int64, input string) (Decision, *models.SizedOrder) {
	var d Decision
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "confirm":
		d = DecisionConfirm
	case "decline":
		d = DecisionDecline
	default:
		return DecisionNone, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.chats[chatID]
	if !ok || s.pending == nil {
		return DecisionNone, nil
	}

	o := s.pending
	delete(g.chats, chatID)

	if d == DecisionDecline {
		return DecisionDecline, nil
	}
	return DecisionConfirm, o
}

// Expire снимает заявки, висящие дольше ttl, и возвращает их чаты —
// авто-decline по неактивности.
func (g *Gate) Expire(ttl time.Duration) []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	var expired []int64
	cutoff := time.Now().Add(-ttl)
	for chatID, s := range g.chats {
		if s.pending != nil && s.since.Before(cutoff) {
			delete(g.chats, chatID)
			expired = append(expired, chatID)
		}
	}
	return expired
}
