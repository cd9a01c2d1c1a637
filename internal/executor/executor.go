package executor

import (
	"context"
	"errors"
	"time"

	"signal_bot/internal/instruments"
	"signal_bot/internal/models"
)

// Broker — то, что нам нужно от брокера до открытия сессии.
type Broker interface {
	Account(ctx context.Context) (models.AccountInfo, error)
	Deploy(ctx context.Context) error
	Connect(ctx context.Context) (Session, error)
}

// Session — живое торговое подключение. Принадлежит ровно одному прогону
// оркестратора и закрывается в конце прогона на любом исходе.
type Session interface {
	WaitSynchronized(ctx context.Context) error
	Price(ctx context.Context, symbol string) (models.Quote, error)
	Submit(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
	Close() error
}

// Notifier — прогресс-сообщения в разговор по ходу прогона.
type Notifier interface {
	Progress(ctx context.Context, chatID int64, format string, args ...any)
}

var (
	ErrDeployTimeout = errors.New("терминал не задеплоился за отведённое время")
	ErrConnectFailed = errors.New("не удалось открыть торговую сессию")
	ErrSyncTimeout   = errors.New("терминал не синхронизировался за отведённое время")

	// ErrInvertedLevels — живая цена пересекла стоп или цель, пока
	// оператор думал. Отправлять такую заявку нельзя.
	ErrInvertedLevels = errors.New("цена ушла за уровни SL/TP")
)

type Config struct {
	DeployTimeout time.Duration
	DeployPoll    time.Duration
	SyncTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.DeployTimeout <= 0 {
		c.DeployTimeout = 3 * time.Minute
	}
	if c.DeployPoll <= 0 {
		c.DeployPoll = 2 * time.Second
	}
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = 2 * time.Minute
	}
	return c
}

// Executor гоняет подтверждённую заявку через воркфлоу
// deploy -> connect -> sync -> (price) -> submit. Без ретраев между
// стадиями: торговые действия вслепую не повторяют, любая ошибка стадии
// закрывает прогон.
type Executor struct {
	broker Broker
	tbl    *instruments.Table
	cfg    Config
}

func New(broker Broker, tbl *instruments.Table, cfg Config) *Executor {
	return &Executor{broker: broker, tbl: tbl, cfg: cfg.withDefaults()}
}

// Table — общий реестр инструментов (read-only, один на процесс).
func (e *Executor) Table() *instruments.Table { return e.tbl }
