package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Session — websocket-подключение к терминалу. Владелец ровно один
// (прогон оркестратора), поэтому запрос-ответ по сокету последовательный
// и без мультиплексора.
type Session struct {
	client *Client
	conn   *websocket.Conn

	mu    sync.Mutex // сериализует запросы по сокету
	reqID int64
}

// Connect открывает торговую сессию: websocket до терминала с тем же
// auth-token, что и REST.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	hdr := http.Header{}
	hdr.Set("auth-token", c.token)

	url := c.wsURL + "/accounts/" + c.accountID + "/terminal"
	conn, _, err := c.wsDialer.DialContext(ctx, url, hdr)
	if err != nil {
		return nil, fmt.Errorf("ws dial %s: %w", url, err)
	}
	logger.Info("[BROKER] сессия открыта account=%s", c.accountID)
	return &Session{client: c, conn: conn}, nil
}

// WaitSynchronized читает статус-кадры, пока терминал не отчитается о
// синхронизации. Дедлайн приходит через ctx.
func (s *Session) WaitSynchronized(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		frame, err := s.readFrame(ctx)
		if err != nil {
			return fmt.Errorf("wait synchronized: %w", err)
		}
		switch frame.Type {
		case "status":
			if frame.Synchronized {
				return nil
			}
		case "error":
			return fmt.Errorf("terminal error: %s", frame.Message)
		}
		// прочие кадры (котировки и т.п.) на этом этапе пропускаем
	}
}

// Price запрашивает bid/ask по сокету и ждёт ответ со своим requestId.
func (s *Session) Price(ctx context.Context, symbol string) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reqID++
	req := wsFrame{Type: "price", RequestID: s.reqID, Symbol: symbol}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("marshal price req: %w", err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return models.Quote{}, fmt.Errorf("price request: %w", err)
	}

	for {
		frame, err := s.readFrame(ctx)
		if err != nil {
			return models.Quote{}, fmt.Errorf("price %s: %w", symbol, err)
		}
		if frame.Type == "error" && frame.RequestID == s.reqID {
			return models.Quote{}, fmt.Errorf("price %s: %s", symbol, frame.Message)
		}
		if frame.Type != "price" || frame.RequestID != s.reqID {
			continue
		}
		if frame.Bid <= 0 || frame.Ask <= 0 {
			return models.Quote{}, fmt.Errorf("пустая котировка %s: bid=%.5f ask=%.5f", symbol, frame.Bid, frame.Ask)
		}
		return models.Quote{Symbol: symbol, Bid: frame.Bid, Ask: frame.Ask}, nil
	}
}

// Close гасит сессию. Вызывается на любом исходе прогона.
func (s *Session) Close() error {
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := s.conn.Close()
	logger.Info("[BROKER] сессия закрыта account=%s", s.client.accountID)
	return err
}

func (s *Session) readFrame(ctx context.Context) (wsFrame, error) {
	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return wsFrame{}, err
	}

	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return wsFrame{}, ctx.Err()
		}
		return wsFrame{}, err
	}

	var frame wsFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return wsFrame{}, fmt.Errorf("decode frame: %w; raw=%s", err, string(msg))
	}
	return frame, nil
}
