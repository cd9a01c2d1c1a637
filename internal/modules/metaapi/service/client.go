package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"signal_bot/internal/modules/config"
)

// Client — REST-клиент брокерского облака. Торговая сессия поверх
// websocket открывается отдельно через Connect.
type Client struct {
	http     *http.Client
	wsDialer *websocket.Dialer

	token     string
	accountID string
	baseURL   string
	wsURL     string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		wsDialer:  &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
		token:     cfg.MetaAPI.Token,
		accountID: cfg.MetaAPI.AccountID,
		baseURL:   cfg.MetaAPI.BaseURL,
		wsURL:     cfg.MetaAPI.WSURL,
	}
}

func (c *Client) accountPath(suffix string) string {
	return "/users/current/accounts/" + c.accountID + suffix
}

// generateRequest — запрос с auth-token заголовком, путь относительно baseURL.
func (c *Client) generateRequest(ctx context.Context, method, requestPath string, body []byte) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("auth-token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doRaw выполняет запрос и возвращает тело; любой не-2xx — ошибка с телом.
func (c *Client) doRaw(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
