package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Account возвращает баланс и состояние деплоя аккаунта.
func (c *Client) Account(ctx context.Context) (models.AccountInfo, error) {
	req, err := c.generateRequest(ctx, http.MethodGet, c.accountPath(""), nil)
	if err != nil {
		return models.AccountInfo{}, err
	}
	data, err := c.doRaw(req)
	if err != nil {
		return models.AccountInfo{}, errors.Wrap(err, "get account")
	}

	var acc accountResponse
	if err := sonic.Unmarshal(data, &acc); err != nil {
		return models.AccountInfo{}, errors.Wrapf(err, "decode account: %s", string(data))
	}
	return models.AccountInfo{ID: acc.ID, Balance: acc.Balance, State: acc.State}, nil
}

// CurrentPrice — REST-котировка для предварительного расчёта карточки.
// Живая цена для исполнения берётся уже внутри сессии (Session.Price).
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (models.Quote, error) {
	path := c.accountPath("/symbols/" + url.PathEscape(symbol) + "/current-price")
	req, err := c.generateRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return models.Quote{}, err
	}
	data, err := c.doRaw(req)
	if err != nil {
		return models.Quote{}, errors.Wrapf(err, "price %s", symbol)
	}

	var p priceResponse
	if err := sonic.Unmarshal(data, &p); err != nil {
		return models.Quote{}, errors.Wrapf(err, "decode price: %s", string(data))
	}
	if p.Bid <= 0 || p.Ask <= 0 {
		return models.Quote{}, errors.Errorf("пустая котировка %s: bid=%.5f ask=%.5f", symbol, p.Bid, p.Ask)
	}
	return models.Quote{Symbol: symbol, Bid: p.Bid, Ask: p.Ask}, nil
}
