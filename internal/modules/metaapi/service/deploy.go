package service

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// Deploy запрашивает деплой терминала. Сам деплой асинхронный — готовность
// опрашивается через Account, здесь только команда.
func (c *Client) Deploy(ctx context.Context) error {
	req, err := c.generateRequest(ctx, http.MethodPost, c.accountPath("/deploy"), nil)
	if err != nil {
		return err
	}
	if _, err := c.doRaw(req); err != nil {
		return errors.Wrap(err, "deploy account")
	}
	return nil
}
