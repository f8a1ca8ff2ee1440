// Package auth выполняет вход пользователя через удалённый сервис.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mmeshcher/storefront/internal/api"
	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/model"
)

// Doer описывает транспорт, через который выполняется вход.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any, opts ...api.RequestOption) error
}

// LoginResult содержит выданный токен и сведения о пользователе.
type LoginResult struct {
	Token    string
	Role     model.Role
	Username string
	UserID   int
}

// Session возвращает сессию, соответствующую результату входа.
func (r LoginResult) Session() model.Session {
	return model.Session{
		Token:    r.Token,
		Role:     r.Role,
		Username: r.Username,
		UserID:   r.UserID,
	}
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Client выполняет вход по логину и паролю.
type Client struct {
	api Doer
}

// NewClient создаёт клиент аутентификации поверх транспорта.
func NewClient(doer Doer) *Client {
	return &Client{api: doer}
}

// Login отправляет учётные данные и возвращает токен сессии.
// Запрос уходит без заголовка Authorization, поэтому отказ не считается истечением текущей сессии.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (LoginResult, error) {
	var resp loginResponse
	err := c.api.Do(ctx, http.MethodPost, "auth/login", creds, &resp, api.Anonymous())
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			return LoginResult{}, apperr.Unauthorized(apperr.MsgInvalidCredentials, err)
		}
		return LoginResult{}, apperr.Generic(apperr.MsgServerUnavailable, err)
	}

	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return LoginResult{}, apperr.Generic(apperr.MsgServerUnavailable, errors.New("login response without token"))
	}

	res := ResultFromToken(token)
	if resp.Role != "" {
		res.Role = model.ParseRole(resp.Role)
	}
	if res.Username == "" {
		res.Username = creds.Username
	}

	return res, nil
}
