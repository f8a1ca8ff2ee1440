// Package api предоставляет HTTP-клиент удалённого сервиса каталога.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/apperr"
)

// DefaultTimeout ограничивает длительность одного запроса к удалённому сервису.
const DefaultTimeout = 10 * time.Second

// ErrEmptyBody возвращается, когда успешный ответ не содержит тела, а вызывающий его ожидал.
var ErrEmptyBody = errors.New("empty response body")

// StatusError описывает ответ удалённого сервиса с неуспешным кодом.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status: %d", e.Method, e.Path, e.StatusCode)
}

// Client инкапсулирует HTTP-взаимодействие с удалённым сервисом.
// Заголовок авторизации по умолчанию задаётся через SetToken и ClearToken.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func(token string)
}

// NewClient создаёт HTTP-клиент для обращения к удалённому сервису по указанному адресу.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
	}
}

// SetToken устанавливает токен, передаваемый в заголовке Authorization.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken убирает заголовок Authorization из последующих запросов.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token возвращает текущий токен авторизации.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized регистрирует обработчик ответа 401. Обработчик получает токен,
// с которым был отправлен отклонённый запрос, и вызывается один раз на запрос.
func (c *Client) OnUnauthorized(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

type requestOptions struct {
	anonymous bool
}

// RequestOption настраивает отдельный запрос.
type RequestOption func(*requestOptions)

// Anonymous отправляет запрос без заголовка Authorization.
func Anonymous() RequestOption {
	return func(o *requestOptions) {
		o.anonymous = true
	}
}

// Do выполняет запрос с JSON-телом in и декодирует ответ в out.
// Ошибки классифицируются: 404 как NotFound, 401 как Unauthorized, остальное как Generic.
func (c *Client) Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	if c == nil || c.baseURL == "" {
		return apperr.Generic(apperr.MsgServerUnavailable, errors.New("api client not configured"))
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return apperr.Generic(apperr.MsgServerUnavailable, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return apperr.Generic(apperr.MsgServerUnavailable, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	onUnauthorized := c.onUnauthorized
	c.mu.RUnlock()

	if o.anonymous {
		token = ""
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperr.Generic(apperr.MsgServerUnavailable, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return apperr.NotFound(apperr.MsgServerUnavailable, statusErr)
		case http.StatusUnauthorized:
			if token != "" && onUnauthorized != nil {
				c.logger.Warn("remote service rejected session token", zap.String("path", path))
				onUnauthorized(token)
			}
			return apperr.Unauthorized(apperr.MsgSessionExpired, statusErr)
		default:
			return apperr.Generic(apperr.MsgServerUnavailable, statusErr)
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Generic(apperr.MsgServerUnavailable, ErrEmptyBody)
		}
		return apperr.Generic(apperr.MsgServerUnavailable, fmt.Errorf("decode response: %w", err))
	}

	return nil
}
