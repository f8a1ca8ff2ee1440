// Package session управляет жизненным циклом сессии пользователя.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/auth"
	"github.com/mmeshcher/storefront/internal/model"
)

// State описывает состояние сессии.
type State int

const (
	// StateInitializing начальное состояние до загрузки сохранённого токена.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator выполняет вход по учётным данным.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (auth.LoginResult, error)
}

// TokenStore хранит токен между запусками.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Authorizer управляет заголовком авторизации исходящих запросов.
type Authorizer interface {
	SetToken(token string)
	ClearToken()
}

// Listener получает состояние и сессию после каждого перехода.
type Listener func(State, model.Session)

// Controller единственный владелец состояния сессии.
// Переходы выполняются последовательно. Заголовок авторизации меняется внутри
// перехода, до уведомления подписчиков. Подписчикам нельзя вызывать методы,
// меняющие состояние контроллера.
type Controller struct {
	auth   Authenticator
	store  TokenStore
	authz  Authorizer
	logger *zap.Logger

	transitionMu sync.Mutex

	mu      sync.RWMutex
	state   State
	session model.Session
	nextID  int
	subs    map[int]Listener
}

// NewController создаёт контроллер в состоянии StateInitializing.
func NewController(authenticator Authenticator, store TokenStore, authz Authorizer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		auth:   authenticator,
		store:  store,
		authz:  authz,
		logger: logger,
		state:  StateInitializing,
		subs:   make(map[int]Listener),
	}
}

// Init загружает сохранённый токен. Ошибка чтения приравнивается к отсутствию токена.
// Повторный вызов ничего не делает.
func (c *Controller) Init(ctx context.Context) {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()

	if c.State() != StateInitializing {
		return
	}

	token, ok := c.store.Load(ctx)
	if !ok {
		c.logger.Info("no stored session")
		c.enterUnauthenticated()
		return
	}

	s := auth.ResultFromToken(token).Session()
	c.logger.Info("session restored", zap.String("username", s.Username), zap.String("role", string(s.Role)))
	c.enterAuthenticated(s)
}

// State возвращает текущее состояние.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Session возвращает текущую сессию.
func (c *Controller) Session() model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Snapshot возвращает состояние и сессию, согласованные между собой.
func (c *Controller) Snapshot() (State, model.Session) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.session
}

// Login выполняет вход. При ошибке состояние не меняется и возвращается
// ошибка с сообщением для пользователя. Повторный вход заменяет текущую сессию.
func (c *Controller) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	if c.State() == StateInitializing {
		return model.Session{}, apperr.Generic(apperr.MsgServerUnavailable, errors.New("session is initializing"))
	}

	res, err := c.auth.Login(ctx, creds)
	if err != nil {
		c.logger.Info("login failed", zap.String("username", creds.Username), zap.Error(err))
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			err = apperr.Generic(apperr.MsgServerUnavailable, err)
		}
		return model.Session{}, err
	}

	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()

	if err := c.store.Save(ctx, res.Token); err != nil {
		return model.Session{}, err
	}

	s := res.Session()
	c.logger.Info("logged in", zap.String("username", s.Username), zap.String("role", string(s.Role)))
	c.enterAuthenticated(s)

	return s, nil
}

// Logout удаляет сохранённый токен и переводит сессию в StateUnauthenticated.
// Переход выполняется даже при ошибке удаления, ошибка возвращается после перехода.
func (c *Controller) Logout(ctx context.Context) error {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()

	err := c.store.Clear(ctx)

	c.logger.Info("logged out", zap.String("username", c.Session().Username))
	c.enterUnauthenticated()

	return err
}

// Expire обрабатывает отказ удалённого сервиса в авторизации запроса, отправленного с token.
// Сессия завершается один раз и только если token совпадает с текущим.
// Возвращает true, если переход выполнен.
func (c *Controller) Expire(token string) bool {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()

	state, s := c.Snapshot()
	if state != StateAuthenticated || token == "" || s.Token != token {
		return false
	}

	c.logger.Warn("session expired", zap.String("username", s.Username))
	c.enterUnauthenticated()

	if err := c.store.Clear(context.Background()); err != nil {
		c.logger.Error("failed to clear expired session", zap.Error(err))
	}

	return true
}

// Subscribe регистрирует обработчик переходов и возвращает функцию отписки.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) enterAuthenticated(s model.Session) {
	c.authz.SetToken(s.Token)
	c.set(StateAuthenticated, s)
}

func (c *Controller) enterUnauthenticated() {
	c.authz.ClearToken()
	c.set(StateUnauthenticated, model.Session{})
}

// set вызывается под transitionMu.
func (c *Controller) set(state State, s model.Session) {
	c.mu.Lock()
	c.state = state
	c.session = s
	subs := make([]Listener, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state, s)
	}
}
