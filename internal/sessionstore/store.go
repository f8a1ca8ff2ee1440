// Package sessionstore хранит токен сессии между запусками клиента.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/apperr"
)

// ErrNoToken возвращается хранилищем, в котором нет сохранённого токена.
var ErrNoToken = errors.New("no session token")

// Backend описывает физическое хранилище одного значения: токена сессии.
type Backend interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Store предоставляет контроллеру сессии доступ к сохранённому токену.
// Ошибки записи возвращаются как ошибки сохранения сессии, ошибки чтения
// трактуются как отсутствие токена.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New создаёт хранилище поверх указанного бэкенда.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Open выбирает бэкенд по адресу: redis:// и rediss:// для Redis,
// postgres:// и postgresql:// для PostgreSQL, иначе путь к файлу.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	var (
		backend Backend
		err     error
	)

	switch {
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		opts, perr := redis.ParseURL(dsn)
		if perr != nil {
			return nil, fmt.Errorf("parse redis url: %w", perr)
		}
		backend, err = NewRedis(ctx, redis.NewClient(opts))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		backend, err = NewPostgres(ctx, dsn)
	case dsn == "":
		return nil, errors.New("session store location is empty")
	default:
		backend = NewFile(dsn)
	}
	if err != nil {
		return nil, err
	}

	return New(backend, logger), nil
}

// Save сохраняет токен.
func (s *Store) Save(ctx context.Context, token string) error {
	if err := s.backend.Save(ctx, token); err != nil {
		s.logger.Error("failed to save session token", zap.Error(err))
		return apperr.Persistence(err)
	}
	return nil
}

// Load возвращает сохранённый токен. Ошибка чтения записывается в журнал
// и приравнивается к отсутствию токена.
func (s *Store) Load(ctx context.Context) (string, bool) {
	token, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.logger.Warn("failed to load session token", zap.Error(err))
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear удаляет токен. Удаление отсутствующего токена ошибкой не является.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session token", zap.Error(err))
		return apperr.Persistence(err)
	}
	return nil
}

// Close освобождает ресурсы бэкенда.
func (s *Store) Close() error {
	return s.backend.Close()
}
