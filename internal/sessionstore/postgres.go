package sessionstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// tokenKey единственная строка таблицы: клиент хранит одну сессию.
const tokenKey = "current"

// ErrSchemaMissing возвращается, если таблица сессий не создана.
var ErrSchemaMissing = errors.New("session table is missing")

// Postgres хранит токен в таблице session_tokens.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres подключается к БД и применяет миграции.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &Postgres{pool: pool}

	if err := p.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return p, nil
}

func (p *Postgres) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(p.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Save записывает токен, заменяя сохранённый ранее.
func (p *Postgres) Save(ctx context.Context, token string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO session_tokens (key, token, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at`,
		tokenKey, token,
	)
	if err != nil {
		return wrapPgErr("save token", err)
	}
	return nil
}

// Load читает токен. Отсутствие строки даёт ErrNoToken.
func (p *Postgres) Load(ctx context.Context) (string, error) {
	var token string
	err := p.pool.QueryRow(ctx,
		`SELECT token FROM session_tokens WHERE key = $1`,
		tokenKey,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoToken
		}
		return "", wrapPgErr("load token", err)
	}
	return token, nil
}

// Clear удаляет строку с токеном.
func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM session_tokens WHERE key = $1`, tokenKey); err != nil {
		return wrapPgErr("clear token", err)
	}
	return nil
}

// Close закрывает пул соединений с БД.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func wrapPgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable:
			return fmt.Errorf("%s: %w: %w", op, ErrSchemaMissing, err)
		case pgerrcode.IsConnectionException(pgErr.Code):
			return fmt.Errorf("%s: database connection lost: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
