// Package middleware содержит HTTP middleware экранов витрины.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// Сообщения, возвращаемые при отказе в доступе.
const (
	MsgInitializing = "Session is loading. Try again shortly."
	MsgLoginFirst   = "Please log in."
	MsgAdminOnly    = "Administrator role required."
)

// SessionSource отдаёт текущее состояние сессии.
type SessionSource interface {
	Snapshot() (session.State, model.Session)
}

// SessionGate пропускает запросы к экранам в зависимости от состояния сессии.
type SessionGate struct {
	source SessionSource
}

// NewSessionGate создаёт проверку доступа поверх контроллера сессии.
func NewSessionGate(source SessionSource) *SessionGate {
	return &SessionGate{source: source}
}

// RequireSession пропускает только запросы аутентифицированного пользователя
// и кладёт сессию в контекст запроса.
func (g *SessionGate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, s := g.source.Snapshot()

		switch state {
		case session.StateInitializing:
			writeError(w, http.StatusServiceUnavailable, MsgInitializing)
			return
		case session.StateAuthenticated:
		default:
			writeError(w, http.StatusUnauthorized, MsgLoginFirst)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только администратора. Используется после RequireSession.
func (g *SessionGate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, MsgLoginFirst)
			return
		}
		if !s.IsAdmin() {
			writeError(w, http.StatusForbidden, MsgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext извлекает сессию из контекста запроса.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(model.Session)
	return s, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
