// Package apperr описывает классификацию ошибок клиента витрины.
package apperr

import (
	"errors"
	"fmt"
)

// Kind определяет класс ошибки.
type Kind int

const (
	KindGeneric Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindPersistence:
		return "persistence"
	default:
		return "generic"
	}
}

// Сообщения, пригодные для показа пользователю.
const (
	MsgInvalidCredentials = "Invalid credentials. Check your username and password."
	MsgServerUnavailable  = "Could not reach the server. Try again later."
	MsgProductNotFound    = "Product not found."
	MsgSessionExpired     = "Session expired. Please log in again."
	MsgPersistSession     = "Could not persist session."
	MsgInvalidInput       = "Some fields are invalid."
)

// Сентинели для сопоставления через errors.Is по классу ошибки.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrGeneric      = &Error{Kind: KindGeneric}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

// Error содержит класс ошибки, сообщение для пользователя и исходную причину.
type Error struct {
	Kind    Kind
	Message string
	// Fields заполняется только для ошибок валидации: поле -> сообщение.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по классу, что позволяет использовать сентинели.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New создаёт ошибку указанного класса.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound создаёт ошибку отсутствия ресурса.
func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

// Unauthorized создаёт ошибку недействительного токена или учётных данных.
func Unauthorized(message string, err error) *Error {
	return New(KindUnauthorized, message, err)
}

// Generic создаёт ошибку сети, таймаута или сервера.
func Generic(message string, err error) *Error {
	return New(KindGeneric, message, err)
}

// Persistence создаёт ошибку записи сессии.
func Persistence(err error) *Error {
	return New(KindPersistence, MsgPersistSession, err)
}

// Validation создаёт ошибку проверки полей формы.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf возвращает класс ошибки. Неклассифицированные ошибки считаются общими.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// Message возвращает сообщение для пользователя.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgServerUnavailable
}
