// Package model содержит доменные сущности клиента витрины.
package model

// Rating описывает агрегированную оценку товара.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product описывает товар удалённого каталога. Источником истины является удалённый сервис.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ProductInput содержит поля товара, передаваемые при создании и изменении.
type ProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// Credentials содержит учётные данные пользователя для входа.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Role описывает роль пользователя в витрине.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole приводит произвольную строку к известной роли. Неизвестные значения считаются покупателем.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

// Session описывает текущую сессию пользователя.
type Session struct {
	Token    string
	Role     Role
	Username string
	UserID   int
}

// IsAuthenticated сообщает, содержит ли сессия токен.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin сообщает, обладает ли аутентифицированный пользователь ролью администратора.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role == RoleAdmin
}
