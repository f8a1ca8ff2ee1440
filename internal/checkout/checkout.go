// Package checkout оформляет заказ из корзины. Оплата и отправка заказа имитируются.
package checkout

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/money"
)

// MsgEmptyCart сообщение при попытке оформить пустую корзину.
const MsgEmptyCart = "cart is empty"

// OrderLine позиция заказа в формате удалённого сервиса.
type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Order тело заказа, которое отправилось бы удалённому сервису.
type Order struct {
	UserID   int         `json:"userId"`
	Date     string      `json:"date"`
	Products []OrderLine `json:"products"`
}

// Receipt подтверждение оформленного заказа.
type Receipt struct {
	ID           string      `json:"id"`
	Order        Order       `json:"order"`
	Lines        []cart.Line `json:"lines"`
	ItemCount    int         `json:"itemCount"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"totalDisplay"`
	PlacedAt     time.Time   `json:"placedAt"`
}

// Service оформляет заказ и очищает корзину.
type Service struct {
	cart   *cart.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт сервис оформления заказа над корзиной.
func NewService(store *cart.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cart: store, logger: logger, now: time.Now}
}

// Place оформляет заказ из текущего содержимого корзины.
// Чтение корзины и её очистка выполняются одним переходом.
// Пустая корзина не трогается, подписчики корзины уведомлений не получают.
func (s *Service) Place(session model.Session) (Receipt, error) {
	if s.cart.State().IsEmpty() {
		return Receipt{}, apperr.Validation(MsgEmptyCart, nil)
	}

	// корзину могли очистить между проверкой и переходом
	before, _ := s.cart.Apply(cart.Clear{})
	if before.IsEmpty() {
		return Receipt{}, apperr.Validation(MsgEmptyCart, nil)
	}

	placedAt := s.now().UTC()
	order := Order{
		UserID:   session.UserID,
		Date:     placedAt.Format(time.DateOnly),
		Products: make([]OrderLine, 0, len(before.Lines)),
	}
	for _, l := range before.Lines {
		order.Products = append(order.Products, OrderLine{ProductID: l.ID, Quantity: l.Quantity})
	}

	receipt := Receipt{
		ID:           uuid.NewString(),
		Order:        order,
		Lines:        before.Lines,
		ItemCount:    before.ItemCount,
		Total:        before.Total,
		TotalDisplay: money.Format(before.Total),
		PlacedAt:     placedAt,
	}

	s.logger.Info("order placed",
		zap.String("receipt", receipt.ID),
		zap.Int("userId", order.UserID),
		zap.Any("products", order.Products),
		zap.Int("items", receipt.ItemCount),
		zap.String("total", receipt.TotalDisplay),
	)

	return receipt, nil
}
