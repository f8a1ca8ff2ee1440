// Package service объединяет компоненты клиента витрины для экранов.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/catalog"
	"github.com/mmeshcher/storefront/internal/checkout"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/session"
	"github.com/mmeshcher/storefront/internal/validation"
)

// Catalog описывает операции удалённого каталога.
type Catalog interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int, in model.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// Sessions описывает контроллер сессии.
type Sessions interface {
	Snapshot() (session.State, model.Session)
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Logout(ctx context.Context) error
}

// Scope определяет, по каким полям фильтруется список товаров.
type Scope string

const (
	ScopeList   Scope = "list"
	ScopeSearch Scope = "search"
)

// Service реализует сценарии экранов витрины.
type Service struct {
	catalog  Catalog
	sessions Sessions
	cart     *cart.Store
	checkout *checkout.Service
	logger   *zap.Logger
}

// NewService создаёт сервис над каталогом, контроллером сессии и корзиной.
func NewService(c Catalog, sessions Sessions, store *cart.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:  c,
		sessions: sessions,
		cart:     store,
		checkout: checkout.NewService(store, logger),
		logger:   logger,
	}
}

// Session возвращает текущее состояние сессии.
func (s *Service) Session() (session.State, model.Session) {
	return s.sessions.Snapshot()
}

// Login выполняет вход.
func (s *Service) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	return s.sessions.Login(ctx, creds)
}

// Logout завершает сессию. Корзина при этом сохраняется.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Products загружает каталог и фильтрует его в памяти.
func (s *Service) Products(ctx context.Context, term string, scope Scope) ([]model.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	fields := catalog.ListFields
	if scope == ScopeSearch {
		fields = catalog.SearchFields
	}
	return catalog.Search(products, term, fields...), nil
}

// Product возвращает товар по идентификатору.
func (s *Service) Product(ctx context.Context, id int) (*model.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

// CreateProduct проверяет форму и создаёт товар.
func (s *Service) CreateProduct(ctx context.Context, form validation.ProductForm) (*model.Product, error) {
	in, err := validation.ValidateProduct(form)
	if err != nil {
		return nil, err
	}
	return s.catalog.CreateProduct(ctx, in)
}

// UpdateProduct проверяет форму и изменяет товар.
func (s *Service) UpdateProduct(ctx context.Context, id int, form validation.ProductForm) (*model.Product, error) {
	in, err := validation.ValidateProduct(form)
	if err != nil {
		return nil, err
	}
	return s.catalog.UpdateProduct(ctx, id, in)
}

// DeleteProduct удаляет товар.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	return s.catalog.DeleteProduct(ctx, id)
}

// Cart возвращает текущее состояние корзины.
func (s *Service) Cart() cart.State {
	return s.cart.State()
}

// AddToCart загружает товар и добавляет его в корзину.
func (s *Service) AddToCart(ctx context.Context, productID int) (cart.State, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.State{}, err
	}

	return s.cart.Dispatch(cart.AddItem{Item: cart.Item{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
	}}), nil
}

// SetQuantity задаёт количество позиции. Количество не больше нуля удаляет позицию.
func (s *Service) SetQuantity(productID, quantity int) cart.State {
	return s.cart.Dispatch(cart.SetQuantity{ID: productID, Quantity: quantity})
}

// RemoveFromCart удаляет позицию корзины.
func (s *Service) RemoveFromCart(productID int) cart.State {
	return s.cart.Dispatch(cart.RemoveItem{ID: productID})
}

// ClearCart очищает корзину.
func (s *Service) ClearCart() cart.State {
	return s.cart.Dispatch(cart.Clear{})
}

// Checkout оформляет заказ из корзины текущего пользователя.
func (s *Service) Checkout() (checkout.Receipt, error) {
	_, sess := s.sessions.Snapshot()
	return s.checkout.Place(sess)
}
