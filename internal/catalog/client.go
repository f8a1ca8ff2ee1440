// Package catalog содержит клиент каталога товаров и поиск по загруженному каталогу.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mmeshcher/storefront/internal/api"
	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/model"
)

// Doer описывает транспорт, через который клиент каталога обращается к удалённому сервису.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any, opts ...api.RequestOption) error
}

// Client выполняет операции над товарами удалённого каталога. Ответы не кешируются.
type Client struct {
	api Doer
}

// NewClient создаёт клиент каталога поверх транспорта.
func NewClient(doer Doer) *Client {
	return &Client{api: doer}
}

// ListProducts возвращает все товары каталога.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.api.Do(ctx, http.MethodGet, "products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetProduct возвращает товар по идентификатору.
func (c *Client) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	var p *model.Product
	err := c.api.Do(ctx, http.MethodGet, productPath(id), nil, &p)
	if err != nil {
		return nil, notFound(err)
	}
	// Удалённый сервис может ответить 200 с пустым телом или null для несуществующего товара.
	if p == nil {
		return nil, apperr.NotFound(apperr.MsgProductNotFound, fmt.Errorf("product %d: empty response", id))
	}
	return p, nil
}

// CreateProduct создаёт товар и возвращает его в том виде, в котором его сохранил сервис.
func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var p model.Product
	if err := c.api.Do(ctx, http.MethodPost, "products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct заменяет поля товара.
func (c *Client) UpdateProduct(ctx context.Context, id int, in model.ProductInput) (*model.Product, error) {
	var p model.Product
	if err := c.api.Do(ctx, http.MethodPut, productPath(id), in, &p); err != nil {
		return nil, notFound(err)
	}
	if p.ID == 0 {
		p.ID = id
	}
	return &p, nil
}

// DeleteProduct удаляет товар.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	if err := c.api.Do(ctx, http.MethodDelete, productPath(id), nil, nil); err != nil {
		return notFound(err)
	}
	return nil
}

func productPath(id int) string {
	return fmt.Sprintf("products/%d", id)
}

func notFound(err error) error {
	if errors.Is(err, api.ErrEmptyBody) || errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(apperr.MsgProductNotFound, err)
	}
	return err
}
