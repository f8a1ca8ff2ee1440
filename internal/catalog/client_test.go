package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/storefront/internal/api"
	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/model"
)

func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	products := map[string]model.Product{
		"1": {ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing", Rating: model.Rating{Rate: 3.9, Count: 120}},
		"2": {ID: 2, Title: "T-Shirt", Price: 22.3, Category: "men's clothing"},
	}

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(v))
	}

	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Product{products["1"], products["2"]})
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		switch id {
		case "404":
			w.WriteHeader(http.StatusNotFound)
		case "998":
			writeJSON(w, nil)
		case "999":
			w.WriteHeader(http.StatusOK)
		default:
			p, ok := products[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(w, p)
		}
	})
	r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
		var in model.ProductInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, model.Product{ID: 21, Title: in.Title, Price: in.Price, Category: in.Category, Image: in.Image, Description: in.Description})
	})
	r.Put("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := products[chi.URLParam(r, "id")]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var in model.ProductInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, in)
	})
	r.Delete("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := products[chi.URLParam(r, "id")]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ts := fakeCatalog(t)
	return NewClient(api.NewClient(ts.URL, time.Second, nil))
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t)

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestGetProduct(t *testing.T) {
	c := newTestClient(t)

	p, err := c.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", p.Title)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetProduct(context.Background(), 404)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, apperr.MsgProductNotFound, apperr.Message(err))
}

func TestGetProduct_EmptyBodiesAreNotFound(t *testing.T) {
	c := newTestClient(t)

	for _, id := range []int{998, 999} {
		p, err := c.GetProduct(context.Background(), id)
		require.ErrorIs(t, err, apperr.ErrNotFound, "id %d", id)
		assert.Nil(t, p)
		assert.Equal(t, apperr.MsgProductNotFound, apperr.Message(err))
	}
}

func TestCreateProduct(t *testing.T) {
	c := newTestClient(t)

	p, err := c.CreateProduct(context.Background(), model.ProductInput{Title: "Lamp", Price: 12.5, Category: "home", Image: "https://img/x.png", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, 21, p.ID)
	assert.Equal(t, "Lamp", p.Title)
}

func TestUpdateProduct(t *testing.T) {
	c := newTestClient(t)

	p, err := c.UpdateProduct(context.Background(), 1, model.ProductInput{Title: "Bag", Price: 99})
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Bag", p.Title)

	_, err = c.UpdateProduct(context.Background(), 77, model.ProductInput{Title: "Bag", Price: 99})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.DeleteProduct(context.Background(), 1))

	err := c.DeleteProduct(context.Background(), 77)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestServerErrorIsGeneric(t *testing.T) {
	c := newTestClient(t)

	err := c.api.Do(context.Background(), http.MethodGet, "boom", nil, nil)
	assert.ErrorIs(t, err, apperr.ErrGeneric)
	assert.Equal(t, apperr.MsgServerUnavailable, apperr.Message(err))
}
