package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/model"
)

func TestPlace_EmptyCart(t *testing.T) {
	store := cart.NewStore()
	svc := NewService(store, nil)

	_, err := svc.Place(model.Session{Token: "tok"})

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, MsgEmptyCart, apperr.Message(err))
}

func TestPlace_EmptyCartDoesNotNotify(t *testing.T) {
	store := cart.NewStore()
	svc := NewService(store, nil)

	notified := 0
	unsubscribe := store.Subscribe(func(cart.State) { notified++ })
	defer unsubscribe()

	_, err := svc.Place(model.Session{Token: "tok"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, notified)

	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 1, Price: 10}})
	_, err = svc.Place(model.Session{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, 2, notified, "add and checkout notify once each")
}

func TestPlace_BuildsReceiptAndClearsCart(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := cart.NewStore()
	svc := NewService(store, zap.New(core))
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 1, Title: "A", Price: 10}})
	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 2, Title: "B", Price: 5}})
	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 1, Title: "A", Price: 10}})

	receipt, err := svc.Place(model.Session{Token: "tok", UserID: 3})
	require.NoError(t, err)

	_, err = uuid.Parse(receipt.ID)
	require.NoError(t, err)

	assert.Equal(t, Order{
		UserID:   3,
		Date:     "2024-03-01",
		Products: []OrderLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
	}, receipt.Order)
	assert.Equal(t, 3, receipt.ItemCount)
	assert.InDelta(t, 25.0, receipt.Total, 1e-9)
	assert.Equal(t, "25.00", receipt.TotalDisplay)
	assert.Len(t, receipt.Lines, 2)

	assert.True(t, store.State().IsEmpty())
	assert.Equal(t, 1, logs.FilterMessage("order placed").Len())

	_, err = svc.Place(model.Session{Token: "tok"})
	assert.ErrorIs(t, err, apperr.ErrValidation, "second checkout sees the cleared cart")
}

func TestPlace_RoundsDisplayTotal(t *testing.T) {
	store := cart.NewStore()
	svc := NewService(store, nil)

	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 1, Price: 0.1}})
	store.Dispatch(cart.AddItem{Item: cart.Item{ID: 2, Price: 0.2}})

	receipt, err := svc.Place(model.Session{})
	require.NoError(t, err)
	assert.Equal(t, "0.30", receipt.TotalDisplay)
}
