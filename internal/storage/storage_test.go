package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memKeeper struct {
	mu     sync.Mutex
	slots  map[string][]byte
	puts   int
	putErr error
}

func newMemKeeper() *memKeeper {
	return &memKeeper{slots: map[string][]byte{}}
}

func (k *memKeeper) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (k *memKeeper) Put(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.putErr != nil {
		return k.putErr
	}
	k.puts++
	k.slots[key] = append([]byte(nil), value...)
	return nil
}

func (k *memKeeper) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.slots, key)
	return nil
}

func (k *memKeeper) Ping(context.Context) bool { return true }
func (k *memKeeper) Close() bool               { return true }

func item(id int, price string) models.Product {
	return models.Product{ID: id, Title: "item", Price: decimal.RequireFromString(price), Category: "Home"}
}

func TestCartStorePersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	store := NewCartStore(ctx, keeper, zap.NewNop())

	store.AddItem(ctx, item(1, "9.99"))
	store.AddItem(ctx, item(1, "9.99"))
	store.RemoveItem(ctx, item(1, "9.99"))
	assert.Equal(t, 3, keeper.puts)

	persisted, err := cart.Decode(keeper.slots[cart.SlotKey])
	require.NoError(t, err)
	assert.Equal(t, 1, persisted.TotalItems)
	assert.Equal(t, "9.99", persisted.TotalPrice.StringFixed(2))
}

func TestCartStoreRehydrates(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()

	first := NewCartStore(ctx, keeper, zap.NewNop())
	first.AddUnits(ctx, item(2, "19.98"), 3)
	first.AddItem(ctx, item(5, "49.95"))

	second := NewCartStore(ctx, keeper, zap.NewNop())
	got := second.State()
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[0].ID)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, 4, got.TotalItems)
	assert.Equal(t, "109.89", got.TotalPrice.StringFixed(2))
}

func TestCartStoreRecomputesStaleTotals(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	keeper.slots[cart.SlotKey] = []byte(`{"items":[{"id":1,"price":"2.50","quantity":4}],"totalItems":1,"totalPrice":"0"}`)

	store := NewCartStore(ctx, keeper, zap.NewNop())
	assert.Equal(t, 4, store.State().TotalItems)
	assert.Equal(t, "10.00", store.State().TotalPrice.StringFixed(2))
}

func TestCartStoreCorruptSlotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	keeper.slots[cart.SlotKey] = []byte(`not json`)

	store := NewCartStore(ctx, keeper, zap.NewNop())
	assert.Equal(t, cart.Empty(), store.State())
}

func TestCartStoreWithoutKeeper(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(ctx, nil, zap.NewNop())
	store.AddItem(ctx, item(1, "1.00"))
	assert.Equal(t, 1, store.State().TotalItems)
}

func TestCartStoreKeepsMemoryWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	keeper.putErr = errors.New("disk full")
	store := NewCartStore(ctx, keeper, zap.NewNop())

	got := store.AddItem(ctx, item(1, "1.00"))
	assert.Equal(t, 1, got.TotalItems)
	assert.Equal(t, 1, store.State().TotalItems)
}

func TestCartStoreAddUnitsIsOneWrite(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	store := NewCartStore(ctx, keeper, zap.NewNop())

	got := store.AddUnits(ctx, item(1, "0.10"), 10)
	assert.Equal(t, 10, got.TotalItems)
	assert.Equal(t, "1.00", got.TotalPrice.StringFixed(2))
	assert.Equal(t, 1, keeper.puts)

	got = store.AddUnits(ctx, item(2, "1.00"), 0)
	assert.Equal(t, 11, got.TotalItems)
}

func TestCartStoreRemoveAllAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(ctx, newMemKeeper(), zap.NewNop())
	store.AddUnits(ctx, item(1, "3.00"), 4)
	store.AddItem(ctx, item(2, "1.00"))

	got := store.RemoveAll(ctx, item(1, "3.00"))
	assert.Equal(t, 1, got.TotalItems)

	got = store.Clear(ctx)
	assert.Empty(t, got.Items)
	assert.True(t, got.TotalPrice.IsZero())
}

func TestCartStoreStateIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(ctx, nil, zap.NewNop())
	store.AddItem(ctx, item(1, "1.00"))

	s := store.State()
	s.Items[0].Quantity = 99
	assert.Equal(t, 1, store.State().Items[0].Quantity)
}

func TestCartStoreConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	store := NewCartStore(ctx, keeper, zap.NewNop())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, item(i%5, "1.00"))
		}()
	}
	wg.Wait()

	got := store.State()
	assert.Equal(t, 50, got.TotalItems)
	assert.Len(t, got.Items, 5)

	persisted, err := cart.Decode(keeper.slots[cart.SlotKey])
	require.NoError(t, err)
	assert.Equal(t, 50, persisted.TotalItems)
}
