package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by a Keeper when the requested slot is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a session token cannot be trusted.
	ErrUnauthorized = errors.New("unauthorized")
)

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Keeper is a durable key-value slot store
type Keeper interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(context.Context) bool
	Close() bool
}

// CartStore owns the cart state and mirrors every change to the keeper
type CartStore struct {
	mx    sync.RWMutex
	state cart.State

	keeper Keeper
	log    Log
}

// NewCartStore creates a CartStore, rehydrating it from the keeper when one is given
func NewCartStore(ctx context.Context, keeper Keeper, log Log) *CartStore {
	store := &CartStore{
		state:  cart.Empty(),
		keeper: keeper,
		log:    log,
	}

	if keeper != nil {
		state, err := store.load(ctx)
		if err != nil {
			log.Warn("cannot load cart, starting empty", zap.Error(err))
		} else {
			store.state = state
			log.Info("cart restored", zap.Int("items", len(state.Items)), zap.Int("total_items", state.TotalItems))
		}
	}

	return store
}

func (s *CartStore) load(ctx context.Context) (cart.State, error) {
	data, err := s.keeper.Get(ctx, cart.SlotKey)
	if errors.Is(err, ErrNotFound) {
		return cart.Empty(), nil
	}
	if err != nil {
		return cart.Empty(), err
	}
	return cart.Decode(data)
}

// State returns a copy of the current cart
func (s *CartStore) State() cart.State {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.state.Clone()
}

// AddItem adds one unit of p
func (s *CartStore) AddItem(ctx context.Context, p models.Product) cart.State {
	return s.dispatch(ctx, cart.Add{Product: p})
}

// AddUnits adds n units of p as a single change. n below 1 is treated as 1.
func (s *CartStore) AddUnits(ctx context.Context, p models.Product, n int) cart.State {
	actions := make([]cart.Action, 0, max(n, 1))
	for range max(n, 1) {
		actions = append(actions, cart.Add{Product: p})
	}
	return s.dispatch(ctx, actions...)
}

// RemoveItem removes one unit of p
func (s *CartStore) RemoveItem(ctx context.Context, p models.Product) cart.State {
	return s.dispatch(ctx, cart.Remove{Product: p})
}

// RemoveAll removes every unit of p
func (s *CartStore) RemoveAll(ctx context.Context, p models.Product) cart.State {
	return s.dispatch(ctx, cart.RemoveAll{Product: p})
}

// Clear empties the cart
func (s *CartStore) Clear(ctx context.Context) cart.State {
	return s.dispatch(ctx, cart.Clear{})
}

// Replace swaps the cart contents for items
func (s *CartStore) Replace(ctx context.Context, items []models.LineItem) cart.State {
	return s.dispatch(ctx, cart.Replace{Items: items})
}

// dispatch applies actions and persists the result while still holding the
// lock, so slot writes happen in mutation order.
func (s *CartStore) dispatch(ctx context.Context, actions ...cart.Action) cart.State {
	s.mx.Lock()
	defer s.mx.Unlock()

	next := s.state
	for _, a := range actions {
		next = cart.Reduce(next, a)
	}
	s.state = next
	s.persist(ctx)

	return s.state.Clone()
}

func (s *CartStore) persist(ctx context.Context) {
	if s.keeper == nil {
		return
	}

	// a cancelled request must not leave the slot behind memory
	ctx = context.WithoutCancel(ctx)

	data, err := cart.Encode(s.state)
	if err != nil {
		s.log.Error("cannot encode cart", zap.Error(err))
		return
	}
	if err := s.keeper.Put(ctx, cart.SlotKey, data); err != nil {
		s.log.Error("cannot persist cart", zap.Error(err))
	}
}
