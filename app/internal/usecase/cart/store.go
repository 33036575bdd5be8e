package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domcart "example.com/shop-console/app/internal/domain/cart"
)

// Store owns the line items of one cart. Every mutation is written through to
// storage before it returns; storage failures are logged and the in-memory
// items stay authoritative.
type Store struct {
	mu      sync.Mutex
	storage domcart.Storage
	log     logrus.FieldLogger
	items   []domcart.Item
}

// NewStore rehydrates a cart from storage. A missing, unreadable or corrupt
// blob yields an empty cart.
func NewStore(ctx context.Context, storage domcart.Storage, log logrus.FieldLogger) *Store {
	s := &Store{
		storage: storage,
		log:     log,
		items:   []domcart.Item{},
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	blob, found, err := s.storage.Read(ctx, domcart.StorageKey)
	if err != nil {
		s.log.WithError(err).Warn("cart: failed to read stored cart, starting empty")
		return
	}
	if !found {
		return
	}
	items, err := domcart.Decode(blob)
	if err != nil {
		s.log.WithError(err).Warn("cart: failed to load cart, starting empty")
		return
	}
	// older blobs may repeat a variant or carry non-positive quantities
	for _, it := range items {
		s.addLocked(it)
	}
	if len(s.items) != len(items) {
		s.log.WithField("stored_lines", len(items)).Warn("cart: normalized stored cart")
	}
}

// AddItem merges item into the cart by variant. An existing line only has its
// quantity increased; the incoming price and labels are discarded.
func (s *Store) AddItem(ctx context.Context, item domcart.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addLocked(item)
	s.save(ctx)
}

func (s *Store) addLocked(item domcart.Item) {
	if i := s.indexOf(item.VariantID); i >= 0 {
		s.items[i].Quantity += item.Quantity
		if s.items[i].Quantity <= 0 {
			s.items = without(s.items, item.VariantID)
		}
	} else if item.Quantity > 0 {
		s.items = append(s.items, item)
	}
}

// RemoveItem drops the line for variantID. Unknown variants are ignored.
func (s *Store) RemoveItem(ctx context.Context, variantID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, variantID)
}

// UpdateQuantity sets the quantity of an existing line; qty <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, variantID int64, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(variantID)
	if i < 0 {
		return
	}
	s.items[i].Quantity = qty
	if qty <= 0 {
		s.removeLocked(ctx, variantID)
		return
	}
	s.save(ctx)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domcart.Item{}
	s.save(ctx)
}

// Deduct subtracts ordered quantities from the matching lines and drops lines
// that reach zero. Lines added after the order snapshot was taken survive.
func (s *Store) Deduct(ctx context.Context, ordered []domcart.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range ordered {
		i := s.indexOf(it.VariantID)
		if i < 0 {
			continue
		}
		s.items[i].Quantity -= it.Quantity
		if s.items[i].Quantity <= 0 {
			s.items = without(s.items, it.VariantID)
		}
	}
	s.save(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domcart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domcart.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domcart.ItemCount(s.items)
}

func (s *Store) TotalAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domcart.TotalAmount(s.items)
}

// Snapshot returns the items together with their aggregates, read under one lock.
func (s *Store) Snapshot() domcart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domcart.Item, len(s.items))
	copy(items, s.items)
	return domcart.Cart{
		Items:       items,
		ItemCount:   domcart.ItemCount(items),
		TotalAmount: domcart.TotalAmount(items),
	}
}

func (s *Store) removeLocked(ctx context.Context, variantID int64) {
	s.items = without(s.items, variantID)
	s.save(ctx)
}

func (s *Store) indexOf(variantID int64) int {
	for i, it := range s.items {
		if it.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (s *Store) save(ctx context.Context) {
	blob, err := domcart.Encode(s.items)
	if err != nil {
		s.log.WithError(err).Error("cart: failed to encode cart")
		return
	}
	if err := s.storage.Write(ctx, domcart.StorageKey, blob); err != nil {
		s.log.WithError(err).Error("cart: failed to persist cart")
	}
}

func without(items []domcart.Item, variantID int64) []domcart.Item {
	out := make([]domcart.Item, 0, len(items))
	for _, it := range items {
		if it.VariantID != variantID {
			out = append(out, it)
		}
	}
	return out
}
