package storefront

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/internal/apperr"
	"storefront/internal/localstore"
	"storefront/internal/logger"
	"storefront/internal/model"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
)

// CartStorageKey is the fixed local storage key of the serialized cart.
const CartStorageKey = "patyModasCart"

// ProductLookup resolves a product id against the current catalog snapshot.
type ProductLookup interface {
	Find(id string) (model.Product, bool)
}

// CartStore keeps at most one item per product id, never with a quantity
// below one. Every mutation rewrites the whole cart in storage before the
// in-memory state changes.
//
// Not safe for concurrent use.
type CartStore struct {
	storage  localstore.Storage
	products ProductLookup
	bus      EventBus.Bus
	items    []model.CartItem
}

func NewCartStore(storage localstore.Storage, products ProductLookup, bus EventBus.Bus) *CartStore {
	s := &CartStore{storage: storage, products: products, bus: bus}
	s.items = s.load()
	return s
}

// load restores the persisted cart. Anything unreadable yields an empty cart;
// duplicate ids are merged and non-positive quantities dropped.
func (s *CartStore) load() []model.CartItem {
	ctx := context.Background()
	raw, ok, err := s.storage.GetItem(CartStorageKey)
	if err != nil {
		logger.Warn(ctx, "Failed to read cart, starting empty", slog.String("error", err.Error()))
		return []model.CartItem{}
	}
	if !ok || raw == "" {
		return []model.CartItem{}
	}

	var stored []model.CartItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn(ctx, "Stored cart is invalid, starting empty", slog.String("error", err.Error()))
		return []model.CartItem{}
	}

	items := make([]model.CartItem, 0, len(stored))
	for _, it := range stored {
		if it.ID == "" || it.Quantity <= 0 {
			continue
		}
		if i := indexOfItem(items, it.ID); i >= 0 {
			items[i].Quantity += it.Quantity
			continue
		}
		items = append(items, it)
	}
	return items
}

func indexOfItem(items []model.CartItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *CartStore) commit(items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return apperr.Persistence(err, "encode cart")
	}
	if err := s.storage.SetItem(CartStorageKey, string(data)); err != nil {
		return err
	}
	s.items = items
	publish(s.bus, TopicCartChanged)
	return nil
}

func (s *CartStore) cloneItems() []model.CartItem {
	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Add puts one unit of the product in the cart. A new line copies the
// product as it is now; an existing line keeps its original snapshot.
func (s *CartStore) Add(productID string) error {
	p, ok := s.products.Find(productID)
	if !ok {
		return apperr.NotFound("product", productID)
	}

	items := s.cloneItems()
	if i := indexOfItem(items, productID); i >= 0 {
		items[i].Quantity++
		return s.commit(items)
	}
	return s.commit(append(items, model.NewCartItem(p)))
}

// Remove drops the item; absent ids are a no-op.
func (s *CartStore) Remove(productID string) error {
	i := indexOfItem(s.items, productID)
	if i < 0 {
		return nil
	}
	items := s.cloneItems()
	return s.commit(append(items[:i], items[i+1:]...))
}

// AdjustQuantity adds delta and removes the item once it reaches zero.
func (s *CartStore) AdjustQuantity(productID string, delta int) error {
	i := indexOfItem(s.items, productID)
	if i < 0 {
		return apperr.NotFound("cart item", productID)
	}
	if s.items[i].Quantity+delta <= 0 {
		return s.Remove(productID)
	}
	items := s.cloneItems()
	items[i].Quantity += delta
	return s.commit(items)
}

func (s *CartStore) Items() []model.CartItem {
	return s.cloneItems()
}

func (s *CartStore) Contains(productID string) bool {
	return indexOfItem(s.items, productID) >= 0
}

// Total is the exact sum of price × quantity. Rounding is left to display.
func (s *CartStore) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *CartStore) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartStore) IsEmpty() bool {
	return len(s.items) == 0
}
