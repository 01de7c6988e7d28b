package view

import (
	"fmt"
	"io"
	"sync"

	"storefront/internal/storefront"

	"github.com/asaskevich/EventBus"
)

// Renderer writes text projections of the stores. Attached to a bus it
// re-projects whatever a change event touched.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	products *storefront.ProductStore
	cart     *storefront.CartStore
	session  *storefront.Session

	bus       EventBus.Bus
	onCatalog func()
	onCart    func()
}

func NewRenderer(out io.Writer, products *storefront.ProductStore, cart *storefront.CartStore, session *storefront.Session) *Renderer {
	r := &Renderer{out: out, products: products, cart: cart, session: session}
	r.onCatalog = r.RenderCatalog
	r.onCart = r.RenderBadge
	return r
}

// Attach subscribes to the store topics.
func (r *Renderer) Attach(bus EventBus.Bus) error {
	subs := []struct {
		topic string
		fn    func()
	}{
		{storefront.TopicProductsChanged, r.onCatalog},
		{storefront.TopicSessionChanged, r.onCatalog},
		{storefront.TopicCartChanged, r.onCart},
	}
	for _, s := range subs {
		if err := bus.Subscribe(s.topic, s.fn); err != nil {
			return err
		}
	}
	r.bus = bus
	return nil
}

func (r *Renderer) Detach() {
	if r.bus == nil {
		return
	}
	_ = r.bus.Unsubscribe(storefront.TopicProductsChanged, r.onCatalog)
	_ = r.bus.Unsubscribe(storefront.TopicSessionChanged, r.onCatalog)
	_ = r.bus.Unsubscribe(storefront.TopicCartChanged, r.onCart)
	r.bus = nil
}

func (r *Renderer) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, msg)
}

func (r *Renderer) RenderCatalog() {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin := r.session != nil && r.session.IsAdmin()
	for _, s := range Catalog(r.products.List()) {
		fmt.Fprintf(r.out, "== %s ==\n", s.Title)
		if len(s.Products) == 0 {
			fmt.Fprintln(r.out, "  (vazio)")
			continue
		}
		for _, p := range s.Products {
			fmt.Fprintf(r.out, "  [%s] %s - %s\n", p.ID, p.Name, FormatBRL(p.Price.Decimal))
			if p.Description != "" {
				fmt.Fprintf(r.out, "      %s\n", p.Description)
			}
			if admin {
				fmt.Fprintf(r.out, "      ID: %s\n", p.InternalID)
			}
		}
	}
}

func (r *Renderer) RenderBadge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Carrinho (%d)\n", r.cart.ItemCount())
}

func (r *Renderer) RenderCart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "Seu carrinho está vazio.")
	}
	for _, it := range items {
		fmt.Fprintf(r.out, "  [%s] %s  R$ %s x %d\n", it.ID, it.Name, FormatAmount(it.Price.Decimal), it.Quantity)
	}
	fmt.Fprintf(r.out, "Total: %s\n", FormatBRL(r.cart.Total()))
}
