package cart

import (
	"errors"
	"sync"
	"time"

	"peptide-store/internal/models"
)

var ErrBadIndex = errors.New("no cart line at that index")

// Item is one cart line. UnitPrice is resolved once at add time, so a later
// price edit in the admin panel does not silently reprice a customer's cart.
// Stock is the availability seen at the last mutation - the clamp ceiling.
type Item struct {
	ProductID   uint    `json:"product_id"`
	VariationID *uint   `json:"variation_id"`
	Name        string  `json:"name"`
	PenType     string  `json:"pen_type"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Purity      float64 `json:"purity"`
	Stock       int     `json:"stock"`
}

// Cart is an ordered list of lines, owned by one shopping session.
// Never persisted - abandoning checkout discards it.
type Cart struct {
	Items   []Item    `json:"items"`
	Touched time.Time `json:"-"`
}

// TotalPrice is the subtotal before discount and shipping:
// sum of unit price x quantity over every line.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// TotalItems is the badge count: sum of quantities.
func (c Cart) TotalItems() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// ResolveUnitPrice picks the price a new cart line locks in.
// Variation beats product, pen-type price beats the variation price, and an
// active discount beats the regular price.
func ResolveUnitPrice(p *models.Product, v *models.ProductVariation, penType string) float64 {
	if v != nil {
		if penType == "disposable" && v.DisposablePenPrice != nil {
			return *v.DisposablePenPrice
		}
		if penType == "reusable" && v.ReusablePenPrice != nil {
			return *v.ReusablePenPrice
		}
		if v.DiscountActive && v.DiscountPrice != nil {
			return *v.DiscountPrice
		}
		return v.Price
	}
	if p.DiscountActive && p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.BasePrice
}

// Store keeps every live cart in memory, keyed by the opaque cart token the
// browser sends in X-Cart-Token. One process, one map, one mutex.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) get(token string) *Cart {
	c, ok := s.carts[token]
	if !ok {
		c = &Cart{}
		s.carts[token] = c
	}
	c.Touched = time.Now()
	return c
}

// Snapshot returns a copy of the cart for the handler to serialize.
func (s *Store) Snapshot(token string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(token)
	out := Cart{Items: make([]Item, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// Add appends a line, or merges into an existing line for the same
// product/variation/pen-type. The merged quantity is clamped to stock;
// the bool reports whether clamping happened so the UI can warn.
func (s *Store) Add(token string, item Item) (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(token)

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	clamped := false
	for i := range c.Items {
		line := &c.Items[i]
		if line.ProductID == item.ProductID && sameVariation(line.VariationID, item.VariationID) && line.PenType == item.PenType {
			// Stock may have hit zero since the line was added; a line can
			// never carry quantity 0, so it goes away instead.
			if item.Stock < 1 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return s.snapshotLocked(c), true
			}
			line.Quantity += item.Quantity
			line.Stock = item.Stock
			if line.Quantity > item.Stock {
				line.Quantity = item.Stock
				clamped = true
			}
			return s.snapshotLocked(c), clamped
		}
	}

	if item.Stock < 1 {
		return s.snapshotLocked(c), true
	}
	if item.Quantity > item.Stock {
		item.Quantity = item.Stock
		clamped = true
	}
	c.Items = append(c.Items, item)
	return s.snapshotLocked(c), clamped
}

// UpdateQuantity sets a line's quantity, clamping to the given current stock.
// A request over stock is not an error - it clamps with a warning, matching
// the silent-clamp failure mode of the storefront.
func (s *Store) UpdateQuantity(token string, index, quantity, stock int) (Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(token)
	if index < 0 || index >= len(c.Items) {
		return s.snapshotLocked(c), false, ErrBadIndex
	}

	// Stock gone since the last read: drop the line rather than keep a
	// quantity-0 entry around.
	if stock < 1 {
		c.Items = append(c.Items[:index], c.Items[index+1:]...)
		return s.snapshotLocked(c), true, nil
	}

	if quantity < 1 {
		quantity = 1
	}
	clamped := false
	if quantity > stock {
		quantity = stock
		clamped = true
	}
	c.Items[index].Quantity = quantity
	c.Items[index].Stock = stock
	return s.snapshotLocked(c), clamped, nil
}

// Remove drops a line by index.
func (s *Store) Remove(token string, index int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(token)
	if index < 0 || index >= len(c.Items) {
		return s.snapshotLocked(c), ErrBadIndex
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return s.snapshotLocked(c), nil
}

// Clear empties the cart (used by the customer and by order placement).
func (s *Store) Clear(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
}

// Sweep evicts carts idle longer than maxAge. Run from a ticker goroutine.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	n := 0
	for token, c := range s.carts {
		if c.Touched.Before(cutoff) {
			delete(s.carts, token)
			n++
		}
	}
	return n
}

func (s *Store) snapshotLocked(c *Cart) Cart {
	out := Cart{Items: make([]Item, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

func sameVariation(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
