package cart

import (
	"errors"
	"sync"
)

// ErrInvalidQuantity is returned when a quantity below 1 is requested for a
// line that exists. Dropping a line goes through RemoveItem, never through a
// zero quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is one product's presence in the cart. Title, UnitPrice and Image are
// snapshots of the product at the time of adding and are not re-fetched.
type Line struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the lines a shopper intends to purchase, at most one line per
// product. All reads see a consistent point-in-time view even while the
// display surface iterates during a mutation.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts a new line, or increments the quantity of the existing line
// for the same product.
func (c *Cart) AddItem(line Line, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	line.Quantity = quantity
	c.lines = append(c.lines, line)
	return nil
}

// RemoveItem deletes the line if present. Removing an absent product is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity of an existing line. Quantities below 1
// fail with ErrInvalidQuantity and leave the cart unchanged; an absent
// product is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for i := range c.lines {
		count += c.lines[i].Quantity
	}
	return count
}

// Subtotal is the sum of quantity times unit price across all lines.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for i := range c.lines {
		total += float64(c.lines[i].Quantity) * c.lines[i].UnitPrice
	}
	return total
}

// Snapshot returns a copy of the current lines in insertion order. Later cart
// mutations do not affect the returned slice.
func (c *Cart) Snapshot() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]Line, len(c.lines))
	copy(snapshot, c.lines)
	return snapshot
}
