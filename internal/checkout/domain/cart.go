package domain

// CartItem is a single SKU line. Duration mirrors the session-wide selection
// and is zero while no duration has been chosen.
type CartItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Duration int    `json:"duration,omitempty"`
}

// CartLine is the wire shape of a cart item sent to the commerce API.
type CartLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Cart is an ordered list of items, unique by SKU.
type Cart struct {
	items []CartItem
}

// Upsert replaces the quantity of an existing SKU or appends a new item
// carrying the given duration. It reports whether a new item was appended.
func (c *Cart) Upsert(sku string, quantity int, duration int) bool {
	if i := c.index(sku); i >= 0 {
		c.items[i].Quantity = quantity
		return false
	}
	c.items = append(c.items, CartItem{SKU: sku, Quantity: quantity, Duration: duration})
	return true
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.items = nil
}

// SetDuration copies the selected duration onto every item.
func (c *Cart) SetDuration(duration int) {
	for i := range c.items {
		c.items[i].Duration = duration
	}
}

// Find returns the item for sku.
func (c *Cart) Find(sku string) (CartItem, bool) {
	if i := c.index(sku); i >= 0 {
		return c.items[i], true
	}
	return CartItem{}, false
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lines returns the cart as request lines, dropping the duration field.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.items))
	for i, item := range c.items {
		lines[i] = CartLine{SKU: item.SKU, Quantity: item.Quantity}
	}
	return lines
}

func (c *Cart) index(sku string) int {
	for i, item := range c.items {
		if item.SKU == sku {
			return i
		}
	}
	return -1
}
