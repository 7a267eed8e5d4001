// Package cart implements the client-local shopping cart as a pure reducer.
// The server never stores cart state; clients persist the serialized cart in
// local storage and replay mutations through these functions.
package cart

import "encoding/json"

// Item is one cart line. Quantity is always at least 1; a line whose
// quantity would reach 0 is removed instead.
type Item struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart is an ordered list of items keyed by product id, no duplicates.
type Cart []Item

// Add returns the cart with the product added: an existing line is
// incremented, a new product is appended with quantity 1.
func (c Cart) Add(item Item) Cart {
	for i, existing := range c {
		if existing.ProductID == item.ProductID {
			next := append(Cart(nil), c...)
			next[i].Quantity++
			return next
		}
	}
	item.Quantity = 1
	return append(append(Cart(nil), c...), item)
}

// Remove returns the cart with one unit of the product removed: a line with
// quantity above 1 is decremented, otherwise the line is dropped entirely.
func (c Cart) Remove(productID int64) Cart {
	next := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ProductID == productID {
			if item.Quantity > 1 {
				item.Quantity--
				next = append(next, item)
			}
			continue
		}
		next = append(next, item)
	}
	return next
}

// Total folds price times quantity over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalItems counts units across all lines.
func (c Cart) TotalItems() int {
	var count int
	for _, item := range c {
		count += item.Quantity
	}
	return count
}

// Encode serializes the cart for client-local storage.
func (c Cart) Encode() ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return json.Marshal(c)
}

// Decode rehydrates a cart previously produced by Encode.
func Decode(data []byte) (Cart, error) {
	if len(data) == 0 {
		return Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}
