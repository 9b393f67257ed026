package domain

// MaxCartUnits is the system-wide cart capacity, summed across all rows.
const MaxCartUnits = 100

// CartItem represents a single row in the cart ledger. Rows are unique per
// (productId, variantId) pairing; adding the same pairing merges quantities.
type CartItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	VariantID    string `json:"variantId"`
	VariantLabel string `json:"variantLabel"`
	Name         string `json:"name"`
	ImageURL     string `json:"imageUrl"`
	UnitPrice    int64  `json:"unitPrice"`
	Currency     string `json:"currency"`
	Quantity     int    `json:"quantity"`
}

// Cart is the in-memory cart ledger state.
type Cart struct {
	Items []CartItem `json:"items"`
}

// FindItemIndex returns the index of the row matching the given product and
// variant IDs, or -1 if no row matches.
func (c *Cart) FindItemIndex(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// FindRowIndex returns the index of the row with the given ledger-assigned ID,
// or -1 if no row matches.
func (c *Cart) FindRowIndex(rowID string) int {
	for i := range c.Items {
		if c.Items[i].ID == rowID {
			return i
		}
	}
	return -1
}

// TotalQuantity returns the number of units across all rows.
func (c *Cart) TotalQuantity() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount returns the sum of unitPrice × quantity across all rows.
// The caller owns the single-currency assumption; see TotalsByCurrency.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// TotalsByCurrency returns per-currency subtotals. A cart with more than one
// key is mixed-currency and cannot be checked out as a single order.
func (c *Cart) TotalsByCurrency() map[string]int64 {
	totals := make(map[string]int64)
	for _, item := range c.Items {
		totals[item.Currency] += item.UnitPrice * int64(item.Quantity)
	}
	return totals
}

// Snapshot returns a deep copy of the cart rows, detached from the ledger.
func (c *Cart) Snapshot() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}
