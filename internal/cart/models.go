package cart

import (
	"fmt"
	"math"
)

// Product is one snack/drink line item, unique per product id.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Amount is the payable total of the product line.
func (p Product) Amount() int64 {
	return p.UnitPrice * int64(p.Quantity)
}

// SelectionKey identifies the product inside a checkout selection set.
func (p Product) SelectionKey() string {
	return fmt.Sprintf("prod-%d", p.ID)
}

// PumpEntry is one fuel fill line item. Every fill is its own line, so
// several entries may reference the same physical pump; the uuid generated
// at add time tells them apart.
type PumpEntry struct {
	UUID      string  `json:"uuid"`
	PumpID    int     `json:"pump_id"`
	Grade     int     `json:"grade"` // octane value, not the wire index
	PricePerL int64   `json:"price_per_l"`
	Liters    float64 `json:"liters"`

	// TotalAmount is set when the fill was preset by amount; it is
	// authoritative over PricePerL x Liters and absorbs preset-time rounding.
	TotalAmount *int64 `json:"total_amount,omitempty"`
}

// Amount is the payable total of the fill.
func (p PumpEntry) Amount() int64 {
	if p.TotalAmount != nil {
		return *p.TotalAmount
	}
	return int64(math.Floor(float64(p.PricePerL) * p.Liters))
}

// SelectionKey identifies the fill inside a checkout selection set.
func (p PumpEntry) SelectionKey() string {
	return p.UUID
}
