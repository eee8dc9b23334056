package cart

import (
	"context"

	"github.com/pkg/errors"
)

// ErrPumpEntryNotFound is the non-fatal condition reported when a removal
// references a fill that is no longer in the cart.
var ErrPumpEntryNotFound = errors.New("pump entry not found")

// PumpStopper requests that a physical pump stop dispensing. The call is
// keyed by pump id and idempotent, so it is safe to issue even when another
// cart entry still references the same pump.
type PumpStopper interface {
	StopPump(ctx context.Context, pumpID int) error
}

// Store is the kiosk cart: the persisted product and fill collections plus
// the in-memory cart-open flag. All mutations go through it; the checkout
// session only touches the cart via these operations.
type Store interface {
	// Products returns a copy of the product lines in insertion order.
	Products() []Product

	// Pumps returns a copy of the fill lines in insertion order.
	Pumps() []PumpEntry

	// AddProduct inserts a product line or bumps its quantity when the id
	// is already in the cart. Opens the cart view.
	AddProduct(id int64, name string, unitPrice int64)

	// UpdateProductQty applies a quantity delta. A resulting quantity of
	// zero or less removes the line entirely.
	UpdateProductQty(id int64, delta int)

	// RemoveProduct drops the product line unconditionally.
	RemoveProduct(id int64)

	// AddPump appends a fill line under a freshly generated uuid and
	// returns that uuid. Fills are never merged. Opens the cart view.
	AddPump(entry PumpEntry) string

	// RemovePump first asks the physical pump to stop dispensing, then
	// drops the fill line. A stop failure is logged, not surfaced. Returns
	// ErrPumpEntryNotFound when the uuid is not in the cart.
	RemovePump(ctx context.Context, uuid string) error

	// IsOpen reports the cart-open UI flag (not persisted).
	IsOpen() bool
	OpenCart()
	CloseCart()
	ToggleCart()

	// Subscribe registers a callback fired after every cart mutation, so a
	// checkout selection can prune keys that no longer resolve.
	Subscribe(onChange func())
}
