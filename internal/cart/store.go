package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var log = logger.GetLogger()

const PRODUCTS_KEY = "cart_products"
const PUMPS_KEY = "cart_pumps"

type cartStore struct {
	store   storage.Storage
	stopper PumpStopper

	mu       sync.Mutex
	products []Product
	pumps    []PumpEntry
	open     bool

	listenersMu sync.Mutex
	listeners   []func()
}

func NewStore(store storage.Storage, stopper PumpStopper) Store {
	cs := &cartStore{store: store, stopper: stopper}
	cs.restore()
	return cs
}

func (cs *cartStore) Products() []Product {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	products := make([]Product, len(cs.products))
	copy(products, cs.products)
	return products
}

func (cs *cartStore) Pumps() []PumpEntry {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	pumps := make([]PumpEntry, len(cs.pumps))
	copy(pumps, cs.pumps)
	return pumps
}

func (cs *cartStore) AddProduct(id int64, name string, unitPrice int64) {
	cs.mu.Lock()
	found := false
	for i := range cs.products {
		if cs.products[i].ID == id {
			cs.products[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		cs.products = append(cs.products, Product{
			ID:        id,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		})
	}
	cs.open = true
	snapshot := cs.marshalProductsLocked()
	cs.mu.Unlock()

	cs.persist(PRODUCTS_KEY, snapshot)
	cs.notify()
}

func (cs *cartStore) UpdateProductQty(id int64, delta int) {
	cs.mu.Lock()
	index := -1
	for i := range cs.products {
		if cs.products[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		cs.mu.Unlock()
		log.Warnf("action: update_product_qty | result: not_found | id: %d", id)
		return
	}

	newQty := cs.products[index].Quantity + delta
	if newQty <= 0 {
		// A quantity of zero never persists: the line goes away.
		cs.products = append(cs.products[:index], cs.products[index+1:]...)
	} else {
		cs.products[index].Quantity = newQty
	}
	snapshot := cs.marshalProductsLocked()
	cs.mu.Unlock()

	cs.persist(PRODUCTS_KEY, snapshot)
	cs.notify()
}

func (cs *cartStore) RemoveProduct(id int64) {
	cs.mu.Lock()
	index := -1
	for i := range cs.products {
		if cs.products[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		cs.mu.Unlock()
		return
	}
	cs.products = append(cs.products[:index], cs.products[index+1:]...)
	snapshot := cs.marshalProductsLocked()
	cs.mu.Unlock()

	cs.persist(PRODUCTS_KEY, snapshot)
	cs.notify()
}

func (cs *cartStore) AddPump(entry PumpEntry) string {
	entry.UUID = uuid.NewString()

	cs.mu.Lock()
	cs.pumps = append(cs.pumps, entry)
	cs.open = true
	snapshot := cs.marshalPumpsLocked()
	cs.mu.Unlock()

	cs.persist(PUMPS_KEY, snapshot)
	cs.notify()
	return entry.UUID
}

func (cs *cartStore) RemovePump(ctx context.Context, entryUUID string) error {
	cs.mu.Lock()
	pumpID := -1
	for i := range cs.pumps {
		if cs.pumps[i].UUID == entryUUID {
			pumpID = cs.pumps[i].PumpID
			break
		}
	}
	cs.mu.Unlock()

	if pumpID < 0 {
		return errors.Wrap(ErrPumpEntryNotFound, entryUUID)
	}

	// Stop the physical pump before the line leaves the cart. The request
	// settling is what matters; a stop failure is a transport concern and
	// must not block the removal.
	if err := cs.stopper.StopPump(ctx, pumpID); err != nil {
		log.Errorf("action: stop_pump | result: failed | pump_id: %d | error: %v", pumpID, err)
	}

	cs.mu.Lock()
	for i := range cs.pumps {
		if cs.pumps[i].UUID == entryUUID {
			cs.pumps = append(cs.pumps[:i], cs.pumps[i+1:]...)
			break
		}
	}
	snapshot := cs.marshalPumpsLocked()
	cs.mu.Unlock()

	cs.persist(PUMPS_KEY, snapshot)
	cs.notify()
	return nil
}

func (cs *cartStore) IsOpen() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.open
}

func (cs *cartStore) OpenCart() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.open = true
}

func (cs *cartStore) CloseCart() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.open = false
}

func (cs *cartStore) ToggleCart() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.open = !cs.open
}

func (cs *cartStore) Subscribe(onChange func()) {
	cs.listenersMu.Lock()
	defer cs.listenersMu.Unlock()
	cs.listeners = append(cs.listeners, onChange)
}

// --- PRIVATE METHODS ---

func (cs *cartStore) restore() {
	if data, err := cs.store.Load(PRODUCTS_KEY); err == nil {
		if err := json.Unmarshal(data, &cs.products); err != nil {
			log.Warnf("action: restore_cart | result: corrupt products state | error: %v", err)
			cs.products = nil
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Warnf("action: restore_cart | result: failed | error: %v", err)
	}

	if data, err := cs.store.Load(PUMPS_KEY); err == nil {
		if err := json.Unmarshal(data, &cs.pumps); err != nil {
			log.Warnf("action: restore_cart | result: corrupt pumps state | error: %v", err)
			cs.pumps = nil
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Warnf("action: restore_cart | result: failed | error: %v", err)
	}
}

func (cs *cartStore) marshalProductsLocked() []byte {
	data, err := json.Marshal(cs.products)
	if err != nil {
		log.Errorf("action: persist_cart | result: marshal failed | error: %v", err)
		return nil
	}
	return data
}

func (cs *cartStore) marshalPumpsLocked() []byte {
	data, err := json.Marshal(cs.pumps)
	if err != nil {
		log.Errorf("action: persist_cart | result: marshal failed | error: %v", err)
		return nil
	}
	return data
}

func (cs *cartStore) persist(key string, data []byte) {
	if data == nil {
		return
	}
	if err := cs.store.Save(key, data); err != nil {
		log.Errorf("action: persist_cart | result: failed | key: %s | error: %v", key, err)
	}
}

// notify runs the change listeners with no cart lock held, so a listener is
// free to read the cart back.
func (cs *cartStore) notify() {
	cs.listenersMu.Lock()
	listeners := make([]func(), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.listenersMu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}
