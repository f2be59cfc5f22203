package clientstate

import (
	"encoding/json"
	"errors"
	"sync"

	"krakenstore/internal/model"

	"github.com/shopspring/decimal"
)

const carritoKey = "carrito"

// ItemCarrito is one cart line as the app stores it on device.
type ItemCarrito struct {
	ID       string          `json:"id"`
	Nombre   string          `json:"nombre"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad"`
	Tipo     string          `json:"tipo"`
	Imagen   *string         `json:"imagen,omitempty"`
}

// Carrito is the injectable cart container. Every mutation re-serializes
// the full item list through the Store.
type Carrito struct {
	mu    sync.Mutex
	store Store
	items []ItemCarrito
}

// NewCarrito loads any persisted cart. Items saved by older app versions
// carry no tipo; they default to minoreo.
func NewCarrito(store Store) (*Carrito, error) {
	c := &Carrito{store: store}
	data, err := store.Get(carritoKey)
	if errors.Is(err, ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		// A corrupt cart is discarded rather than bricking the app.
		c.items = nil
		return c, nil
	}
	for i := range c.items {
		if c.items[i].Tipo == "" {
			c.items[i].Tipo = model.TipoMinoreo
		}
	}
	return c, nil
}

func (c *Carrito) persist() error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.store.Set(carritoKey, data)
}

// Agregar adds an item, merging quantities when the product is already
// in the cart.
func (c *Carrito) Agregar(item ItemCarrito) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item.Tipo == "" {
		item.Tipo = model.TipoMinoreo
	}
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Cantidad += item.Cantidad
			return c.persist()
		}
	}
	c.items = append(c.items, item)
	return c.persist()
}

// CambiarCantidad sets an item's quantity; zero or less removes it.
func (c *Carrito) CambiarCantidad(id string, cantidad int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			if cantidad <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Cantidad = cantidad
			}
			return c.persist()
		}
	}
	return nil
}

// Quitar removes an item entirely.
func (c *Carrito) Quitar(id string) error {
	return c.CambiarCantidad(id, 0)
}

// Vaciar clears the cart (called after a successful checkout).
func (c *Carrito) Vaciar() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.store.Delete(carritoKey)
}

// Items returns a copy of the current lines.
func (c *Carrito) Items() []ItemCarrito {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ItemCarrito, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums precio × cantidad over all lines.
func (c *Carrito) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return total
}

// Count returns the total number of pieces in the cart.
func (c *Carrito) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Cantidad
	}
	return n
}
