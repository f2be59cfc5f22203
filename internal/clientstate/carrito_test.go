package clientstate

import (
	"testing"

	"krakenstore/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemMica(cantidad int) ItemCarrito {
	return ItemCarrito{
		ID:       "prod-mica",
		Nombre:   "Mica 9D iPhone 15",
		Precio:   decimal.RequireFromString("35"),
		Cantidad: cantidad,
		Tipo:     model.TipoMinoreo,
	}
}

func itemPaquete() ItemCarrito {
	return ItemCarrito{
		ID:       "paq-mixto",
		Nombre:   "Paquete Emprendedor Mixto",
		Precio:   decimal.RequireFromString("3500"),
		Cantidad: 1,
		Tipo:     model.TipoMayoreo,
	}
}

func TestCarrito_AgregarFusionaPorID(t *testing.T) {
	c, err := NewCarrito(NewMemStore())
	require.NoError(t, err)

	require.NoError(t, c.Agregar(itemMica(2)))
	require.NoError(t, c.Agregar(itemMica(3)))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Cantidad)
	assert.Equal(t, 5, c.Count())
}

func TestCarrito_TotalMezclaTipos(t *testing.T) {
	c, err := NewCarrito(NewMemStore())
	require.NoError(t, err)

	require.NoError(t, c.Agregar(itemMica(2)))
	require.NoError(t, c.Agregar(itemPaquete()))

	assert.True(t, c.Total().Equal(decimal.RequireFromString("3570")))
	assert.Equal(t, 3, c.Count())
}

func TestCarrito_CambiarCantidadCeroElimina(t *testing.T) {
	c, err := NewCarrito(NewMemStore())
	require.NoError(t, err)

	require.NoError(t, c.Agregar(itemMica(2)))
	require.NoError(t, c.CambiarCantidad("prod-mica", 0))

	assert.Empty(t, c.Items())
}

func TestCarrito_VaciarBorraLaClave(t *testing.T) {
	store := NewMemStore()
	c, err := NewCarrito(store)
	require.NoError(t, err)

	require.NoError(t, c.Agregar(itemMica(2)))
	require.NoError(t, c.Vaciar())

	assert.Empty(t, c.Items())
	_, err = store.Get("carrito")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCarrito_SobreviveReinicio(t *testing.T) {
	store := NewMemStore()

	c, err := NewCarrito(store)
	require.NoError(t, err)
	require.NoError(t, c.Agregar(itemMica(2)))
	require.NoError(t, c.Agregar(itemPaquete()))

	// a fresh container over the same store sees the same cart
	c2, err := NewCarrito(store)
	require.NoError(t, err)
	items := c2.Items()
	require.Len(t, items, 2)
	assert.True(t, c2.Total().Equal(c.Total()))
}

func TestCarrito_ItemViejoSinTipoEsMinoreo(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set("carrito",
		[]byte(`[{"id":"prod-1","nombre":"Cable","precio":"85","cantidad":1}]`)))

	c, err := NewCarrito(store)
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, model.TipoMinoreo, items[0].Tipo)
}

func TestCarrito_CorruptoSeDescarta(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set("carrito", []byte(`{not json`)))

	c, err := NewCarrito(store)
	require.NoError(t, err)
	assert.Empty(t, c.Items())
}

func TestCarrito_PersisteEnFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	c, err := NewCarrito(store)
	require.NoError(t, err)
	require.NoError(t, c.Agregar(itemMica(4)))

	c2, err := NewCarrito(store)
	require.NoError(t, err)
	assert.Equal(t, 4, c2.Count())
}
