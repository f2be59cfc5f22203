package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPedidoList_IncluyePedidosAnonimos(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)

	c := newCliente(t, db, "Laura Méndez", strPtr("laura@example.com"), "5512345678")
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	newPedido(t, db, "KR-001", &c.ID, "minoreo", "completado", "350", base)
	newPedido(t, db, "KR-002", nil, "mayoreo", "pendiente", "3500", base.Add(time.Hour))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first; the anonymous order carries empty contact fields
	assert.Equal(t, "KR-002", rows[0].NumeroPedido)
	assert.Empty(t, rows[0].ClienteNombre)
	assert.Empty(t, rows[0].Email)

	assert.Equal(t, "KR-001", rows[1].NumeroPedido)
	assert.Equal(t, "Laura Méndez", rows[1].ClienteNombre)
	assert.Equal(t, "laura@example.com", rows[1].Email)
	assert.Equal(t, "5512345678", rows[1].Telefono)
}

func TestPedidoFindLineas_PrecioCongeladoYPrecioActual(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)
	productoRepo := NewProductoRepository(db)
	ctx := context.Background()

	p := newProducto(t, db, "Mica 9D", "35", 100, "micas", false, time.Now())
	pedido := newPedido(t, db, "KR-001", nil, "minoreo", "pendiente", "70", time.Now())
	newLinea(t, db, pedido.ID, p.ID, 2, "35")

	// catalog price moves after the sale
	require.NoError(t, productoRepo.SetPrecio(ctx, p.ID, decimal.RequireFromString("50")))

	lineas, err := repo.FindLineas(ctx, pedido.ID)
	require.NoError(t, err)
	require.Len(t, lineas, 1)

	require.NotNil(t, lineas[0].Nombre)
	assert.Equal(t, "Mica 9D", *lineas[0].Nombre)
	assert.True(t, lineas[0].PrecioUnitario.Equal(decimal.RequireFromString("35")))
	require.NotNil(t, lineas[0].PrecioActual)
	assert.True(t, lineas[0].PrecioActual.Equal(decimal.RequireFromString("50")))
}

func TestPedidoFindLineas_ProductoBorradoDejaNombreNulo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)

	pedido := newPedido(t, db, "KR-001", nil, "minoreo", "pendiente", "35", time.Now())
	newLinea(t, db, pedido.ID, uuid.New(), 1, "35")

	lineas, err := repo.FindLineas(context.Background(), pedido.ID)
	require.NoError(t, err)
	require.Len(t, lineas, 1)
	assert.Nil(t, lineas[0].Nombre)
	assert.Nil(t, lineas[0].PrecioActual)
}

func TestPedidoListByCliente_CuentaLineas(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)

	c := newCliente(t, db, "Laura Méndez", strPtr("laura@example.com"), "5512345678")
	otro := newCliente(t, db, "Otro Cliente", strPtr("otro@example.com"), "5500000000")

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	p1 := newPedido(t, db, "KR-001", &c.ID, "minoreo", "completado", "155", base)
	newLinea(t, db, p1.ID, uuid.New(), 2, "35")
	newLinea(t, db, p1.ID, uuid.New(), 1, "85")
	p2 := newPedido(t, db, "KR-002", &c.ID, "minoreo", "pendiente", "35", base.Add(time.Hour))
	newLinea(t, db, p2.ID, uuid.New(), 1, "35")
	newPedido(t, db, "KR-003", &otro.ID, "minoreo", "pendiente", "85", base)

	rows, err := repo.ListByCliente(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "KR-002", rows[0].NumeroPedido)
	assert.Equal(t, 1, rows[0].TotalProductos)
	assert.Equal(t, "KR-001", rows[1].NumeroPedido)
	assert.Equal(t, 2, rows[1].TotalProductos)
}

func TestPedidoUpdateEstadoNotas(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)
	ctx := context.Background()

	pedido := newPedido(t, db, "KR-001", nil, "minoreo", "pendiente", "35", time.Now())

	notas := "entregar después de las 5"
	require.NoError(t, repo.UpdateEstadoNotas(ctx, pedido.ID, "completado", &notas))

	actual, err := repo.FindByID(ctx, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, "completado", actual.Estado)
	require.NotNil(t, actual.Notas)
	assert.Equal(t, notas, *actual.Notas)
}

func TestPedidoNumeroOrden_CuatroDigitosGanaEmpate(t *testing.T) {
	db := setupTestDB(t)

	// identical created_at forces the numbering query onto its tiebreak;
	// a plain lexical sort would put KR-999 above KR-1000
	creado := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	newPedido(t, db, "KR-999", nil, "minoreo", "pendiente", "10", creado)
	newPedido(t, db, "KR-1000", nil, "minoreo", "pendiente", "10", creado)

	var numero string
	err := db.Raw("SELECT numero_pedido FROM pedidos ORDER BY " + lastNumeroOrder + " LIMIT 1").
		Scan(&numero).Error
	require.NoError(t, err)
	assert.Equal(t, "KR-1000", numero)
}

func TestPedidoUpdateEstado_PedidoInexistente(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedidoRepository(db)

	err := repo.UpdateEstado(context.Background(), uuid.New(), "completado")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
