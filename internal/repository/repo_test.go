package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"krakenstore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Each test gets its own named in-memory database so rows from one test never
// leak into another's ordering assertions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	productos := `
CREATE TABLE IF NOT EXISTS productos_minoreo (
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  descripcion TEXT,
  precio NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  categoria TEXT NOT NULL,
  destacado NUMERIC NOT NULL DEFAULT false,
  imagen TEXT,
  fecha_creacion DATETIME
);`
	paquetes := `
CREATE TABLE IF NOT EXISTS paquetes_mayoreo (
  id TEXT PRIMARY KEY,
  nombre_paquete TEXT NOT NULL,
  tipo TEXT NOT NULL,
  cantidad_piezas INTEGER NOT NULL,
  precio_paquete NUMERIC NOT NULL,
  stock_paquetes INTEGER NOT NULL DEFAULT 0,
  descripcion TEXT,
  productos_incluidos TEXT,
  porcentaje_ahorro NUMERIC
);`
	clientes := `
CREATE TABLE IF NOT EXISTS clientes (
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  email TEXT UNIQUE,
  telefono TEXT,
  password TEXT,
  como_nos_conocio TEXT NOT NULL DEFAULT 'App',
  fecha_registro DATETIME,
  ultimo_acceso DATETIME
);`
	pedidos := `
CREATE TABLE IF NOT EXISTS pedidos (
  id TEXT PRIMARY KEY,
  numero_pedido TEXT NOT NULL UNIQUE,
  cliente_id TEXT,
  tipo TEXT NOT NULL,
  total NUMERIC NOT NULL,
  via TEXT,
  notas TEXT,
  estado TEXT NOT NULL DEFAULT 'pendiente',
  created_at DATETIME
);`
	lineas := `
CREATE TABLE IF NOT EXISTS pedido_productos (
  id TEXT PRIMARY KEY,
  pedido_id TEXT NOT NULL,
  producto_id TEXT NOT NULL,
  tipo_item TEXT NOT NULL DEFAULT 'producto',
  cantidad INTEGER NOT NULL,
  precio_unitario NUMERIC NOT NULL
);`
	admins := `
CREATE TABLE IF NOT EXISTS usuarios_admin (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  nombre TEXT NOT NULL UNIQUE,
  email TEXT,
  password_hash TEXT NOT NULL,
  rol TEXT NOT NULL DEFAULT 'staff'
);`
	require.NoError(t, db.Exec(productos).Error)
	require.NoError(t, db.Exec(paquetes).Error)
	require.NoError(t, db.Exec(clientes).Error)
	require.NoError(t, db.Exec(pedidos).Error)
	require.NoError(t, db.Exec(lineas).Error)
	require.NoError(t, db.Exec(admins).Error)
	return db
}

func newProducto(t *testing.T, db *gorm.DB, nombre string, precio string, stock int, categoria string, destacado bool, creado time.Time) *model.Producto {
	t.Helper()

	p := &model.Producto{
		ID:            uuid.New(),
		Nombre:        nombre,
		Precio:        decimal.RequireFromString(precio),
		Stock:         stock,
		Categoria:     categoria,
		Destacado:     destacado,
		FechaCreacion: creado,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newPaquete(t *testing.T, db *gorm.DB, nombre, tipo string, piezas int, precio string) *model.PaqueteMayoreo {
	t.Helper()

	pq := &model.PaqueteMayoreo{
		ID:             uuid.New(),
		NombrePaquete:  nombre,
		Tipo:           tipo,
		CantidadPiezas: piezas,
		PrecioPaquete:  decimal.RequireFromString(precio),
		StockPaquetes:  10,
	}
	require.NoError(t, db.Create(pq).Error)
	return pq
}

func newCliente(t *testing.T, db *gorm.DB, nombre string, email *string, telefono string) *model.Cliente {
	t.Helper()

	c := &model.Cliente{
		ID:             uuid.New(),
		Nombre:         nombre,
		Email:          email,
		Telefono:       telefono,
		ComoNosConocio: "App",
		FechaRegistro:  time.Now(),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func newPedido(t *testing.T, db *gorm.DB, numero string, clienteID *uuid.UUID, tipo, estado, total string, creado time.Time) *model.Pedido {
	t.Helper()

	p := &model.Pedido{
		ID:           uuid.New(),
		NumeroPedido: numero,
		ClienteID:    clienteID,
		Tipo:         tipo,
		Total:        decimal.RequireFromString(total),
		Via:          "app",
		Estado:       estado,
		CreatedAt:    creado,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newLinea(t *testing.T, db *gorm.DB, pedidoID, productoID uuid.UUID, cantidad int, precio string) *model.PedidoProducto {
	t.Helper()

	l := &model.PedidoProducto{
		ID:             uuid.New(),
		PedidoID:       pedidoID,
		ProductoID:     productoID,
		TipoItem:       "producto",
		Cantidad:       cantidad,
		PrecioUnitario: decimal.RequireFromString(precio),
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func strPtr(s string) *string { return &s }
