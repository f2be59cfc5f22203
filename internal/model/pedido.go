package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido estados.
const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
	EstadoCancelado  = "cancelado"
)

// Pedido tipos.
const (
	TipoMinoreo = "minoreo"
	TipoMayoreo = "mayoreo"
)

// Pedido is an order header. NumeroPedido follows the KR-NNN sequence;
// ClienteID is nil for fully anonymous orders. Total and lines are immutable
// after creation; only estado and notas change, and only through admin flows.
type Pedido struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroPedido string    `gorm:"uniqueIndex;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(10);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Via          string
	Notas        *string
	Estado       string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt    time.Time

	Cliente   *Cliente         `gorm:"foreignKey:ClienteID"`
	Productos []PedidoProducto `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoProducto is an order line. PrecioUnitario is the price supplied at
// creation time — a deliberate snapshot, never re-read from the catalog.
// Lines are created once and never mutated or deleted.
type PedidoProducto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	TipoItem       string    `gorm:"type:varchar(20);not null;default:'producto'"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (PedidoProducto) TableName() string { return "pedido_productos" }
