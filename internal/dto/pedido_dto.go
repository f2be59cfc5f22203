package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemPedidoRequest is one order line. Precio is frozen into the line as-is;
// Nombre is only used for error messages and the confirmation summary.
type ItemPedidoRequest struct {
	ID       string          `json:"id"       validate:"required,uuid"`
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
	Precio   decimal.Decimal `json:"precio"   validate:"required"`
}

// ClienteInfoRequest is the inline guest profile used when no cliente_id
// accompanies the order.
type ClienteInfoRequest struct {
	Nombre         string `json:"nombre"`
	Email          string `json:"email"    validate:"omitempty,email"`
	Telefono       string `json:"telefono"`
	ComoNosConocio string `json:"como_nos_conocio"`
}

type CrearPedidoRequest struct {
	ClienteID   *string             `json:"cliente_id"   validate:"omitempty,uuid"`
	ClienteInfo *ClienteInfoRequest `json:"cliente_info"`
	Tipo        string              `json:"tipo"  validate:"required,oneof=minoreo mayoreo"`
	Total       decimal.Decimal     `json:"total" validate:"required"`
	Via         string              `json:"via"`
	Notas       *string             `json:"notas"`
	Productos   []ItemPedidoRequest `json:"productos" validate:"required,min=1,dive"`
}

type ActualizarPedidoRequest struct {
	Estado string  `json:"estado" validate:"required,oneof=pendiente completado cancelado"`
	Notas  *string `json:"notas"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CrearPedidoResponse echoes what the original checkout confirmation shows.
type CrearPedidoResponse struct {
	ID           string          `json:"id"`
	NumeroPedido string          `json:"numero_pedido"`
	ClienteID    *string         `json:"cliente_id"`
	Total        decimal.Decimal `json:"total"`
}

// PedidoListItem is one row of the admin order listing, joined with the
// customer's contact data.
type PedidoListItem struct {
	ID            string          `json:"id"`
	NumeroPedido  string          `json:"numero_pedido"`
	ClienteNombre string          `json:"cliente_nombre"`
	Email         string          `json:"email"`
	Telefono      string          `json:"telefono"`
	Tipo          string          `json:"tipo"`
	Total         decimal.Decimal `json:"total"`
	Via           string          `json:"via"`
	Notas         *string         `json:"notas"`
	Estado        string          `json:"estado"`
	FechaCreacion string          `json:"fecha_creacion"`
}

// ItemPedidoResponse reports a line with both the frozen unit price and the
// product's current catalog price for comparison.
type ItemPedidoResponse struct {
	ProductoID     string           `json:"producto_id"`
	Nombre         string           `json:"nombre"`
	TipoItem       string           `json:"tipo_item"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	PrecioActual   *decimal.Decimal `json:"precio_actual"`
}

type PedidoDetalleResponse struct {
	PedidoListItem
	Productos []ItemPedidoResponse `json:"productos"`
}

// PedidoClienteItem is one row of a customer's own order history.
type PedidoClienteItem struct {
	ID             string          `json:"id"`
	NumeroPedido   string          `json:"numero_pedido"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	FechaCreacion  string          `json:"fecha_creacion"`
	TotalProductos int             `json:"total_productos"`
}
