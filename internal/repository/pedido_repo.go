package repository

import (
	"context"

	"krakenstore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoListRow is an order header joined with the customer's contact data.
type PedidoListRow struct {
	model.Pedido
	ClienteNombre string `gorm:"column:cliente_nombre"`
	Email         string `gorm:"column:email"`
	Telefono      string `gorm:"column:telefono"`
}

// PedidoLineaRow is an order line joined with the product's current name and
// catalog price (the line keeps its own frozen precio_unitario).
type PedidoLineaRow struct {
	model.PedidoProducto
	Nombre       *string          `gorm:"column:nombre"`
	PrecioActual *decimal.Decimal `gorm:"column:precio_actual"`
}

// PedidoClienteRow is one order of a customer's history with its line count.
type PedidoClienteRow struct {
	model.Pedido
	TotalProductos int `gorm:"column:total_productos"`
}

type PedidoRepository interface {
	List(ctx context.Context) ([]PedidoListRow, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PedidoListRow, error)
	FindLineas(ctx context.Context, pedidoID uuid.UUID) ([]PedidoLineaRow, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]PedidoClienteRow, error)
	UpdateEstadoNotas(ctx context.Context, id uuid.UUID, estado string, notas *string) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error

	// Creation runs inside a single transaction owned by the service layer.
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	CreateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error
	// LastNumeroPedidoTx locks the newest order row and returns its number;
	// empty string when no orders exist yet.
	LastNumeroPedidoTx(tx *gorm.DB) (string, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

// Guest orders may carry no customer; COALESCE keeps the joined columns
// scannable into plain strings.
const pedidoClienteSelect = `pedidos.*,
	COALESCE(clientes.nombre, '') AS cliente_nombre,
	COALESCE(clientes.email, '') AS email,
	COALESCE(clientes.telefono, '') AS telefono`

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) List(ctx context.Context) ([]PedidoListRow, error) {
	var rows []PedidoListRow
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select(pedidoClienteSelect).
		Joins("LEFT JOIN clientes ON pedidos.cliente_id = clientes.id").
		Order("pedidos.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*PedidoListRow, error) {
	var row PedidoListRow
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select(pedidoClienteSelect).
		Joins("LEFT JOIN clientes ON pedidos.cliente_id = clientes.id").
		Where("pedidos.id = ?", id).
		First(&row).Error
	return &row, err
}

func (r *pedidoRepo) FindLineas(ctx context.Context, pedidoID uuid.UUID) ([]PedidoLineaRow, error) {
	var rows []PedidoLineaRow
	err := r.db.WithContext(ctx).Model(&model.PedidoProducto{}).
		Select("pedido_productos.*, productos_minoreo.nombre AS nombre, productos_minoreo.precio AS precio_actual").
		Joins("LEFT JOIN productos_minoreo ON pedido_productos.producto_id = productos_minoreo.id").
		Where("pedido_productos.pedido_id = ?", pedidoID).
		Find(&rows).Error
	return rows, err
}

func (r *pedidoRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]PedidoClienteRow, error) {
	var rows []PedidoClienteRow
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select("pedidos.*, COUNT(pedido_productos.id) AS total_productos").
		Joins("LEFT JOIN pedido_productos ON pedido_productos.pedido_id = pedidos.id").
		Where("pedidos.cliente_id = ?", clienteID).
		Group("pedidos.id").
		Order("pedidos.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *pedidoRepo) UpdateEstadoNotas(ctx context.Context, id uuid.UUID, estado string, notas *string) error {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).
		Updates(map[string]interface{}{"estado": estado, "notas": notas})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) CreateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error {
	return tx.Create(l).Error
}

// lastNumeroOrder breaks created_at ties by suffix length before lexical
// order, so KR-1000 outranks KR-999 once the sequence passes three digits.
const lastNumeroOrder = "created_at DESC, LENGTH(numero_pedido) DESC, numero_pedido DESC"

func (r *pedidoRepo) LastNumeroPedidoTx(tx *gorm.DB) (string, error) {
	// Row lock serializes concurrent numbering; the unique index on
	// numero_pedido catches the residual race and the service retries once.
	var numero string
	err := tx.Raw(
		"SELECT numero_pedido FROM pedidos ORDER BY " + lastNumeroOrder + " LIMIT 1 FOR UPDATE",
	).Scan(&numero).Error
	return numero, err
}
