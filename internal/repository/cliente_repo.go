package repository

import (
	"context"
	"time"

	"krakenstore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClienteStatsRow is a customer joined with order aggregates for the admin
// dashboard: order count and spend summed over completado orders only.
type ClienteStatsRow struct {
	model.Cliente
	TotalPedidos int             `gorm:"column:total_pedidos"`
	TotalGastado decimal.Decimal `gorm:"column:total_gastado"`
}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByEmail(ctx context.Context, email string) (*model.Cliente, error)
	UpdatePerfil(ctx context.Context, id uuid.UUID, nombre, telefono string) error
	TouchUltimoAcceso(ctx context.Context, id uuid.UUID) error
	ListWithStats(ctx context.Context) ([]ClienteStatsRow, error)

	// Guest checkout resolution — runs inside the order transaction
	FindByEmailOrTelefonoTx(tx *gorm.DB, email, telefono string) (*model.Cliente, error)
	CreateTx(tx *gorm.DB, c *model.Cliente) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) FindByEmail(ctx context.Context, email string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	return &c, err
}

func (r *clienteRepo) UpdatePerfil(ctx context.Context, id uuid.UUID, nombre, telefono string) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).
		Updates(map[string]interface{}{"nombre": nombre, "telefono": telefono})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clienteRepo) TouchUltimoAcceso(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).
		Update("ultimo_acceso", time.Now()).Error
}

func (r *clienteRepo) ListWithStats(ctx context.Context) ([]ClienteStatsRow, error) {
	var rows []ClienteStatsRow
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Select(`clientes.*,
			COUNT(DISTINCT pedidos.id) AS total_pedidos,
			COALESCE(SUM(CASE WHEN pedidos.estado = 'completado' THEN pedidos.total ELSE 0 END), 0) AS total_gastado`).
		Joins("LEFT JOIN pedidos ON pedidos.cliente_id = clientes.id").
		Group("clientes.id").
		Order("clientes.fecha_registro DESC").
		Find(&rows).Error
	return rows, err
}

func (r *clienteRepo) FindByEmailOrTelefonoTx(tx *gorm.DB, email, telefono string) (*model.Cliente, error) {
	// Empty contact fields never participate in the match: guests with no
	// stored phone must not be merged with an email-only checkout.
	q := tx.Model(&model.Cliente{})
	switch {
	case email != "" && telefono != "":
		q = q.Where("email = ? OR telefono = ?", email, telefono)
	case email != "":
		q = q.Where("email = ?", email)
	case telefono != "":
		q = q.Where("telefono = ?", telefono)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Cliente
	err := q.First(&c).Error
	return &c, err
}

func (r *clienteRepo) CreateTx(tx *gorm.DB, c *model.Cliente) error {
	return tx.Create(c).Error
}
