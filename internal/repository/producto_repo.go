package repository

import (
	"context"

	"krakenstore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository is the data access contract for retail products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context) ([]model.Producto, error)
	ListByCategoria(ctx context.Context, categoria string) ([]model.Producto, error)
	ListDestacados(ctx context.Context) ([]model.Producto, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	SetPrecio(ctx context.Context, id uuid.UUID, precio decimal.Decimal) error
	SetDestacado(ctx context.Context, id uuid.UUID, destacado bool) error

	// Used inside order transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// DecrementStockTx only applies when the row still holds enough stock;
	// returns the number of rows updated (0 = insufficient stock).
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Order("destacado DESC, fecha_creacion DESC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListByCategoria(ctx context.Context, categoria string) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("categoria = ?", categoria).
		Order("destacado DESC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListDestacados(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("destacado = ?", true).
		Order("fecha_creacion DESC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.update(ctx, id, "stock", stock)
}

func (r *productoRepo) SetPrecio(ctx context.Context, id uuid.UUID, precio decimal.Decimal) error {
	return r.update(ctx, id, "precio", precio)
}

func (r *productoRepo) SetDestacado(ctx context.Context, id uuid.UUID, destacado bool) error {
	return r.update(ctx, id, "destacado", destacado)
}

func (r *productoRepo) update(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	return res.RowsAffected, res.Error
}
