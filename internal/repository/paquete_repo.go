package repository

import (
	"context"

	"krakenstore/internal/model"

	"gorm.io/gorm"
)

// PaqueteRepository reads wholesale packages. The order flow never writes here.
type PaqueteRepository interface {
	// List pins the starter package first, then sorts by tipo and name —
	// the fixed ordering the client grid depends on.
	List(ctx context.Context) ([]model.PaqueteMayoreo, error)
}

type paqueteRepo struct{ db *gorm.DB }

func NewPaqueteRepository(db *gorm.DB) PaqueteRepository { return &paqueteRepo{db: db} }

func (r *paqueteRepo) List(ctx context.Context) ([]model.PaqueteMayoreo, error) {
	var paquetes []model.PaqueteMayoreo
	err := r.db.WithContext(ctx).
		Order("CASE WHEN nombre_paquete LIKE '%Paquete Emprendedor%' THEN 0 ELSE 1 END, tipo, nombre_paquete").
		Find(&paquetes).Error
	return paquetes, err
}
