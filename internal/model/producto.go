package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a retail (minoreo) catalog product with tracked stock.
// Stock is mutated by retail order lines and by admin adjustment only.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Categoria   string          `gorm:"index;not null"`
	Destacado   bool            `gorm:"not null;default:false"`
	// Imagen holds a filename (local disk) or a full URL (object storage)
	Imagen        *string
	FechaCreacion time.Time `gorm:"autoCreateTime"`
}

func (Producto) TableName() string { return "productos_minoreo" }
