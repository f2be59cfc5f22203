package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaqueteMayoreo is a wholesale bundle. Read-only from the client's side;
// no order flow decrements StockPaquetes.
type PaqueteMayoreo struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombrePaquete      string    `gorm:"not null"`
	Tipo               string    `gorm:"index;not null"`
	CantidadPiezas     int       `gorm:"not null"`
	PrecioPaquete      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockPaquetes      int             `gorm:"not null;default:0"`
	Descripcion        *string
	ProductosIncluidos *string
	PorcentajeAhorro   *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

func (PaqueteMayoreo) TableName() string { return "paquetes_mayoreo" }
