package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a store customer. Created at registration or implicitly during
// guest checkout (matched by email or phone, or inserted fresh).
type Cliente struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"not null"`
	// Email is nil for guest customers captured with only a phone number;
	// the unique index still applies to every non-null value.
	Email    *string `gorm:"uniqueIndex"`
	Telefono string  `gorm:"index"`
	// Password is empty for guest-checkout customers that never registered
	Password       string
	ComoNosConocio string     `gorm:"not null;default:'App'"`
	FechaRegistro  time.Time  `gorm:"autoCreateTime"`
	UltimoAcceso   *time.Time
}

func (Cliente) TableName() string { return "clientes" }
