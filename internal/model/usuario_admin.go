package model

import (
	"github.com/google/uuid"
)

// UsuarioAdmin is a back-office user. Rows are seeded via cmd/seedadmin;
// no exposed flow creates them. Rol: "CEO" | "staff".
type UsuarioAdmin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null;default:'staff'"`
}

func (UsuarioAdmin) TableName() string { return "usuarios_admin" }
