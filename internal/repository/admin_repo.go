package repository

import (
	"context"

	"krakenstore/internal/model"

	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByNombre(ctx context.Context, nombre string) (*model.UsuarioAdmin, error)
	Upsert(ctx context.Context, u *model.UsuarioAdmin) error
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) AdminRepository { return &adminRepo{db: db} }

func (r *adminRepo) FindByNombre(ctx context.Context, nombre string) (*model.UsuarioAdmin, error) {
	var u model.UsuarioAdmin
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&u).Error
	return &u, err
}

// Upsert is used by cmd/seedadmin only; admins are seed data.
func (r *adminRepo) Upsert(ctx context.Context, u *model.UsuarioAdmin) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO usuarios_admin (nombre, email, password_hash, rol)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (nombre) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    email = EXCLUDED.email,
		    rol = EXCLUDED.rol
	`, u.Nombre, u.Email, u.PasswordHash, u.Rol).Error
}
