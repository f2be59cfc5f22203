package infra

import (
	"krakenstore/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the full schema. TranslateError is on so unique violations
// surface as gorm.ErrDuplicatedKey (order numbering and registration rely
// on it).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Bounded pool, matching the original deployment profile.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables. Shared with repository tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Producto{},
		&model.PaqueteMayoreo{},
		&model.Cliente{},
		&model.UsuarioAdmin{},
		&model.Pedido{},
		&model.PedidoProducto{},
	)
}
