package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest is bound from the multipart form of POST /api/productos.
// The "imagen" file part is handled separately by the handler.
type CrearProductoRequest struct {
	Nombre      string          `form:"nombre"      validate:"required,min=2,max=120"`
	Descripcion *string         `form:"descripcion"`
	Precio      decimal.Decimal `form:"precio"      validate:"required"`
	Stock       int             `form:"stock"       validate:"min=0"`
	Categoria   string          `form:"categoria"   validate:"required"`
	Destacado   bool            `form:"destacado"`
}

type ActualizarStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

type ActualizarPrecioRequest struct {
	Precio decimal.Decimal `json:"precio" validate:"required"`
}

type ToggleDestacadoRequest struct {
	Destacado bool `json:"destacado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Descripcion   *string         `json:"descripcion"`
	Precio        decimal.Decimal `json:"precio"`
	Stock         int             `json:"stock"`
	Categoria     string          `json:"categoria"`
	Destacado     bool            `json:"destacado"`
	Imagen        *string         `json:"imagen"`
	FechaCreacion string          `json:"fecha_creacion"`
}

// PaqueteMayoreoResponse flattens paquetes_mayoreo columns into the field
// names the mobile client expects, enriched with the resolved image filename.
type PaqueteMayoreoResponse struct {
	ID                 string           `json:"id"`
	Nombre             string           `json:"nombre"`
	Categoria          string           `json:"categoria"`
	CantidadMinima     int              `json:"cantidad_minima"`
	Precio             decimal.Decimal  `json:"precio"`
	Stock              int              `json:"stock"`
	Descripcion        *string          `json:"descripcion"`
	ProductosIncluidos *string          `json:"productos_incluidos"`
	PorcentajeAhorro   *decimal.Decimal `json:"porcentaje_ahorro"`
	Imagen             *string          `json:"imagen"`
}
