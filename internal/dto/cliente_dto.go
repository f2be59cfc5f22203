package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarClienteRequest struct {
	Nombre         string `json:"nombre"   validate:"required,min=2,max=120"`
	Email          string `json:"email"    validate:"required,email"`
	Telefono       string `json:"telefono" validate:"required"`
	Password       string `json:"password" validate:"required,min=6"`
	ComoNosConocio string `json:"como_nos_conocio"`
}

type LoginClienteRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ActualizarPerfilRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=2,max=120"`
	Telefono string `json:"telefono" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ClienteResponse never carries the password field.
type ClienteResponse struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Email          string  `json:"email"`
	Telefono       string  `json:"telefono"`
	ComoNosConocio string  `json:"como_nos_conocio"`
	FechaRegistro  string  `json:"fecha_registro"`
	UltimoAcceso   *string `json:"ultimo_acceso,omitempty"`
}

// ClienteStatsItem is one row of the admin customer listing: contact data
// plus order count and spend restricted to completado orders.
type ClienteStatsItem struct {
	ClienteResponse
	TotalPedidos int             `json:"total_pedidos"`
	TotalGastado decimal.Decimal `json:"total_gastado"`
}
