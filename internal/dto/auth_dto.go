package dto

// ─── Admin auth ──────────────────────────────────────────────────────────────

type LoginAdminRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminResponse carries the capability set resolved server-side from the
// admin's rol; clients render menus from Capacidades, never from Rol.
type AdminResponse struct {
	ID          string   `json:"id"`
	Nombre      string   `json:"nombre"`
	Email       *string  `json:"email"`
	Rol         string   `json:"rol"`
	Capacidades []string `json:"capacidades"`
}

type LoginAdminResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	Admin       AdminResponse `json:"admin"`
}
