package service

import (
	"context"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/config"
	"krakenstore/internal/dto"
	"krakenstore/internal/model"
	"krakenstore/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Admin roles and their capability sets, resolved server-side. Clients render
// menus from the capability list, never from the raw rol string.
const (
	RolCEO   = "CEO"
	RolStaff = "staff"
)

var capacidadesPorRol = map[string][]string{
	RolCEO: {
		"ver_inventario",
		"gestionar_inventario",
		"gestionar_pedidos",
		"ver_clientes",
		"ver_estadisticas",
	},
	RolStaff: {
		"ver_inventario",
		"gestionar_inventario",
		"gestionar_pedidos",
	},
}

// CapacidadesDeRol returns the capability set for a role; unknown roles get
// the staff set.
func CapacidadesDeRol(rol string) []string {
	if caps, ok := capacidadesPorRol[rol]; ok {
		return caps
	}
	return capacidadesPorRol[RolStaff]
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginAdminRequest) (*dto.LoginAdminResponse, error)
}

type authService struct {
	admins repository.AdminRepository
	cfg    *config.Config
}

func NewAuthService(admins repository.AdminRepository, cfg *config.Config) AuthService {
	return &authService{admins: admins, cfg: cfg}
}

// dummyHash is compared against when the admin name is unknown, so both
// failure paths cost one bcrypt verification and response timing does not
// enumerate valid names. Any well-formed cost-12 hash works here.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Login verifies the bcrypt hash unconditionally. The message does not
// distinguish an unknown admin from a wrong password.
func (s *authService) Login(ctx context.Context, req dto.LoginAdminRequest) (*dto.LoginAdminResponse, error) {
	admin, err := s.admins.FindByNombre(ctx, req.Nombre)
	if err != nil {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
		return nil, apierror.Auth("Credenciales inválidas")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.Auth("Credenciales inválidas")
	}

	caps := CapacidadesDeRol(admin.Rol)
	token, err := s.generateToken(admin, caps)
	if err != nil {
		return nil, apierror.Internal(err, "Error en el login")
	}

	return &dto.LoginAdminResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Admin: dto.AdminResponse{
			ID:          admin.ID.String(),
			Nombre:      admin.Nombre,
			Email:       admin.Email,
			Rol:         admin.Rol,
			Capacidades: caps,
		},
	}, nil
}

func (s *authService) generateToken(admin *model.UsuarioAdmin, capacidades []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"admin_id":    admin.ID.String(),
		"nombre":      admin.Nombre,
		"rol":         admin.Rol,
		"capacidades": capacidades,
		"exp":         now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":         now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
