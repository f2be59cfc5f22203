package service

import (
	"context"
	"errors"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/model"
	"krakenstore/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ClienteService interface {
	Registrar(ctx context.Context, req dto.RegistrarClienteRequest) (*dto.ClienteResponse, error)
	Login(ctx context.Context, req dto.LoginClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPerfil(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	ActualizarPerfil(ctx context.Context, id uuid.UUID, req dto.ActualizarPerfilRequest) (*dto.ClienteResponse, error)
	ListarPedidosCliente(ctx context.Context, id uuid.UUID) ([]dto.PedidoClienteItem, error)
	ListarClientes(ctx context.Context) ([]dto.ClienteStatsItem, error)
}

type clienteService struct {
	clientes repository.ClienteRepository
	pedidos  repository.PedidoRepository
}

func NewClienteService(clientes repository.ClienteRepository, pedidos repository.PedidoRepository) ClienteService {
	return &clienteService{clientes: clientes, pedidos: pedidos}
}

func (s *clienteService) Registrar(ctx context.Context, req dto.RegistrarClienteRequest) (*dto.ClienteResponse, error) {
	if _, err := s.clientes.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Conflict("Este email ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal(err, "Error al crear cuenta")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		return nil, apierror.Internal(err, "Error al crear cuenta")
	}

	como := req.ComoNosConocio
	if como == "" {
		como = "App móvil"
	}
	email := req.Email
	c := &model.Cliente{
		Nombre:         req.Nombre,
		Email:          &email,
		Telefono:       req.Telefono,
		Password:       string(hash),
		ComoNosConocio: como,
	}
	if err := s.clientes.Create(ctx, c); err != nil {
		// Races with a concurrent registration for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Este email ya está registrado")
		}
		return nil, apierror.Internal(err, "Error al crear cuenta")
	}

	resp := clienteToResponse(c)
	return &resp, nil
}

// Login deliberately answers "Email o contraseña incorrectos" for both an
// unknown email and a wrong password so accounts are not enumerable.
func (s *clienteService) Login(ctx context.Context, req dto.LoginClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Auth("Email o contraseña incorrectos")
		}
		return nil, apierror.Internal(err, "Error al iniciar sesión")
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(req.Password)) != nil {
		return nil, apierror.Auth("Email o contraseña incorrectos")
	}

	if err := s.clientes.TouchUltimoAcceso(ctx, c.ID); err != nil {
		return nil, apierror.Internal(err, "Error al iniciar sesión")
	}

	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) ObtenerPerfil(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Cliente no encontrado")
		}
		return nil, apierror.Internal(err, "Error al obtener perfil")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

// ActualizarPerfil only touches nombre and telefono; email and the
// registration date are immutable through this interface.
func (s *clienteService) ActualizarPerfil(ctx context.Context, id uuid.UUID, req dto.ActualizarPerfilRequest) (*dto.ClienteResponse, error) {
	if err := s.clientes.UpdatePerfil(ctx, id, req.Nombre, req.Telefono); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Cliente no encontrado")
		}
		return nil, apierror.Internal(err, "Error al actualizar perfil")
	}
	return s.ObtenerPerfil(ctx, id)
}

func (s *clienteService) ListarPedidosCliente(ctx context.Context, id uuid.UUID) ([]dto.PedidoClienteItem, error) {
	rows, err := s.pedidos.ListByCliente(ctx, id)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener pedidos")
	}
	items := make([]dto.PedidoClienteItem, len(rows))
	for i, r := range rows {
		items[i] = dto.PedidoClienteItem{
			ID:             r.ID.String(),
			NumeroPedido:   r.NumeroPedido,
			Total:          r.Total,
			Estado:         r.Estado,
			FechaCreacion:  r.CreatedAt.Format(time.RFC3339),
			TotalProductos: r.TotalProductos,
		}
	}
	return items, nil
}

func (s *clienteService) ListarClientes(ctx context.Context) ([]dto.ClienteStatsItem, error) {
	rows, err := s.clientes.ListWithStats(ctx)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener clientes")
	}
	items := make([]dto.ClienteStatsItem, len(rows))
	for i, r := range rows {
		items[i] = dto.ClienteStatsItem{
			ClienteResponse: clienteToResponse(&r.Cliente),
			TotalPedidos:    r.TotalPedidos,
			TotalGastado:    r.TotalGastado,
		}
	}
	return items, nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		ID:             c.ID.String(),
		Nombre:         c.Nombre,
		Telefono:       c.Telefono,
		ComoNosConocio: c.ComoNosConocio,
		FechaRegistro:  c.FechaRegistro.Format(time.RFC3339),
	}
	if c.Email != nil {
		resp.Email = *c.Email
	}
	if c.UltimoAcceso != nil {
		ua := c.UltimoAcceso.Format(time.RFC3339)
		resp.UltimoAcceso = &ua
	}
	return resp
}
