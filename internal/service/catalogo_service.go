package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/infra"
	"krakenstore/internal/model"
	"krakenstore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	cacheKeyProductos = "cache:productos"
	cacheTTLProductos = 60 * time.Second
)

// CatalogoService covers retail product and wholesale package reads plus the
// admin catalog mutations.
type CatalogoService interface {
	ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoResponse, error)
	ListarDestacados(ctx context.Context) ([]dto.ProductoResponse, error)
	ListarPaquetesMayoreo(ctx context.Context) ([]dto.PaqueteMayoreoResponse, error)
	ActualizarStock(ctx context.Context, id uuid.UUID, stock int) error
	ActualizarPrecio(ctx context.Context, id uuid.UUID, precio decimal.Decimal) error
	ToggleDestacado(ctx context.Context, id uuid.UUID, destacado bool) error
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest, imagen *infra.ImageUpload) (*dto.ProductoResponse, error)
}

type catalogoService struct {
	productos repository.ProductoRepository
	paquetes  repository.PaqueteRepository
	imagenes  infra.ImageStore
	rdb       *redis.Client
}

func NewCatalogoService(
	productos repository.ProductoRepository,
	paquetes repository.PaqueteRepository,
	imagenes infra.ImageStore,
	rdb *redis.Client,
) CatalogoService {
	return &catalogoService{productos: productos, paquetes: paquetes, imagenes: imagenes, rdb: rdb}
}

func (s *catalogoService) ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error) {
	// Cache is best-effort: a redis miss or failure falls through to the DB.
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKeyProductos).Bytes(); err == nil {
			var cached []dto.ProductoResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	productos, err := s.productos.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener productos")
	}
	resp := productosToResponse(productos)

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKeyProductos, raw, cacheTTLProductos).Err(); err != nil {
				log.Warn().Err(err).Msg("cache: no se pudo guardar productos")
			}
		}
	}
	return resp, nil
}

func (s *catalogoService) ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, apierror.Internal(err, "Error al obtener producto")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoResponse, error) {
	productos, err := s.productos.ListByCategoria(ctx, categoria)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener productos")
	}
	return productosToResponse(productos), nil
}

func (s *catalogoService) ListarDestacados(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.productos.ListDestacados(ctx)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener productos destacados")
	}
	return productosToResponse(productos), nil
}

func (s *catalogoService) ListarPaquetesMayoreo(ctx context.Context) ([]dto.PaqueteMayoreoResponse, error) {
	paquetes, err := s.paquetes.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener paquetes de mayoreo")
	}
	resp := make([]dto.PaqueteMayoreoResponse, len(paquetes))
	for i, p := range paquetes {
		resp[i] = dto.PaqueteMayoreoResponse{
			ID:                 p.ID.String(),
			Nombre:             p.NombrePaquete,
			Categoria:          p.Tipo,
			CantidadMinima:     p.CantidadPiezas,
			Precio:             p.PrecioPaquete,
			Stock:              p.StockPaquetes,
			Descripcion:        p.Descripcion,
			ProductosIncluidos: p.ProductosIncluidos,
			PorcentajeAhorro:   p.PorcentajeAhorro,
			Imagen:             ResolverImagenPaquete(p.NombrePaquete),
		}
	}
	return resp, nil
}

func (s *catalogoService) ActualizarStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return apierror.Validation("El stock no puede ser negativo")
	}
	if err := s.productos.SetStock(ctx, id, stock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return apierror.Internal(err, "Error al actualizar stock")
	}
	s.invalidarCache(ctx)
	return nil
}

func (s *catalogoService) ActualizarPrecio(ctx context.Context, id uuid.UUID, precio decimal.Decimal) error {
	if precio.LessThanOrEqual(decimal.Zero) {
		return apierror.Validation("El precio debe ser mayor a 0")
	}
	if err := s.productos.SetPrecio(ctx, id, precio); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return apierror.Internal(err, "Error al actualizar precio")
	}
	s.invalidarCache(ctx)
	return nil
}

func (s *catalogoService) ToggleDestacado(ctx context.Context, id uuid.UUID, destacado bool) error {
	if err := s.productos.SetDestacado(ctx, id, destacado); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return apierror.Internal(err, "Error al actualizar producto")
	}
	s.invalidarCache(ctx)
	return nil
}

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest, imagen *infra.ImageUpload) (*dto.ProductoResponse, error) {
	var imagenRef *string
	if imagen != nil {
		ref, err := s.imagenes.Save(ctx, imagen)
		if err != nil {
			if closer, ok := imagen.Reader.(io.Closer); ok {
				_ = closer.Close()
			}
			return nil, apierror.From(err)
		}
		imagenRef = &ref
	}

	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		Categoria:   req.Categoria,
		Destacado:   req.Destacado,
		Imagen:      imagenRef,
	}
	if err := s.productos.Create(ctx, p); err != nil {
		return nil, apierror.Internal(err, "Error al crear producto")
	}
	s.invalidarCache(ctx)

	resp := productoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) invalidarCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyProductos).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: no se pudo invalidar productos")
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		Precio:        p.Precio,
		Stock:         p.Stock,
		Categoria:     p.Categoria,
		Destacado:     p.Destacado,
		Imagen:        p.Imagen,
		FechaCreacion: p.FechaCreacion.Format(time.RFC3339),
	}
}

func productosToResponse(productos []model.Producto) []dto.ProductoResponse {
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = productoToResponse(&productos[i])
	}
	return resp
}
