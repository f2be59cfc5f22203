package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/model"
	"krakenstore/internal/repository"
	"krakenstore/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const numeroPedidoPrefix = "KR-"

type PedidoService interface {
	CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.CrearPedidoResponse, error)
	ListarPedidos(ctx context.Context) ([]dto.PedidoListItem, error)
	ObtenerPedido(ctx context.Context, id uuid.UUID) (*dto.PedidoDetalleResponse, error)
	ActualizarPedido(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) error
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error
}

// JobDispatcher is the async-job boundary the order flows enqueue through;
// satisfied by *worker.Dispatcher.
type JobDispatcher interface {
	EnqueueConfirmacion(ctx context.Context, payload interface{}) error
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

type pedidoService struct {
	pedidos    repository.PedidoRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	dispatcher JobDispatcher
}

func NewPedidoService(
	pedidos repository.PedidoRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	dispatcher JobDispatcher,
) PedidoService {
	return &pedidoService{pedidos: pedidos, productos: productos, clientes: clientes, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CrearPedido ───────────────────────────────────────────────────────────────
// Checkout. The whole commit sequence runs in one transaction:
//   1. pre-flight stock read per retail line (friendly error messages)
//   2. lock newest pedido row, compute next KR-NNN number
//   3. resolve buyer: explicit id, find-or-create guest, or anonymous
//   4. insert header (pendiente) + lines with the caller's frozen unit price
//   5. conditional stock decrement per retail line; zero rows aborts the tx
//
// Wholesale (mayoreo) orders never read or write stock, neither the retail
// column nor the package one.
//
// A duplicate numero_pedido from two near-simultaneous checkouts surfaces as
// a unique violation; the sequence is recomputed once before giving up.

func (s *pedidoService) CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.CrearPedidoResponse, error) {
	if len(req.Productos) == 0 {
		return nil, apierror.Validation("El pedido debe tener al menos un producto")
	}

	// Pre-flight: validate retail lines against current stock so the client
	// gets a per-product message before anything is written.
	if req.Tipo != model.TipoMayoreo {
		for _, item := range req.Productos {
			pid, err := uuid.Parse(item.ID)
			if err != nil {
				return nil, apierror.Validation("ID de producto inválido: %s", item.ID)
			}
			p, err := s.productos.FindByID(ctx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apierror.NotFound("Producto con ID %s no encontrado", item.ID)
				}
				return nil, apierror.Internal(err, "Error al crear pedido")
			}
			if p.Stock < item.Cantidad {
				return nil, apierror.InsufficientStock(p.Nombre, p.Stock, item.Cantidad)
			}
		}
	}

	resp, err := s.crearPedidoTx(ctx, req)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another checkout won the number; recompute once.
		resp, err = s.crearPedidoTx(ctx, req)
	}
	if err != nil {
		return nil, apierror.From(err)
	}

	// Best-effort confirmation mail; never blocks the checkout response.
	s.encolarConfirmacion(ctx, req, resp)

	return resp, nil
}

func (s *pedidoService) crearPedidoTx(ctx context.Context, req dto.CrearPedidoRequest) (*dto.CrearPedidoResponse, error) {
	var pedido model.Pedido

	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		numero, err := s.siguienteNumero(tx)
		if err != nil {
			return err
		}

		clienteID, err := s.resolverCliente(tx, req)
		if err != nil {
			return err
		}

		pedido = model.Pedido{
			NumeroPedido: numero,
			ClienteID:    clienteID,
			Tipo:         req.Tipo,
			Total:        req.Total,
			Via:          req.Via,
			Notas:        req.Notas,
			Estado:       model.EstadoPendiente,
		}
		if err := s.pedidos.CreateTx(tx, &pedido); err != nil {
			return err
		}

		for _, item := range req.Productos {
			pid, err := uuid.Parse(item.ID)
			if err != nil {
				return apierror.Validation("ID de producto inválido: %s", item.ID)
			}
			linea := model.PedidoProducto{
				PedidoID:       pedido.ID,
				ProductoID:     pid,
				TipoItem:       "producto",
				Cantidad:       item.Cantidad,
				PrecioUnitario: item.Precio,
			}
			if err := s.pedidos.CreateLineaTx(tx, &linea); err != nil {
				return err
			}

			if req.Tipo != model.TipoMayoreo {
				rows, err := s.productos.DecrementStockTx(tx, pid, item.Cantidad)
				if err != nil {
					return err
				}
				if rows == 0 {
					// A concurrent checkout drained the stock after pre-flight.
					disponible := 0
					if p, err := s.productos.FindByIDTx(tx, pid); err == nil {
						disponible = p.Stock
					}
					return apierror.InsufficientStock(item.Nombre, disponible, item.Cantidad)
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.CrearPedidoResponse{
		ID:           pedido.ID.String(),
		NumeroPedido: pedido.NumeroPedido,
		Total:        pedido.Total,
	}
	if pedido.ClienteID != nil {
		id := pedido.ClienteID.String()
		resp.ClienteID = &id
	}
	return resp, nil
}

// siguienteNumero computes the next KR-NNN number from the newest order.
// KR-001 when the table is empty; the numeric suffix is zero-padded to three
// digits and keeps growing past 999 unpadded.
func (s *pedidoService) siguienteNumero(tx *gorm.DB) (string, error) {
	ultimo, err := s.pedidos.LastNumeroPedidoTx(tx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if ultimo == "" {
		return numeroPedidoPrefix + "001", nil
	}
	sufijo := strings.TrimPrefix(ultimo, numeroPedidoPrefix)
	n, err := strconv.Atoi(sufijo)
	if err != nil {
		return "", fmt.Errorf("numero de pedido malformado %q: %w", ultimo, err)
	}
	return fmt.Sprintf("%s%03d", numeroPedidoPrefix, n+1), nil
}

// resolverCliente applies the buyer resolution rules: explicit id wins; a
// guest profile is matched idempotently by email OR phone and created fresh
// when neither matches; with no usable contact data the order stays anonymous.
func (s *pedidoService) resolverCliente(tx *gorm.DB, req dto.CrearPedidoRequest) (*uuid.UUID, error) {
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, apierror.Validation("cliente_id inválido")
		}
		return &id, nil
	}

	info := req.ClienteInfo
	if info == nil || (info.Email == "" && info.Telefono == "") {
		return nil, nil
	}

	existente, err := s.clientes.FindByEmailOrTelefonoTx(tx, info.Email, info.Telefono)
	if err == nil {
		return &existente.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	como := info.ComoNosConocio
	if como == "" {
		como = "App"
	}
	nuevo := &model.Cliente{
		Nombre:         info.Nombre,
		Telefono:       info.Telefono,
		ComoNosConocio: como,
	}
	if info.Email != "" {
		email := info.Email
		nuevo.Email = &email
	}
	if err := s.clientes.CreateTx(tx, nuevo); err != nil {
		return nil, err
	}
	return &nuevo.ID, nil
}

func (s *pedidoService) encolarConfirmacion(ctx context.Context, req dto.CrearPedidoRequest, resp *dto.CrearPedidoResponse) {
	if s.dispatcher == nil {
		return
	}
	email := ""
	if req.ClienteInfo != nil {
		email = req.ClienteInfo.Email
	}
	if email == "" {
		return
	}
	payload := worker.ConfirmacionPayload{
		PedidoID:     resp.ID,
		NumeroPedido: resp.NumeroPedido,
		Email:        email,
		Total:        resp.Total,
	}
	if err := s.dispatcher.EnqueueConfirmacion(ctx, payload); err != nil {
		log.Warn().Err(err).Str("pedido", resp.NumeroPedido).Msg("no se pudo encolar confirmacion")
	}
}

// ── Reads and admin mutations ─────────────────────────────────────────────────

func (s *pedidoService) ListarPedidos(ctx context.Context) ([]dto.PedidoListItem, error) {
	rows, err := s.pedidos.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener pedidos")
	}
	items := make([]dto.PedidoListItem, len(rows))
	for i := range rows {
		items[i] = pedidoRowToItem(&rows[i])
	}
	return items, nil
}

func (s *pedidoService) ObtenerPedido(ctx context.Context, id uuid.UUID) (*dto.PedidoDetalleResponse, error) {
	row, err := s.pedidos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Pedido no encontrado")
		}
		return nil, apierror.Internal(err, "Error al obtener pedido")
	}

	lineas, err := s.pedidos.FindLineas(ctx, id)
	if err != nil {
		return nil, apierror.Internal(err, "Error al obtener pedido")
	}

	detalle := &dto.PedidoDetalleResponse{
		PedidoListItem: pedidoRowToItem(row),
		Productos:      make([]dto.ItemPedidoResponse, len(lineas)),
	}
	for i, l := range lineas {
		nombre := ""
		if l.Nombre != nil {
			nombre = *l.Nombre
		}
		detalle.Productos[i] = dto.ItemPedidoResponse{
			ProductoID:     l.ProductoID.String(),
			Nombre:         nombre,
			TipoItem:       l.TipoItem,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			PrecioActual:   l.PrecioActual,
		}
	}
	return detalle, nil
}

func (s *pedidoService) ActualizarPedido(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) error {
	if err := s.pedidos.UpdateEstadoNotas(ctx, id, req.Estado, req.Notas); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Pedido no encontrado")
		}
		return apierror.Internal(err, "Error al actualizar pedido")
	}
	return nil
}

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	switch estado {
	case model.EstadoPendiente, model.EstadoCompletado, model.EstadoCancelado:
	default:
		return apierror.Validation("Estado inválido")
	}
	if err := s.pedidos.UpdateEstado(ctx, id, estado); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Pedido no encontrado")
		}
		return apierror.Internal(err, "Error al actualizar estado")
	}
	if estado == model.EstadoCompletado {
		s.encolarNotificacionEstado(ctx, id)
	}
	return nil
}

// encolarNotificacionEstado mails the buyer when their order is marked
// completado. Best effort, like the confirmation mail: a queue failure is
// logged and the state change stands.
func (s *pedidoService) encolarNotificacionEstado(ctx context.Context, id uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.pedidos.FindByID(ctx, id)
	if err != nil || row.Email == "" {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: row.Email,
		Subject: fmt.Sprintf("Tu pedido %s está listo - Kraken Store", row.NumeroPedido),
		Body: fmt.Sprintf("Hola %s,\n\nTu pedido %s ya fue completado. ¡Gracias por tu compra!\n\nKraken Store",
			row.ClienteNombre, row.NumeroPedido),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("pedido", row.NumeroPedido).Msg("no se pudo encolar notificación de estado")
	}
}

func pedidoRowToItem(row *repository.PedidoListRow) dto.PedidoListItem {
	return dto.PedidoListItem{
		ID:            row.ID.String(),
		NumeroPedido:  row.NumeroPedido,
		ClienteNombre: row.ClienteNombre,
		Email:         row.Email,
		Telefono:      row.Telefono,
		Tipo:          row.Tipo,
		Total:         row.Total,
		Via:           row.Via,
		Notas:         row.Notas,
		Estado:        row.Estado,
		FechaCreacion: row.CreatedAt.Format(time.RFC3339),
	}
}
