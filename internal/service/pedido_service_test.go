package service

import (
	"context"
	"testing"
	"time"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/model"
	"krakenstore/internal/repository"
	"krakenstore/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubPedidoRepo is an in-memory PedidoRepository for testing.
type stubPedidoRepo struct {
	pedidos []*model.Pedido
	lineas  []model.PedidoProducto
	// joined customer email per pedido, as the SQL listing would return it
	emails map[uuid.UUID]string
}

func (r *stubPedidoRepo) List(_ context.Context) ([]repository.PedidoListRow, error) {
	rows := make([]repository.PedidoListRow, len(r.pedidos))
	for i, p := range r.pedidos {
		rows[i] = repository.PedidoListRow{Pedido: *p}
	}
	return rows, nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*repository.PedidoListRow, error) {
	for _, p := range r.pedidos {
		if p.ID == id {
			return &repository.PedidoListRow{Pedido: *p, Email: r.emails[p.ID]}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) FindLineas(_ context.Context, pedidoID uuid.UUID) ([]repository.PedidoLineaRow, error) {
	var rows []repository.PedidoLineaRow
	for _, l := range r.lineas {
		if l.PedidoID == pedidoID {
			rows = append(rows, repository.PedidoLineaRow{PedidoProducto: l})
		}
	}
	return rows, nil
}

func (r *stubPedidoRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]repository.PedidoClienteRow, error) {
	var rows []repository.PedidoClienteRow
	for _, p := range r.pedidos {
		if p.ClienteID != nil && *p.ClienteID == clienteID {
			rows = append(rows, repository.PedidoClienteRow{Pedido: *p})
		}
	}
	return rows, nil
}

func (r *stubPedidoRepo) UpdateEstadoNotas(_ context.Context, id uuid.UUID, estado string, notas *string) error {
	for _, p := range r.pedidos {
		if p.ID == id {
			p.Estado = estado
			p.Notas = notas
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	for _, p := range r.pedidos {
		if p.ID == id {
			p.Estado = estado
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.pedidos = append(r.pedidos, p)
	return nil
}

func (r *stubPedidoRepo) CreateLineaTx(_ *gorm.DB, l *model.PedidoProducto) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lineas = append(r.lineas, *l)
	return nil
}

func (r *stubPedidoRepo) LastNumeroPedidoTx(_ *gorm.DB) (string, error) {
	if len(r.pedidos) == 0 {
		return "", nil
	}
	return r.pedidos[len(r.pedidos)-1].NumeroPedido, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// stubProductoRepo keeps retail products in a map and applies the same
// conditional-decrement rule as the SQL implementation.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// counts every stock read or write so wholesale tests can assert zero
	stockReads  int
	stockWrites int
	// simulates a concurrent checkout draining the row between the service's
	// pre-flight read and the conditional decrement
	agotarEnDecremento bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) seed(nombre string, precio float64, stock int) *model.Producto {
	p := &model.Producto{
		ID:     uuid.New(),
		Nombre: nombre,
		Precio: decimal.NewFromFloat(precio),
		Stock:  stock,
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.stockReads++
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) { return nil, nil }
func (r *stubProductoRepo) ListByCategoria(_ context.Context, _ string) ([]model.Producto, error) {
	return nil, nil
}
func (r *stubProductoRepo) ListDestacados(_ context.Context) ([]model.Producto, error) {
	return nil, nil
}
func (r *stubProductoRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}
func (r *stubProductoRepo) SetPrecio(_ context.Context, id uuid.UUID, precio decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Precio = precio
	return nil
}
func (r *stubProductoRepo) SetDestacado(_ context.Context, id uuid.UUID, destacado bool) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Destacado = destacado
	return nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	r.stockReads++
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	r.stockWrites++
	p, ok := r.productos[id]
	if !ok {
		return 0, nil
	}
	if r.agotarEnDecremento {
		p.Stock = 0
		return 0, nil
	}
	if p.Stock < cantidad {
		return 0, nil
	}
	p.Stock -= cantidad
	return 1, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubClienteRepo resolves guests by email-or-phone like the SQL query does.
type stubClienteRepo struct {
	clientes []*model.Cliente
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes = append(r.clientes, c)
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) FindByEmail(_ context.Context, email string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) UpdatePerfil(_ context.Context, id uuid.UUID, nombre, telefono string) error {
	for _, c := range r.clientes {
		if c.ID == id {
			c.Nombre = nombre
			c.Telefono = telefono
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) TouchUltimoAcceso(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	for _, c := range r.clientes {
		if c.ID == id {
			c.UltimoAcceso = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) ListWithStats(_ context.Context) ([]repository.ClienteStatsRow, error) {
	rows := make([]repository.ClienteStatsRow, len(r.clientes))
	for i, c := range r.clientes {
		rows[i] = repository.ClienteStatsRow{Cliente: *c}
	}
	return rows, nil
}

func (r *stubClienteRepo) FindByEmailOrTelefonoTx(_ *gorm.DB, email, telefono string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if email != "" && c.Email != nil && *c.Email == email {
			return c, nil
		}
		if telefono != "" && c.Telefono == telefono {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) CreateTx(_ *gorm.DB, c *model.Cliente) error {
	return r.Create(context.Background(), c)
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubDispatcher records every enqueued job instead of touching Redis.
type stubDispatcher struct {
	confirmaciones []interface{}
	emails         []interface{}
}

func (d *stubDispatcher) EnqueueConfirmacion(_ context.Context, payload interface{}) error {
	d.confirmaciones = append(d.confirmaciones, payload)
	return nil
}

func (d *stubDispatcher) EnqueueEmail(_ context.Context, payload interface{}) error {
	d.emails = append(d.emails, payload)
	return nil
}

var _ JobDispatcher = (*stubDispatcher)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildPedidoSvc() (PedidoService, *stubPedidoRepo, *stubProductoRepo, *stubClienteRepo) {
	pedidoRepo := &stubPedidoRepo{}
	productoRepo := newStubProductoRepo()
	clienteRepo := &stubClienteRepo{}
	svc := NewPedidoService(pedidoRepo, productoRepo, clienteRepo, nil)
	return svc, pedidoRepo, productoRepo, clienteRepo
}

func pedidoMinoreo(p *model.Producto, cantidad int) dto.CrearPedidoRequest {
	precio := p.Precio
	return dto.CrearPedidoRequest{
		Tipo:  model.TipoMinoreo,
		Total: precio.Mul(decimal.NewFromInt(int64(cantidad))),
		Productos: []dto.ItemPedidoRequest{
			{ID: p.ID.String(), Nombre: p.Nombre, Cantidad: cantidad, Precio: precio},
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCrearPedido_SinProductos(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()
	_, err := svc.CrearPedido(context.Background(), dto.CrearPedidoRequest{
		Tipo:  model.TipoMinoreo,
		Total: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.CodeValidation, apierror.From(err).Code())
}

func TestCrearPedido_NumerosSecuenciales(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Funda iPhone 15", 150, 100)

	for _, want := range []string{"KR-001", "KR-002", "KR-003"} {
		resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
		require.NoError(t, err)
		assert.Equal(t, want, resp.NumeroPedido)
	}
}

func TestCrearPedido_DescuentaStock(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Mica 9H", 100, 5)

	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 3))
	require.NoError(t, err)

	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, "300", resp.Total.String())
	require.Len(t, pedidoRepo.lineas, 1)
	assert.Equal(t, 3, pedidoRepo.lineas[0].Cantidad)
	assert.Equal(t, "100", pedidoRepo.lineas[0].PrecioUnitario.String())
}

func TestCrearPedido_StockInsuficiente(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Cable USB-C", 80, 2)

	_, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 5))
	require.Error(t, err)
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.From(err).Code())
	assert.Contains(t, err.Error(), "Cable USB-C")

	// Nothing written, nothing decremented.
	assert.Equal(t, 2, p.Stock)
	assert.Empty(t, pedidoRepo.pedidos)
	assert.Empty(t, pedidoRepo.lineas)
}

func TestCrearPedido_CarreraEnDecrementoAborta(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Cable USB-C", 80, 5)

	// the pre-flight read sees stock 5, but a concurrent checkout drains the
	// row before the conditional decrement runs
	productoRepo.agotarEnDecremento = true

	_, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 3))
	require.Error(t, err)
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.From(err).Code())
	// the message carries the re-read availability, not the stale pre-flight one
	assert.Contains(t, err.Error(), "Disponible: 0")
	assert.Contains(t, err.Error(), "Cable USB-C")
}

func TestCrearPedido_LineaTardiaBloqueaTodo(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc()
	ok := productoRepo.seed("Cargador 20W", 250, 10)
	agotado := productoRepo.seed("AirPods Pro", 1800, 1)

	req := dto.CrearPedidoRequest{
		Tipo:  model.TipoMinoreo,
		Total: decimal.NewFromInt(3850),
		Productos: []dto.ItemPedidoRequest{
			{ID: ok.ID.String(), Nombre: ok.Nombre, Cantidad: 1, Precio: ok.Precio},
			{ID: agotado.ID.String(), Nombre: agotado.Nombre, Cantidad: 2, Precio: agotado.Precio},
		},
	}
	_, err := svc.CrearPedido(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.From(err).Code())

	// The valid first line must not have been applied either.
	assert.Equal(t, 10, ok.Stock)
	assert.Equal(t, 1, agotado.Stock)
	assert.Empty(t, pedidoRepo.pedidos)
}

func TestCrearPedido_ProductoInexistente(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()

	req := dto.CrearPedidoRequest{
		Tipo:  model.TipoMinoreo,
		Total: decimal.NewFromInt(100),
		Productos: []dto.ItemPedidoRequest{
			{ID: uuid.NewString(), Cantidad: 1, Precio: decimal.NewFromInt(100)},
		},
	}
	_, err := svc.CrearPedido(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.CodeNotFound, apierror.From(err).Code())
}

func TestCrearPedido_MayoreoNoTocaStock(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc()

	// The wholesale flow must never read nor write retail stock, even when
	// the referenced id matches nothing in the retail table.
	req := dto.CrearPedidoRequest{
		Tipo:  model.TipoMayoreo,
		Total: decimal.NewFromInt(2500),
		Productos: []dto.ItemPedidoRequest{
			{ID: uuid.NewString(), Nombre: "Paquete Emprendedor", Cantidad: 1, Precio: decimal.NewFromInt(2500)},
		},
	}
	resp, err := svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "KR-001", resp.NumeroPedido)

	assert.Zero(t, productoRepo.stockReads)
	assert.Zero(t, productoRepo.stockWrites)
	require.Len(t, pedidoRepo.pedidos, 1)
	assert.Equal(t, model.TipoMayoreo, pedidoRepo.pedidos[0].Tipo)
}

func TestCrearPedido_InvitadoReutilizaClienteExistente(t *testing.T) {
	svc, _, productoRepo, clienteRepo := buildPedidoSvc()
	p := productoRepo.seed("Popsocket", 60, 20)

	email := "laura@example.com"
	existente := &model.Cliente{Nombre: "Laura", Email: &email, Telefono: "5512345678"}
	require.NoError(t, clienteRepo.Create(context.Background(), existente))

	req := pedidoMinoreo(p, 1)
	req.ClienteInfo = &dto.ClienteInfoRequest{Nombre: "Laura G.", Email: email}

	resp, err := svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ClienteID)
	assert.Equal(t, existente.ID.String(), *resp.ClienteID)
	assert.Len(t, clienteRepo.clientes, 1)
}

func TestCrearPedido_InvitadoPorTelefono(t *testing.T) {
	svc, _, productoRepo, clienteRepo := buildPedidoSvc()
	p := productoRepo.seed("Soporte auto", 120, 20)

	existente := &model.Cliente{Nombre: "Pedro", Telefono: "5587654321"}
	require.NoError(t, clienteRepo.Create(context.Background(), existente))

	// Same phone, no email: resolves to the same customer.
	req := pedidoMinoreo(p, 1)
	req.ClienteInfo = &dto.ClienteInfoRequest{Nombre: "Pedro M.", Telefono: "5587654321"}

	resp, err := svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ClienteID)
	assert.Equal(t, existente.ID.String(), *resp.ClienteID)
}

func TestCrearPedido_InvitadoNuevoConDefault(t *testing.T) {
	svc, _, productoRepo, clienteRepo := buildPedidoSvc()
	p := productoRepo.seed("Audífonos BT", 350, 20)

	req := pedidoMinoreo(p, 1)
	req.ClienteInfo = &dto.ClienteInfoRequest{Nombre: "Nuevo", Email: "nuevo@example.com"}

	resp, err := svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ClienteID)
	require.Len(t, clienteRepo.clientes, 1)
	assert.Equal(t, "App", clienteRepo.clientes[0].ComoNosConocio)
}

func TestCrearPedido_AnonimoSinContacto(t *testing.T) {
	svc, pedidoRepo, productoRepo, clienteRepo := buildPedidoSvc()
	p := productoRepo.seed("Llavero kraken", 40, 20)

	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
	require.NoError(t, err)
	assert.Nil(t, resp.ClienteID)
	assert.Empty(t, clienteRepo.clientes)
	assert.Nil(t, pedidoRepo.pedidos[0].ClienteID)
}

func TestObtenerPedido_PrecioCongelado(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Funda MagSafe", 200, 10)

	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 2))
	require.NoError(t, err)

	// Admin raises the catalog price afterwards.
	p.Precio = decimal.NewFromInt(999)

	detalle, err := svc.ObtenerPedido(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, detalle.Productos, 1)
	assert.Equal(t, "200", detalle.Productos[0].PrecioUnitario.String())
}

func TestCambiarEstado_Validado(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc()
	p := productoRepo.seed("Correa reloj", 90, 10)

	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	err = svc.CambiarEstado(context.Background(), id, "enviado")
	require.Error(t, err)
	assert.Equal(t, apierror.CodeValidation, apierror.From(err).Code())

	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoCompletado))

	detalle, err := svc.ObtenerPedido(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompletado, detalle.Estado)
}

func TestCambiarEstado_PedidoInexistente(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()
	err := svc.CambiarEstado(context.Background(), uuid.New(), model.EstadoCancelado)
	require.Error(t, err)
	assert.Equal(t, apierror.CodeNotFound, apierror.From(err).Code())
}

func TestCambiarEstado_CompletadoNotificaAlCliente(t *testing.T) {
	pedidoRepo := &stubPedidoRepo{}
	productoRepo := newStubProductoRepo()
	dispatcher := &stubDispatcher{}
	svc := NewPedidoService(pedidoRepo, productoRepo, &stubClienteRepo{}, dispatcher)

	p := productoRepo.seed("Correa reloj", 90, 10)
	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	pedidoRepo.emails = map[uuid.UUID]string{id: "laura@example.com"}

	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoCompletado))

	require.Len(t, dispatcher.emails, 1)
	payload, ok := dispatcher.emails[0].(worker.EmailJobPayload)
	require.True(t, ok)
	assert.Equal(t, "laura@example.com", payload.ToEmail)
	assert.Contains(t, payload.Subject, resp.NumeroPedido)

	// cancelling another order sends nothing
	resp2, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
	require.NoError(t, err)
	require.NoError(t, svc.CambiarEstado(context.Background(), uuid.MustParse(resp2.ID), model.EstadoCancelado))
	assert.Len(t, dispatcher.emails, 1)
}

func TestCambiarEstado_CompletadoSinEmailNoEncola(t *testing.T) {
	pedidoRepo := &stubPedidoRepo{}
	productoRepo := newStubProductoRepo()
	dispatcher := &stubDispatcher{}
	svc := NewPedidoService(pedidoRepo, productoRepo, &stubClienteRepo{}, dispatcher)

	p := productoRepo.seed("Correa reloj", 90, 10)
	resp, err := svc.CrearPedido(context.Background(), pedidoMinoreo(p, 1))
	require.NoError(t, err)

	require.NoError(t, svc.CambiarEstado(context.Background(), uuid.MustParse(resp.ID), model.EstadoCompletado))
	assert.Empty(t, dispatcher.emails)
}
