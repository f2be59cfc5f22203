package router

import (
	"net/http"
	"time"

	"krakenstore/internal/config"
	"krakenstore/internal/handler"
	"krakenstore/internal/infra"
	"krakenstore/internal/middleware"
	"krakenstore/internal/repository"
	"krakenstore/internal/service"
	"krakenstore/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	imageStore := infra.NewImageStore(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	paqueteRepo := repository.NewPaqueteRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(productoRepo, paqueteRepo, imageStore, rdb)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, clienteRepo, dispatcher)
	clienteSvc := service.NewClienteService(clienteRepo, pedidoRepo)
	authSvc := service.NewAuthService(adminRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(catalogoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	authH := handler.NewAuthHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Bienvenido a Kraken Store API"})
	})
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		// Alias kept for the mobile app: registers a retail customer.
		auth.POST("/register", clientesH.Registrar)
	}

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	// Catalog — public reads, capability-gated writes
	productos := r.Group("/api/productos")
	{
		productos.GET("", productosH.Listar)
		productos.GET("/mayoreo", productosH.ListarMayoreo)
		productos.GET("/destacados/list", productosH.ListarDestacados)
		productos.GET("/categoria/:categoria", productosH.ListarPorCategoria)
		productos.GET("/:id", productosH.Obtener)

		gestion := productos.Group("", jwtMW, middleware.RequireCapacidad("gestionar_inventario"))
		{
			gestion.POST("", productosH.Crear)
			gestion.PUT("/:id/stock", productosH.ActualizarStock)
			gestion.PUT("/:id/precio", productosH.ActualizarPrecio)
			gestion.PUT("/:id/destacado", productosH.ToggleDestacado)
		}
	}

	// Orders — checkout is public (mobile app), back-office is gated
	pedidos := r.Group("/api/pedidos")
	{
		pedidos.POST("", pedidosH.Crear)

		gestion := pedidos.Group("", jwtMW, middleware.RequireCapacidad("gestionar_pedidos"))
		{
			gestion.GET("", pedidosH.Listar)
			gestion.GET("/:id", pedidosH.Obtener)
			gestion.PUT("/:id", pedidosH.Actualizar)
			gestion.PUT("/:id/estado", pedidosH.CambiarEstado)
		}
	}

	// Customers — account routes are public (the app has no customer JWT),
	// the stats listing is back-office only
	clientes := r.Group("/api/clientes")
	{
		clientes.POST("/registro", clientesH.Registrar)
		clientes.POST("/login", middleware.LoginRateLimiter(), clientesH.Login)
		clientes.GET("/:id", clientesH.Obtener)
		clientes.PUT("/:id", clientesH.Actualizar)
		clientes.GET("/:id/pedidos", clientesH.ListarPedidos)

		clientes.GET("", jwtMW, middleware.RequireCapacidad("ver_clientes"), clientesH.Listar)
	}

	// Locally stored product images — production serves from object storage
	if !cfg.IsProduction() {
		r.Static("/uploads", cfg.UploadDir)
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
