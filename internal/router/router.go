package router

import (
	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/handler"
	"github.com/jpm92/simple-fact/internal/infra"
	"github.com/jpm92/simple-fact/internal/middleware"
	"github.com/jpm92/simple-fact/internal/repository"
	"github.com/jpm92/simple-fact/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB, pdfGen *infra.PDFGenerator) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	ventaRepo := repository.NewVentaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)
	serieRepo := repository.NewSerieRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ventaSvc := service.NewVentaService(ventaRepo, clienteRepo, cfg)
	emisionSvc := service.NewEmisionService(ventaRepo, documentoRepo, serieRepo, pdfGen, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc)
	documentosH := handler.NewDocumentosHandler(emisionSvc)
	clientesH := handler.NewClientesHandler(clienteRepo)
	catalogosH := handler.NewCatalogosHandler(cfg)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db))

	v1 := r.Group("/v1")
	{
		v1.GET("/catalogos", catalogosH.Catalogos)
		v1.GET("/config/emisor", catalogosH.Emisor)

		v1.GET("/clientes", clientesH.Listar)
		v1.PUT("/clientes", clientesH.Guardar)
		v1.GET("/clientes/:id", clientesH.Obtener)

		v1.POST("/ventas", ventasH.Crear)
		v1.GET("/ventas", ventasH.Listar)
		v1.GET("/ventas/pendientes-facturar", ventasH.PendientesFacturar)
		v1.GET("/ventas/:id", ventasH.Obtener)
		v1.PUT("/ventas/:id", ventasH.Actualizar)
		v1.DELETE("/ventas/:id", ventasH.Eliminar)
		v1.POST("/ventas/:id/estado", ventasH.CambiarEstado)

		v1.POST("/ventas/:id/documentos/:tipo", documentosH.Emitir)
		v1.GET("/ventas/:id/documentos/:tipo/pdf", documentosH.RutaPDF)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
