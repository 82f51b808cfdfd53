package handlers

import (
	"net/http"

	"github.com/SscSPs/partsledger/cmd/docs"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/SscSPs/partsledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.OperatorMiddleware(cfg.AuthEnabled, cfg.JWTSecret))

	RegisterLedgerRoutes(v1, service.Ledger)
	RegisterVoucherRoutes(v1, service.Voucher)
	RegisterStockRoutes(v1, service.Stock)
	RegisterCategoryRoutes(v1, service.Category)
	RegisterDocumentRoutes(v1, service.Document)
	RegisterPartyRoutes(v1, service.Party)
	RegisterVehicleRoutes(v1, service.Vehicle)
	RegisterMaintenanceRoutes(v1, service.Maintenance, service.Audit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
