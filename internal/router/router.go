package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "rentdesk/docs" // registers the OpenAPI document
	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/handler"
	"rentdesk/internal/middleware"
	"rentdesk/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Company    *handler.CompanyHandler
	User       *handler.UserHandler
	Property   *handler.PropertyHandler
	Charge     *handler.ChargeHandler
	Tenancy    *handler.TenancyHandler
	File       *handler.FileHandler
	Invoice    *handler.InvoiceHandler
	Collection *handler.CollectionHandler
	Refund     *handler.RefundHandler
	Report     *handler.ReportHandler
	Health     *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log *zap.Logger, authSvc service.AuthService, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT and company context
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc), middleware.CompanyGuard())

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	propertyWrite := middleware.RequireRole(domain.PropertyWriters...)
	financeWrite := middleware.RequireRole(domain.FinanceWriters...)

	company := protected.Group("/company")
	company.GET("", h.Company.Get)
	company.PUT("", adminOnly, h.Company.Update)

	users := protected.Group("/users")
	users.POST("", adminOnly, h.User.Create)
	users.GET("", adminOnly, h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)

	buildings := protected.Group("/buildings")
	buildings.POST("", propertyWrite, h.Property.CreateBuilding)
	buildings.GET("", h.Property.ListBuildings)
	buildings.GET("/:id", h.Property.GetBuilding)
	buildings.POST("/:id/units", propertyWrite, h.Property.CreateUnit)
	buildings.GET("/:id/units", h.Property.ListUnits)

	tenants := protected.Group("/tenants")
	tenants.POST("", propertyWrite, h.Property.CreateTenant)
	tenants.GET("", h.Property.ListTenants)
	tenants.GET("/:id", h.Property.GetTenant)

	chargeTypes := protected.Group("/charge-types")
	chargeTypes.POST("", propertyWrite, h.Charge.CreateChargeType)
	chargeTypes.GET("", h.Charge.ListChargeTypes)
	chargeTypes.GET("/:id", h.Charge.GetChargeType)
	chargeTypes.PUT("/:id", propertyWrite, h.Charge.UpdateChargeType)
	chargeTypes.GET("/:id/tax-preview", h.Charge.PreviewTax)

	taxes := protected.Group("/taxes")
	taxes.POST("", propertyWrite, h.Charge.CreateTax)
	taxes.GET("", h.Charge.ListTaxes)
	taxes.PUT("/:id", propertyWrite, h.Charge.UpdateTax)

	tenancies := protected.Group("/tenancies")
	tenancies.POST("", propertyWrite, h.Tenancy.Create)
	tenancies.GET("", h.Tenancy.List)
	tenancies.GET("/:id", h.Tenancy.Get)
	tenancies.PUT("/:id", propertyWrite, h.Tenancy.Update)
	tenancies.POST("/:id/activate", propertyWrite, h.Tenancy.Activate)
	tenancies.POST("/:id/renew", propertyWrite, h.Tenancy.Renew)
	tenancies.POST("/:id/terminate", propertyWrite, h.Tenancy.Terminate)
	tenancies.POST("/:id/close", propertyWrite, h.Tenancy.Close)
	tenancies.GET("/:id/schedules", h.Tenancy.ListSchedules)
	tenancies.POST("/:id/charges", propertyWrite, h.Tenancy.AddCharge)
	tenancies.GET("/:id/charges", h.Tenancy.ListCharges)
	tenancies.GET("/:id/excess-deposits", h.Refund.Balance)
	tenancies.POST("/:id/files", propertyWrite, h.File.Upload)
	tenancies.GET("/:id/files", h.File.List)

	protected.DELETE("/charges/:id", propertyWrite, h.Tenancy.DeleteCharge)

	files := protected.Group("/files")
	files.GET("/:id", h.File.GetByID)
	files.DELETE("/:id", propertyWrite, h.File.Delete)

	invoices := protected.Group("/invoices")
	invoices.POST("", financeWrite, h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.Get)

	collections := protected.Group("/collections")
	collections.POST("", financeWrite, h.Collection.Create)
	collections.GET("", h.Collection.List)
	collections.GET("/:id", h.Collection.Get)
	collections.PUT("/:id", financeWrite, h.Collection.Update)
	collections.DELETE("/:id", financeWrite, h.Collection.Delete)

	refunds := protected.Group("/refunds")
	refunds.POST("", financeWrite, h.Refund.Create)
	refunds.GET("", h.Refund.List)
	refunds.GET("/:id", h.Refund.Get)
	refunds.PUT("/:id", financeWrite, h.Refund.Update)

	reports := protected.Group("/reports")
	reports.GET("/collections", h.Report.Collections)
	reports.GET("/outstanding", h.Report.Outstanding)
	reports.GET("/tax", h.Report.Tax)
	reports.GET("/:name/export", h.Report.Export)

	return r
}
