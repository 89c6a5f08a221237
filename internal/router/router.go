package router

import (
	"time"

	"gammacrm/internal/config"
	"gammacrm/internal/handler"
	"gammacrm/internal/middleware"
	"gammacrm/internal/repository"
	"gammacrm/internal/service"
	"gammacrm/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler <- Service <- Repository <- DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	jobCardRepo := repository.NewJobCardRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	ppfRepo := repository.NewPPFRepository(db)
	movementRepo := repository.NewRollMovementRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	serviceRepo := repository.NewServiceMasterRepository(db)
	accessoryRepo := repository.NewAccessoryRepository(db)
	categoryRepo := repository.NewAccessoryCategoryRepository(db)
	vehicleRepo := repository.NewVehicleTypeRepository(db)
	technicianRepo := repository.NewTechnicianRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	logger := log.Logger

	authSvc := service.NewAuthService(
		userRepo,
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour,
		logger,
	)
	jobCardSvc := service.NewJobCardService(jobCardRepo, invoiceRepo, ppfRepo, movementRepo, counterRepo, dispatcher, logger)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, logger)
	catalogSvc := service.NewCatalogService(serviceRepo, ppfRepo, movementRepo, accessoryRepo, categoryRepo, vehicleRepo, technicianRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	jobCardsH := handler.NewJobCardsHandler(jobCardSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	crmH := handler.NewCRMHandler(inquiryRepo, appointmentRepo, ticketRepo)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Health)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: advisor, manager, admin. Reads are open to all
		// authenticated staff; destructive operations need manager+.
		staff := middleware.RequireRole("advisor", "manager", "admin")
		managers := middleware.RequireRole("manager", "admin")
		admins := middleware.RequireRole("admin")

		jobs := v1.Group("/jobcards")
		{
			jobs.POST("", staff, jobCardsH.Create)
			jobs.GET("", staff, jobCardsH.List)
			jobs.GET("/:id", staff, jobCardsH.Get)
			jobs.PATCH("/:id", staff, jobCardsH.Update)
			jobs.PATCH("/:id/status", staff, jobCardsH.UpdateStatus)
			jobs.DELETE("/:id", managers, jobCardsH.Delete)
		}

		inv := v1.Group("/invoices")
		{
			inv.GET("", staff, invoicesH.List)
			inv.GET("/:id", staff, invoicesH.Get)
			inv.POST("/:id/payments", staff, invoicesH.RecordPayments)
			inv.DELETE("/:id", managers, invoicesH.Delete)
		}

		// Catalog reads for everyone, writes for manager+
		v1.GET("/services", staff, catalogH.ListServices)
		services := v1.Group("/services", managers)
		{
			services.POST("", catalogH.CreateService)
			services.PUT("/:id", catalogH.UpdateService)
			services.DELETE("/:id", catalogH.DeleteService)
		}

		v1.GET("/ppf", staff, catalogH.ListPPF)
		v1.GET("/ppf/:id", staff, catalogH.GetPPF)
		v1.GET("/ppf/:id/ledger", staff, catalogH.RollLedger)
		ppf := v1.Group("/ppf", managers)
		{
			ppf.POST("", catalogH.CreatePPF)
			ppf.PUT("/:id", catalogH.UpdatePPF)
			ppf.DELETE("/:id", catalogH.DeletePPF)
			ppf.POST("/:id/rolls", catalogH.AddRoll)
			ppf.PUT("/:id/rolls/:rollId", catalogH.UpdateRoll)
			ppf.DELETE("/:id/rolls/:rollId", catalogH.DeleteRoll)
		}

		v1.GET("/accessories", staff, catalogH.ListAccessories)
		accessories := v1.Group("/accessories", managers)
		{
			accessories.POST("", catalogH.CreateAccessory)
			accessories.PUT("/:id", catalogH.UpdateAccessory)
			accessories.DELETE("/:id", catalogH.DeleteAccessory)
		}

		v1.GET("/accessory-categories", staff, catalogH.ListCategories)
		categories := v1.Group("/accessory-categories", managers)
		{
			categories.POST("", catalogH.CreateCategory)
			categories.DELETE("/:id", catalogH.DeleteCategory)
		}

		v1.GET("/vehicle-types", staff, catalogH.ListVehicleTypes)
		vehicles := v1.Group("/vehicle-types", managers)
		{
			vehicles.POST("", catalogH.CreateVehicleType)
			vehicles.DELETE("/:id", catalogH.DeleteVehicleType)
		}

		v1.GET("/technicians", staff, catalogH.ListTechnicians)
		technicians := v1.Group("/technicians", managers)
		{
			technicians.POST("", catalogH.CreateTechnician)
			technicians.PUT("/:id", catalogH.UpdateTechnician)
			technicians.DELETE("/:id", catalogH.DeleteTechnician)
		}

		// CRM: flat CRUD, open to all staff
		crm := v1.Group("", staff)
		{
			crm.POST("/inquiries", crmH.CreateInquiry)
			crm.GET("/inquiries", crmH.ListInquiries)
			crm.PUT("/inquiries/:id", crmH.UpdateInquiry)
			crm.DELETE("/inquiries/:id", crmH.DeleteInquiry)

			crm.POST("/appointments", crmH.CreateAppointment)
			crm.GET("/appointments", crmH.ListAppointments)
			crm.PUT("/appointments/:id", crmH.UpdateAppointment)
			crm.DELETE("/appointments/:id", crmH.DeleteAppointment)

			crm.POST("/tickets", crmH.CreateTicket)
			crm.GET("/tickets", crmH.ListTickets)
			crm.PUT("/tickets/:id", crmH.UpdateTicket)
			crm.DELETE("/tickets/:id", crmH.DeleteTicket)
		}

		// User management: admin only
		users := v1.Group("/users", admins)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
