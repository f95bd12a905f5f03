package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/config"
	"github.com/BruksfildServices01/equine-practice/internal/handlers"
	infraRepo "github.com/BruksfildServices01/equine-practice/internal/infra/repository"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/storage"
	ucAppointment "github.com/BruksfildServices01/equine-practice/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/equine-practice/internal/usecase/availability"
	ucInvoice "github.com/BruksfildServices01/equine-practice/internal/usecase/invoice"
)

// Deps are the process-wide singletons the routes are built from.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
	Locks  locker.Locker
	Audit  *audit.Dispatcher
	// Store may be nil when object storage is not configured.
	Store storage.ObjectStore

	// EmailCheck overrides the signup email domain check; nil keeps the
	// DNS lookup.
	EmailCheck func(string) bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(d.Log),
		gin.Recovery(),
		middleware.CORSMiddleware(d.Config.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	ignoreCancelled := d.Config.IgnoreCancelledConflicts

	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(d.DB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	getSlotsUC := ucAppointment.NewGetSlots(appointmentRepo, ignoreCancelled)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, d.Locks, d.Audit, ignoreCancelled),
		ucAppointment.NewUpdateAppointment(appointmentRepo, d.Locks, d.Audit, ignoreCancelled),
		ucAppointment.NewGetAppointment(appointmentRepo),
		ucAppointment.NewListAppointments(appointmentRepo),
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		ucAvailability.NewListAvailability(availabilityRepo),
		ucAvailability.NewGetAvailability(availabilityRepo),
		ucAvailability.NewCreateAvailability(availabilityRepo, d.Locks, d.Audit),
		ucAvailability.NewUpdateAvailability(availabilityRepo, d.Locks, d.Audit),
		ucAvailability.NewDeleteAvailability(availabilityRepo, d.Audit),
		getSlotsUC,
	)

	invoiceHandler := handlers.NewInvoiceHandler(handlers.InvoiceUseCases{
		Create:          ucInvoice.NewCreateInvoice(invoiceRepo, d.Locks, d.Audit),
		FromAppointment: ucInvoice.NewCreateInvoiceFromAppointment(invoiceRepo, d.Locks, d.Audit),
		Update:          ucInvoice.NewUpdateInvoice(invoiceRepo, d.Audit),
		Void:            ucInvoice.NewVoidInvoice(invoiceRepo, d.Audit),
		Get:             ucInvoice.NewGetInvoice(invoiceRepo),
		List:            ucInvoice.NewListInvoices(invoiceRepo),
		Items:           ucInvoice.NewInvoiceItems(invoiceRepo, d.Audit),
		Payments:        ucInvoice.NewInvoicePayments(invoiceRepo, d.Audit),
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Audit)
	if d.EmailCheck != nil {
		authHandler.WithEmailCheck(d.EmailCheck)
	}
	meHandler := handlers.NewMeHandler(d.DB)
	practiceHandler := handlers.NewPracticeHandler(d.DB, d.Audit)
	userHandler := handlers.NewUserHandler(d.DB, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB, d.Audit)
	horseHandler := handlers.NewHorseHandler(d.DB, d.Audit, d.Store, d.Log)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	publicHandler := handlers.NewPublicHandler(d.DB, getSlotsUC)

	authLimiter := middleware.NewIPRateLimiter(d.Config.AuthRatePerMin)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.Services)
			publicAPI.GET("/:slug/slots", publicHandler.Slots)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config), middleware.RequireWrite())
		{
			secured.GET("/me", meHandler.GetMe)

			ownerOnly := middleware.RequireRole(models.RoleOwner)

			secured.GET("/practice", practiceHandler.Get)
			secured.PUT("/practice", ownerOnly, practiceHandler.Update)

			secured.GET("/users", userHandler.List)
			secured.GET("/users/:id", userHandler.Get)
			secured.POST("/users", ownerOnly, userHandler.Create)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PUT("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)

			secured.GET("/horses", horseHandler.List)
			secured.POST("/horses", horseHandler.Create)
			secured.GET("/horses/:id", horseHandler.Get)
			secured.PUT("/horses/:id", horseHandler.Update)
			secured.DELETE("/horses/:id", horseHandler.Delete)
			secured.POST("/horses/:id/photo", horseHandler.UploadPhoto)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.GET("/services/:id", serviceHandler.Get)
			secured.PUT("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			// ------------------------------
			// SCHEDULING
			// ------------------------------
			secured.GET("/availability", availabilityHandler.List)
			secured.POST("/availability", availabilityHandler.Create)
			secured.GET("/availability/slots", availabilityHandler.Slots)
			secured.GET("/availability/:id", availabilityHandler.Get)
			secured.PUT("/availability/:id", availabilityHandler.Update)
			secured.DELETE("/availability/:id", availabilityHandler.Delete)

			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)

			// ------------------------------
			// BILLING
			// ------------------------------
			secured.GET("/invoices", invoiceHandler.List)
			secured.POST("/invoices", invoiceHandler.Create)
			secured.POST("/invoices/from-appointment", invoiceHandler.CreateFromAppointment)
			secured.GET("/invoices/:id", invoiceHandler.Get)
			secured.PUT("/invoices/:id", invoiceHandler.Update)
			secured.DELETE("/invoices/:id", invoiceHandler.Delete)
			secured.POST("/invoices/:id/items", invoiceHandler.AddItem)
			secured.PUT("/invoices/:id/items/:itemId", invoiceHandler.UpdateItem)
			secured.DELETE("/invoices/:id/items/:itemId", invoiceHandler.DeleteItem)
			secured.POST("/invoices/:id/payments", invoiceHandler.AddPayment)
			secured.DELETE("/invoices/:id/payments/:paymentId", invoiceHandler.DeletePayment)

			secured.GET("/audit", auditLogsHandler.List)
		}
	}
}
