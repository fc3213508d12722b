package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fee-reconciliation-backend/internal/auth"
	handler "fee-reconciliation-backend/internal/handlers"
	"fee-reconciliation-backend/internal/middleware"
	"fee-reconciliation-backend/internal/repository"
	service "fee-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentTransactionRepository(db)
	uploadLogRepo := repository.NewUploadLogRepository(db)

	reconService := service.NewService(invoiceRepo, paymentRepo, uploadLogRepo)

	reconHandler := handler.NewReconciliationHandler(reconService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, paymentRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := api.Group("", middleware.Authenticate(), middleware.RequireRoles(auth.RoleAdmin, auth.RoleSuperAdmin))

	// Reconciliation routes
	recon := admin.Group("/reconciliation")
	recon.POST("/upload", reconHandler.Upload)
	recon.GET("/logs", reconHandler.Logs)

	// Invoice routes
	invoices := admin.Group("/invoices")
	{
		invoices.POST("", invoiceHandler.Create)
		invoices.POST("/upload", invoiceHandler.UploadCSV)
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/stats", invoiceHandler.Stats)
		invoices.GET("/:id", invoiceHandler.Get)
	}
}
