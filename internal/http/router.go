package apphttp

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tokobayar.com/app/internal/config"
	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/http/handlers"
	"tokobayar.com/app/internal/http/middleware"
	"tokobayar.com/app/internal/modules/payments"
)

// NewRouter wires the gateway client, store and services into the gin engine.
// The gateway client is injected once here; nothing constructs its own.
func NewRouter(logger *slog.Logger, db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.ErrorHandler(logger, cfg.IsDevelopment()),
		cors.Default(),
	)

	gateway := midtrans.NewClient(cfg.MidtransServerKey, cfg.MidtransClientKey, cfg.MidtransProduction)
	gateway.SetLogger(logger)

	repo := payments.NewRepo(db)

	svc := payments.NewService(repo, gateway, payments.MethodOptions{
		GopayCallbackURL: cfg.GopayCallbackURL,
		QrisAcquirer:     cfg.QrisAcquirer,
		Banks:            cfg.BankTransferBanks,
	})
	svc.SetLogger(logger)

	rec := payments.NewReconciler(repo, cfg.MidtransServerKey, cfg.SkipNotificationSignature)
	rec.SetLogger(logger)

	h := handlers.NewPaymentHandler(logger, svc, rec, gateway)

	api := r.Group("/api/payment")
	{
		api.POST("/create", h.Create)
		api.POST("/notification", h.Notification)
		api.GET("/status/:orderId", h.Status)
		api.GET("/transactions", h.List)
		api.GET("/qr/:orderId", h.QR)
		api.POST("/card/token", h.CardToken)
	}

	return r
}
