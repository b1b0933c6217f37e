package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/config"
	"github.com/smarttransit/booking-backend/internal/database"
	"github.com/smarttransit/booking-backend/internal/handlers"
	"github.com/smarttransit/booking-backend/internal/middleware"
	"github.com/smarttransit/booking-backend/internal/services"
	"github.com/smarttransit/booking-backend/pkg/notify"
	"github.com/smarttransit/booking-backend/pkg/token"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	seatPoolRepo := database.NewSeatPoolRepository(db)
	ticketRepo := database.NewTicketRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	refundRepo := database.NewRefundRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	auditRepo := database.NewAuditRepository(db)

	// Services
	logger.Info("Initializing services...")
	tokenService := token.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	publisher := notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Enabled, logger)

	fareService := services.NewFareService()
	inventoryService := services.NewSeatInventoryService(seatPoolRepo, logger)
	ticketService := services.NewTicketService(ticketRepo, scheduleRepo, logger)
	paymentService := services.NewPaymentService(paymentRepo, cfg.Booking.DefaultCurrency, logger)
	refundService := services.NewRefundService(refundRepo, ticketRepo, paymentService, inventoryService, publisher, logger)
	auditService := services.NewAuditService(auditRepo, logger)
	bookingService := services.NewBookingService(
		fareService,
		inventoryService,
		ticketService,
		paymentService,
		publisher,
		cfg.Booking,
		logger,
	)

	// Handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, ticketService, refundService, auditService, logger)
	refundHandler := handlers.NewRefundHandler(refundService, auditService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokenService))
	{
		v1.POST("/bookings", bookingHandler.BookTicket)

		tickets := v1.Group("/tickets")
		{
			tickets.GET("", bookingHandler.ListTickets)
			tickets.GET("/:ticket_id", bookingHandler.GetTicket)
			tickets.POST("/:ticket_id/cancel", bookingHandler.CancelTicket)
			tickets.POST("/:ticket_id/board", bookingHandler.BoardPassenger)
			tickets.GET("/:ticket_id/refund-estimate", bookingHandler.RefundEstimate)
		}

		refunds := v1.Group("/refunds")
		{
			refunds.POST("", refundHandler.CreateRefund)
			refunds.GET("/:refund_id", refundHandler.GetRefund)
			refunds.POST("/:refund_id/cancel", refundHandler.CancelRefund)
		}

		v1.GET("/seat-pools/:pool_id", inventoryHandler.GetPool)

		admin := v1.Group("/admin")
		{
			adminRefunds := admin.Group("/refunds", middleware.RequireRefundApproval())
			{
				adminRefunds.GET("/pending", refundHandler.ListPendingRefunds)
				adminRefunds.POST("/:refund_id/approve", refundHandler.ApproveRefund)
				adminRefunds.POST("/:refund_id/reject", refundHandler.RejectRefund)
				adminRefunds.POST("/:refund_id/process", refundHandler.ProcessRefund)
			}

			admin.POST("/seat-pools", middleware.RequireScheduleAccess(), inventoryHandler.CreatePool)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		if len(c.Errors) > 0 {
			logger.WithFields(fields).Error(c.Errors.String())
			return
		}
		logger.WithFields(fields).Info("Request completed")
	}
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  version,
			"database": "connected",
		})
	}
}
