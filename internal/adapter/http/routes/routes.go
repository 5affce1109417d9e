package routes

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "sterling_partners/docs"
	"sterling_partners/internal/adapter/http/handlers"
	"sterling_partners/internal/adapter/http/middleware"
	"sterling_partners/internal/adapter/persistence/repository"
	"sterling_partners/internal/config"
	"sterling_partners/internal/infrastructure/awsclient"
	"sterling_partners/internal/infrastructure/database"
	"sterling_partners/internal/infrastructure/messaging"
	"sterling_partners/internal/infrastructure/notifications"
	"sterling_partners/internal/logger"
	"sterling_partners/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run will start the server and block until SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	logger.InitLogger(cfg.GinMode)
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quoteUseCase, bookingUseCase, err := buildUseCases(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to wire dependencies", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, time.Minute)
	go bookingUseCase.RunJanitor(ctx, cfg.JanitorInterval)

	router := NewRouter(cfg, limiter,
		handlers.NewQuoteHandler(quoteUseCase, bookingUseCase),
		handlers.NewBookingHandler(bookingUseCase),
	)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Port), zap.String("timezone", cfg.Location().String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to startup the application", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// NewRouter builds the engine with middlewares, swagger and the /v1 routes.
func NewRouter(cfg config.Config, limiter *middleware.RateLimiter, quoteHandler *handlers.QuoteHandler, bookingHandler *handlers.BookingHandler) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, cfg, limiter)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPricingRoutes(v1, quoteHandler)
	addBookingRoutes(v1, bookingHandler)
	return router
}

func buildUseCases(ctx context.Context, cfg config.Config) (*usecase.QuoteUseCase, *usecase.BookingUseCase, error) {
	ddb, err := database.ConnectDynamoDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	quoteRepo := repository.NewQuoteDynamoRepository(ddb)
	bookingRepo := repository.NewBookingDynamoRepository(ddb)

	opts := []usecase.BookingOption{
		usecase.WithBookingLocation(cfg.Location()),
		usecase.WithSessionTTL(cfg.SessionTTL),
		usecase.WithConfirmationDwell(cfg.ConfirmationDwell),
		usecase.WithBookingTimeSlots(cfg.TimeSlots),
	}

	if cfg.ResendAPIKey != "" {
		opts = append(opts, usecase.WithBookingNotifier(notifications.NewResendNotifier(cfg.ResendAPIKey, cfg.FromEmail, cfg.FromName)))
	} else {
		logger.Warn("RESEND_API_KEY not set; booking confirmation emails disabled")
	}

	if cfg.SQSQueueURL != "" {
		awsCfg, err := awsclient.ConfigForEndpoint(ctx, cfg.SQSEndpoint)
		if err != nil {
			return nil, nil, err
		}
		publisher := messaging.NewSQSPublisher(messaging.NewSQSClient(awsCfg, cfg.SQSEndpoint), cfg.SQSQueueURL, messaging.DefaultRetryConfig)
		opts = append(opts, usecase.WithBookingEventPublisher(publisher))
	} else {
		logger.Warn("SQS_QUEUE_URL not set; booking events disabled")
	}

	return usecase.NewQuoteUseCase(quoteRepo), usecase.NewBookingUseCase(bookingRepo, quoteRepo, opts...), nil
}

func setMiddlewares(router *gin.Engine, cfg config.Config, limiter *middleware.RateLimiter) {
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		middleware.LogWithCorrelationID(c.Request.Context()).Error("Recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	if limiter != nil {
		router.Use(limitMutations(limiter.Middleware()))
	}
}

// limitMutations applies limit to state-changing requests only; reads and
// CORS preflights pass through.
func limitMutations(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		limit(c)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader}
	corsConfig.ExposeHeaders = []string{"Location", middleware.CorrelationIDHeader, "Retry-After"}
	return cors.New(corsConfig)
}
