package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/config"
	"voyago/cron"
	"voyago/database"
	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	offeringRepo "voyago/database/repository/offering"
	promotionRepo "voyago/database/repository/promotion"
	"voyago/handlers"
	"voyago/middleware"
	"voyago/routes"
	"voyago/services/booking"
	"voyago/services/payment"
	"voyago/services/tasks"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(routes.CORSConfig())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	offerings := offeringRepo.NewMongoOfferingRepo()
	inventory := inventoryRepo.NewMongoInventoryRepo()
	ledger := ledgerRepo.NewMongoLedgerRepo()
	promotions := promotionRepo.NewMongoPromotionRepo()

	// Engine components.
	resolver := &booking.AvailabilityResolver{
		Inventory: inventory,
		Ledger:    ledger,
	}
	fees, taxes := booking.PoliciesFromConfig()
	calculator := &booking.QuoteCalculator{
		Offerings:  offerings,
		Inventory:  inventory,
		Promotions: promotions,
		Ledger:     ledger,
		Resolver:   resolver,
		Evaluator:  &booking.PromotionEvaluator{},
		Fees:       fees,
		Taxes:      taxes,
	}

	var paymentCollab booking.PaymentCollaborator
	if config.AppConfig.StripeKey != "" {
		paymentCollab = payment.NewStripeCollaborator(logger)
	} else {
		logger.Warn("no stripe key configured, using noop payment collaborator")
		paymentCollab = payment.NoopCollaborator{}
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	orchestrator := &booking.BookingOrchestrator{
		Offerings:  offerings,
		Inventory:  inventory,
		Ledger:     ledger,
		Calculator: calculator,
		Payments:   paymentCollab,
		Expiry:     &tasks.AsynqExpiryScheduler{Client: asynqClient},
		DraftTTL:   time.Duration(config.AppConfig.DraftTTLMinutes) * time.Minute,
		Logger:     logger,
	}

	bookingService := &booking.DefaultBookingService{
		Offerings:    offerings,
		Inventory:    inventory,
		Ledger:       ledger,
		Resolver:     resolver,
		Calculator:   calculator,
		Orchestrator: orchestrator,
		Cache:        utils.GetCacheClient(),
		Logger:       logger,
	}

	// Draft bookings that never finish checkout get garbage collected.
	cron.InitExpiryWorker(bookingService, ledger)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	catalogHandler := handlers.NewCatalogHandler(offerings, inventory, promotions, logger)

	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterCatalogRoutes(router, catalogHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("forced shutdown: %v", err)
	}
	logger.Info("server exited")
}
