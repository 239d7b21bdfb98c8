package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/codestore"
	"github.com/bbarni2020/Event-Pyramide/internal/adapter/handler"
	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/memory"
	postgresrepo "github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/postgres"
	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
	"github.com/bbarni2020/Event-Pyramide/internal/platform/config"
	"github.com/bbarni2020/Event-Pyramide/internal/platform/database"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.ParseEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	var (
		attendeeRepo  ports.AttendeeRepository
		referralRepo  ports.ReferralRepository
		ticketRepo    ports.TicketRepository
		configRepo    ports.PricingConfigRepository
		inventoryRepo ports.InventoryRepository
		saleRepo      ports.SaleRepository
		payoutRepo    ports.PayoutRepository
		incidentRepo  ports.IncidentRepository
	)

	switch cfg.Storage {
	case "memory":
		logger.Info("using in-memory storage")
		store := memory.NewStore()
		attendeeRepo = store.Attendees()
		referralRepo = store.Referrals()
		ticketRepo = store.Tickets()
		configRepo = store.PricingConfig()
		inventoryRepo = store.Inventory()
		saleRepo = store.Sales()
		payoutRepo = store.Payouts()
		incidentRepo = store.Incidents()
	default:
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
		}, logger)
		if err != nil {
			logger.Fatalf("connect database: %v", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		defer db.Close()

		attendeeRepo = postgresrepo.NewAttendeeRepository(db)
		referralRepo = postgresrepo.NewReferralRepository(db)
		ticketRepo = postgresrepo.NewTicketRepository(db)
		configRepo = postgresrepo.NewPricingConfigRepository(db)
		inventoryRepo = postgresrepo.NewInventoryRepository(db)
		saleRepo = postgresrepo.NewSaleRepository(db)
		payoutRepo = postgresrepo.NewPayoutRepository(db)
		incidentRepo = postgresrepo.NewIncidentRepository(db)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatalf("connect redis: %v", err)
	}

	pricingService := services.NewPricingService(attendeeRepo, referralRepo, ticketRepo, configRepo)
	admissionService := services.NewAdmissionService(logger, ticketRepo, attendeeRepo, referralRepo, configRepo)
	barService := services.NewBarService(logger, attendeeRepo, inventoryRepo, saleRepo)
	payoutService := services.NewPayoutService(logger, attendeeRepo, saleRepo, payoutRepo)
	invitationService := services.NewInvitationService(attendeeRepo, referralRepo, configRepo)
	incidentService := services.NewIncidentService(attendeeRepo, incidentRepo)

	router := handler.NewRouter(
		logger,
		handler.NewTicketHandler(admissionService, pricingService),
		handler.NewBarHandler(barService, payoutService),
		handler.NewInvitationHandler(invitationService),
		handler.NewIncidentHandler(incidentService),
		handler.NewCodeHandler(codestore.NewRedisStore(redisClient), cfg.CodeTTL),
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}

	logger.Info("server exiting")
}
