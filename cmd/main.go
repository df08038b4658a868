package main

import (
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terravest/investment-api/internal/account"
	"github.com/terravest/investment-api/internal/auth"
	"github.com/terravest/investment-api/internal/config"
	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/notification"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/plan"
	"github.com/terravest/investment-api/internal/pricing"
	"github.com/terravest/investment-api/internal/project"
	"github.com/terravest/investment-api/internal/reconcile"
	"github.com/terravest/investment-api/internal/schedule"
	"github.com/terravest/investment-api/internal/webhook"

	"github.com/gorilla/mux"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	auth.Init(cfg.JWTSecret)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	if err := db.AutoMigrate(
		&account.User{},
		&plan.InvestmentPlan{},
		&project.InvestmentProject{},
		&pricing.ProjectPricing{},
		&investment.Investment{},
		&schedule.PaymentSchedule{},
		&payment.Transaction{},
		&notification.Notification{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	// Handlers
	engine := reconcile.NewEngine(db, log)
	accountHandler := account.NewHandler(db)
	planHandler := plan.NewHandler(db)
	projectHandler := project.NewHandler(db)
	pricingHandler := pricing.NewHandler(db)
	investmentHandler := investment.NewHandler(db)
	paymentHandler := payment.NewHandler(db)
	reconcileHandler := reconcile.NewHandler(db, engine)
	notificationHandler := notification.NewHandler(db)
	webhookHandler := &webhook.Handler{
		Secret:      cfg.PaystackSecret,
		Investments: investment.NewRepository(db),
		Schedules:   schedule.NewRepository(db),
		Payments:    webhook.NewProcessor(db, engine),
		Notifier:    &webhook.NotificationNotifier{Repository: notification.NewRepository(db)},
		Log:         log,
	}

	// Router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/register", accountHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", accountHandler.Login).Methods("POST")
	r.HandleFunc("/webhooks/paystack", webhookHandler.Receive).Methods("POST")
	r.HandleFunc("/projects", projectHandler.ListActive).Methods("GET")
	r.HandleFunc("/projects/{id}", projectHandler.GetByID).Methods("GET")
	r.HandleFunc("/projects/{id}/pricing", pricingHandler.ListByProject).Methods("GET")
	r.HandleFunc("/plans", planHandler.List).Methods("GET")
	r.HandleFunc("/plans/{id}", planHandler.GetByID).Methods("GET")

	// Authenticated routes
	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)
	api.HandleFunc("/me", accountHandler.Me).Methods("GET")
	api.HandleFunc("/investments", investmentHandler.Create).Methods("POST")
	api.HandleFunc("/investments", investmentHandler.List).Methods("GET")
	api.HandleFunc("/investments/{id}", investmentHandler.GetByID).Methods("GET")
	api.HandleFunc("/investments/{id}/payments", paymentHandler.ListByInvestment).Methods("GET")
	api.HandleFunc("/payments", paymentHandler.ListMine).Methods("GET")
	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST")

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/plans", planHandler.Create).Methods("POST")
	admin.HandleFunc("/plans/{id}", planHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	admin.HandleFunc("/projects/{id}", projectHandler.Update).Methods("PUT")
	admin.HandleFunc("/projects/{id}", projectHandler.Deactivate).Methods("DELETE")
	admin.HandleFunc("/projects/{id}/pricing", pricingHandler.PriceOffer).Methods("POST")
	admin.HandleFunc("/investments/{id}/earning", investmentHandler.MarkEarning).Methods("PUT")
	admin.HandleFunc("/investments/{id}/reconcile", reconcileHandler.Refresh).Methods("POST")
	admin.HandleFunc("/investments/{id}/payments", reconcileHandler.RecordManualPayment).Methods("POST")
	admin.HandleFunc("/schedules/{id}/status", reconcileHandler.OverrideScheduleStatus).Methods("PUT")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.WithField("addr", addr).Info("server listening")
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}
