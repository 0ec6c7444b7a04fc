package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"aliaport-backend/internal/config"
	"aliaport-backend/internal/cron"
	"aliaport-backend/internal/database"
	"aliaport-backend/internal/handlers"
	"aliaport-backend/internal/holidays"
	"aliaport-backend/internal/middleware"
	"aliaport-backend/internal/storage"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to PostgreSQL
	db := database.New(&cfg.DB)
	defer db.Close()

	// 3. Initialize file storage — R2 when configured, local disk otherwise
	var fileStore storage.Store
	if cfg.Upload.UseR2() {
		fileStore, err = storage.NewR2Store(&cfg.Upload)
		if err != nil {
			log.Fatalf("Failed to initialize R2 storage: %v", err)
		}
		log.Println("[storage] using Cloudflare R2")
	} else {
		fileStore, err = storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		log.Printf("[storage] using local disk at %s", cfg.Upload.Dir)
	}

	// 4. Public-holiday oracle for SGK deadline resolution
	oracle := holidays.NewClient(cfg.Holiday.BaseURL, cfg.Holiday.CountryCode)

	// 5. Set up router with global middleware
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 6. Initialize handlers with their dependencies
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	firmHandler := handlers.NewFirmHandler(db)
	employeeHandler := handlers.NewEmployeeHandler(db)
	vesselHandler := handlers.NewVesselHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db)
	workOrderHandler := handlers.NewWorkOrderHandler(db)
	priceListHandler := handlers.NewPriceListHandler(db)
	sgkHandler := handlers.NewSgkHandler(db, oracle)
	dashboardHandler := handlers.NewDashboardHandler(db, oracle)
	uploadHandler := handlers.NewUploadHandler(fileStore)
	notificationHandler := handlers.NewNotificationHandler(db)
	activityHandler := handlers.NewActivityHandler(db)
	userMgmtHandler := handlers.NewUserManagementHandler(db)

	// Start background cron jobs
	cron.StartNotifier(db, oracle)

	// 7. Public routes (no authentication required)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Aliaport Port Operations API"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(db.Health())
	})

	// Auth routes — public, rate-limited against brute force
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rate.Every(12*time.Second), 5))
		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Serve uploaded files (local storage only — R2 redirects to CDN)
	r.Get("/api/files/*", uploadHandler.ServeFile)

	// 8. Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.InjectFirmScope(db.GetPool()))

		// Current user profile
		r.Get("/api/auth/me", authHandler.GetMe)

		// Notifications (user-scoped, all authenticated users)
		r.Get("/api/notifications", notificationHandler.List)
		r.Get("/api/notifications/count", notificationHandler.UnreadCount)
		r.Patch("/api/notifications/read-all", notificationHandler.MarkAllRead)
		r.Patch("/api/notifications/{id}/read", notificationHandler.MarkRead)

		// Read-only endpoints — firm scope filters what portal users see
		r.Get("/api/firms", firmHandler.List)
		r.Route("/api/firms/{id}", func(r chi.Router) {
			r.Get("/", firmHandler.GetByID)
			r.Get("/sgk-status", sgkHandler.GetFirmStatus)
			r.Get("/sgk-filings", sgkHandler.ListFilings)
		})
		r.Get("/api/employees", employeeHandler.List)
		r.Get("/api/employees/{id}", employeeHandler.GetByID)
		r.Get("/api/vessels", vesselHandler.List)
		r.Get("/api/vessels/{id}", vesselHandler.GetByID)
		r.Get("/api/vehicles", vehicleHandler.List)
		r.Get("/api/work-orders", workOrderHandler.List)
		r.Get("/api/work-orders/{id}", workOrderHandler.GetByID)
		r.Get("/api/price-lists", priceListHandler.List)
		r.Get("/api/price-lists/{id}", priceListHandler.GetByID)

		// Customer-level writes: customers upload their own SGK filings
		// and request work orders for their firms
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMinRole("customer"))

			r.Post("/api/upload", uploadHandler.Upload)
			r.Post("/api/firms/{id}/sgk-filings", sgkHandler.CreateFiling)
			r.Post("/api/work-orders", workOrderHandler.Create)
		})

		// Operator-level operations: day-to-day port workflow
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMinRole("operator"))

			r.Get("/api/dashboard/metrics", dashboardHandler.GetMetrics)
			r.Get("/api/sgk/compliance", sgkHandler.ComplianceOverview)

			r.Post("/api/employees", employeeHandler.Create)
			r.Put("/api/employees/{id}", employeeHandler.Update)
			r.Post("/api/vessels", vesselHandler.Create)
			r.Put("/api/vessels/{id}", vesselHandler.Update)
			r.Post("/api/vehicles", vehicleHandler.Create)
			r.Put("/api/vehicles/{id}", vehicleHandler.Update)
			r.Patch("/api/work-orders/{id}/status", workOrderHandler.UpdateStatus)
		})

		// Admin-only operations
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMinRole("admin"))

			// Activity log
			r.Get("/api/activity", activityHandler.List)

			// Firm management
			r.Post("/api/firms", firmHandler.Create)
			r.Put("/api/firms/{id}", firmHandler.Update)
			r.Delete("/api/firms/{id}", firmHandler.Delete)

			// Destructive operations
			r.Delete("/api/employees/{id}", employeeHandler.Delete)
			r.Delete("/api/vessels/{id}", vesselHandler.Delete)
			r.Delete("/api/vehicles/{id}", vehicleHandler.Delete)
			r.Delete("/api/work-orders/{id}", workOrderHandler.Delete)
			r.Delete("/api/sgk-filings/{id}", sgkHandler.DeleteFiling)

			// Tariff management
			r.Post("/api/price-lists", priceListHandler.Create)
			r.Post("/api/price-lists/{id}/activate", priceListHandler.Activate)
			r.Delete("/api/price-lists/{id}", priceListHandler.Delete)

			// User management
			r.Get("/api/users", userMgmtHandler.List)
			r.Patch("/api/users/{id}/role", userMgmtHandler.UpdateRole)
			r.Delete("/api/users/{id}", userMgmtHandler.Delete)
			r.Get("/api/users/{id}/firms", userMgmtHandler.GetUserFirms)
			r.Put("/api/users/{id}/firms", userMgmtHandler.SetUserFirms)
		})
	})

	// 9. Start server with graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-done
	log.Println("Server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
