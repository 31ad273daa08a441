package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkshare/internal/api"
	"parkshare/internal/auth"
	"parkshare/internal/db"
	"parkshare/internal/repository"
	"parkshare/internal/service"
)

const stalePendingMaxAge = 30 * time.Minute

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	spotRepo := repository.NewSpotRepository(database)
	availabilityRepo := repository.NewAvailabilityRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	interestRepo := repository.NewInterestRepository(database)
	userRepo := repository.NewUserRepository(database)
	adminRepo := repository.NewAdminRepository(database)
	jobRepo := repository.NewJobRepository(database)
	stripeRepo := repository.NewStripeRepository(database)

	sender := service.NewSenderService()
	stripeService := service.NewStripeService()
	reservationService := service.NewReservationService(database, spotRepo, availabilityRepo, bookingRepo, userRepo, stripeRepo, stripeService, sender)
	matcherService := service.NewMatcherService(interestRepo, sender)
	spotService := service.NewSpotService(spotRepo, availabilityRepo, matcherService)
	authService := service.NewAuthService(userRepo)
	userAdminService := service.NewUserAdminService(userRepo)
	adminService := service.NewAdminService(adminRepo, reservationService)
	jobService := service.NewJobService(jobRepo, reservationService)

	authHandler := api.NewAuthHandler(authService)
	bookingHandler := api.NewBookingHandler(reservationService)
	spotHandler := api.NewSpotHandler(spotService)
	interestHandler := api.NewInterestHandler(matcherService)
	adminHandler := api.NewAdminHandler(adminService, userAdminService)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), reservationService)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/windows", bookingHandler.FreeWindows).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/stripe/booking", stripeHandler.BookingBySession).Methods("GET")

	// Customer endpoints
	customer := r.PathPrefix("/api").Subrouter()
	customer.Use(auth.Middleware)
	customer.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	customer.HandleFunc("/bookings", bookingHandler.MyBookings).Methods("GET")
	customer.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	customer.HandleFunc("/bookings/{id}/cancel", bookingHandler.CancelBooking).Methods("POST")
	customer.HandleFunc("/interests", interestHandler.RegisterInterest).Methods("POST")

	// Supplier endpoints
	supplier := r.PathPrefix("/api/supplier").Subrouter()
	supplier.Use(auth.Middleware, auth.RequireRole(db.RoleSupplier, db.RoleAdmin))
	supplier.HandleFunc("/spots", spotHandler.CreateSpot).Methods("POST")
	supplier.HandleFunc("/spots", spotHandler.MySpots).Methods("GET")
	supplier.HandleFunc("/spots/{id}/price", spotHandler.UpdatePrice).Methods("PUT")
	supplier.HandleFunc("/spots/{id}/visibility", spotHandler.UpdateVisibility).Methods("PUT")
	supplier.HandleFunc("/spots/{id}/windows", spotHandler.AddWindow).Methods("POST")
	supplier.HandleFunc("/bookings", bookingHandler.SupplierBookings).Methods("GET")
	supplier.HandleFunc("/bookings/{id}/confirm", bookingHandler.ConfirmBooking).Methods("POST")
	supplier.HandleFunc("/bookings/{id}/reject", bookingHandler.RejectBooking).Methods("POST")

	// Admin endpoints
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.Middleware, auth.RequireRole(db.RoleAdmin))
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}/cancel", adminHandler.CancelBooking).Methods("POST")
	admin.HandleFunc("/statistics", adminHandler.Statistics).Methods("GET")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/block", adminHandler.BlockUser).Methods("POST")
	admin.HandleFunc("/users/{id}/unblock", adminHandler.UnblockUser).Methods("POST")
	admin.HandleFunc("/users/{id}/promote", adminHandler.PromoteToAdmin).Methods("POST")
	admin.HandleFunc("/matches", interestHandler.PendingMatches).Methods("GET")
	admin.HandleFunc("/matches/deliver", interestHandler.DeliverMatches).Methods("POST")

	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if err := jobService.CompleteElapsedBookings(); err != nil {
			log.Printf("Sweep error: %v", err)
		}
	})
	c.AddFunc("@every 10m", func() {
		if err := jobService.ExpireStalePendingBookings(stalePendingMaxAge); err != nil {
			log.Printf("Sweep error: %v", err)
		}
	})
	c.AddFunc("@every 15m", func() {
		if err := matcherService.DeliverPendingMatches(); err != nil {
			log.Printf("Match delivery error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler)))
}
