package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/secure-trade/api-go/config"
	"github.com/secure-trade/api-go/routes"
	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

const defaultReservationTTLHours = 72

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	// Initialize database
	db := config.InitDB()
	st := store.NewGormStore(db)

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, st)

	startReservationSweeper(st)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}

// startReservationSweeper releases reservations that were never confirmed,
// returning the listing to the market and refunding the buyer.
func startReservationSweeper(st store.Store) {
	ttlHours := defaultReservationTTLHours
	if v := os.Getenv("RESERVATION_TTL_HOURS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			log.Printf("Invalid RESERVATION_TTL_HOURS %q, using default %d", v, defaultReservationTTLHours)
		} else {
			ttlHours = parsed
		}
	}
	ttl := time.Duration(ttlHours) * time.Hour

	purchases := services.NewPurchaseService(st)
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		released, err := purchases.ReleaseExpired(ttl)
		if err != nil {
			log.Printf("Reservation sweep failed: %v", err)
			return
		}
		if released > 0 {
			log.Printf("Released %d expired reservations", released)
		}
	})
	c.Start()
}
