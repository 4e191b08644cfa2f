package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/staywellhq/staywell-backend/internal/config"
	"github.com/staywellhq/staywell-backend/internal/database"
	"github.com/staywellhq/staywell-backend/internal/handlers"
	"github.com/staywellhq/staywell-backend/internal/middleware"
	"github.com/staywellhq/staywell-backend/internal/services"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	cache, err := services.NewCache(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer cache.Close()

	storage, err := services.NewStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Booking event hub
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Serve locally stored uploads when S3 is not configured
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", handlers.HealthCheck(hub))

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db, cfg.JWTSecret))
		}

		api.POST("/hotels/register", handlers.RegisterHotel(db, storage))
		api.GET("/hotels", handlers.GetHotel(db, storage))

		rooms := api.Group("/rooms")
		{
			rooms.GET("", handlers.GetRooms(db, storage))
			rooms.GET("/count", handlers.GetRoomsCount(db))
			rooms.GET("/:id", handlers.GetRoom(db, storage))
			rooms.GET("/:id/booked-dates", handlers.GetRoomBookedDates(db, cache, storage))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(cfg.JWTSecret), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db, storage))
				users.PUT("/profile", handlers.UpdateProfile(db, storage))
			}

			protected.POST("/hotels/register-existing", handlers.RegisterHotelWithExistingUser(db, storage))

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, cache, hub))
				bookings.GET("", handlers.GetGuestBookings(db))
				bookings.GET("/count", handlers.GetGuestBookingsCount(db))
				bookings.GET("/:id", handlers.GetGuestBooking(db))
				bookings.POST("/:id/cancel", handlers.CancelBooking(db, cache, hub))
			}

			// Hotel manager routes
			hotel := protected.Group("/hotel")
			hotel.Use(middleware.HotelManagerMiddleware(db))
			{
				hotel.GET("", handlers.GetHotel(db, storage))
				hotel.PUT("", handlers.UpdateHotel(db, storage))

				hotelRooms := hotel.Group("/rooms")
				{
					hotelRooms.POST("", handlers.CreateRoom(db, storage))
					hotelRooms.GET("", handlers.GetHotelRooms(db, storage))
					hotelRooms.GET("/count", handlers.GetHotelRoomsCount(db))
					hotelRooms.GET("/:id", handlers.GetHotelRoomDetails(db, storage))
					hotelRooms.PUT("/:id", handlers.EditRoom(db, storage))
					hotelRooms.POST("/:id/archive", handlers.ArchiveRoom(db, cache, hub))
				}

				hotelBookings := hotel.Group("/bookings")
				{
					hotelBookings.GET("", handlers.GetHotelBookings(db))
					hotelBookings.GET("/count", handlers.GetHotelBookingsCount(db))
					hotelBookings.GET("/:id", handlers.GetHotelBooking(db))
					hotelBookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, cache, hub))
					hotelBookings.POST("/:id/cancel", handlers.CancelHotelBooking(db, cache, hub))
				}
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
