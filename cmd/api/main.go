package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/database"
	"github.com/givebridge/givebridge-backend/internal/handlers"
	"github.com/givebridge/givebridge-backend/internal/middleware"
	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/givebridge/givebridge-backend/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/forgot-password", handlers.ForgotPassword(db))
			auth.POST("/reset-password", handlers.ResetPassword(db))
		}

		// Organization directory is public
		api.GET("/organizations", handlers.GetAllOrganizations(db))
		api.GET("/organizations/:id", handlers.GetOrganizationByID(db))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("", middleware.RequireRoles(models.RoleAdmin), handlers.GetAllUsers(db))
				users.GET("/:id", handlers.GetUserByID(db))
				users.PUT("/:id", handlers.UpdateUser(db))
				users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), handlers.DeleteUser(db))
			}

			donations := protected.Group("/donations")
			{
				donations.POST("", middleware.RequireRoles(models.RoleDonor, models.RoleAdmin), handlers.CreateDonation(db))
				donations.GET("", handlers.GetAllDonations(db))
				donations.GET("/my-donations", handlers.GetMyDonations(db))
				donations.GET("/:id", handlers.GetDonationByID(db))
				donations.PUT("/:id", handlers.UpdateDonation(db))
				donations.PUT("/:id/status", handlers.UpdateDonationStatus(db, hub))
				donations.POST("/:id/images", handlers.UploadDonationImages(db))
				donations.DELETE("/:id", handlers.DeleteDonation(db))
			}

			volunteers := protected.Group("/volunteers")
			{
				volunteers.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleOrganization), handlers.GetAllVolunteers(db))
				volunteers.GET("/available-tasks", middleware.RequireRoles(models.RoleVolunteer), handlers.GetAvailableTasks(db))
				volunteers.GET("/my-tasks", middleware.RequireRoles(models.RoleVolunteer), handlers.GetMyTasks(db))
				volunteers.POST("/accept-task/:donationId", middleware.RequireRoles(models.RoleVolunteer), handlers.AcceptTask(db, hub))
				volunteers.PUT("/complete-task/:donationId", middleware.RequireRoles(models.RoleVolunteer), handlers.CompleteTask(db, hub))
			}

			organizations := protected.Group("/organizations")
			{
				organizations.POST("", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), handlers.CreateOrganization(db))
				organizations.PUT("/:id", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), handlers.UpdateOrganization(db))
				organizations.PUT("/:id/needs", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), handlers.UpdateItemsNeeded(db))
				organizations.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), handlers.DeleteOrganization(db))
			}

			lookup := protected.Group("/lookup")
			{
				lookup.GET("/places", handlers.GetNearbyPlaces())
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
