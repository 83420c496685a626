package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agromex/livestock-service/internal/api"
	"github.com/agromex/livestock-service/internal/db"
	"github.com/agromex/livestock-service/internal/logging"
	"github.com/agromex/livestock-service/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	log.SetOutput(os.Stdout)

	log.Printf("Livestock Service starting (GIT_SHA=%s)", os.Getenv("GIT_SHA"))

	database, err := db.NewDatabase()
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.InitSchema(ctx); err != nil {
		cancel()
		log.Fatalf("Schema initialization failed: %v", err)
	}
	if err := database.EnsurePlatformAdmin(ctx, os.Getenv("PLATFORM_ADMIN_EMAIL")); err != nil {
		log.Printf("[WARN] Platform admin promotion failed: %v", err)
	}
	cancel()

	uploader, err := storage.NewS3Uploader(context.Background())
	if err != nil {
		log.Printf("[WARN] S3 uploader initialization failed, photo uploads use local disk: %v", err)
		uploader = &storage.S3Uploader{}
	}

	handler := api.NewHandler(database, uploader)
	router := setupRouter(handler, database)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

func setupRouter(handler *api.Handler, database *db.Database) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsCfg.AllowOrigins = []string{origin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	// Locally stored photos for development
	router.Static("/uploads", "./uploads")

	router.GET("/live", func(c *gin.Context) { c.Status(200) })
	router.GET("/ready", handler.Health)
	router.GET("/health", handler.Health)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "livestock-service",
			"status":  "running",
		})
	})

	apiGroup := router.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}

		est := apiGroup.Group("/establecimientos")
		est.Use(api.AuthMiddleware())
		{
			est.POST("", handler.CreateEstablishment)

			// Everything below is establishment scoped: the tenancy
			// stage binds the path establishment into the context and
			// all queries filter by it.
			scoped := est.Group("/:establecimientoId")
			scoped.Use(api.EstablishmentMiddleware(database))
			{
				scoped.POST("/usuarios", handler.GrantRole)

				scoped.POST("/rodeos", handler.CreateHerd)
				scoped.GET("/rodeos", handler.ListHerds)

				scoped.POST("/vacas", handler.CreateAnimal)
				scoped.GET("/vacas", handler.ListAnimals)
				scoped.GET("/vacas/:vacaId", handler.GetAnimal)
				scoped.PUT("/vacas/:vacaId", handler.UpdateAnimal)
				scoped.DELETE("/vacas/:vacaId", handler.DeleteAnimal)

				scoped.POST("/vacas/:vacaId/movimientos", handler.MoveAnimal)
				scoped.GET("/vacas/:vacaId/movimientos", handler.ListMovements)

				scoped.POST("/vacas/:vacaId/salud", handler.AddHealthEvent)
				scoped.GET("/vacas/:vacaId/salud", handler.ListHealthEvents)
				scoped.POST("/vacas/:vacaId/reproduccion", handler.AddReproductionEvent)
				scoped.GET("/vacas/:vacaId/reproduccion", handler.ListReproductionEvents)
				scoped.POST("/vacas/:vacaId/produccion", handler.AddProductionRecord)
				scoped.GET("/vacas/:vacaId/produccion", handler.ListProductionRecords)

				scoped.POST("/vacas/:vacaId/fotos", handler.UploadAnimalPhoto)
				scoped.GET("/vacas/:vacaId/fotos", handler.ListAnimalPhotos)

				scoped.GET("/alertas", handler.GetAlerts)
			}
		}

		admin := apiGroup.Group("/admin")
		admin.Use(api.AuthMiddleware(), api.AdminMiddleware(database))
		{
			admin.GET("/establecimientos", handler.AdminListEstablishments)
		}
	}

	return router
}
