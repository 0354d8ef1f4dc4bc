package main

import (
	"log"

	"delivery-api/config"
	"delivery-api/controllers"
	"delivery-api/logger"
	"delivery-api/models"
	"delivery-api/repository"
	"delivery-api/routes"
	"delivery-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.GoEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.Connect(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Address{},
		&models.Deliverer{},
		&models.Order{},
		&models.OrderLine{},
	); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}
	zlog.Info("Database migration completed successfully")

	// Repositories
	orderRepo := repository.NewGormOrderRepository(db)
	delivererRepo := repository.NewGormDelivererRepository(db)
	catalogRepo := repository.NewGormCatalogRepository(db)

	// Services
	assignments := services.NewAssignmentService(orderRepo, delivererRepo, zlog)
	checkout := services.NewCheckoutService(orderRepo, catalogRepo, catalogRepo, zlog)
	transitions := services.NewTransitionService(orderRepo, assignments, zlog)
	access := services.NewOrderAccess(orderRepo)

	// Controllers
	orderController := controllers.NewOrderController(checkout, transitions, assignments, access)
	delivererController := controllers.NewDelivererController(assignments)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestLogger(zlog), gin.Recovery(), cors.Default())

	routes.Register(router, cfg.JWTSecret, orderController, delivererController)

	zlog.Info("Server is running", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
