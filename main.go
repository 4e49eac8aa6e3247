package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validation"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads from environment variables with these defaults. The seller
	// domain allow-list lives here rather than in the validation code so it
	// can be changed per deployment.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORAGE_BACKEND", "file") // file, memory or database
	viper.SetDefault("DATA_FILE", "data/products.json")
	viper.SetDefault("DATABASE_DSN", "catalog.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables product events
	viper.SetDefault("SELLER_ALLOWED_DOMAINS", validation.DefaultSellerDomains)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Validation Engine ---
	engine := validation.NewEngine(viper.GetStringSlice("SELLER_ALLOWED_DOMAINS"))

	// --- Record Store ---
	productRepo, err := newProductRepository()
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	// --- RabbitMQ Client (optional) ---
	// Product events are best-effort; the API keeps serving without a broker.
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, product events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()

			// Log incoming product events. Downstream systems (inventory,
			// notifications) would hang their own consumers off this queue.
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received product event %s (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}
	}

	// --- Services and Handlers ---
	productService := services.NewProductService(productRepo, engine, mqClient)
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newProductRepository selects the record store backend from configuration.
// The flat file is the canonical backend; memory is for local runs without
// persistence and database switches to GORM over sqlite or postgres.
func newProductRepository() (repositories.ProductRepository, error) {
	backend := viper.GetString("STORAGE_BACKEND")
	switch backend {
	case "file":
		path := viper.GetString("DATA_FILE")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
			}
		}
		return repositories.NewFileProductRepository(path), nil
	case "memory":
		return repositories.NewMemoryProductRepository(), nil
	case "database":
		dsn := viper.GetString("DATABASE_DSN")
		var dialector gorm.Dialector
		if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
			dialector = postgres.Open(dsn)
		} else {
			dialector = sqlite.Open(dsn)
		}
		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repositories.NewGORMProductRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
