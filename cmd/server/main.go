package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricepulse/backend/config"
	httpDelivery "github.com/pricepulse/backend/internal/delivery/http"
	"github.com/pricepulse/backend/internal/infrastructure/amazon"
	"github.com/pricepulse/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PricePulse Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Amazon API host: %s (region %s, marketplace %s)",
		cfg.Amazon.Host, cfg.Amazon.Region, cfg.Amazon.Marketplace)

	// Initialize the catalog client
	catalogClient, err := amazon.NewClient(amazon.Config{
		AccessKey:         cfg.Amazon.AccessKey,
		SecretKey:         cfg.Amazon.SecretKey,
		PartnerTag:        cfg.Amazon.PartnerTag,
		Host:              cfg.Amazon.Host,
		Region:            cfg.Amazon.Region,
		Marketplace:       cfg.Amazon.Marketplace,
		Timeout:           cfg.Amazon.Timeout,
		RequestsPerSecond: cfg.RateLimit.Amazon,
	})
	if err != nil {
		log.Fatalf("Failed to create Amazon client: %v", err)
	}

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		log.Printf("Amazon client debug mode enabled")
	}

	// Initialize usecase layer
	productService := usecase.NewProductService(catalogClient)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(productService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
