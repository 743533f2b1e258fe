package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"picklist/internal/database"
	"picklist/internal/extraction"
	"picklist/internal/handlers"
	"picklist/internal/services"
	"picklist/pkg/helper"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	config, err := helper.LoadConfig(os.Getenv("PICKLIST_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Neo4j client
	neo4jClient, err := database.NewNeo4jClient(config.Neo4j)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := neo4jClient.Close(ctx); err != nil {
			log.Printf("Error closing Neo4j connection: %v", err)
		}
	}()

	// Prepare schema and optional demo data
	schema := database.NewSchemaManager(neo4jClient)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := schema.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		if config.SeedDemo {
			if err := schema.SeedDemoProducts(ctx); err != nil {
				log.Fatalf("Failed to seed demo data: %v", err)
			}
		}
	}

	// Initialize services
	listService := services.NewListService(neo4jClient)
	tripService := services.NewTripService(neo4jClient)
	extractor := extraction.NewClient(config.Extraction.Endpoint, config.Extraction.APIKey, config.Extraction.Model)

	// Initialize API handlers
	apiHandler := handlers.NewAPIHandler(listService, tripService, extractor, neo4jClient)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware for the browser UI
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiHandler.SetupRoutes(router)

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Gracefully shutdown with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
