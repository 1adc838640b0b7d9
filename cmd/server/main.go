package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"xmlprocessor/internal/database"
	"xmlprocessor/internal/detect"
	"xmlprocessor/internal/events"
	"xmlprocessor/internal/handlers"
	"xmlprocessor/internal/mapping"
	"xmlprocessor/internal/metrics"
	"xmlprocessor/internal/onboarding"
	"xmlprocessor/internal/pipeline"
	"xmlprocessor/internal/store"
)

func main() {
	// Load .env file if present. Environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	database.ConnectDatabase()
	db := database.GetDB()

	clients := store.NewClientStore(db)
	interfaces := store.NewInterfaceStore(db)
	rules := store.NewMappingRuleStore(db)
	files := store.NewProcessedFileStore(db)

	var publisher *events.Publisher
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		var err error
		publisher, err = events.Connect(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("NATS_URL not set, processing events will not be published")
	}

	aggregator := metrics.NewAggregator()
	detector := detect.NewDetector(interfaces)
	engine := mapping.NewEngine(rules, interfaces)
	processor := pipeline.NewProcessor(detector, engine, files, aggregator, publisher)

	schedule := os.Getenv("PERFORMANCE_REPORT_SCHEDULE")
	if schedule == "" {
		schedule = "@every 5m"
	}
	reporter, err := metrics.NewReporter(aggregator, schedule)
	if err != nil {
		log.Fatalf("Invalid performance report schedule %q: %v", schedule, err)
	}
	reporter.Start()
	defer reporter.Stop()

	api := &handlers.API{
		Clients:    clients,
		Interfaces: interfaces,
		Rules:      rules,
		Files:      files,
		Processor:  processor,
		Aggregator: aggregator,
		Onboarding: onboarding.NewService(db),
	}

	router := gin.Default()
	api.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("PORT not set, using default: %s", port)
	}

	log.Printf("XML processor service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
