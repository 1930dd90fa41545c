package main

import (
	"houseboat/internal/quotes/events"
	"houseboat/internal/quotes/handler"
	"houseboat/internal/quotes/repository"
	"houseboat/internal/quotes/service"
	"houseboat/pkg/app"
	"houseboat/pkg/config"
	"houseboat/pkg/engine"
)

const ServiceName = "quotes"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Quotes service")

	publisher, err := events.NewPublisher(cfg.Kafka, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize quote publisher", "error", err)
	}

	quoteService := service.NewQuoteService(
		repository.NewMongoFleetRepository(cfg),
		engine.New(cfg.EngineConfig()),
		publisher,
		cfg,
	)
	quoteHandler := handler.NewQuoteHandler(quoteService, cfg.Log, cfg.FleetLocation)

	application := app.NewApplication(cfg)
	application.OnShutdown(publisher.Close)
	application.OnShutdown(func() error {
		cfg.GracefulShutdown()
		return nil
	})
	application.SetApp(cfg.Client.Mongo, quoteHandler)
	application.Run()
}
