package main

import (
	"context"
	"log"

	"ai-videosearch-be/internal/bootstrap"
	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/server"
	"ai-videosearch-be/internal/tracer"
	"ai-videosearch-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Kick the embedding backfill once on boot; new transcripts arriving
	// later go through the HTTP trigger.
	go func() {
		if _, err := container.VideoService.RequestBackfill(context.Background()); err != nil {
			log.Printf("Background Backfill Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
