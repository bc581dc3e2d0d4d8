package main

import (
	"log"
	"os"

	"ai-videosearch-be/internal/model"
	"ai-videosearch-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(dsn, database.PoolConfig{})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Constraints (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Video{},
		&model.Transcript{},
		&model.RetrievalFeedback{},
		&model.Collection{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: ANN indexes and sentiment guard. HNSW indexes only
	// build on non-null vector columns, so they stay valid while the
	// backfill worker fills embeddings in.
	log.Println("Step 3: Creating ANN indexes and constraints...")

	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_transcripts_embedding_hnsw
		 ON transcripts USING hnsw (embedding vector_cosine_ops)
		 WHERE embedding IS NOT NULL;`,

		`CREATE INDEX IF NOT EXISTS idx_feedback_query_embedding_hnsw
		 ON retrieval_feedback USING hnsw (query_embedding vector_cosine_ops)
		 WHERE query_embedding IS NOT NULL;`,

		`CREATE INDEX IF NOT EXISTS idx_collections_query_embedding_hnsw
		 ON collections USING hnsw (query_embedding vector_cosine_ops)
		 WHERE query_embedding IS NOT NULL;`,

		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_feedback_sentiment') THEN
		     ALTER TABLE retrieval_feedback ADD CONSTRAINT chk_feedback_sentiment CHECK (sentiment IN ('good', 'bad'));
		   END IF;
		 END $$;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v. Continuing...", err)
		}
	}

	log.Println("✅ Migration completed successfully.")
}
