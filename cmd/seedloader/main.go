// seedloader はサンプルの会社・埋め込み・月次指標を投入するワンショット
// スクリプトです。何度実行しても結果は同じになります。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ogurasousui/prospector/internal/adapters/openai"
	"github.com/ogurasousui/prospector/internal/adapters/repository/postgres"
	"github.com/ogurasousui/prospector/internal/core/ingest"
	"github.com/ogurasousui/prospector/internal/platform/config"
	pg "github.com/ogurasousui/prospector/internal/platform/db/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	runID := uuid.NewString()
	log.Printf("seed run %s started", runID)

	embedder := openai.NewEmbedder(cfg.OpenAI)
	svc := ingest.NewService(postgres.NewIngestRepository(dbPool), embedder, nil, pg.NewTransactionManager(dbPool))

	companies, err := svc.LoadCompanies(ctx, sampleCompanies())
	if err != nil {
		log.Fatalf("seed run %s: load companies: %v", runID, err)
	}
	log.Printf("seed run %s: companies loaded=%d skipped=%d", runID, companies.Loaded, len(companies.Skipped))

	if embedder.Configured() {
		embeddings, err := svc.LoadEmbeddings(ctx)
		if err != nil {
			log.Fatalf("seed run %s: load embeddings: %v", runID, err)
		}
		for _, skip := range embeddings.Skipped {
			log.Printf("seed run %s: embedding skipped for %s: %v", runID, skip.Key, skip.Err)
		}
		log.Printf("seed run %s: embeddings loaded=%d skipped=%d", runID, embeddings.Loaded, len(embeddings.Skipped))
	} else {
		log.Printf("seed run %s: OPENAI_API_KEY is not set; skipping embeddings", runID)
	}

	metricsRows, parseSkipped, err := ingest.ParseMetricsCSV(strings.NewReader(sampleMetricsCSV))
	if err != nil {
		log.Fatalf("seed run %s: parse sample metrics: %v", runID, err)
	}
	for _, skip := range parseSkipped {
		log.Printf("seed run %s: metrics row %d skipped (%s): %v", runID, skip.Index, skip.Key, skip.Err)
	}

	metrics, err := svc.LoadMetrics(ctx, metricsRows)
	if err != nil {
		log.Fatalf("seed run %s: load metrics: %v", runID, err)
	}
	log.Printf("seed run %s: metrics loaded=%d skipped=%d", runID, metrics.Loaded, len(metrics.Skipped))

	log.Printf("seed run %s completed", runID)
}
