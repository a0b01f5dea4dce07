package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ogurasousui/prospector/internal/adapters/http/handler"
	"github.com/ogurasousui/prospector/internal/adapters/openai"
	"github.com/ogurasousui/prospector/internal/adapters/repository/postgres"
	"github.com/ogurasousui/prospector/internal/core/company"
	"github.com/ogurasousui/prospector/internal/core/list"
	"github.com/ogurasousui/prospector/internal/core/search"
	"github.com/ogurasousui/prospector/internal/platform/config"
	pg "github.com/ogurasousui/prospector/internal/platform/db/postgres"
	"github.com/ogurasousui/prospector/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env はローカル開発用で、無ければそのまま進みます。
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

	tx := pg.NewTransactionManager(dbPool)
	embedder := openai.NewEmbedder(cfg.OpenAI)

	companySvc := company.NewService(postgres.NewCompanyRepository(dbPool), tx)
	listSvc := list.NewService(postgres.NewListRepository(dbPool), nil, tx)
	searchSvc := search.NewService(postgres.NewEmbeddingRepository(dbPool), embedder, tx)

	if !embedder.Configured() {
		log.Printf("OPENAI_API_KEY is not set; semantic search will be unavailable")
	}

	httpServer := server.New(cfg.Server.ListenAddr, handler.New(companySvc, listSvc, searchSvc))

	log.Printf("HTTP server listening on %s", cfg.Server.ListenAddr)

	if err := httpServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
