// trafficreport は外部トラフィック分析サービスへ月次レポートを依頼し、
// 完成した CSV を取り込むワンショットスクリプトです。行単位の失敗は
// スキップして継続し、最後に非ゼロ終了で報告します。
package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ogurasousui/prospector/internal/adapters/repository/postgres"
	"github.com/ogurasousui/prospector/internal/adapters/trafficreport"
	"github.com/ogurasousui/prospector/internal/core/ingest"
	"github.com/ogurasousui/prospector/internal/platform/config"
	pg "github.com/ogurasousui/prospector/internal/platform/db/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	var (
		startDate = flag.String("start", defaultMonth(), "report start month (YYYY-MM)")
		endDate   = flag.String("end", defaultMonth(), "report end month (YYYY-MM)")
	)
	flag.Parse()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	client := trafficreport.NewClient(cfg.TrafficReport)
	if !client.Configured() {
		log.Fatalf("TRAFFIC_REPORT_API_KEY must be set")
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	repo := postgres.NewIngestRepository(dbPool)
	svc := ingest.NewService(repo, nil, nil, pg.NewTransactionManager(dbPool))

	runID := uuid.NewString()
	log.Printf("report run %s started (window %s..%s)", runID, *startDate, *endDate)

	sources, err := repo.ListEmbeddingSources(ctx)
	if err != nil {
		log.Fatalf("report run %s: list companies: %v", runID, err)
	}
	if len(sources) == 0 {
		log.Fatalf("report run %s: no companies to report on", runID)
	}

	domains := make([]string, 0, len(sources))
	for _, src := range sources {
		domains = append(domains, src.Domain)
	}

	body, err := client.FetchReport(ctx, trafficreport.ReportRequest{
		ReportName: "monthly-traffic-" + runID,
		Domains:    domains,
		Metrics:    []string{"all_traffic_visits", "pages_per_visit", "average_visit_duration", "bounce_rate", "page_views"},
		StartDate:  *startDate,
		EndDate:    *endDate,
		Countries:  []string{"WW"},
	})
	if err != nil {
		log.Fatalf("report run %s: fetch report: %v", runID, err)
	}

	rows, parseSkipped, err := ingest.ParseMetricsCSV(bytes.NewReader(body))
	if err != nil {
		log.Fatalf("report run %s: parse report csv: %v", runID, err)
	}
	for _, skip := range parseSkipped {
		log.Printf("report run %s: csv row %d skipped (%s): %v", runID, skip.Index, skip.Key, skip.Err)
	}

	result, err := svc.LoadMetrics(ctx, rows)
	if err != nil {
		log.Fatalf("report run %s: load metrics: %v", runID, err)
	}
	for _, skip := range result.Skipped {
		log.Printf("report run %s: metrics row %d skipped (%s): %v", runID, skip.Index, skip.Key, skip.Err)
	}

	failed := len(parseSkipped) + len(result.Skipped)
	log.Printf("report run %s completed: loaded=%d skipped=%d", runID, result.Loaded, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// defaultMonth は前月を YYYY-MM 形式で返します。
func defaultMonth() string {
	return time.Now().UTC().AddDate(0, -1, 0).Format("2006-01")
}
