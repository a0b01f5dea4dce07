package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/prospector/internal/core/ingest"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestIngestRepository_UpsertCompany(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	at := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO companies[\s\S]*ON CONFLICT \(domain\) DO UPDATE`).
		WithArgs("acme.com", strPtr("Acme"), (*string)(nil), strPtr("US"), (*string)(nil),
			(*string)(nil), []string{"Go"}, strPtr("payments"), (*string)(nil),
			(*string)(nil), (*string)(nil), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewIngestRepository(mock)
	err = repo.UpsertCompany(context.Background(), &ingest.CompanyRow{
		Domain:   "acme.com",
		Name:     strPtr("Acme"),
		Country:  strPtr("US"),
		TechTags: []string{"Go"},
		Vertical: strPtr("payments"),
	}, at)
	if err != nil {
		t.Fatalf("UpsertCompany returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestRepository_UpsertEmbedding(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	at := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO company_embeddings[\s\S]*ON CONFLICT \(company_id\) DO UPDATE`).
		WithArgs(int64(9), pgxmock.AnyArg(), "Acme | Country: US", at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewIngestRepository(mock)
	err = repo.UpsertEmbedding(context.Background(), 9, []float32{0.1, 0.2}, "Acme | Country: US", at)
	if err != nil {
		t.Fatalf("UpsertEmbedding returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestRepository_ResolveCompanyIDs(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"domain", "id"}).
		AddRow("acme.com", int64(1))

	mock.ExpectQuery(`SELECT domain, id FROM companies WHERE domain = ANY\(\$1\)`).
		WithArgs([]string{"acme.com", "missing.example"}).
		WillReturnRows(rows)

	repo := NewIngestRepository(mock)
	resolved, err := repo.ResolveCompanyIDs(context.Background(), []string{"acme.com", "missing.example"})
	if err != nil {
		t.Fatalf("ResolveCompanyIDs returned error: %v", err)
	}

	if len(resolved) != 1 || resolved["acme.com"] != 1 {
		t.Fatalf("unexpected resolution: %v", resolved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestRepository_ResolveCompanyIDs_Empty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIngestRepository(mock)
	resolved, err := repo.ResolveCompanyIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolveCompanyIDs returned error: %v", err)
	}
	if len(resolved) != 0 {
		t.Fatalf("expected empty map, got %v", resolved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestRepository_UpsertMetrics(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	at := time.Now().UTC()
	month := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO company_metrics_monthly[\s\S]*ON CONFLICT \(company_id, month, country\) DO UPDATE`).
		WithArgs(int64(9), month, "WW", floatPtr(120000), floatPtr(3.4),
			(*float64)(nil), (*float64)(nil), (*float64)(nil), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewIngestRepository(mock)
	err = repo.UpsertMetrics(context.Background(), 9, &ingest.MetricsRow{
		Domain:        "acme.com",
		Month:         month,
		Country:       "WW",
		Visits:        floatPtr(120000),
		PagesPerVisit: floatPtr(3.4),
	}, at)
	if err != nil {
		t.Fatalf("UpsertMetrics returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
