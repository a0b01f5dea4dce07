package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/prospector/internal/core/company"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var directoryRowColumns = []string{
	"id", "domain", "name", "website_url", "country", "industry",
	"employee_range", "tech_tags", "vertical", "subvertical",
	"description", "location", "created_at", "updated_at",
	"visits", "pages_per_visit", "avg_visit_secs", "bounce_rate",
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestCompanyRepository_FindByDomain_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, domain, name,`).
		WithArgs("missing.example").
		WillReturnError(pgx.ErrNoRows)

	repo := NewCompanyRepository(mock)
	_, err = repo.FindByDomain(context.Background(), "missing.example")
	if !errors.Is(err, company.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_SearchDirectory_WithFilters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(directoryRowColumns).
		AddRow(int64(1), "acme.com", strPtr("Acme"), (*string)(nil), strPtr("US"), strPtr("Fintech"),
			strPtr("51-200"), []string{"Go", "Postgres"}, strPtr("payments"), (*string)(nil),
			strPtr("Payments platform"), strPtr("New York"), now, now,
			floatPtr(120000), floatPtr(3.4), floatPtr(95.2), floatPtr(0.41)).
		AddRow(int64(2), "beta.io", strPtr("Beta"), (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), []string(nil), strPtr("payments"), (*string)(nil),
			(*string)(nil), (*string)(nil), now, now,
			(*float64)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil))

	mock.ExpectQuery(`m\.visits >= \$2[\s\S]*c\.vertical = \$3[\s\S]*ORDER BY m\.visits DESC NULLS LAST, c\.id ASC`).
		WithArgs("%pay%", int64(50000), "payments", 10).
		WillReturnRows(rows)

	repo := NewCompanyRepository(mock)
	minVisits := int64(50000)
	vertical := "payments"
	entries, err := repo.SearchDirectory(context.Background(), company.DirectoryFilter{
		Query:     "pay",
		MinVisits: &minVisits,
		Vertical:  &vertical,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("SearchDirectory returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Company.Domain != "acme.com" {
		t.Errorf("expected acme.com first, got %s", entries[0].Company.Domain)
	}
	if entries[0].Metrics.Visits == nil || *entries[0].Metrics.Visits != 120000 {
		t.Errorf("expected visits 120000, got %v", entries[0].Metrics.Visits)
	}
	if entries[1].Metrics.Visits != nil {
		t.Error("expected nil metrics for company without snapshots")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_ListAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	now := time.Now().UTC()
	rows := pgxmock.NewRows(directoryRowColumns).
		AddRow(int64(1), "acme.com", strPtr("Acme"), (*string)(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), []string(nil), (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), now, now,
			(*float64)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil))

	mock.ExpectQuery(`LIMIT \$1[\s\S]*OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	repo := NewCompanyRepository(mock)
	entries, total, err := repo.ListAll(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}

	if total != 42 {
		t.Errorf("expected total 42, got %d", total)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_Stats(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(100)))

	mock.ExpectQuery(`l\.slug = 'reached_out'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	mock.ExpectQuery(`SELECT COALESCE\(AVG\(latest\.visits\), 0\)`).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(float64(83500.5)))

	mock.ExpectQuery(`COALESCE\(vertical, 'unknown'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"vertical", "count"}).
			AddRow("payments", int64(60)).
			AddRow("unknown", int64(40)))

	repo := NewCompanyRepository(mock)
	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.TotalCompanies != 100 || stats.ReachedOutCount != 7 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.AverageMonthlyVisits != 83500.5 {
		t.Errorf("expected average 83500.5, got %f", stats.AverageMonthlyVisits)
	}
	if len(stats.VerticalDistribution) != 2 || stats.VerticalDistribution[0].Vertical != "payments" {
		t.Errorf("unexpected vertical distribution: %+v", stats.VerticalDistribution)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
