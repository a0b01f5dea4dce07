package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// 取り込み元 CSV の列名はレポート API の版によって揺れるため、別名も
// 受け付けます。
var csvColumnAliases = map[string][]string{
	"domain":          {"domain", "site", "website"},
	"country":         {"country", "geo"},
	"month":           {"month", "date"},
	"visits":          {"visits", "all_traffic_visits", "monthly_visits"},
	"pages_per_visit": {"pages_per_visit", "all_traffic_pages_per_visit"},
	"avg_visit_secs":  {"avg_visit_secs", "all_traffic_average_visit_duration", "average_visit_duration"},
	"bounce_rate":     {"bounce_rate", "all_traffic_bounce_rate"},
	"page_views":      {"page_views", "all_traffic_page_views"},
}

// ParseMetricsCSV はレポート CSV を月次指標行へ変換します。必須欄
// (ドメイン・月・訪問数)が解釈できない行はスキップとして記録され、
// 後続行の処理は継続します。任意の数値欄は解釈できない場合 nil に
// なります。
func ParseMetricsCSV(r io.Reader) ([]*MetricsRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := resolveColumns(header)
	for _, required := range []string{"domain", "month"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingHeader, required)
		}
	}

	var (
		rows    []*MetricsRow
		skipped []RowError
	)
	for index := 1; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %d: %w", index, err)
		}

		row, rowErr := parseMetricsRecord(columns, record)
		if rowErr != nil {
			skipped = append(skipped, RowError{Index: index, Key: field(columns, record, "domain"), Err: rowErr})
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func resolveColumns(header []string) map[string]int {
	columns := make(map[string]int, len(csvColumnAliases))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for canonical, aliases := range csvColumnAliases {
			if _, ok := columns[canonical]; ok {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					columns[canonical] = i
					break
				}
			}
		}
	}
	return columns
}

func parseMetricsRecord(columns map[string]int, record []string) (*MetricsRow, error) {
	domain := strings.ToLower(field(columns, record, "domain"))
	if domain == "" {
		return nil, ErrInvalidDomain
	}

	month, err := parseMonth(field(columns, record, "month"))
	if err != nil {
		return nil, err
	}

	visits, err := parseRequiredFloat(field(columns, record, "visits"))
	if err != nil {
		return nil, err
	}

	// 国が欠けた行はワールドワイド集計として扱います。
	country := strings.ToUpper(field(columns, record, "country"))
	if country == "" {
		country = "WW"
	}

	return &MetricsRow{
		Domain:        domain,
		Month:         month,
		Country:       country,
		Visits:        visits,
		PagesPerVisit: parseOptionalFloat(field(columns, record, "pages_per_visit")),
		AvgVisitSecs:  parseOptionalFloat(field(columns, record, "avg_visit_secs")),
		BounceRate:    parseOptionalFloat(field(columns, record, "bounce_rate")),
		PageViews:     parseOptionalFloat(field(columns, record, "page_views")),
	}, nil
}

func field(columns map[string]int, record []string, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseMonth(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
}

// parseRequiredFloat は訪問数のような必須欄を解釈します。空欄は欠損として
// nil を返しますが、値が入っていて解釈できない場合は行ごとスキップさせる
// ためにエラーを返します。
func parseRequiredFloat(raw string) (*float64, error) {
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumeric, raw)
	}
	return &value, nil
}

func parseOptionalFloat(raw string) *float64 {
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
