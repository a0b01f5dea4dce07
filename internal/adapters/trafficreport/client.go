// Package trafficreport は外部トラフィック分析サービスのバッチレポート API
// クライアントです。レポートの生成は非同期で、投入後はステータス照会を
// 指数バックオフでポーリングし、完成後に提示されたリンクから本文を
// ダウンロードします。
package trafficreport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogurasousui/prospector/internal/platform/config"
)

var (
	// ErrNotConfigured は API キーが未設定の場合に返却されます。
	ErrNotConfigured = errors.New("trafficreport: api key is not configured")
	// ErrReportTimeout はポーリング期限内にレポートが完成しなかった場合に
	// 返却されます。
	ErrReportTimeout = errors.New("trafficreport: report was not ready before deadline")
)

// Client はバッチレポート API のクライアントです。
type Client struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	pollInitial  time.Duration
	pollMax      time.Duration
	pollDeadline time.Duration

	// sleep はテストから差し替えられます。
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient は設定から Client を生成します。
func NewClient(cfg config.TrafficReportConfig) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: cfg.Timeout},
		pollInitial:  cfg.PollInitialInterval,
		pollMax:      cfg.PollMaxInterval,
		pollDeadline: cfg.PollDeadline,
		sleep:        sleepContext,
	}
}

// Configured は API キーが設定されているかを返します。
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ReportRequest はバッチレポートの投入内容です。
type ReportRequest struct {
	ReportName string   `json:"report_name"`
	Domains    []string `json:"domains"`
	Metrics    []string `json:"metrics"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Countries  []string `json:"countries"`
}

type submitResponse struct {
	ReportID string `json:"report_id"`
}

// Submit はレポート生成を依頼してレポート ID を返します。
func (c *Client) Submit(ctx context.Context, request ReportRequest) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("trafficreport: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/batch/v4/request-report", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("trafficreport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trafficreport: submit report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("trafficreport: submit returned status %d", resp.StatusCode)
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("trafficreport: parse submit response: %w", err)
	}
	if parsed.ReportID == "" {
		return "", fmt.Errorf("trafficreport: submit response contains no report_id")
	}
	return parsed.ReportID, nil
}

type statusResponse struct {
	Status       string `json:"status"`
	ReportStatus string `json:"report_status"`
	DownloadLink string `json:"download_link"`
	ReportURL    string `json:"report_download_url"`
	Files        []struct {
		URL string `json:"url"`
	} `json:"files"`
}

// downloadLink はステータス応答からダウンロード先を抽出します。
// 完成前はリンクが含まれないため空文字を返します。
func (s *statusResponse) downloadLink() string {
	status := strings.ToLower(s.Status)
	if status == "" {
		status = strings.ToLower(s.ReportStatus)
	}

	link := s.DownloadLink
	if link == "" {
		link = s.ReportURL
	}
	if link != "" {
		switch status {
		case "completed", "success", "ready":
			return link
		}
	}

	// 応答によってはファイル一覧の形でリンクが返ります。
	if len(s.Files) > 0 {
		return s.Files[0].URL
	}
	return ""
}

// AwaitReport はレポートが完成するまでステータス照会をポーリングし、
// ダウンロードリンクを返します。レポート ID が登録されるまでは 404 が
// 返るため、404 は失敗ではなく再試行として扱います。待機間隔は初期値
// から上限まで倍々で伸び、±20% のジッタが加わります。
func (c *Client) AwaitReport(ctx context.Context, reportID string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	deadline := time.Now().Add(c.pollDeadline)
	interval := c.pollInitial

	for {
		link, err := c.queryStatus(ctx, reportID)
		if err != nil {
			return "", err
		}
		if link != "" {
			return link, nil
		}

		if time.Now().Add(interval).After(deadline) {
			return "", fmt.Errorf("%w: report %s", ErrReportTimeout, reportID)
		}
		if err := c.sleep(ctx, withJitter(interval)); err != nil {
			return "", err
		}
		interval *= 2
		if interval > c.pollMax {
			interval = c.pollMax
		}
	}
}

// Download はステータス応答で提示されたリンクから本文を取得します。
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("trafficreport: build download request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trafficreport: download report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trafficreport: download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trafficreport: read report body: %w", err)
	}
	return body, nil
}

// FetchReport は投入・ポーリング・ダウンロードまでを一括で行います。
func (c *Client) FetchReport(ctx context.Context, request ReportRequest) ([]byte, error) {
	reportID, err := c.Submit(ctx, request)
	if err != nil {
		return nil, err
	}
	link, err := c.AwaitReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return c.Download(ctx, link)
}

// queryStatus はステータス照会を 1 回行い、完成していればダウンロード
// リンクを返します。未完成・未登録の場合は空文字を返します。
func (c *Client) queryStatus(ctx context.Context, reportID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/batch/request-query?report_id="+url.QueryEscape(reportID), nil)
	if err != nil {
		return "", fmt.Errorf("trafficreport: build status request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trafficreport: query report status: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed statusResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return "", fmt.Errorf("trafficreport: parse status response: %w", err)
		}
		return parsed.downloadLink(), nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("trafficreport: status query returned status %d", resp.StatusCode)
	}
}

func withJitter(d time.Duration) time.Duration {
	factor := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(d) * factor)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
