package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultOpenAIBaseURL        = "https://api.openai.com/v1"
	defaultEmbeddingModel       = "text-embedding-3-small"
	defaultTrafficReportBaseURL = "https://api.similarweb.com"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	TrafficReport TrafficReportConfig `yaml:"traffic_report"`
}

// ServerConfig は HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// OpenAIConfig は埋め込み生成 API に関する設定です。APIKey は環境変数
// OPENAI_API_KEY で上書きできます。未設定でも起動は可能で、セマンティック
// 検索の実行時にエラーとなります。
type OpenAIConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"-"`
	TimeoutRaw     string        `yaml:"timeout"`
}

// TrafficReportConfig は外部トラフィック分析バッチ API に関する設定です。
// APIKey は環境変数 TRAFFIC_REPORT_API_KEY で上書きできます。
type TrafficReportConfig struct {
	APIKey              string        `yaml:"api_key"`
	BaseURL             string        `yaml:"base_url"`
	Timeout             time.Duration `yaml:"-"`
	TimeoutRaw          string        `yaml:"timeout"`
	PollInitialInterval time.Duration `yaml:"-"`
	PollInitialRaw      string        `yaml:"poll_initial_interval"`
	PollMaxInterval     time.Duration `yaml:"-"`
	PollMaxRaw          string        `yaml:"poll_max_interval"`
	PollDeadline        time.Duration `yaml:"-"`
	PollDeadlineRaw     string        `yaml:"poll_deadline"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRAFFIC_REPORT_API_KEY"); v != "" {
		c.TrafficReport.APIKey = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.OpenAI.validateAndNormalize(); err != nil {
		return err
	}

	return c.TrafficReport.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (o *OpenAIConfig) validateAndNormalize() error {
	if o.BaseURL == "" {
		o.BaseURL = defaultOpenAIBaseURL
	}
	if o.EmbeddingModel == "" {
		o.EmbeddingModel = defaultEmbeddingModel
	}

	timeout, err := parseDurationAllowEmpty(o.TimeoutRaw, 30*time.Second)
	if err != nil {
		return fmt.Errorf("config: openai.timeout: %w", err)
	}
	o.Timeout = timeout

	return nil
}

func (t *TrafficReportConfig) validateAndNormalize() error {
	if t.BaseURL == "" {
		t.BaseURL = defaultTrafficReportBaseURL
	}

	timeout, err := parseDurationAllowEmpty(t.TimeoutRaw, 60*time.Second)
	if err != nil {
		return fmt.Errorf("config: traffic_report.timeout: %w", err)
	}
	t.Timeout = timeout

	initial, err := parseDurationAllowEmpty(t.PollInitialRaw, 5*time.Second)
	if err != nil {
		return fmt.Errorf("config: traffic_report.poll_initial_interval: %w", err)
	}
	t.PollInitialInterval = initial

	maxInterval, err := parseDurationAllowEmpty(t.PollMaxRaw, 80*time.Second)
	if err != nil {
		return fmt.Errorf("config: traffic_report.poll_max_interval: %w", err)
	}
	t.PollMaxInterval = maxInterval

	deadline, err := parseDurationAllowEmpty(t.PollDeadlineRaw, 15*time.Minute)
	if err != nil {
		return fmt.Errorf("config: traffic_report.poll_deadline: %w", err)
	}
	t.PollDeadline = deadline

	return nil
}

func parseDurationAllowEmpty(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
