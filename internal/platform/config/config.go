package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DriverSQLite は SQLite ファイルに永続化するストレージドライバです。
	DriverSQLite = "sqlite"
	// DriverMemory は永続化を行わないインメモリドライバです。
	DriverMemory = "memory"
)

const defaultSessionTTL = 24 * time.Hour

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
}

// StorageConfig はブロブ永続化に関する設定です。
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// SessionConfig はセッショントークンの発行に関する設定です。
type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl"`
}

// StoreConfig はストアファサードの挙動に関する設定です。
type StoreConfig struct {
	StrictTenant bool          `yaml:"strict_tenant"`
	Latency      LatencyConfig `yaml:"latency"`
}

// LatencyConfig は動詞種別ごとの疑似レイテンシです。未設定時は遅延なしです。
type LatencyConfig struct {
	Create    time.Duration `yaml:"-"`
	List      time.Duration `yaml:"-"`
	Delete    time.Duration `yaml:"-"`
	CreateRaw string        `yaml:"create"`
	ListRaw   string        `yaml:"list"`
	DeleteRaw string        `yaml:"delete"`
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

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Storage.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Session.validateAndNormalize(); err != nil {
		return err
	}
	return c.Store.validateAndNormalize()
}

func (s *StorageConfig) validateAndNormalize() error {
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}

	switch s.Driver {
	case DriverSQLite:
		if s.Path == "" {
			return fmt.Errorf("config: storage.path must be set for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unsupported storage.driver %q", s.Driver)
	}

	return nil
}

func (s *SessionConfig) validateAndNormalize() error {
	if s.Secret == "" {
		s.Secret = os.Getenv("EPMS_SESSION_SECRET")
	}
	if s.Secret == "" {
		return fmt.Errorf("config: session.secret or EPMS_SESSION_SECRET must be set")
	}

	ttl, err := parseDurationAllowEmpty(s.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: session.ttl: %w", err)
	}
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	s.TTL = ttl

	return nil
}

func (s *StoreConfig) validateAndNormalize() error {
	create, err := parseDurationAllowEmpty(s.Latency.CreateRaw)
	if err != nil {
		return fmt.Errorf("config: store.latency.create: %w", err)
	}
	s.Latency.Create = create

	list, err := parseDurationAllowEmpty(s.Latency.ListRaw)
	if err != nil {
		return fmt.Errorf("config: store.latency.list: %w", err)
	}
	s.Latency.List = list

	del, err := parseDurationAllowEmpty(s.Latency.DeleteRaw)
	if err != nil {
		return fmt.Errorf("config: store.latency.delete: %w", err)
	}
	s.Latency.Delete = del

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// MigrateDSN は golang-migrate 用の接続文字列を返します。
func (s StorageConfig) MigrateDSN() string {
	return fmt.Sprintf("sqlite://%s", s.Path)
}
