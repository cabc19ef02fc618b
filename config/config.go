package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dreamerjackson/taxonomy/limiter"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

const (
	DefaultURL    = "https://arxiv.org/category_taxonomy"
	DefaultOutput = "out/arxiv_categories.json"
)

type Config struct {
	LogLevel  string
	LogFile   string
	SourceURL string
	Fetcher   FetcherConfig
	Extractor ExtractorConfig
	Storage   StorageConfig
}

type FetcherConfig struct {
	Type      string
	Timeout   time.Duration // 0 表示不设超时
	UserAgent string
	Proxy     []string
	Limits    []limiter.Config
}

type ExtractorConfig struct {
	Mode        string // lenient | strict
	Pairing     string // truncate | strict
	Description string // last | join
}

type StorageConfig struct {
	Type       string // file | mysql | empty
	Path       string
	SQLURL     string
	Table      string
	BatchCount int
}

func Default() Config {
	return Config{
		LogLevel:  "INFO",
		SourceURL: DefaultURL,
		Fetcher: FetcherConfig{
			Type: "base",
		},
		Extractor: ExtractorConfig{
			Mode:        "lenient",
			Pairing:     "truncate",
			Description: "last",
		},
		Storage: StorageConfig{
			Type:       "file",
			Path:       DefaultOutput,
			Table:      "arxiv_category",
			BatchCount: 100,
		},
	}
}

// Load reads a toml file. A missing file yields the defaults.
func Load(path string) (Config, error) {
	def := Default()
	if path == "" {
		return def, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return def, nil
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return def, err
	}
	defer cfg.Close()

	if err := cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	)); err != nil {
		return def, fmt.Errorf("load config %s: %w", path, err)
	}

	c := Config{
		LogLevel:  cfg.Get("logLevel").String(def.LogLevel),
		LogFile:   cfg.Get("logFile").String(def.LogFile),
		SourceURL: cfg.Get("source", "url").String(def.SourceURL),
		Fetcher: FetcherConfig{
			Type:      cfg.Get("fetcher", "type").String(def.Fetcher.Type),
			Timeout:   time.Duration(cfg.Get("fetcher", "timeout").Int(0)) * time.Millisecond,
			UserAgent: cfg.Get("fetcher", "userAgent").String(""),
			Proxy:     cfg.Get("fetcher", "proxy").StringSlice([]string{}),
		},
		Extractor: ExtractorConfig{
			Mode:        cfg.Get("extractor", "mode").String(def.Extractor.Mode),
			Pairing:     cfg.Get("extractor", "pairing").String(def.Extractor.Pairing),
			Description: cfg.Get("extractor", "description").String(def.Extractor.Description),
		},
		Storage: StorageConfig{
			Type:       cfg.Get("storage", "type").String(def.Storage.Type),
			Path:       cfg.Get("storage", "path").String(def.Storage.Path),
			SQLURL:     cfg.Get("storage", "sqlURL").String(""),
			Table:      cfg.Get("storage", "table").String(def.Storage.Table),
			BatchCount: cfg.Get("storage", "batchCount").Int(def.Storage.BatchCount),
		},
	}

	if err := cfg.Get("fetcher", "limits").Scan(&c.Fetcher.Limits); err != nil {
		return def, fmt.Errorf("fetcher limits: %w", err)
	}

	return c, nil
}
