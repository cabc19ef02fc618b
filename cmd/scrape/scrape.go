package scrape

import (
	"context"
	"fmt"

	"github.com/dreamerjackson/taxonomy/config"
	"github.com/dreamerjackson/taxonomy/engine"
	"github.com/dreamerjackson/taxonomy/fetch"
	"github.com/dreamerjackson/taxonomy/generator"
	"github.com/dreamerjackson/taxonomy/limiter"
	"github.com/dreamerjackson/taxonomy/log"
	"github.com/dreamerjackson/taxonomy/parse/arxiv"
	"github.com/dreamerjackson/taxonomy/proxy"
	"github.com/dreamerjackson/taxonomy/storage"
	"github.com/dreamerjackson/taxonomy/storage/filestorage"
	"github.com/dreamerjackson/taxonomy/storage/sqlstorage"
	"github.com/dreamerjackson/taxonomy/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type Flags struct {
	ConfigPath string
	Strict     bool
	Out        string
}

var flags Flags

var ScrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "fetch the arXiv taxonomy and save it.",
	Long:  "fetch the arXiv taxonomy and save it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), flags)
	},
}

func init() {
	AddFlags(ScrapeCmd)
}

// AddFlags 注册抓取相关的参数, 根命令与 scrape 子命令共用
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&flags.ConfigPath, "config", "config.toml", "set config file, missing file means defaults")

	cmd.Flags().BoolVar(
		&flags.Strict, "strict", false, "abort on the first malformed record")

	cmd.Flags().StringVar(
		&flags.Out, "out", "", "override output path, - for stdout")
}

func Run(ctx context.Context, f Flags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}
	if f.Strict {
		cfg.Extractor.Mode = arxiv.Strict.String()
	}
	if f.Out != "" {
		cfg.Storage.Type = "file"
		cfg.Storage.Path = f.Out
	}

	// log
	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	defer closer.Close()
	defer logger.Sync()

	runID, err := generator.RunID()
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run", runID), zap.String("version", version.GetVersion()))

	// set zap global logger
	zap.ReplaceGlobals(logger)
	logger.Debug("config loaded", zap.Any("config", cfg))

	fetcher, err := newFetcher(logger, cfg.Fetcher)
	if err != nil {
		return err
	}

	ex, err := newExtractor(logger, cfg.Extractor)
	if err != nil {
		return err
	}

	store, closeStore, err := newStorage(logger, runID, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	e, err := engine.New(
		engine.WithURL(cfg.SourceURL),
		engine.WithFetcher(fetcher),
		engine.WithExtractor(ex),
		engine.WithStorage(store),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if _, err := e.Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}

	return nil
}

func newFetcher(logger *zap.Logger, cfg config.FetcherConfig) (fetch.Fetcher, error) {
	typ, err := fetch.ParseType(cfg.Type)
	if err != nil {
		return nil, err
	}

	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logger.Named("fetcher")),
	}

	if len(cfg.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Proxy...)
		if err != nil {
			return nil, fmt.Errorf("proxy: %w", err)
		}
		opts = append(opts, fetch.WithProxy(p))
	}

	if l := limiter.FromConfig(cfg.Limits); l != nil {
		opts = append(opts, fetch.WithLimit(l))
	}

	logger.Sugar().Info("fetcher type: ", cfg.Type, " proxy list: ", cfg.Proxy, " timeout: ", cfg.Timeout)

	return fetch.New(typ, opts...), nil
}

func newExtractor(logger *zap.Logger, cfg config.ExtractorConfig) (*arxiv.Extractor, error) {
	mode, err := arxiv.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	pairing, err := arxiv.ParsePairingPolicy(cfg.Pairing)
	if err != nil {
		return nil, err
	}
	desc, err := arxiv.ParseDescriptionPolicy(cfg.Description)
	if err != nil {
		return nil, err
	}

	return arxiv.New(
		arxiv.WithMode(mode),
		arxiv.WithPairing(pairing),
		arxiv.WithDescription(desc),
		arxiv.WithLogger(logger.Named("extractor")),
	), nil
}

func newStorage(logger *zap.Logger, runID string, cfg config.StorageConfig) (storage.Storage, func(), error) {
	nop := func() {}

	switch cfg.Type {
	case "", "file":
		logger.Info("start file storage", zap.String("path", cfg.Path))
		return filestorage.New(cfg.Path, filestorage.WithLogger(logger.Named("file"))), nop, nil
	case "mysql":
		s, err := sqlstorage.New(
			sqlstorage.WithSQLURL(cfg.SQLURL),
			sqlstorage.WithTable(cfg.Table),
			sqlstorage.WithRunID(runID),
			sqlstorage.WithBatchCount(cfg.BatchCount),
			sqlstorage.WithLogger(logger.Named("sqlDB")),
		)
		if err != nil {
			return nil, nop, fmt.Errorf("create sqlstorage: %w", err)
		}
		logger.Info("start mysql storage")
		return s, func() { s.Close() }, nil
	case "empty":
		logger.Info("start empty storage")
		return storage.Empty{}, nop, nil
	}

	return nil, nop, fmt.Errorf("unknown storage type %q", cfg.Type)
}
