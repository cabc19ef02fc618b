package engine

import (
	"github.com/dreamerjackson/taxonomy/fetch"
	"github.com/dreamerjackson/taxonomy/parse/arxiv"
	"github.com/dreamerjackson/taxonomy/storage"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	URL       string
	Fetcher   fetch.Fetcher
	Extractor *arxiv.Extractor
	Storage   storage.Storage
	Logger    *zap.Logger
}

var defaultOptions = options{
	Logger: zap.NewNop(),
}

func WithURL(url string) Option {
	return func(opts *options) {
		opts.URL = url
	}
}

func WithFetcher(fetcher fetch.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithExtractor(e *arxiv.Extractor) Option {
	return func(opts *options) {
		opts.Extractor = e
	}
}

func WithStorage(s storage.Storage) Option {
	return func(opts *options) {
		opts.Storage = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}
