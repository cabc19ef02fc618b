package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/taxonomy/parse/arxiv"
	"github.com/dreamerjackson/taxonomy/storage"
	"github.com/dreamerjackson/taxonomy/taxonomy"
	"go.uber.org/zap"
)

type Engine struct {
	options
}

type Result struct {
	Mapping *taxonomy.Mapping
	Report  *arxiv.Report
}

func New(opts ...Option) (*Engine, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.URL == "" {
		return nil, errors.New("empty source url")
	}
	if options.Fetcher == nil {
		return nil, errors.New("no fetcher")
	}
	if options.Extractor == nil {
		options.Extractor = arxiv.New(arxiv.WithLogger(options.Logger))
	}
	if options.Storage == nil {
		options.Storage = storage.Empty{}
	}

	return &Engine{options: options}, nil
}

// Run 依次执行 抓取 -> 解析 -> 提取 -> 保存
// 提取完全结束后才会触碰输出, 失败时不会留下半截结果
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.Logger.Info("fetch start", zap.String("url", e.URL))
	body, err := e.Fetcher.Get(ctx, e.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", e.URL, err)
	}
	e.Logger.Debug("fetch done", zap.Int("length", len(body)))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	m, report, err := e.Extractor.Extract(doc)
	if err != nil {
		return &Result{Report: report}, fmt.Errorf("extract: %w", err)
	}

	if len(report.Skipped) > 0 {
		e.Logger.Warn("malformed records skipped",
			zap.Int("skipped", len(report.Skipped)),
			zap.Error(report.Err()),
		)
	}

	if err := e.Storage.Save(ctx, m); err != nil {
		return &Result{Mapping: m, Report: report}, fmt.Errorf("save: %w", err)
	}

	e.Logger.Info("run done",
		zap.Int("areas", m.Len()),
		zap.Int("categories", m.CategoryCount()),
		zap.Int("skipped", len(report.Skipped)),
	)

	return &Result{Mapping: m, Report: report}, nil
}
