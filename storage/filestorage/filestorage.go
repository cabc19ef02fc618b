package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dreamerjackson/taxonomy/taxonomy"
	"go.uber.org/zap"
)

// Stdout 作为路径时输出到标准输出
const Stdout = "-"

type FileStorage struct {
	path   string
	out    io.Writer
	logger *zap.Logger
}

type Option func(s *FileStorage)

func WithLogger(logger *zap.Logger) Option {
	return func(s *FileStorage) {
		s.logger = logger
	}
}

func WithStdout(w io.Writer) Option {
	return func(s *FileStorage) {
		s.out = w
	}
}

func New(path string, opts ...Option) *FileStorage {
	s := &FileStorage{
		path:   path,
		out:    os.Stdout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Render writes m as two-space indented JSON without HTML escaping.
func Render(w io.Writer, m *taxonomy.Mapping) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(m)
}

// Save 先在内存中完成渲染, 再打开目标文件
// 目录必须已存在, 已有文件会被覆盖
func (s *FileStorage) Save(ctx context.Context, m *taxonomy.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		return fmt.Errorf("render taxonomy: %w", err)
	}

	if s.path == Stdout {
		_, err := s.out.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.logger.Info("taxonomy saved",
		zap.String("path", s.path),
		zap.Int("areas", m.Len()),
		zap.Int("categories", m.CategoryCount()),
	)

	return nil
}
