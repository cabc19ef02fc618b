package sqlstorage

import (
	"context"
	"fmt"
	"io"

	"github.com/dreamerjackson/taxonomy/sqldb"
	"github.com/dreamerjackson/taxonomy/taxonomy"
	"go.uber.org/zap"
)

var columnNames = []sqldb.Field{
	{Title: "run_id", Type: "VARCHAR(32)"},
	{Title: "area", Type: "VARCHAR(255)"},
	{Title: "position", Type: "INT"},
	{Title: "abbreviation", Type: "VARCHAR(64)"},
	{Title: "name", Type: "VARCHAR(255)"},
	{Title: "description", Type: "MEDIUMTEXT"},
}

type row struct {
	area     string
	position int
	category taxonomy.Category
}

type SQLStorage struct {
	dataDocker []row // 分批输出结果缓存
	db         sqldb.DBer
	created    bool
	options
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &SQLStorage{}
	s.options = options

	var err error
	s.db, err = sqldb.New(
		sqldb.WithConnURL(s.sqlURL),
		sqldb.WithLogger(s.logger),
	)

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLStorage) Save(ctx context.Context, m *taxonomy.Mapping) error {
	if !s.created {
		err := s.db.CreateTable(ctx, sqldb.TableData{
			TableName:   s.table,
			ColumnNames: columnNames,
			AutoKey:     true,
		})
		if err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
		s.created = true
	}

	for _, area := range m.Areas {
		for i, c := range area.Categories {
			if len(s.dataDocker) >= s.BatchCount {
				if err := s.Flush(ctx); err != nil {
					return err
				}
			}
			s.dataDocker = append(s.dataDocker, row{area: area.Header, position: i, category: c})
		}
	}

	if err := s.Flush(ctx); err != nil {
		return err
	}

	s.logger.Info("taxonomy saved",
		zap.String("table", s.table),
		zap.Int("categories", m.CategoryCount()),
	)

	return nil
}

func (s *SQLStorage) Flush(ctx context.Context) error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	defer func() {
		s.dataDocker = nil
	}()

	args := make([]interface{}, 0, len(s.dataDocker)*len(columnNames))
	for _, r := range s.dataDocker {
		args = append(args,
			s.runID,
			r.area,
			r.position,
			r.category.Abbreviation,
			r.category.Name,
			r.category.Description,
		)
	}

	if err := s.db.Insert(ctx, sqldb.TableData{
		TableName:   s.table,
		ColumnNames: columnNames,
		Args:        args,
		DataCount:   len(s.dataDocker),
	}); err != nil {
		return fmt.Errorf("insert %d rows: %w", len(s.dataDocker), err)
	}

	return nil
}

func (s *SQLStorage) Close() error {
	if c, ok := s.db.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
