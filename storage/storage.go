package storage

import (
	"context"

	"github.com/dreamerjackson/taxonomy/taxonomy"
)

// Storage 保存一次抓取得到的完整分类
type Storage interface {
	Save(ctx context.Context, m *taxonomy.Mapping) error
}

// Empty discards everything, used for dry runs.
type Empty struct{}

func (Empty) Save(context.Context, *taxonomy.Mapping) error {
	return nil
}
