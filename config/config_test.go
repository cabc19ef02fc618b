package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreamerjackson/taxonomy/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logLevel = "DEBUG"

[source]
url = "http://127.0.0.1:8080/category_taxonomy"

[fetcher]
type = "browser"
timeout = 3000
proxy = ["http://127.0.0.1:7890"]

[[fetcher.limits]]
eventCount = 1
eventDur = 2
bucket = 1

[extractor]
mode = "strict"
description = "join"

[storage]
type = "mysql"
sqlURL = "root:123456@tcp(127.0.0.1:3326)/taxonomy?charset=utf8"
batchCount = 50
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", c.LogLevel)
	assert.Equal(t, "http://127.0.0.1:8080/category_taxonomy", c.SourceURL)
	assert.Equal(t, "browser", c.Fetcher.Type)
	assert.Equal(t, 3*time.Second, c.Fetcher.Timeout)
	assert.Equal(t, []string{"http://127.0.0.1:7890"}, c.Fetcher.Proxy)
	assert.Equal(t, []limiter.Config{{EventCount: 1, EventDur: 2, Bucket: 1}}, c.Fetcher.Limits)
	assert.Equal(t, ExtractorConfig{Mode: "strict", Pairing: "truncate", Description: "join"}, c.Extractor)
	assert.Equal(t, "mysql", c.Storage.Type)
	assert.Equal(t, DefaultOutput, c.Storage.Path)
	assert.Equal(t, "arxiv_category", c.Storage.Table)
	assert.Equal(t, 50, c.Storage.BatchCount)
}

func TestLoad_Missing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, c.SourceURL)
}
