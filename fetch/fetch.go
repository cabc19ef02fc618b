package fetch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"net/http"
	"time"

	"github.com/dreamerjackson/taxonomy/limiter"
	"github.com/dreamerjackson/taxonomy/proxy"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

type Type int

const (
	BaseFetchType Type = iota
	BrowserFetchType
	RestyFetchType
)

func ParseType(s string) (Type, error) {
	switch s {
	case "", "base":
		return BaseFetchType, nil
	case "browser":
		return BrowserFetchType, nil
	case "resty":
		return RestyFetchType, nil
	}

	return BaseFetchType, fmt.Errorf("unknown fetcher type %q", s)
}

// Fetcher 获取一个页面, 返回 UTF-8 编码的内容
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

func New(typ Type, opts ...Option) Fetcher {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	switch typ {
	case BaseFetchType:
		return &baseFetch{options}
	case BrowserFetchType:
		return &browserFetch{options}
	case RestyFetchType:
		return newRestyFetch(options)
	default:
		return &baseFetch{options}
	}
}

func (o *options) wait(ctx context.Context) error {
	if o.limit == nil {
		return nil
	}

	return o.limit.Wait(ctx)
}

func (o *options) client() *http.Client {
	client := &http.Client{
		Timeout: o.timeout,
	}

	if o.proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = o.proxy
		client.Transport = transport
	}

	return client
}

// baseFetch 发出一个不带任何 header 的 GET
type baseFetch struct {
	options
}

func (b *baseFetch) Get(ctx context.Context, url string) ([]byte, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	return b.do(req)
}

func (o *options) do(req *http.Request) ([]byte, error) {
	resp, err := o.client().Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	o.logger.Debug("fetched",
		zap.String("url", req.URL.String()),
		zap.Int64("length", resp.ContentLength),
	)

	return decode(resp.Body, resp.Header.Get("Content-Type"))
}

// browserFetch 模拟浏览器访问
type browserFetch struct {
	options
}

func (b *browserFetch) Get(ctx context.Context, url string) ([]byte, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	req.Header.Set("User-Agent", b.userAgent())

	return b.do(req)
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

func (o *options) userAgent() string {
	if o.ua != "" {
		return o.ua
	}

	return userAgents[rand.Intn(len(userAgents))]
}

type restyFetch struct {
	options
	rc *resty.Client
}

func newRestyFetch(o options) *restyFetch {
	client := resty.New().SetTimeout(o.timeout)
	if o.proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = o.proxy
		client.SetTransport(transport)
	}
	if o.ua != "" {
		client.SetHeader("User-Agent", o.ua)
	}

	return &restyFetch{options: o, rc: client}
}

func (r *restyFetch) Get(ctx context.Context, url string) ([]byte, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := r.rc.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, err
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode())
	}

	r.logger.Debug("fetched", zap.String("url", url), zap.Duration("time", resp.Time()))

	return decode(body, resp.Header().Get("Content-Type"))
}

func decode(r io.Reader, contentType string) ([]byte, error) {
	bodyReader := bufio.NewReader(r)
	e := DetermineEncoding(bodyReader, contentType)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return ioutil.ReadAll(utf8Reader)
}

// DetermineEncoding 根据前 1024 字节和 Content-Type 猜测编码
func DetermineEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	// 内容不足 1024 字节时 Peek 返回 EOF, 已读到的部分仍可用于判断
	bytes, _ := r.Peek(1024)

	e, _, _ := charset.DetermineEncoding(bytes, contentType)

	return e
}

type options struct {
	timeout time.Duration
	proxy   proxy.Func
	limit   limiter.RateLimiter
	ua      string
	logger  *zap.Logger
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

type Option func(opts *options)

// WithTimeout sets the whole-request timeout; zero means none.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

func WithProxy(p proxy.Func) Option {
	return func(opts *options) {
		opts.proxy = p
	}
}

func WithLimit(l limiter.RateLimiter) Option {
	return func(opts *options) {
		opts.limit = l
	}
}

func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.ua = ua
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
