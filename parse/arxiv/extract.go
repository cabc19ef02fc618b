package arxiv

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dreamerjackson/taxonomy/taxonomy"
	"go.uber.org/zap"
)

// 选择器均为常量, 非法时在启动阶段 panic
var (
	headerSel    = cascadia.MustCompile(".accordion-head")
	bodySel      = cascadia.MustCompile(".accordion-body")
	containerSel = cascadia.MustCompile(".columns.divided")
	divSel       = cascadia.MustCompile("div")
	headingSel   = cascadia.MustCompile("h4")
	spanSel      = cascadia.MustCompile("span")
	paragraphSel = cascadia.MustCompile("p")
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrPairingMismatch = errors.New("header and body count mismatch")
)

// Abbreviation returns the text before the first space of a category
// title, or the whole title when it has no space.
func Abbreviation(title string) string {
	if i := strings.IndexByte(title, ' '); i >= 0 {
		return title[:i]
	}

	return title
}

// StripParens removes the mandatory enclosing parentheses of a name span.
func StripParens(s string) (string, error) {
	if !strings.HasPrefix(s, "(") {
		return "", fmt.Errorf("%w: missing '(' in %q", ErrMalformedRecord, s)
	}
	s = s[1:]
	if !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("%w: missing ')' in %q", ErrMalformedRecord, "("+s)
	}

	return s[:len(s)-1], nil
}

type Extractor struct {
	options
}

func New(opts ...Option) *Extractor {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Extractor{options: options}
}

func ExtractReader(r io.Reader, opts ...Option) (*taxonomy.Mapping, *Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	return New(opts...).Extract(doc)
}

// Extract walks the accordion sections of doc and builds the mapping.
// In strict mode the first malformed record aborts and no mapping is returned.
func (e *Extractor) Extract(doc *goquery.Document) (*taxonomy.Mapping, *Report, error) {
	heads := doc.FindMatcher(headerSel)
	bodies := doc.FindMatcher(bodySel)

	report := &Report{Headers: heads.Length(), Bodies: bodies.Length()}
	n := report.Headers
	if report.Bodies < n {
		n = report.Bodies
	}
	report.Paired = n

	if report.Mismatched() {
		if e.pairing == PairStrict {
			return nil, report, fmt.Errorf("%w: %d headers, %d bodies", ErrPairingMismatch, report.Headers, report.Bodies)
		}
		e.logger.Warn("header and body count differ, extra sections ignored",
			zap.Int("headers", report.Headers),
			zap.Int("bodies", report.Bodies),
		)
	}

	m := taxonomy.New()
	for i := 0; i < n; i++ {
		header := heads.Eq(i).Text()
		m.Open(header)

		var containers []*goquery.Selection
		bodies.Eq(i).FindMatcher(containerSel).Each(func(_ int, s *goquery.Selection) {
			containers = append(containers, s)
		})

		for j, container := range containers {
			c, text, err := e.category(container)
			if err != nil {
				rerr := &RecordError{Header: header, Index: j, Text: text, Err: err}
				if e.mode == Strict {
					return nil, report, rerr
				}
				e.logger.Warn("skip malformed record",
					zap.String("header", header),
					zap.Int("index", j),
					zap.Error(err),
				)
				report.Skipped = append(report.Skipped, rerr)
				continue
			}
			m.Add(header, c)
			report.Records++
		}
	}

	e.logger.Debug("extract done",
		zap.Int("areas", m.Len()),
		zap.Int("records", report.Records),
		zap.Int("skipped", len(report.Skipped)),
	)

	return m, report, nil
}

// category 解析一个 .columns.divided 容器
// 第一个 div 为标题块, 之后的 div 为描述块; 同类节点多次出现时取最后一个
func (e *Extractor) category(container *goquery.Selection) (taxonomy.Category, string, error) {
	var (
		c     taxonomy.Category
		paras []string
		err   error
		bad   string
	)

	container.ChildrenMatcher(divSel).Each(func(i int, div *goquery.Selection) {
		if i == 0 {
			div.FindMatcher(headingSel).Each(func(_ int, h *goquery.Selection) {
				c.Abbreviation = Abbreviation(strings.TrimSpace(h.Text()))
			})
			div.FindMatcher(spanSel).Each(func(_ int, s *goquery.Selection) {
				if err != nil {
					return
				}
				text := strings.TrimSpace(s.Text())
				name, perr := StripParens(text)
				if perr != nil {
					err, bad = perr, text
					return
				}
				c.Name = name
			})
			return
		}
		div.FindMatcher(paragraphSel).Each(func(_ int, p *goquery.Selection) {
			paras = append(paras, strings.TrimSpace(p.Text()))
		})
	})

	if err != nil {
		return taxonomy.Category{}, bad, err
	}

	if len(paras) > 0 {
		switch e.description {
		case DescriptionJoin:
			c.Description = strings.Join(paras, "\n\n")
		default:
			c.Description = paras[len(paras)-1]
		}
	}

	return c, "", nil
}
