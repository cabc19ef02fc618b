package taxonomy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Category 是一个子分类, 以缩写(如 cs.AI)为键
type Category struct {
	Abbreviation string
	Name         string
	Description  string
}

// Area 是一个顶层学科, Header 为页面上的原始文本
type Area struct {
	Header     string
	Categories []Category
}

// Mapping 保存完整的两级分类, 保持遍历顺序
type Mapping struct {
	Areas []Area
}

func New() *Mapping {
	return &Mapping{}
}

// Open 保证 header 对应的 area 存在, 返回其下标
func (m *Mapping) Open(header string) int {
	for i := range m.Areas {
		if m.Areas[i].Header == header {
			return i
		}
	}
	m.Areas = append(m.Areas, Area{Header: header, Categories: []Category{}})

	return len(m.Areas) - 1
}

// Add appends c under header. Areas with the same header text are merged.
func (m *Mapping) Add(header string, c Category) {
	i := m.Open(header)
	m.Areas[i].Categories = append(m.Areas[i].Categories, c)
}

func (m *Mapping) Get(header string) (Area, bool) {
	for _, a := range m.Areas {
		if a.Header == header {
			return a, true
		}
	}

	return Area{}, false
}

func (m *Mapping) Len() int {
	return len(m.Areas)
}

// CategoryCount 返回所有 area 下的条目总数
func (m *Mapping) CategoryCount() int {
	n := 0
	for _, a := range m.Areas {
		n += len(a.Categories)
	}

	return n
}

type fields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarshalJSON emits {"header": [{"abbr": {"name": ..., "description": ...}}]}
// with headers in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	// 描述中常见 & 和 <, 不做 HTML 转义
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, a := range m.Areas {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(a.Header); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		entries := make([]map[string]fields, 0, len(a.Categories))
		for _, c := range a.Categories {
			entries = append(entries, map[string]fields{
				c.Abbreviation: {Name: c.Name, Description: c.Description},
			})
		}
		if err := enc.Encode(entries); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

var errShape = errors.New("taxonomy: unexpected json shape")

// UnmarshalJSON 使用 token 流解析, 以保留 header 的顺序
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var areas []Area
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		header, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: header key %v", errShape, tok)
		}

		var entries []json.RawMessage
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("area %q: %w", header, err)
		}

		area := Area{Header: header, Categories: make([]Category, 0, len(entries))}
		for i, raw := range entries {
			var entry map[string]fields
			if err := json.Unmarshal(raw, &entry); err != nil {
				return fmt.Errorf("area %q entry %d: %w", header, i, err)
			}
			if len(entry) != 1 {
				return fmt.Errorf("%w: area %q entry %d has %d keys", errShape, header, i, len(entry))
			}
			for abbr, f := range entry {
				area.Categories = append(area.Categories, Category{
					Abbreviation: abbr,
					Name:         f.Name,
					Description:  f.Description,
				})
			}
		}
		areas = append(areas, area)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	m.Areas = areas

	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: want %v, got %v", errShape, want, tok)
	}

	return nil
}
