package arxiv

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/dreamerjackson/taxonomy/taxonomy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(header string, containers ...string) string {
	return `<h2 class="accordion-head">` + header + `</h2><div class="accordion-body">` +
		strings.Join(containers, "") + `</div>`
}

func container(divs ...string) string {
	return `<div class="columns divided">` + strings.Join(divs, "") + `</div>`
}

func page(sections ...string) string {
	return `<html><body><div id="list">` + strings.Join(sections, "") + `</div></body></html>`
}

func TestAbbreviation(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"cs.AI Artificial Intelligence", "cs.AI"},
		{"Economics", "Economics"},
		{"cs.AI (Artificial Intelligence)", "cs.AI"},
		{"", ""},
		{" leading", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Abbreviation(tt.title), tt.title)
	}
}

func TestStripParens(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "wrapped", input: "(Artificial Intelligence)", want: "Artificial Intelligence"},
		{name: "empty inside", input: "()", want: ""},
		{name: "no parens", input: "Artificial Intelligence", wantErr: true},
		{name: "no closing", input: "(Artificial Intelligence", wantErr: true},
		{name: "no opening", input: "Artificial Intelligence)", wantErr: true},
		{name: "lone paren", input: "(", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripParens(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRecord))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	html := page(section("Computer Science", container(
		`<div><h4>cs.AI Artificial Intelligence</h4><span>(Artificial Intelligence)</span></div>`,
		`<div><p>Covers AI research.</p></div>`,
	)))

	m, report, err := ExtractReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.NoError(t, report.Err())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"Computer Science": [{"cs.AI": {"name": "Artificial Intelligence", "description": "Covers AI research."}}]}`,
		string(b))
}

func TestExtract_OneKeyPerHeader(t *testing.T) {
	entry := container(`<div><h4>x.A A</h4><span>(A)</span></div>`)
	html := page(
		section("Physics", entry),
		section("Mathematics", entry, entry),
		section("Statistics"),
	)

	m, report, err := ExtractReader(strings.NewReader(html))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, 3, report.Paired)
	assert.Equal(t, 3, report.Records)

	var headers []string
	for _, a := range m.Areas {
		headers = append(headers, a.Header)
	}
	assert.Equal(t, []string{"Physics", "Mathematics", "Statistics"}, headers)
	assert.Len(t, m.Areas[1].Categories, 2)
	assert.Empty(t, m.Areas[2].Categories)
}

func TestExtract_Pairing(t *testing.T) {
	html := `<html><body>
		<h2 class="accordion-head">Computer Science</h2>
		<h2 class="accordion-head">Economics</h2>
		<div class="accordion-body">` + container(`<div><h4>cs.AI A</h4><span>(A)</span></div>`) + `</div>
		</body></html>`

	t.Run("truncate", func(t *testing.T) {
		m, report, err := ExtractReader(strings.NewReader(html))
		require.NoError(t, err)
		assert.Equal(t, 1, m.Len())
		assert.True(t, report.Mismatched())
		_, ok := m.Get("Computer Science")
		assert.True(t, ok)
	})

	t.Run("strict", func(t *testing.T) {
		m, _, err := ExtractReader(strings.NewReader(html), WithPairing(PairStrict))
		assert.Nil(t, m)
		assert.True(t, errors.Is(err, ErrPairingMismatch))
	})
}

func TestExtract_MissingDescription(t *testing.T) {
	html := page(section("Economics", container(`<div><h4>Economics</h4><span>(Economics)</span></div>`)))

	m, _, err := ExtractReader(strings.NewReader(html))
	require.NoError(t, err)

	a, ok := m.Get("Economics")
	require.True(t, ok)
	require.Len(t, a.Categories, 1)
	assert.Equal(t, taxonomy.Category{Abbreviation: "Economics", Name: "Economics", Description: ""}, a.Categories[0])

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"description":""`)
}

func TestExtract_NoHeading(t *testing.T) {
	html := page(section("Economics", container(`<div><span>(Nameless)</span></div>`)))

	m, _, err := ExtractReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "", m.Areas[0].Categories[0].Abbreviation)
	assert.Equal(t, "Nameless", m.Areas[0].Categories[0].Name)
}

func TestExtract_LastMatchWins(t *testing.T) {
	html := page(section("Computer Science", container(
		`<div><h4>cs.OLD Old</h4><h4>cs.NEW New</h4><span>(Old Name)</span><span>(New Name)</span></div>`,
		`<div><p>first</p><p>second</p></div>`,
		`<div><p>third</p></div>`,
	)))

	t.Run("last", func(t *testing.T) {
		m, _, err := ExtractReader(strings.NewReader(html))
		require.NoError(t, err)
		want := taxonomy.Category{Abbreviation: "cs.NEW", Name: "New Name", Description: "third"}
		assert.Equal(t, want, m.Areas[0].Categories[0])
	})

	t.Run("join", func(t *testing.T) {
		m, _, err := ExtractReader(strings.NewReader(html), WithDescription(DescriptionJoin))
		require.NoError(t, err)
		assert.Equal(t, "first\n\nsecond\n\nthird", m.Areas[0].Categories[0].Description)
	})
}

func TestExtract_MalformedRecord(t *testing.T) {
	html := page(section("Computer Science",
		container(`<div><h4>cs.AI A</h4><span>(Artificial Intelligence)</span></div>`),
		container(`<div><h4>cs.XX X</h4><span>Broken Name</span></div>`),
		container(`<div><h4>cs.AR A</h4><span>(Hardware Architecture)</span></div>`),
	))

	t.Run("lenient", func(t *testing.T) {
		m, report, err := ExtractReader(strings.NewReader(html), WithMode(Lenient))
		require.NoError(t, err)
		require.Len(t, m.Areas[0].Categories, 2)
		assert.Equal(t, "cs.AR", m.Areas[0].Categories[1].Abbreviation)

		require.Len(t, report.Skipped, 1)
		assert.Equal(t, 1, report.Skipped[0].Index)
		assert.Equal(t, "Broken Name", report.Skipped[0].Text)
		assert.True(t, errors.Is(report.Err(), ErrMalformedRecord))
	})

	t.Run("strict", func(t *testing.T) {
		m, _, err := ExtractReader(strings.NewReader(html), WithMode(Strict))
		assert.Nil(t, m)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedRecord))

		var rerr *RecordError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "Computer Science", rerr.Header)
	})
}

func TestExtract_Fixture(t *testing.T) {
	f, err := os.Open("testdata/category_taxonomy.html")
	require.NoError(t, err)
	defer f.Close()

	got, report, err := ExtractReader(f, WithMode(Strict))
	require.NoError(t, err)
	assert.False(t, report.Mismatched())

	want := taxonomy.New()
	want.Add("Computer Science", taxonomy.Category{
		Abbreviation: "cs.AI",
		Name:         "Artificial Intelligence",
		Description:  "Covers all areas of AI except Vision, Robotics, Machine Learning, Multiagent Systems, and Computation and Language (Natural Language Processing), which have separate subject areas.",
	})
	want.Add("Computer Science", taxonomy.Category{
		Abbreviation: "cs.AR",
		Name:         "Hardware Architecture",
		Description:  "Covers systems organization and hardware architecture.",
	})
	want.Add("Economics", taxonomy.Category{
		Abbreviation: "econ.EM",
		Name:         "Econometrics",
		Description:  "Econometric Theory, Micro-Econometrics, Macro-Econometrics, Empirical Content of Economic Relations discovered via New Methods.",
	})
	want.Add("Physics", taxonomy.Category{
		Abbreviation: "astro-ph.CO",
		Name:         "Cosmology and Nongalactic Astrophysics",
		Description:  "Phenomenology of early universe & cosmic microwave background.",
	})
	want.Add("Physics", taxonomy.Category{
		Abbreviation: "physics.gen-ph",
		Name:         "General Physics",
	})

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}
