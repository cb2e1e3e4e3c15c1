package loader

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintite/internal/rules"
)

// memFS is an in-memory FileSystem for tests.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func newStore() *rules.Store {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return rules.NewStore(rules.WithLogger(log))
}

var wantHighlight = []rules.Record{
	{"word": "very", "color": "red"},
	{"word": "really", "color": "#00ff00"},
}

func TestLoadFormats(t *testing.T) {
	files := memFS{
		"linting.json": `[
			{"word": "very", "color": "red"},
			{"word": "really", "color": "#00ff00"}
		]`,
		"wrapped.json": `{"rules": [
			{"word": "very", "color": "red"},
			{"word": "really", "color": "#00ff00"}
		]}`,
		"linting.toml": `
[[rules]]
word = "very"
color = "red"

[[rules]]
word = "really"
color = "#00ff00"
`,
		"linting.yaml": `
- word: very
  color: red
- word: really
  color: "#00ff00"
`,
		"wrapped.yml": `
rules:
  - word: very
    color: red
  - word: really
    color: "#00ff00"
`,
		"linting.lua": `
local rules = {}
table.insert(rules, { word = "very", color = "red" })
table.insert(rules, { word = "re" .. "ally", color = "#00ff00" })
return rules
`,
		"wrapped.lua": `return { rules = { { word = "very", color = "red" }, { word = "really", color = "#00ff00" } } }`,
	}

	l := NewWithFS(files)
	for name := range files {
		t.Run(name, func(t *testing.T) {
			got, err := l.Load(name)
			require.NoError(t, err)
			assert.Equal(t, wantHighlight, got)
		})
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := NewWithFS(memFS{})

	got, err := l.Load("absent.json")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	l := NewWithFS(memFS{"rules.ini": "x"})

	_, err := l.Load("rules.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("rules.ini"))
	assert.True(t, Supported("RULES.JSON"))
}

func TestLoadSyntaxErrors(t *testing.T) {
	files := memFS{
		"bad.json": `[{"word": "x",]`,
		"bad.toml": "[[rules]]\nword = \n",
		"bad.yaml": "- word: [unclosed\n",
		"bad.lua":  "return {",
		"err.lua":  `error("no rules today")`,
	}

	l := NewWithFS(files)
	for name := range files {
		t.Run(name, func(t *testing.T) {
			_, err := l.Load(name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, rules.ErrRuleParse))

			var pe *rules.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, name, pe.Path)
		})
	}
}

func TestTOMLErrorPosition(t *testing.T) {
	l := NewWithFS(memFS{"bad.toml": "[[rules]]\nword = \n"})

	_, err := l.Load("bad.toml")
	var pe *rules.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Greater(t, pe.Column, 0)
}

func TestYAMLErrorPosition(t *testing.T) {
	l := NewWithFS(memFS{"bad.yaml": "- word: a\n\tcolor: red\n"})

	_, err := l.Load("bad.yaml")
	var pe *rules.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Greater(t, pe.Line, 0)

	assert.Equal(t, 7, yamlErrorLine(errors.New("yaml: line 7: mapping values are not allowed")))
	assert.Equal(t, 0, yamlErrorLine(errors.New("yaml: control characters are not allowed")))
}

func TestLoadWrongShape(t *testing.T) {
	files := memFS{
		"scalar.json":  `42`,
		"object.json":  `{"other": []}`,
		"table.toml":   "name = \"x\"\n",
		"scalar.yaml":  "hello\n",
		"number.lua":   "return 7",
		"wrongkey.yml": "rules: nope\n",
	}

	l := NewWithFS(files)
	for name := range files {
		t.Run(name, func(t *testing.T) {
			_, err := l.Load(name)
			assert.ErrorIs(t, err, rules.ErrRuleParse)
		})
	}
}

func TestNonObjectEntriesBecomeNilRecords(t *testing.T) {
	l := NewWithFS(memFS{
		"mixed.json": `[{"find": "teh", "replace": "the"}, "oops"]`,
		"mixed.lua":  `return { { find = "teh", replace = "the" }, 5 }`,
	})

	for _, name := range []string{"mixed.json", "mixed.lua"} {
		got, err := l.Load(name)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Nil(t, got[1])
	}
}

func TestLuaSandbox(t *testing.T) {
	l := NewWithFS(memFS{
		"io.lua":     `return io.open("/etc/passwd")`,
		"dofile.lua": `return dofile("/etc/passwd")`,
		"loop.lua":   `while true do end`,
	})

	for _, name := range []string{"io.lua", "dofile.lua", "loop.lua"} {
		_, err := l.Load(name)
		assert.ErrorIs(t, err, rules.ErrRuleParse, name)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instaplace.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"find": "teh", "replace": "the"}]`), 0o644))

	store := newStore()
	l := New()

	require.NoError(t, l.Reload(store, rules.KindSubstitution, path))
	assert.Equal(t, []rules.SubstitutionRule{{Find: "teh", Replace: "the"}}, store.Snapshot().Substitution)

	// A broken file keeps the previous rules.
	require.NoError(t, os.WriteFile(path, []byte(`[{"find": `), 0o644))
	err := l.Reload(store, rules.KindSubstitution, path)
	assert.ErrorIs(t, err, rules.ErrRuleParse)
	assert.Len(t, store.Snapshot().Substitution, 1)

	// A missing required field keeps the previous rules too.
	require.NoError(t, os.WriteFile(path, []byte(`[{"find": "x"}]`), 0o644))
	assert.Error(t, l.Reload(store, rules.KindSubstitution, path))
	assert.Len(t, store.Snapshot().Substitution, 1)

	// Deleting the file clears the rule set.
	require.NoError(t, os.Remove(path))
	require.NoError(t, l.Reload(store, rules.KindSubstitution, path))
	assert.Empty(t, store.Snapshot().Substitution)
}
