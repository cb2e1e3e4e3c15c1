package indent

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/metrics"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		sel     buffer.Selection
		dir     Direction
		want    string
		wantSel buffer.Selection
	}{
		{
			name:    "caret indent inserts tab",
			text:    "abc",
			sel:     buffer.Caret(1),
			dir:     Indent,
			want:    "a\tbc",
			wantSel: buffer.Caret(2),
		},
		{
			name:    "caret dedent at line start",
			text:    "x\n\tabc",
			sel:     buffer.Caret(2),
			dir:     Dedent,
			want:    "x\nabc",
			wantSel: buffer.Caret(2),
		},
		{
			name:    "caret dedent inside line is a no-op",
			text:    "\tabc",
			sel:     buffer.Caret(2),
			dir:     Dedent,
			want:    "\tabc",
			wantSel: buffer.Caret(2),
		},
		{
			name:    "caret dedent removes four spaces",
			text:    "      abc",
			sel:     buffer.Caret(0),
			dir:     Dedent,
			want:    "  abc",
			wantSel: buffer.Caret(0),
		},
		{
			name:    "line starting at selection end is excluded",
			text:    "line1\nline2\n",
			sel:     buffer.NewSelection(0, 6),
			dir:     Indent,
			want:    "\tline1\nline2\n",
			wantSel: buffer.NewSelection(0, 6),
		},
		{
			name:    "partial lines are fully shifted",
			text:    "ab\ncd\nef",
			sel:     buffer.NewSelection(1, 4),
			dir:     Indent,
			want:    "\tab\n\tcd\nef",
			wantSel: buffer.NewSelection(0, 7),
		},
		{
			name:    "empty lines are indented too",
			text:    "a\n\nb",
			sel:     buffer.NewSelection(0, 4),
			dir:     Indent,
			want:    "\ta\n\t\n\tb",
			wantSel: buffer.NewSelection(0, 7),
		},
		{
			name:    "dedent mixes tabs and spaces",
			text:    "\ta\n    b\n  c\nd",
			sel:     buffer.NewSelection(0, 14),
			dir:     Dedent,
			want:    "a\nb\n  c\nd",
			wantSel: buffer.NewSelection(0, 9),
		},
		{
			name:    "dedent with nothing to remove",
			text:    "a\nb",
			sel:     buffer.NewSelection(0, 3),
			dir:     Dedent,
			want:    "a\nb",
			wantSel: buffer.NewSelection(0, 3),
		},
		{
			name:    "crlf terminators are kept",
			text:    "a\r\nb\r\n",
			sel:     buffer.NewSelection(0, 5),
			dir:     Indent,
			want:    "\ta\r\n\tb\r\n",
			wantSel: buffer.NewSelection(0, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transform(tt.text, tt.sel, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.wantSel, got.Selection)
			assert.Equal(t, tt.want != tt.text, got.Changed())
		})
	}
}

func TestTransformEditMatchesText(t *testing.T) {
	text := "one\ntwo\nthree"
	res, err := Transform(text, buffer.NewSelection(2, 9), Indent)
	require.NoError(t, err)

	next, err := buffer.NewText(text).Apply(res.Edit)
	require.NoError(t, err)
	assert.Equal(t, res.Text, next.String())
	assert.Equal(t, buffer.NewRange(0, 13), res.Edit.Range, "one edit spans the whole block")
}

func TestIndentDedentRoundTrip(t *testing.T) {
	texts := []string{
		"a\nb\n",
		"func f() {\n\treturn\n}",
		"    spaced\n\ttabbed\n",
		"x",
	}

	for _, text := range texts {
		sel := buffer.NewSelection(0, len([]rune(text)))
		in, err := Transform(text, sel, Indent)
		require.NoError(t, err)

		out, err := Transform(in.Text, in.Selection, Dedent)
		require.NoError(t, err)
		assert.Equal(t, text, out.Text)
	}
}

func TestTransformKeepsInvalidBytes(t *testing.T) {
	res, err := Transform("a\nb\xff\n", buffer.Caret(0), Indent)
	require.NoError(t, err)
	assert.Equal(t, "\ta\nb\xff\n", res.Text)

	res, err = Transform("\ta\n\tb\xff\n", buffer.NewSelection(0, 6), Dedent)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\xff\n", res.Text)
	assert.Equal(t, buffer.NewSelection(0, 4), res.Selection)
}

func TestTransformInvalidRange(t *testing.T) {
	for _, sel := range []buffer.Selection{{Start: -1, End: 0}, {Start: 0, End: 9}, {Start: 2, End: 1}} {
		res, err := Transform("abc", sel, Indent)
		assert.ErrorIs(t, err, buffer.ErrInvalidRange)
		assert.Equal(t, "abc", res.Text)
	}
}

func TestIndenterMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	in := New(m)

	_, err := in.Transform("a", buffer.Caret(0), Indent)
	require.NoError(t, err)
	_, err = in.Transform("a", buffer.Caret(0), Dedent)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndentEditsTotal.WithLabelValues("indent")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.IndentEditsTotal.WithLabelValues("dedent")))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "indent", Indent.String())
	assert.Equal(t, "dedent", Dedent.String())
	assert.Equal(t, "unknown", Direction(7).String())
}
