package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/bracket"
	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/engine/stats"
	"github.com/dshills/lintite/internal/highlight"
	"github.com/dshills/lintite/internal/indent"
	"github.com/dshills/lintite/internal/metrics"
	"github.com/dshills/lintite/internal/rules"
	"github.com/dshills/lintite/internal/rules/loader"
	"github.com/dshills/lintite/internal/search"
	"github.com/dshills/lintite/internal/substitute"
)

// Re-export commonly used types for convenience.
type (
	// Range is a half-open rune range.
	Range = buffer.Range

	// Selection is the user's selection; Start == End is a caret.
	Selection = buffer.Selection

	// Edit is an edit description for the host to apply.
	Edit = buffer.Edit

	// Span is a colored run of a highlighted line.
	Span = highlight.Span

	// BracketState is the result of a bracket probe.
	BracketState = bracket.State

	// Suggestions is a deduplicated suggestion set.
	Suggestions = substitute.Set

	// Counts holds document statistics.
	Counts = stats.Counts
)

// Event is the host's view of the buffer at the time of a call.
type Event struct {
	// Text is the full document.
	Text string

	// Caret is the caret offset in runes.
	Caret int

	// Selection is the current selection. A zero selection with a non-zero
	// Caret is treated as a caret at Caret.
	Selection Selection

	// Cause is the ID of the engine edit that produced this change, or
	// uuid.Nil for user input.
	Cause uuid.UUID
}

// selection returns the effective selection of ev.
func (ev Event) selection() Selection {
	if ev.Selection == (Selection{}) {
		return buffer.Caret(ev.Caret)
	}
	return ev.Selection
}

// ChangeResult is the outcome of a buffer change event.
type ChangeResult struct {
	// Edit is the live substitution to apply when Substituted is true.
	Edit        substitute.Edit
	Substituted bool

	// Word is the range of the word under the caret.
	Word Range

	// Suggestions for Word; empty when suggestions are disabled or the
	// host should close its suggestion list.
	Suggestions Suggestions
}

// Engine is the editing-assist facade. It is not safe for concurrent use.
type Engine struct {
	store       *rules.Store
	loader      *loader.Loader
	highlighter *highlight.Highlighter
	brackets    *bracket.Matcher
	indenter    *indent.Indenter
	subst       *substitute.Engine

	log     *logrus.Logger
	metrics *metrics.Metrics

	// Configuration
	baseColor             rules.RGB
	cacheSize             int
	live                  bool
	suggestions           bool
	sentencesPerParagraph int
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:                   logrus.New(),
		loader:                loader.New(),
		baseColor:             rules.White,
		cacheSize:             DefaultCacheSize,
		live:                  true,
		suggestions:           true,
		sentencesPerParagraph: DefaultSentencesPerParagraph,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = rules.NewStore(rules.WithLogger(e.log), rules.WithMetrics(e.metrics))
	}
	e.highlighter = highlight.New(
		highlight.WithBaseColor(e.baseColor),
		highlight.WithCacheSize(e.cacheSize),
		highlight.WithLogger(e.log),
		highlight.WithMetrics(e.metrics),
	)
	e.brackets = bracket.New(e.metrics)
	e.indenter = indent.New(e.metrics)
	e.subst = substitute.New(substitute.WithLogger(e.log), substitute.WithMetrics(e.metrics))
	return e
}

// Store returns the rule store.
func (e *Engine) Store() *rules.Store {
	return e.store
}

// Snapshot returns the active rule snapshot.
func (e *Engine) Snapshot() *rules.Snapshot {
	return e.store.Snapshot()
}

// LoadHighlightRules replaces the highlight rules.
func (e *Engine) LoadHighlightRules(records []rules.Record) error {
	if err := e.store.LoadHighlightRules(records); err != nil {
		return err
	}
	e.highlighter.Purge()
	return nil
}

// LoadSubstitutionRules replaces the substitution rules.
func (e *Engine) LoadSubstitutionRules(records []rules.Record) error {
	return e.store.LoadSubstitutionRules(records)
}

// LoadHighlightFile loads highlight rules from a JSON, TOML, YAML or Lua
// file. A missing file clears the rules.
func (e *Engine) LoadHighlightFile(path string) error {
	return e.loadFile(rules.KindHighlight, path)
}

// LoadSubstitutionFile loads substitution rules from a file.
func (e *Engine) LoadSubstitutionFile(path string) error {
	return e.loadFile(rules.KindSubstitution, path)
}

func (e *Engine) loadFile(kind rules.Kind, path string) error {
	if e.loader == nil {
		return ErrNoLoader
	}
	if err := e.loader.Reload(e.store, kind, path); err != nil {
		return err
	}
	if kind == rules.KindHighlight {
		// Lines cached under the old version are never hit again.
		e.highlighter.Purge()
	}
	return nil
}

// SetLiveSubstitution toggles live substitution.
func (e *Engine) SetLiveSubstitution(enabled bool) {
	e.live = enabled
}

// SetSuggestions toggles suggestions.
func (e *Engine) SetSuggestions(enabled bool) {
	e.suggestions = enabled
}

// HighlightLine paints one line with the active rules.
func (e *Engine) HighlightLine(line string) []Span {
	return e.highlighter.HighlightLine(line, e.store.Snapshot())
}

// HighlightDocument paints every line of text, as after a rule reload.
func (e *Engine) HighlightDocument(text string) [][]Span {
	return e.highlighter.HighlightDocument(text, e.store.Snapshot())
}

// HighlightLines paints lines [from, to) of text, as after an edit.
func (e *Engine) HighlightLines(text string, from, to int) [][]Span {
	return e.highlighter.HighlightLines(text, from, to, e.store.Snapshot())
}

// CaretMoved probes the brackets around the new caret.
func (e *Engine) CaretMoved(ev Event) (BracketState, error) {
	return e.brackets.Update(ev.Text, ev.Caret)
}

// Changed handles a buffer change: it runs live substitution and collects
// suggestions for the word under the caret.
func (e *Engine) Changed(ev Event) (ChangeResult, error) {
	if err := buffer.NewText(ev.Text).ValidateOffset(ev.Caret); err != nil {
		return ChangeResult{}, err
	}

	snap := e.store.Snapshot()
	var res ChangeResult

	if e.live {
		res.Edit, res.Substituted = e.subst.Substitute(substitute.Event{
			Text:  ev.Text,
			Caret: ev.Caret,
			Cause: ev.Cause,
		}, snap)
	}

	if e.suggestions && !res.Substituted {
		res.Word, res.Suggestions = e.subst.Suggest(ev.Text, ev.Caret, snap)
	} else {
		res.Word, _ = substitute.WordAt(ev.Text, ev.Caret)
		res.Suggestions = Suggestions{}
	}
	return res, nil
}

// Indent indents the selection, or inserts a tab at a bare caret.
func (e *Engine) Indent(ev Event) (indent.Result, error) {
	return e.indenter.Transform(ev.Text, ev.selection(), indent.Indent)
}

// Dedent dedents the selected lines, or the caret's line when the caret is
// at its start.
func (e *Engine) Dedent(ev Event) (indent.Result, error) {
	return e.indenter.Transform(ev.Text, ev.selection(), indent.Dedent)
}

// Suggest returns suggestions for the word under the caret.
func (e *Engine) Suggest(ev Event) (Range, Suggestions, error) {
	if err := buffer.NewText(ev.Text).ValidateOffset(ev.Caret); err != nil {
		return Range{}, Suggestions{}, err
	}
	r, set := e.subst.Suggest(ev.Text, ev.Caret, e.store.Snapshot())
	return r, set, nil
}

// Complete replaces prefix before the caret with the chosen completion.
func (e *Engine) Complete(ev Event, prefix, completion string) (substitute.Edit, error) {
	if err := buffer.NewText(ev.Text).ValidateOffset(ev.Caret); err != nil {
		return substitute.Edit{}, err
	}
	return e.subst.Complete(ev.Text, ev.Caret, prefix, completion), nil
}

// FindNext finds query after the selection, wrapping around.
func (e *Engine) FindNext(ev Event, query string, caseSensitive bool) (Range, bool, error) {
	sel := ev.selection()
	if err := buffer.NewText(ev.Text).ValidateRange(sel.Range()); err != nil {
		return Range{}, false, err
	}
	r, ok := search.FindNext(ev.Text, query, sel.End, caseSensitive)
	return r, ok, nil
}

// ReplaceSelection replaces the selection when it equals query and finds the
// next occurrence.
func (e *Engine) ReplaceSelection(ev Event, query, replacement string, caseSensitive bool) (search.Replacement, error) {
	res, err := search.ReplaceSelection(ev.Text, ev.selection(), query, replacement, caseSensitive)
	if err != nil {
		return res, fmt.Errorf("replace: %w", err)
	}
	return res, nil
}

// ReplaceAll replaces every occurrence of query.
func (e *Engine) ReplaceAll(text, query, replacement string, caseSensitive bool) (string, int) {
	return search.ReplaceAll(text, query, replacement, caseSensitive)
}

// Stats counts the words, characters, sentences and paragraphs of text.
func (e *Engine) Stats(text string) Counts {
	return stats.Count(text, e.sentencesPerParagraph)
}
