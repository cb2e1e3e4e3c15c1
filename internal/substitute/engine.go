// Package substitute implements live find/replace substitution and
// prefix suggestions for the word under the caret.
//
// Live substitution fires at most once per user keystroke. Every edit the
// engine emits carries a fresh ID; the host passes that ID back as the Cause
// of the change event the edit produces, and the engine ignores it. This
// stops a rule whose replacement is another rule's find text from chaining.
package substitute

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/metrics"
	"github.com/dshills/lintite/internal/rules"
)

// Event is a buffer change reported by the host.
type Event struct {
	// Text is the document after the change.
	Text string

	// Caret is the caret offset after the change.
	Caret int

	// Cause is the ID of the engine edit that produced the change, or
	// uuid.Nil for user input.
	Cause uuid.UUID
}

// Edit is a buffer edit issued by the engine.
type Edit struct {
	buffer.Edit

	// ID identifies the edit so its echo can be recognised.
	ID uuid.UUID
}

// Engine runs live substitution and completion. It is not safe for
// concurrent use.
type Engine struct {
	log     *logrus.Logger
	metrics *metrics.Metrics

	lastID uuid.UUID
	busy   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics records substitution metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates a substitution engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: logrus.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Substitute checks the word under the caret against the substitution rules
// in order. The first rule whose find text equals the word exactly fires and
// its edit is returned. Echo events of the engine's own edits and nested
// calls never fire.
func (e *Engine) Substitute(ev Event, snap *rules.Snapshot) (Edit, bool) {
	if e.busy {
		e.log.Warn("nested substitution rejected")
		return Edit{}, false
	}
	e.busy = true
	defer func() { e.busy = false }()

	if ev.Cause != uuid.Nil && ev.Cause == e.lastID {
		e.lastID = uuid.Nil
		e.metrics.RecordSuppressedEcho()
		return Edit{}, false
	}
	if snap == nil {
		return Edit{}, false
	}

	r, word := WordAt(ev.Text, ev.Caret)
	if word == "" {
		return Edit{}, false
	}

	for _, rule := range snap.Substitution {
		if rule.Find != word {
			continue
		}
		if rule.Replace == word {
			return Edit{}, false
		}

		edit := e.issue(buffer.NewEdit(r, rule.Replace))
		e.metrics.RecordSubstitution()
		e.log.WithFields(logrus.Fields{
			"find":    rule.Find,
			"replace": rule.Replace,
			"range":   r.String(),
			"id":      edit.ID.String(),
		}).Debug("substitution applied")
		return edit, true
	}
	return Edit{}, false
}

// Suggest returns the suggestions for the word under the caret together with
// the word's range.
func (e *Engine) Suggest(text string, caret int, snap *rules.Snapshot) (buffer.Range, Set) {
	r, word := WordAt(text, caret)
	set := Suggest(word, snap)
	e.metrics.ObserveSuggestions(len(set))
	return r, set
}

// Complete replaces the prefix typed before caret with completion. The
// prefix length is clamped to the start of the text.
func (e *Engine) Complete(text string, caret int, prefix, completion string) Edit {
	return e.issue(Completion(text, caret, prefix, completion))
}

func (e *Engine) issue(be buffer.Edit) Edit {
	id := uuid.New()
	e.lastID = id
	return Edit{Edit: be, ID: id}
}

// Completion builds the edit that replaces prefix before caret with
// completion.
func Completion(text string, caret int, prefix, completion string) buffer.Edit {
	n := len([]rune(text))
	caret = min(max(caret, 0), n)
	start := max(caret-len([]rune(prefix)), 0)
	return buffer.NewEdit(buffer.NewRange(start, caret), completion)
}
