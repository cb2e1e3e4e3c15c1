// Package engine provides the editing-assist engine for lintite.
//
// The engine package is the host-facing facade. It combines the rule store,
// lexical highlighting, bracket matching, block indentation, live
// substitution with suggestions, find/replace and document statistics into
// one API driven by explicit per-event calls.
//
// # Architecture
//
// The engine is built on several packages:
//
//   - buffer: immutable text snapshot, rune offsets, ranges and edits
//   - rules: versioned rule snapshots swapped atomically on reload
//   - highlight: word/color painting with an LRU line cache
//   - bracket: bracket pair probing around the caret
//   - indent: caret and block indent/dedent
//   - substitute: word under caret, suggestions and live substitution
//   - search: find next, replace selection, replace all
//   - stats: word, character and paragraph counters
//
// # Events
//
// The host owns the buffer. Every call receives an Event carrying the
// current text, caret and selection, and returns results or edit
// descriptions. The engine keeps no reference to the text between calls:
//
//	e := engine.New()
//	_ = e.LoadSubstitutionRules([]rules.Record{{"find": "teh", "replace": "the"}})
//
//	res, _ := e.Changed(engine.Event{Text: "say teh", Caret: 7})
//	if res.Substituted {
//		// apply res.Edit, then report the resulting change with
//		// Cause set to res.Edit.ID
//	}
//
// # Thread Safety
//
// An Engine is not safe for concurrent use; a multi-threaded host must
// serialise calls. Rule reloads may happen concurrently from a watcher
// goroutine: each pass reads one rule snapshot at its start.
package engine
