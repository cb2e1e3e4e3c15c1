// Package rules holds the rule sets that drive highlighting and live
// substitution.
//
// A Store owns two ordered collections: highlight rules (a word and the
// color it is painted with) and substitution rules (a find/replace pair).
// The Word of every highlight rule also forms the lint vocabulary offered
// as completion candidates.
//
// Readers never see a partially loaded rule set. Every reload builds a new
// immutable Snapshot and publishes it with a single atomic pointer swap, so
// a highlighting or substitution pass that grabbed a Snapshot at its start
// keeps using it until it finishes, even if a file watcher reloads rules
// on another goroutine in the meantime.
//
// A reload whose records are malformed (a required field missing or of the
// wrong type) is rejected with a *ParseError and the previous snapshot stays
// active. Records that are well-formed but unusable, such as an empty word or
// an unknown color, are skipped and logged.
package rules
