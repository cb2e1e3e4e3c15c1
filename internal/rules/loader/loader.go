// Package loader decodes rule sources into records for the rule store.
//
// The format is chosen by file extension:
//
//	.json        top-level array, or an object with a "rules" array
//	.toml        [[rules]] array of tables
//	.yaml, .yml  top-level sequence, or a mapping with a "rules" sequence
//	.lua         chunk returning an array table, or a table with a "rules" field
//
// A missing file is not an error: it decodes to an empty record list, which
// clears the corresponding rule set.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/lintite/internal/rules"
)

// ErrUnsupportedFormat indicates a rule file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported rule file format")

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// decoder turns file content into records.
type decoder func(path string, data []byte) ([]rules.Record, error)

// Loader reads rule files.
type Loader struct {
	fs FileSystem
}

// New creates a loader reading from the OS file system.
func New() *Loader {
	return &Loader{fs: DefaultFS()}
}

// NewWithFS creates a loader with a custom file system.
func NewWithFS(fsys FileSystem) *Loader {
	return &Loader{fs: fsys}
}

// Supported reports whether path has a recognised rule file extension.
func Supported(path string) bool {
	_, err := decoderFor(path)
	return err == nil
}

// decoderFor picks the decoder for path's extension.
func decoderFor(path string) (decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON, nil
	case ".toml":
		return decodeTOML, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	case ".lua":
		return decodeLua, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads and decodes the rule file at path.
func (l *Loader) Load(path string) ([]rules.Record, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	return decode(path, data)
}

// Reload decodes path and loads the records into store as kind.
// On any failure the store keeps its previous snapshot.
func (l *Loader) Reload(store *rules.Store, kind rules.Kind, path string) error {
	records, err := l.Load(path)
	if err != nil {
		return store.Reject(kind, path, err)
	}
	return store.Load(kind, path, records)
}

// parseError builds a source-level ParseError.
func parseError(path string, line, column int, err error) *rules.ParseError {
	return &rules.ParseError{
		Path:    path,
		Line:    line,
		Column:  column,
		Index:   -1,
		Message: err.Error(),
		Err:     err,
	}
}

// shapeError reports a source whose top level is not a rule list.
func shapeError(path string, got string) *rules.ParseError {
	return &rules.ParseError{
		Path:    path,
		Index:   -1,
		Message: fmt.Sprintf("expected a list of rules or a \"rules\" list, got %s", got),
	}
}

// toRecords converts decoded list elements to records.
// Non-map elements become nil records, which the store rejects.
func toRecords(items []any) []rules.Record {
	out := make([]rules.Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, rules.Record(m))
	}
	return out
}

// listOf extracts the rule list from a decoded document.
func listOf(path string, doc any) ([]rules.Record, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return toRecords(v), nil
	case map[string]any:
		inner, ok := v["rules"]
		if !ok {
			return nil, shapeError(path, "a table without \"rules\"")
		}
		items, ok := inner.([]any)
		if !ok {
			return nil, shapeError(path, fmt.Sprintf("\"rules\" of type %T", inner))
		}
		return toRecords(items), nil
	}
	return nil, shapeError(path, fmt.Sprintf("%T", doc))
}
