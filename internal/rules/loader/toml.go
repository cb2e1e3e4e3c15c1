package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/lintite/internal/rules"
)

// decodeTOML decodes a document of [[rules]] tables.
func decodeTOML(path string, data []byte) ([]rules.Record, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, parseError(path, row, col, err)
		}
		return nil, parseError(path, 0, 0, err)
	}
	if len(doc) == 0 {
		return nil, nil
	}
	return listOf(path, doc)
}
