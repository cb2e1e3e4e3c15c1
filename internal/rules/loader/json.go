package loader

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/dshills/lintite/internal/rules"
)

var errInvalidJSON = errors.New("invalid JSON")

// decodeJSON decodes the linting.json / instaplace.json layout.
func decodeJSON(path string, data []byte) ([]rules.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseError(path, 0, 0, errInvalidJSON)
	}

	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		list := doc.Get("rules")
		if !list.Exists() {
			return nil, shapeError(path, "an object without \"rules\"")
		}
		doc = list
	}
	if !doc.IsArray() {
		return nil, shapeError(path, doc.Type.String())
	}

	items := doc.Array()
	out := make([]rules.Record, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			out = append(out, nil)
			continue
		}
		m, _ := item.Value().(map[string]any)
		out = append(out, rules.Record(m))
	}
	return out, nil
}
