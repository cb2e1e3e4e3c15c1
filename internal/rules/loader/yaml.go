package loader

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dshills/lintite/internal/rules"
)

// yamlLine extracts the line yaml.v3 puts in its syntax error messages.
var yamlLine = regexp.MustCompile(`^yaml: line (\d+):`)

// decodeYAML decodes a rule sequence or a mapping with a rules key.
func decodeYAML(path string, data []byte) ([]rules.Record, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(path, yamlErrorLine(err), 0, err)
	}
	return listOf(path, doc)
}

// yamlErrorLine returns the 1-based line of err, or 0 when it has none.
func yamlErrorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
