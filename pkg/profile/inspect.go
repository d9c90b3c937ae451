package profile

import (
	"gopkg.in/ini.v1"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

// Field is one key/value pair of a profile file.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Inspect parses profile content and returns its settings in file order.
// Comment lines, including the generated header, are skipped.
func Inspect(raw []byte) ([]Field, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:       true,
		UnescapeValueDoubleQuotes: true,
	}, raw)
	if err != nil {
		return nil, errors.WrapParse("ini", "profile", err)
	}

	section := file.Section(ini.DefaultSection)
	keys := section.Keys()
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k.Name(), Value: k.Value()})
	}
	return fields, nil
}

// Lookup returns the value of key in fields.
func Lookup(fields []Field, key string) (string, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}
