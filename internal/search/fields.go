package search

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

//go:embed fields.toml
var fieldsTOML []byte

// Field describes one scalar filter the articles endpoint understands.
type Field struct {
	Key         string `toml:"key"`
	Label       string `toml:"label"`
	Placeholder string `toml:"placeholder"`
	Rule        string `toml:"rule"`
}

type fieldTable struct {
	Fields []Field `toml:"field"`
}

var fieldList, fieldIndex = mustLoadFields()

func loadFields(data []byte) ([]Field, map[string]Field, error) {
	var table fieldTable
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, nil, fmt.Errorf("parsing fields.toml: %w", err)
	}

	index := make(map[string]Field, len(table.Fields))
	for _, f := range table.Fields {
		if f.Key == "" {
			return nil, nil, fmt.Errorf("field %q has no key", f.Label)
		}
		if f.Key == "authors" || f.Key == "tags" || f.Key == "page_num" || f.Key == "page_size" {
			return nil, nil, fmt.Errorf("field key %q is reserved", f.Key)
		}
		if _, dup := index[f.Key]; dup {
			return nil, nil, fmt.Errorf("duplicate field key %q", f.Key)
		}
		index[f.Key] = f
	}
	return table.Fields, index, nil
}

func mustLoadFields() ([]Field, map[string]Field) {
	list, index, err := loadFields(fieldsTOML)
	if err != nil {
		panic(err)
	}
	return list, index
}

// Fields returns the recognized filter fields in form order.
func Fields() []Field {
	out := make([]Field, len(fieldList))
	copy(out, fieldList)
	return out
}

// LookupField returns the field registered under key.
func LookupField(key string) (Field, bool) {
	f, ok := fieldIndex[key]
	return f, ok
}
