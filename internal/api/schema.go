package api

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed articles.schema.json
var articlesSchemaJSON []byte

var loadArticlesSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(articlesSchemaJSON))
})

// validatePage checks a raw articles response against the embedded schema.
func validatePage(body []byte) error {
	schema, err := loadArticlesSchema()
	if err != nil {
		return fmt.Errorf("compiling articles schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
}
