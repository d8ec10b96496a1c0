package question

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var importSchema []byte

// ParseImport validates a raw JSON question payload against the import
// schema and decodes it. Questions without an ID are assigned a fresh one.
func ParseImport(data []byte) ([]Question, error) {
	schema := gojsonschema.NewBytesLoader(importSchema)
	document := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return nil, fmt.Errorf("validate import payload: %w", err)
	}
	if !result.Valid() {
		// Report the first violation; the operator fixes and resubmits.
		desc := result.Errors()[0].String()
		return nil, fmt.Errorf("invalid import payload: %s", desc)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode import payload: %w", err)
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = "q-" + uuid.NewString()
		}
	}
	return questions, nil
}
