package course

import (
	_ "embed"
	"log/slog"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// DefaultCatalog returns the built-in starter catalog used to seed an
// empty store. Each call returns a fresh mapping.
func DefaultCatalog() map[string]Course {
	var courses map[string]Course
	if err := yaml.Unmarshal(catalogYAML, &courses); err != nil {
		// The catalog is compiled in; a parse failure is a packaging bug.
		slog.Error("embedded catalog is invalid", "error", err)
		return map[string]Course{}
	}
	return courses
}
