package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goliatone/go-cms-workflow/internal/validation"
)

//go:embed definitions.schema.json
var definitionsSchema []byte

var definitionsValidator = validation.MustCompile("definitions.schema.json", definitionsSchema)

// Definitions is the file form of the doc and widget managers.
type Definitions struct {
	Docs    []DocManager    `json:"docs,omitempty"`
	Widgets []WidgetManager `json:"widgets,omitempty"`
}

// ParseDefinitions validates raw JSON definitions and decodes them.
func ParseDefinitions(raw []byte) (Definitions, error) {
	if err := definitionsValidator.Validate(raw); err != nil {
		return Definitions{}, fmt.Errorf("schema: invalid definitions: %w", err)
	}
	var defs Definitions
	if err := json.Unmarshal(raw, &defs); err != nil {
		return Definitions{}, fmt.Errorf("schema: decode definitions: %w", err)
	}
	return defs, nil
}

// LoadDefinitionsFile reads and parses a definitions file.
func LoadDefinitionsFile(path string) (Definitions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Definitions{}, fmt.Errorf("schema: read definitions %s: %w", path, err)
	}
	return ParseDefinitions(raw)
}

// Register adds every definition to registry.
func (d Definitions) Register(registry *Registry) {
	if registry == nil {
		return
	}
	for _, doc := range d.Docs {
		registry.RegisterDoc(doc)
	}
	for _, widget := range d.Widgets {
		registry.RegisterWidget(widget)
	}
}
