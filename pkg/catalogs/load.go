package catalogs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

//go:embed schema/catalog.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "https://oscal-reports.io/schema/catalog.schema.json"

// Format is a document encoding.
type Format string

const (
	// FormatJSON is OSCAL JSON.
	FormatJSON Format = "json"
	// FormatYAML is OSCAL YAML.
	FormatYAML Format = "yaml"
)

// DetectFormat picks the encoding from the file extension, falling back to
// sniffing the first non-space byte.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ToJSON returns data as JSON, converting from YAML when needed.
func ToJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	return yaml.YAMLToJSON(data)
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	return c.Compile(catalogSchemaURL)
})

// Parse decodes a JSON or YAML catalog wrapped in the OSCAL "catalog" root key
// and validates its structure. Any failure is a MalformedCatalogError.
// source names the input in error messages.
func Parse(data []byte, format Format, source string) (*Catalog, error) {
	if source == "" {
		source = "<memory>"
	}

	jsonData, err := ToJSON(data, format)
	if err != nil {
		return nil, errors.NewMalformedCatalogError(source, "invalid YAML", errors.WrapParse("yaml", source, err))
	}

	var raw any
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, errors.NewMalformedCatalogError(source, "invalid JSON", errors.WrapParse("json", source, err))
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		merr := errors.NewMalformedCatalogError(source, "schema validation failed", err)
		merr.Details = schemaProblems(err)
		return nil, merr
	}

	var wrapper struct {
		Catalog *Catalog `json:"catalog"`
	}
	if err := json.Unmarshal(jsonData, &wrapper); err != nil {
		return nil, errors.NewMalformedCatalogError(source, "cannot decode catalog", err)
	}
	if wrapper.Catalog == nil {
		return nil, errors.NewMalformedCatalogError(source, fmt.Sprintf("missing %q root", constants.CatalogRootKey), nil)
	}
	return wrapper.Catalog, nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, DetectFormat(path, data), path)
}

// Marshal encodes the catalog under its root key.
func Marshal(cat *Catalog, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]*Catalog{constants.CatalogRootKey: cat}, "", "  ")
	if err != nil {
		return nil, errors.WrapResource("encode", "catalog", cat.UUID, err)
	}
	if format == FormatYAML {
		return yaml.JSONToYAML(data)
	}
	return data, nil
}

// schemaProblems flattens a validation error tree into leaf messages.
func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
