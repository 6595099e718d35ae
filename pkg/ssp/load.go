package ssp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

type envelope struct {
	SSP *Document `json:"system-security-plan"`
}

// Parse decodes a JSON or YAML document wrapped in the OSCAL
// "system-security-plan" root key.
func Parse(data []byte, format catalogs.Format, source string) (*Document, error) {
	if source == "" {
		source = "<memory>"
	}
	jsonData, err := catalogs.ToJSON(data, format)
	if err != nil {
		return nil, errors.WrapParse("yaml", source, err)
	}

	var env envelope
	if err := json.Unmarshal(jsonData, &env); err != nil {
		return nil, errors.WrapParse("json", source, err)
	}
	if env.SSP == nil {
		return nil, errors.NewValidationError(constants.SSPRootKey, nil,
			fmt.Sprintf("%s has no %q root", source, constants.SSPRootKey))
	}
	return env.SSP, nil
}

// LoadFile reads and parses a document file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, catalogs.DetectFormat(path, data), path)
}

// Marshal encodes the document under its root key.
func Marshal(doc *Document, format catalogs.Format) ([]byte, error) {
	data, err := json.MarshalIndent(envelope{SSP: doc}, "", "  ")
	if err != nil {
		return nil, errors.WrapResource("encode", "document", doc.UUID, err)
	}
	if format == catalogs.FormatYAML {
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, errors.WrapResource("encode", "document", doc.UUID, err)
		}
		return out, nil
	}
	return append(data, '\n'), nil
}

// SaveFile writes the document, choosing the encoding from the extension.
func SaveFile(doc *Document, path string) error {
	format := catalogs.FormatJSON
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = catalogs.FormatYAML
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
