// Package catalog provides common input loading for CLI commands.
package catalog

import (
	"io"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Load reads a catalog from path, or from stdin when path is "-".
func Load(path string, stdin io.Reader) (*catalogs.Catalog, error) {
	if path == "" {
		return nil, &errors.ValidationError{Field: "catalog", Message: "a catalog file is required"}
	}
	if path != Stdin {
		return catalogs.LoadFile(path)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.WrapIO("read", "stdin", err)
	}
	return catalogs.Parse(data, catalogs.DetectFormat("", data), "stdin")
}

// LoadDocument reads a prior plan from path, or from stdin when path is "-".
// An empty path means a fresh start and returns nil.
func LoadDocument(path string, stdin io.Reader) (*ssp.Document, error) {
	switch path {
	case "":
		return nil, nil
	case Stdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return ssp.Parse(data, catalogs.DetectFormat("", data), "stdin")
	default:
		return ssp.LoadFile(path)
	}
}
