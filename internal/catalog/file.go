package catalog

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"os"

	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/validate"
)

// LoadFile reads a JSON array of products exported from the catalog service.
func LoadFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "catalog snapshot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog snapshot")
	}
	return ParseSnapshot(raw)
}

// ParseSnapshot decodes and validates a JSON array of products.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog snapshot")
	}
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("catalog product %d", i))
		}
	}
	return NewSnapshot(products), nil
}
