// ABOUTME: Loads the hardware catalog from YAML or JSON documents
// ABOUTME: Unknown fields are rejected so typos in part data fail loudly

package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// ParseCatalog decodes a catalog document and validates it. JSON input is
// accepted since it is a subset of YAML.
func ParseCatalog(data []byte) (*models.Catalog, error) {
	var file models.CatalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: catalog document is empty", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: parse catalog: %v", models.ErrInvalidInput, err)
	}
	if len(file.Devices) == 0 {
		return nil, fmt.Errorf("%w: catalog has no devices", models.ErrInvalidInput)
	}
	return file.Build()
}

// LoadCatalogFile reads and validates a catalog from disk.
func LoadCatalogFile(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	s := catalog.Summary()
	slog.Info("Catalog loaded",
		"path", path,
		"version", s.Version,
		"controllers", s.Controllers,
		"modular_servers", s.ModularServers,
		"fixed_servers", s.FixedServers,
		"modules", s.Modules,
		"accessories", s.Accessories,
	)
	return catalog, nil
}
