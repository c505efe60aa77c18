package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/internalerr"
)

//go:embed featuremap_v1.csv
var featureMapV1 []byte

// DefaultVersion is the catalog version assumed when a filename carries none.
const DefaultVersion = "1"

// columnSetter applies one cell to the feature under construction.
type columnSetter func(b *feature.Builder, cell string) error

func textColumn(set func(*feature.Builder, string)) columnSetter {
	return func(b *feature.Builder, cell string) error {
		set(b, cell)
		return nil
	}
}

func boolColumn(set func(*feature.Builder, bool)) columnSetter {
	return func(b *feature.Builder, cell string) error {
		if cell == "" {
			return nil
		}
		v, err := strconv.ParseBool(cell)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", cell)
		}
		set(b, v)
		return nil
	}
}

// columns maps lower-cased header names to their setters.
var columns = map[string]columnSetter{
	"id": func(b *feature.Builder, cell string) error {
		id, err := strconv.Atoi(cell)
		if err != nil {
			return fmt.Errorf("id %q is not an integer", cell)
		}
		b.SetID(id)
		return nil
	},
	"group": func(b *feature.Builder, cell string) error {
		g, err := feature.ParseGroup(cell)
		if err != nil {
			return err
		}
		b.SetGroup(g)
		return nil
	},
	"feature":          textColumn((*feature.Builder).SetName),
	"value":            textColumn((*feature.Builder).SetValue),
	"type":             textColumn((*feature.Builder).SetType),
	"units":            textColumn((*feature.Builder).SetUnits),
	"description":      textColumn((*feature.Builder).SetDescription),
	"ossimnonorthocmd": textColumn((*feature.Builder).SetNonOrthoCmd),
	"ossimorthocmd":    textColumn((*feature.Builder).SetOrthoCmd),
	"cangenerate":      boolColumn((*feature.Builder).SetCanGenerate),
	"canorder":         boolColumn((*feature.Builder).SetCanOrder),
}

// Load reads a catalog from CSV. The header names the columns and must
// include id and group. Any malformed row fails the whole load; the returned
// catalog is locked.
func Load(r io.Reader, version string, opts ...Option) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: catalog %s is empty", internalerr.ErrInvalidCatalogRow, version)
		}
		return nil, fmt.Errorf("%w: reading header: %v", internalerr.ErrInvalidCatalogRow, err)
	}

	setters, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	c := New(version, opts...)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidCatalogRow, line, err)
		}
		if blank(record) {
			continue
		}
		f, err := buildRow(record, setters)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidCatalogRow, line, err)
		}
		if err := c.Add(f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := c.Lock(); err != nil {
		return nil, err
	}
	c.logger.Info("feature catalog loaded",
		zap.String("version", version),
		zap.Int("features", c.Len()),
	)
	return c, nil
}

// LoadFile reads a catalog from a CSV file on disk.
func LoadFile(path, version string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, version, opts...)
}

// LoadEmbedded reads the catalog compiled into the binary.
func LoadEmbedded(opts ...Option) (*Catalog, error) {
	return Load(bytes.NewReader(featureMapV1), DefaultVersion, opts...)
}

func resolveHeader(header []string) ([]columnSetter, error) {
	setters := make([]columnSetter, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		set, ok := columns[key]
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized column %q", internalerr.ErrInvalidCatalogRow, name)
		}
		setters[i] = set
		seen[key] = true
	}
	for _, required := range []string{"id", "group"} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: missing required column %q", internalerr.ErrInvalidCatalogRow, required)
		}
	}
	return setters, nil
}

func buildRow(record []string, setters []columnSetter) (*feature.Feature, error) {
	var b feature.Builder
	for i, cell := range record {
		if i >= len(setters) {
			break
		}
		if err := setters[i](&b, strings.TrimSpace(cell)); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
