package mockapi

import (
	"bytes"
	"errors"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/five82/tally/internal/customer"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Customers []customer.Customer `yaml:"customers"`
}

// DefaultSeed returns the built-in dataset.
func DefaultSeed() ([]customer.Customer, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeedFile reads a seed document from path.
func LoadSeedFile(path string) ([]customer.Customer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadSeed(file)
}

// LoadSeed decodes a seed document. Every record needs a unique id and a
// known status.
func LoadSeed(r io.Reader) ([]customer.Customer, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Customers))
	for i, c := range doc.Customers {
		if c.ID == "" {
			return nil, fmt.Errorf("seed record %d: missing id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("seed record %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}
		if !c.Status.Valid() {
			return nil, fmt.Errorf("seed record %s: unknown status %q", c.ID, c.Status)
		}
	}
	if doc.Customers == nil {
		doc.Customers = []customer.Customer{}
	}
	return doc.Customers, nil
}
