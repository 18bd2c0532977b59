// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package spectral provides the catalog of
// spectral indices (NDVI, EVI, NBR, ...) and
// builds a WCPS expression for each of them
// from caller-supplied band operands.
package spectral

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rasdaman/wcps/expr"
	"github.com/rasdaman/wcps/expr/formula"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"
)

//go:embed indices.yaml
var builtin []byte

// ErrMissingBand is returned by Build when
// an operand for one of the index bands
// was not supplied.
var ErrMissingBand = errors.New("missing band")

// Index describes one spectral index.
type Index struct {
	ShortName   string   `json:"short_name"`
	LongName    string   `json:"long_name"`
	Bands       []string `json:"bands"`
	Formula     string   `json:"formula"`
	Platforms   []string `json:"platforms"`
	Reference   string   `json:"reference"`
	Contributor string   `json:"contributor"`

	// set only by catalogs loaded from upstream
	Domain string `json:"application_domain,omitempty"`
	Added  string `json:"date_of_addition,omitempty"`
}

// Build returns the index formula with
// each band symbol replaced by its operand
// in bands. Extra entries in bands are ignored.
func (i *Index) Build(bands map[string]any) (expr.Node, error) {
	env := make(formula.Env, len(i.Bands))
	var missing []string
	for _, b := range i.Bands {
		v, ok := bands[b]
		if !ok || v == nil {
			missing = append(missing, b)
			continue
		}
		env[b] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w %s", i.ShortName, ErrMissingBand, strings.Join(missing, ", "))
	}
	n, err := formula.Parse(i.Formula, env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i.ShortName, err)
	}
	return n, nil
}

// Catalog is a set of indices keyed by short name.
type Catalog struct {
	indices map[string]*Index
}

type document struct {
	SpectralIndices map[string]*Index `json:"SpectralIndices"`
}

// Load reads a catalog in the upstream
// spectral-indices-dict format, either JSON
// or YAML, and checks every formula.
func Load(r io.Reader) (*Catalog, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(buf)
}

func parse(buf []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("spectral: decoding catalog: %w", err)
	}
	if len(doc.SpectralIndices) == 0 {
		return nil, fmt.Errorf("spectral: catalog has no indices")
	}
	for name, idx := range doc.SpectralIndices {
		if idx == nil {
			return nil, fmt.Errorf("spectral: index %s is empty", name)
		}
		if idx.ShortName == "" {
			idx.ShortName = name
		}
		idents, err := formula.Idents(idx.Formula)
		if err != nil {
			return nil, fmt.Errorf("spectral: index %s: %w", name, err)
		}
		for _, id := range idents {
			if !slices.Contains(idx.Bands, id) {
				return nil, fmt.Errorf("spectral: index %s: formula uses %q which is not a listed band", name, id)
			}
		}
	}
	return &Catalog{indices: doc.SpectralIndices}, nil
}

// Lookup returns the index with the given
// short name. The match is case-sensitive
// since several names differ only in case.
func (c *Catalog) Lookup(name string) (*Index, bool) {
	idx, ok := c.indices[name]
	return idx, ok
}

// Names returns the sorted short names
// of every index in the catalog.
func (c *Catalog) Names() []string {
	names := maps.Keys(c.indices)
	slices.Sort(names)
	return names
}

// Len returns the number of indices.
func (c *Catalog) Len() int { return len(c.indices) }

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := parse(builtin)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the index with the given
// short name from the embedded catalog.
func Lookup(name string) (*Index, bool) { return Default().Lookup(name) }

// Names returns the sorted short names
// of the embedded catalog.
func Names() []string { return Default().Names() }

// Build looks up the index called name
// in the embedded catalog and builds it.
func Build(name string, bands map[string]any) (expr.Node, error) {
	idx, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("spectral: unknown index %q", name)
	}
	return idx.Build(bands)
}
