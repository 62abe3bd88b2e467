// Package dsl loads graph definitions from YAML files.
//
// A graph file looks like:
//
//	name: code-review
//	entrypoint: extract
//	nodes:
//	  extract:
//	    tool: extract_functions
//	edges:
//	  extract:
//	    next: complexity
//
// Decoding is strict: unknown keys are rejected so a typo in a routing
// field fails loudly instead of silently changing the graph shape.
package dsl

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sluice/pkg/domain"
)

// GraphFile is the on-disk shape of a graph definition.
type GraphFile struct {
	Name       string                       `mapstructure:"name"`
	Entrypoint string                       `mapstructure:"entrypoint"`
	Nodes      map[string]domain.NodeConfig `mapstructure:"nodes"`
	Edges      map[string]domain.EdgeConfig `mapstructure:"edges"`
}

// Load reads and parses a graph definition file.
func Load(path string) (*GraphFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML graph definition.
func Parse(data []byte) (*GraphFile, error) {
	// Unmarshal generically first, then decode strictly so unused keys
	// surface as errors (yaml.v3 alone would drop them).
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var gf GraphFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &gf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid graph definition: %w", err)
	}

	if gf.Entrypoint == "" {
		return nil, fmt.Errorf("graph definition missing entrypoint")
	}
	if len(gf.Nodes) == 0 {
		return nil, fmt.Errorf("graph definition has no nodes")
	}
	return &gf, nil
}

// Graph assembles a fresh domain graph from the definition.
// Each call mints a new identity.
func (gf *GraphFile) Graph() (*domain.Graph, error) {
	return domain.NewGraph(gf.Nodes, gf.Edges, gf.Entrypoint)
}
