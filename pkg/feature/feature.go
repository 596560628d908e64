package feature

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"gopkg.in/yaml.v3"
)

// Definition describes a feature.
type Definition struct {
	Name         string `yaml:"name" json:"name"`
	DefaultValue string `yaml:"default" json:"default_value"`
	DisplayName  string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
}

// NameValue is a feature name with its value.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Manager holds the feature definitions. It is immutable after creation.
type Manager struct {
	defs  []Definition
	index map[string]int
}

// NewManager creates a Manager. Names must be non-empty and unique.
func NewManager(defs ...Definition) (*Manager, error) {
	m := &Manager{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, errors.Join(ErrInvalidDefinition, errors.New("feature name cannot be empty"))
		}
		if _, ok := m.index[d.Name]; ok {
			return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("duplicate feature %q", d.Name))
		}
		m.index[d.Name] = len(m.defs)
		m.defs = append(m.defs, d)
	}
	return m, nil
}

// Get returns the named definition.
func (m *Manager) Get(name string) (Definition, bool) {
	i, ok := m.index[name]
	if !ok {
		return Definition{}, false
	}
	return m.defs[i], true
}

// All returns every definition in definition order.
func (m *Manager) All() []Definition {
	return slices.Clone(m.defs)
}

type definitionFile struct {
	Features []Definition `yaml:"features"`
}

// LoadDefinitions parses a YAML document with a top-level "features" list.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var file definitionFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Join(ErrInvalidDefinitionFile, err)
	}
	return file.Features, nil
}

// LoadDefinitionsFile parses the named YAML file of fsys.
func LoadDefinitionsFile(fsys fs.FS, name string) ([]Definition, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Join(ErrInvalidDefinitionFile, err)
	}
	defer f.Close()
	return LoadDefinitions(f)
}
