package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/press-rouch/twitter-archive-parser/pkg/logger"
)

// Descriptor holds the discovered parameter sets for one logical query.
// Values are always false; the server only cares that the keys are present.
type Descriptor struct {
	Features  map[string]bool `json:"features"`
	Variables map[string]bool `json:"variables"`
}

// NewDescriptor creates an empty descriptor
func NewDescriptor() *Descriptor {
	return &Descriptor{
		Features:  make(map[string]bool),
		Variables: make(map[string]bool),
	}
}

// Store persists one descriptor file per logical query name
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed
func NewStore(dir string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create schema directory: %w", err)
	}
	return &Store{dir: dir, logger: log}, nil
}

// path returns the descriptor file path for a query name
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the descriptor for a query name. A missing file yields an
// empty descriptor: the adaptive retry loop will discover the fields.
func (s *Store) Load(name string) (*Descriptor, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return NewDescriptor(), nil
		}
		return nil, fmt.Errorf("failed to read descriptor for %s: %w", name, err)
	}

	desc := NewDescriptor()
	if err := json.Unmarshal(data, desc); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor for %s: %w", name, err)
	}
	if desc.Features == nil {
		desc.Features = make(map[string]bool)
	}
	if desc.Variables == nil {
		desc.Variables = make(map[string]bool)
	}
	return desc, nil
}

// Save writes the descriptor atomically via a temp file rename
func (s *Store) Save(name string, desc *Descriptor) error {
	path := s.path(name)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary descriptor file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(desc); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close descriptor file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace descriptor file: %w", err)
	}

	s.logger.DebugWithFields("query descriptor saved", map[string]interface{}{
		"query":     name,
		"variables": len(desc.Variables),
		"features":  len(desc.Features),
	})
	return nil
}
