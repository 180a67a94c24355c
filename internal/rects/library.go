package rects

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Library is the ordered set of collections available to the editor.
// It is not safe for concurrent mutation.
type Library struct {
	collections []*Collection
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

// Len returns the number of collections.
func (l *Library) Len() int { return len(l.collections) }

// Collections returns the collections in order.
func (l *Library) Collections() []*Collection { return l.collections }

// Get returns the collection at idx.
func (l *Library) Get(idx int) (*Collection, error) {
	if idx < 0 || idx >= len(l.collections) {
		return nil, fmt.Errorf("collection %d of %d: %w", idx, len(l.collections), ErrIndexOutOfRange)
	}
	return l.collections[idx], nil
}

// FindByName returns the first collection called name and its index, or
// nil and -1.
func (l *Library) FindByName(name string) (*Collection, int) {
	for i, c := range l.collections {
		if c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// FindByID returns the collection with the given ID and its index, or nil
// and -1.
func (l *Library) FindByID(id string) (*Collection, int) {
	for i, c := range l.collections {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

// Add returns the collection called name, creating it if needed. The stored
// path is always updated.
func (l *Library) Add(name, path string) *Collection {
	if c, _ := l.FindByName(name); c != nil {
		c.Path = path
		return c
	}
	c := NewCollection(name, path)
	l.collections = append(l.collections, c)
	return c
}

// Remove deletes the collection at idx.
func (l *Library) Remove(idx int) error {
	if _, err := l.Get(idx); err != nil {
		return err
	}
	l.collections = append(l.collections[:idx], l.collections[idx+1:]...)
	return nil
}

type libraryFile struct {
	Collections []*Collection `yaml:"collections"`
}

// MarshalYAML implements yaml.Marshaler.
func (l *Library) MarshalYAML() (interface{}, error) {
	return libraryFile{Collections: l.collections}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Library) UnmarshalYAML(value *yaml.Node) error {
	var f libraryFile
	if err := value.Decode(&f); err != nil {
		return err
	}
	l.collections = f.Collections
	return nil
}

// SaveLibrary writes the library as YAML, creating parent directories.
func SaveLibrary(path string, l *Library) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a library written by SaveLibrary. Pattern entries are
// re-resolved against the loaded rects.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	l := NewLibrary()
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parsing library %s: %w", path, err)
	}
	for _, c := range l.collections {
		c.ResolvePatterns()
	}
	return l, nil
}
