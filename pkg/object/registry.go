package object

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry errors.
var (
	ErrNilObject         = errors.New("nil object")
	ErrEmptyObjectName   = errors.New("empty object name")
	ErrDuplicateObject   = errors.New("duplicate object")
	ErrObjectNotFound    = errors.New("object not found")
	ErrTableNotPublished = errors.New("interface table not published")
)

// Registry maps object identities to objects.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Object
	byID   map[uuid.UUID]*Object
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Object),
		byID:   make(map[uuid.UUID]*Object),
	}
}

// Add registers an object. Names and IDs must be unique.
func (r *Registry) Add(obj *Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if obj.Name() == "" {
		return ErrEmptyObjectName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[obj.Name()]; exists {
		return fmt.Errorf("%w: name %q", ErrDuplicateObject, obj.Name())
	}
	if _, exists := r.byID[obj.ID()]; exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateObject, obj.ID())
	}

	r.byName[obj.Name()] = obj
	r.byID[obj.ID()] = obj
	return nil
}

// Remove unregisters an object by name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, exists := r.byName[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	delete(r.byName, name)
	delete(r.byID, obj.ID())
	return nil
}

// Get returns an object by name.
func (r *Registry) Get(name string) (*Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	return obj, nil
}

// GetByID returns an object by ID.
func (r *Registry) GetByID(id uuid.UUID) (*Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", ErrObjectNotFound, id)
	}
	return obj, nil
}

// Lookup resolves the implementation of a table on a named object.
func (r *Registry) Lookup(objectName, table string) (any, error) {
	obj, err := r.Get(objectName)
	if err != nil {
		return nil, err
	}
	impl, ok := obj.Interface(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrTableNotPublished, table, objectName)
	}
	return impl, nil
}

// Objects returns all objects sorted by name.
func (r *Registry) Objects() []*Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Object, 0, len(r.byName))
	for _, obj := range r.byName {
		result = append(result, obj)
	}
	slices.SortFunc(result, func(a, b *Object) int { return strings.Compare(a.Name(), b.Name()) })
	return result
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// FindWithTable returns every object publishing the table, sorted by name.
func (r *Registry) FindWithTable(table string) []*Object {
	var result []*Object
	for _, obj := range r.Objects() {
		if obj.HasTable(table) {
			result = append(result, obj)
		}
	}
	return result
}
