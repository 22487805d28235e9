// Package catalogs holds the reference catalog of certified box types.
//
// A catalog keeps box types in definition order. Labels are unique: when a
// source defines a label twice the first definition is kept and the label is
// recorded in Duplicates so callers can warn about it.
//
// Example:
//
//	cat, err := catalogs.LoadFile("boxes.yaml")
//	if err != nil {
//	    return err
//	}
//	selected, missing := cat.Select("B1", "B4")
//	box, ok := selected.Get("B1")
package catalogs

import (
	"slices"
	"sync"

	"github.com/agentstation/dimcheck/pkg/errors"
)

// Reader provides read-only access to box types.
type Reader interface {
	// Get returns a box type by label and whether it exists.
	Get(label string) (BoxType, bool)
	// List returns all box types in definition order.
	List() []BoxType
	// Labels returns all labels in definition order.
	Labels() []string
	// Len returns the number of box types.
	Len() int
}

// Writer provides write operations for box types.
type Writer interface {
	// Add inserts a box type, failing if the label already exists.
	Add(box BoxType) error
	// Delete removes a box type by label.
	Delete(label string) error
}

// MutableCatalog provides read-write access.
type MutableCatalog interface {
	Reader
	Writer
}

// Compile-time interface checks.
var _ MutableCatalog = (*Catalog)(nil)

// Catalog is a concurrent safe, ordered set of box types.
type Catalog struct {
	mu         sync.RWMutex
	order      []string
	boxes      map[string]BoxType
	duplicates []string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCapacity sets the initial capacity of the catalog.
func WithCapacity(capacity int) Option {
	return func(c *Catalog) {
		c.order = make([]string, 0, capacity)
		c.boxes = make(map[string]BoxType, capacity)
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{boxes: make(map[string]BoxType)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromBoxes builds a catalog keeping the first definition of each label.
// Later definitions are recorded in Duplicates. Invalid box types fail.
func FromBoxes(boxes []BoxType) (*Catalog, error) {
	c := New(WithCapacity(len(boxes)))
	for _, b := range boxes {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.boxes[b.Label]; exists {
			c.duplicates = append(c.duplicates, b.Label)
			continue
		}
		c.order = append(c.order, b.Label)
		c.boxes[b.Label] = b
	}
	return c, nil
}

// Get returns a box type by label and whether it exists.
func (c *Catalog) Get(label string) (BoxType, bool) {
	c.mu.RLock()
	b, ok := c.boxes[label]
	c.mu.RUnlock()
	return b, ok
}

// Find returns a box type by label or a NotFoundError.
func (c *Catalog) Find(label string) (BoxType, error) {
	if b, ok := c.Get(label); ok {
		return b, nil
	}
	return BoxType{}, errors.NewNotFoundError("box type", label)
}

// List returns all box types in definition order.
func (c *Catalog) List() []BoxType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]BoxType, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, c.boxes[label])
	}
	return out
}

// Labels returns all labels in definition order.
func (c *Catalog) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Len returns the number of box types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Duplicates returns labels that were defined more than once at load time.
func (c *Catalog) Duplicates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.duplicates)
}

// Add inserts a box type, returning an error if the label already exists.
func (c *Catalog) Add(box BoxType) error {
	if err := box.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.boxes[box.Label]; exists {
		return &errors.ValidationError{
			Field:   "box.label",
			Value:   box.Label,
			Message: "already exists",
			Err:     errors.ErrAlreadyExists,
		}
	}
	c.order = append(c.order, box.Label)
	c.boxes[box.Label] = box
	return nil
}

// Delete removes a box type by label.
func (c *Catalog) Delete(label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.boxes[label]; !exists {
		return errors.NewNotFoundError("box type", label)
	}
	delete(c.boxes, label)
	c.order = slices.DeleteFunc(c.order, func(l string) bool { return l == label })
	return nil
}

// Select returns a read-only snapshot holding only the requested labels,
// in catalog order, plus the requested labels the catalog does not define.
// Selecting nothing returns the whole catalog.
func (c *Catalog) Select(labels ...string) (Reader, []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(labels) == 0 {
		return NewReadOnly(c.snapshot(c.order)), nil
	}

	want := make(map[string]bool, len(labels))
	var missing []string
	for _, l := range labels {
		if want[l] {
			continue
		}
		want[l] = true
		if _, ok := c.boxes[l]; !ok {
			missing = append(missing, l)
		}
	}

	keep := make([]string, 0, len(labels))
	for _, l := range c.order {
		if want[l] {
			keep = append(keep, l)
		}
	}
	return NewReadOnly(c.snapshot(keep)), missing
}

// snapshot copies the given labels into a new catalog. Callers hold the lock.
func (c *Catalog) snapshot(labels []string) *Catalog {
	out := New(WithCapacity(len(labels)))
	for _, l := range labels {
		out.order = append(out.order, l)
		out.boxes[l] = c.boxes[l]
	}
	return out
}
