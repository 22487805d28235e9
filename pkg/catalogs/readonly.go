package catalogs

import "github.com/agentstation/dimcheck/pkg/errors"

// NewReadOnly wraps a reader so that write operations fail with ErrReadOnly.
//
// Example:
//
//	ro := catalogs.NewReadOnly(cat)
//	err := ro.(catalogs.Writer).Add(box) // errors.ErrReadOnly
func NewReadOnly(source Reader) MutableCatalog {
	return &readonly{source: source}
}

var _ MutableCatalog = (*readonly)(nil)

type readonly struct {
	source Reader
}

func (r *readonly) Get(label string) (BoxType, bool) { return r.source.Get(label) }

func (r *readonly) List() []BoxType { return r.source.List() }

func (r *readonly) Labels() []string { return r.source.Labels() }

func (r *readonly) Len() int { return r.source.Len() }

func (r *readonly) Add(_ BoxType) error { return errors.ErrReadOnly }

func (r *readonly) Delete(_ string) error { return errors.ErrReadOnly }
