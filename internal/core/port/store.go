package port

type Store interface {
	// Put persists data under a content-derived name with the given extension
	// and returns the name. Identical content maps to the same name, so
	// concurrent identical puts converge on one stored object.
	Put(data []byte, ext string) (string, error)

	// Get returns the stored bytes for a name, or domain.ErrNotFound.
	Get(name string) ([]byte, error)

	// GetVariant returns the cached width-scaled rendition for (name, width),
	// or domain.ErrNotFound if it has not been derived yet.
	GetVariant(name string, width int) ([]byte, error)

	// PutVariant persists a derived rendition keyed by (name, width).
	PutVariant(name string, width int, data []byte) error
}
