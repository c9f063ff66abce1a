package catalog

import "sync/atomic"

// Store holds the current Catalog. Readers get a consistent snapshot; a
// reload swaps the whole Catalog at once.
type Store struct {
	cur atomic.Pointer[Catalog]
}

// Current returns the loaded catalog, or nil before the first load.
func (s *Store) Current() *Catalog {
	return s.cur.Load()
}

// Swap installs c and returns the previous catalog.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.cur.Swap(c)
}
