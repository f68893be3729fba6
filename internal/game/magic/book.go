package magic

import "fmt"

// Book tracks the spells one caster has learned. Entries always reference
// the registry; a book never holds a spell the registry does not know.
type Book struct {
	registry *Registry
	known    map[string]struct{} // normalized spell ID
}

// NewBook creates an empty spell book backed by the given registry.
//
// Precondition: registry != nil.
func NewBook(registry *Registry) *Book {
	if registry == nil {
		panic("magic: NewBook requires a registry")
	}
	return &Book{
		registry: registry,
		known:    make(map[string]struct{}),
	}
}

// Registry returns the registry backing this book.
func (b *Book) Registry() *Registry { return b.registry }

// Learn adds a spell to the book by ID or display name.
//
// Postcondition: on nil return the spell is known; learning an already
// known spell is a no-op.
func (b *Book) Learn(name string) (*Spell, error) {
	s, ok := b.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("magic: unknown spell %q", name)
	}
	b.known[normalizeName(s.ID)] = struct{}{}
	return s, nil
}

// Forget removes a spell from the book, reporting whether it was known.
func (b *Book) Forget(name string) bool {
	s, ok := b.registry.Get(name)
	if !ok {
		return false
	}
	id := normalizeName(s.ID)
	if _, known := b.known[id]; !known {
		return false
	}
	delete(b.known, id)
	return true
}

// Knows reports whether the book contains the spell.
func (b *Book) Knows(name string) bool {
	s, ok := b.registry.Get(name)
	if !ok {
		return false
	}
	_, known := b.known[normalizeName(s.ID)]
	return known
}

// Get returns a known spell by ID or display name. Spells in the registry
// but not in the book are not returned.
func (b *Book) Get(name string) (*Spell, bool) {
	s, ok := b.registry.Get(name)
	if !ok {
		return nil, false
	}
	if _, known := b.known[normalizeName(s.ID)]; !known {
		return nil, false
	}
	return s, true
}

// Known returns the learned spells in registry order.
func (b *Book) Known() []*Spell {
	var out []*Spell
	for _, s := range b.registry.All() {
		if _, known := b.known[normalizeName(s.ID)]; known {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of learned spells.
func (b *Book) Len() int {
	return len(b.known)
}
