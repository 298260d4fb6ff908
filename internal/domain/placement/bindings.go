package placement

import (
	"time"

	"github.com/google/uuid"
)

// Binding is the drag affordance attached to one entry identity.
type Binding struct {
	ID         uuid.UUID
	Identifier string
	AttachedAt time.Time
}

// Bindings attaches drag behavior once per entry identity. Relocating an
// entry does not touch its binding; Sync reconciles after structural
// changes and never creates a second binding for the same identity.
type Bindings struct {
	byEntry map[string]Binding
	clock   func() time.Time
}

// NewBindings creates an empty registry.
func NewBindings(clock func() time.Time) *Bindings {
	if clock == nil {
		clock = time.Now
	}
	return &Bindings{byEntry: make(map[string]Binding), clock: clock}
}

// Bind attaches a binding for identifier unless one already exists.
// It returns the live binding and whether a new one was created.
func (b *Bindings) Bind(identifier string) (Binding, bool) {
	if existing, ok := b.byEntry[identifier]; ok {
		return existing, false
	}
	bnd := Binding{ID: uuid.New(), Identifier: identifier, AttachedAt: b.clock()}
	b.byEntry[identifier] = bnd
	return bnd, true
}

// Unbind detaches the binding for identifier, if any.
func (b *Bindings) Unbind(identifier string) {
	delete(b.byEntry, identifier)
}

// Sync makes the registry match identifiers exactly: missing identities
// are bound and stale ones are dropped. It returns how many were attached.
func (b *Bindings) Sync(identifiers []string) int {
	want := make(map[string]struct{}, len(identifiers))
	attached := 0
	for _, id := range identifiers {
		want[id] = struct{}{}
		if _, created := b.Bind(id); created {
			attached++
		}
	}
	for id := range b.byEntry {
		if _, ok := want[id]; !ok {
			b.Unbind(id)
		}
	}
	return attached
}

// Get returns the binding for identifier.
func (b *Bindings) Get(identifier string) (Binding, bool) {
	bnd, ok := b.byEntry[identifier]
	return bnd, ok
}

// Bound reports whether identifier has a live binding.
func (b *Bindings) Bound(identifier string) bool {
	_, ok := b.byEntry[identifier]
	return ok
}

// Len returns the number of live bindings.
func (b *Bindings) Len() int { return len(b.byEntry) }

// Reset drops every binding.
func (b *Bindings) Reset() {
	b.byEntry = make(map[string]Binding)
}
