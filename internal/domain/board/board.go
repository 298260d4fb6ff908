// Package board holds the tier list state: a fixed set of containers (one
// pool plus the configured tiers) and the entries placed in them.
//
// A Board is not safe for concurrent use. The app package serializes every
// access through its dispatcher.
package board

import (
	"fmt"
	"strings"

	"github.com/okian/tierlist/internal/domain/category"
)

// Kind distinguishes the pool from ranked tiers.
type Kind string

// Container kinds.
const (
	KindPool Kind = "pool"
	KindTier Kind = "tier"
)

// PoolID is the registry id of the single unranked pool.
const PoolID = "pool"

// Entry is one placeable person.
type Entry struct {
	Identifier     string `json:"identifier"`
	IsExternalUser bool   `json:"is_external_user"`
	DisplayName    string `json:"display_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Score          *int   `json:"score,omitempty"`
}

// Category derives the reputation bucket from the score. ok is false when
// the entry carries no score.
func (e Entry) Category() (c category.Category, ok bool) {
	if e.Score == nil {
		return "", false
	}
	return category.Classify(*e.Score), true
}

// TierSpec configures one ranked row.
type TierSpec struct {
	ID    string `koanf:"id" json:"id"`
	Label string `koanf:"label" json:"label"`
	Color string `koanf:"color" json:"color"`
}

// DefaultTiers is the classic S-F layout.
func DefaultTiers() []TierSpec {
	return []TierSpec{
		{ID: "s", Label: "S", Color: "#ff7f7f"},
		{ID: "a", Label: "A", Color: "#ffbf7f"},
		{ID: "b", Label: "B", Color: "#ffdf7f"},
		{ID: "c", Label: "C", Color: "#ffff7f"},
		{ID: "d", Label: "D", Color: "#bfff7f"},
		{ID: "f", Label: "F", Color: "#7fbfff"},
	}
}

// container keeps entry identifiers in insertion order.
type container struct {
	id    string
	kind  Kind
	label string
	color string
	ids   []string
}

func (c *container) remove(id string) bool {
	for i, v := range c.ids {
		if v == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Board is the pool plus a fixed ordered list of tiers.
type Board struct {
	order   []*container // tiers in configured order, pool last
	byID    map[string]*container
	entries map[string]Entry
	owner   map[string]string // identifier -> container id
}

// New builds a board with the given tiers. Containers are fixed for the
// lifetime of the board.
func New(tiers []TierSpec) (*Board, error) {
	b := &Board{
		byID:    make(map[string]*container, len(tiers)+1),
		entries: make(map[string]Entry),
		owner:   make(map[string]string),
	}
	for _, t := range tiers {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: tier id must not be empty", ErrInvalidTiers)
		}
		if id == PoolID {
			return nil, fmt.Errorf("%w: tier id %q is reserved", ErrInvalidTiers, id)
		}
		if _, dup := b.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate tier id %q", ErrInvalidTiers, id)
		}
		label := t.Label
		if label == "" {
			label = strings.ToUpper(id)
		}
		c := &container{id: id, kind: KindTier, label: label, color: t.Color}
		b.order = append(b.order, c)
		b.byID[id] = c
	}
	pool := &container{id: PoolID, kind: KindPool, label: "Pool"}
	b.order = append(b.order, pool)
	b.byID[PoolID] = pool
	return b, nil
}

// Add places a new entry at the end of the pool.
func (b *Board) Add(e Entry) error {
	return b.Append(PoolID, e)
}

// Has reports whether identifier is anywhere on the board.
func (b *Board) Has(identifier string) bool {
	_, ok := b.entries[identifier]
	return ok
}

// Entry returns the entry with the given identifier.
func (b *Board) Entry(identifier string) (Entry, bool) {
	e, ok := b.entries[identifier]
	return e, ok
}

// Locate returns the id of the container holding identifier.
func (b *Board) Locate(identifier string) (string, bool) {
	id, ok := b.owner[identifier]
	return id, ok
}

// Resolve reports whether containerID names a known container.
func (b *Board) Resolve(containerID string) bool {
	_, ok := b.byID[containerID]
	return ok
}

// Container returns a copy of one container from the registry.
func (b *Board) Container(containerID string) (ContainerSnapshot, bool) {
	c, ok := b.byID[containerID]
	if !ok {
		return ContainerSnapshot{}, false
	}
	return b.snapshot(c), true
}

// Append places e last in containerID. The identifier must not already be
// on the board.
func (b *Board) Append(containerID string, e Entry) error {
	c, ok := b.byID[containerID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownContainer, containerID)
	}
	e.Identifier = strings.TrimSpace(e.Identifier)
	if e.Identifier == "" {
		return ErrEmptyIdentifier
	}
	if b.Has(e.Identifier) {
		return fmt.Errorf("%w: %q", ErrDuplicate, e.Identifier)
	}
	b.entries[e.Identifier] = e
	c.ids = append(c.ids, e.Identifier)
	b.owner[e.Identifier] = containerID
	return nil
}

// Detach takes identifier off the board and returns it. Until it is
// appended again it belongs to no container.
func (b *Board) Detach(identifier string) (Entry, error) {
	from, ok := b.owner[identifier]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, identifier)
	}
	e := b.entries[identifier]
	b.byID[from].remove(identifier)
	delete(b.owner, identifier)
	delete(b.entries, identifier)
	return e, nil
}

// Move detaches identifier from its container and appends it last to
// target. The target is resolved before anything is detached, so a failed
// move leaves the board untouched.
func (b *Board) Move(identifier, target string) error {
	if _, ok := b.byID[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownContainer, target)
	}
	e, err := b.Detach(identifier)
	if err != nil {
		return err
	}
	return b.Append(target, e)
}

// Remove destroys an entry.
func (b *Board) Remove(identifier string) error {
	_, err := b.Detach(identifier)
	return err
}

// ClearTiers moves every tiered entry back to the pool, tier by tier, and
// returns how many moved.
func (b *Board) ClearTiers() int {
	moved := 0
	for _, c := range b.order {
		if c.kind != KindTier {
			continue
		}
		ids := append([]string(nil), c.ids...)
		for _, id := range ids {
			_ = b.Move(id, PoolID)
			moved++
		}
	}
	return moved
}

// Reset removes every entry from every container.
func (b *Board) Reset() {
	for _, c := range b.order {
		c.ids = nil
	}
	b.entries = make(map[string]Entry)
	b.owner = make(map[string]string)
}

// Len returns the number of entries on the board.
func (b *Board) Len() int { return len(b.entries) }

// Identifiers returns every identifier in display order.
func (b *Board) Identifiers() []string {
	out := make([]string, 0, len(b.entries))
	for _, c := range b.order {
		out = append(out, c.ids...)
	}
	return out
}

// Membership maps each identifier to its container id.
func (b *Board) Membership() map[string]string {
	out := make(map[string]string, len(b.owner))
	for k, v := range b.owner {
		out[k] = v
	}
	return out
}
