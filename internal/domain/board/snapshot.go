package board

// ContainerSnapshot is a read-only copy of one container.
type ContainerSnapshot struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	Label   string  `json:"label"`
	Color   string  `json:"color,omitempty"`
	Entries []Entry `json:"entries"`
}

// Snapshot is a read-only copy of the whole board, tiers first and pool last.
type Snapshot struct {
	Containers []ContainerSnapshot `json:"containers"`
}

// Snapshot copies the current board.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{Containers: make([]ContainerSnapshot, 0, len(b.order))}
	for _, c := range b.order {
		s.Containers = append(s.Containers, b.snapshot(c))
	}
	return s
}

func (b *Board) snapshot(c *container) ContainerSnapshot {
	cs := ContainerSnapshot{
		ID:      c.id,
		Kind:    c.kind,
		Label:   c.label,
		Color:   c.color,
		Entries: make([]Entry, 0, len(c.ids)),
	}
	for _, id := range c.ids {
		cs.Entries = append(cs.Entries, b.entries[id])
	}
	return cs
}

// Tiers returns the ranked containers only.
func (s Snapshot) Tiers() []ContainerSnapshot {
	out := make([]ContainerSnapshot, 0, len(s.Containers))
	for _, c := range s.Containers {
		if c.Kind == KindTier {
			out = append(out, c)
		}
	}
	return out
}
