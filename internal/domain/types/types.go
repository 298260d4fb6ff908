// Package types contains the read shapes shared by the app and the HTTP API.
package types

import (
	"time"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/render"
)

// ContainerView is one row of the board as the page draws it.
type ContainerView struct {
	ID          string        `json:"id"`
	Kind        board.Kind    `json:"kind"`
	Label       string        `json:"label"`
	Color       string        `json:"color,omitempty"`
	Highlighted bool          `json:"highlighted"`
	Entries     []render.Spec `json:"entries"`
}

// BoardView is the full board plus interaction state.
type BoardView struct {
	Containers []ContainerView `json:"containers"`
	DeleteMode bool            `json:"delete_mode"`
	Dragging   string          `json:"dragging,omitempty"`
	Total      int             `json:"total"`
}

// NewBoardView renders every entry of snap with the given interaction state.
func NewBoardView(snap board.Snapshot, deleteMode bool, dragging string, highlighted []string) BoardView {
	hl := make(map[string]bool, len(highlighted))
	for _, id := range highlighted {
		hl[id] = true
	}
	v := BoardView{
		Containers: make([]ContainerView, 0, len(snap.Containers)),
		DeleteMode: deleteMode,
		Dragging:   dragging,
	}
	for _, c := range snap.Containers {
		cv := ContainerView{
			ID:          c.ID,
			Kind:        c.Kind,
			Label:       c.Label,
			Color:       c.Color,
			Highlighted: hl[c.ID],
			Entries:     make([]render.Spec, 0, len(c.Entries)),
		}
		for _, e := range c.Entries {
			cv.Entries = append(cv.Entries, render.Build(e, deleteMode))
		}
		v.Total += len(cv.Entries)
		v.Containers = append(v.Containers, cv)
	}
	return v
}

// Share is a generated board image.
type Share struct {
	PNG       []byte    `json:"-"`
	DataURL   string    `json:"data_url"`
	Filename  string    `json:"filename"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}
