// Package render turns board entries into typed view specs and, from those,
// into HTML node trees for the page.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/category"
)

// Kind is the render variant.
type Kind string

// Render variants.
const (
	KindExternal Kind = "external"
	KindPlain    Kind = "plain"
)

// DeleteGlyph is the label of the delete affordance.
const DeleteGlyph = "×"

// Avatar is the external-user part of a spec.
type Avatar struct {
	URL      string            `json:"url"`
	Alt      string            `json:"alt"`
	Score    int               `json:"score"`
	Category category.Category `json:"category"`
	Color    string            `json:"color"`
}

// DeleteAffordance is the per-entry delete button.
type DeleteAffordance struct {
	Visible bool   `json:"visible"`
	Title   string `json:"title"`
}

// Spec describes how one entry is drawn.
type Spec struct {
	Kind       Kind             `json:"kind"`
	Identifier string           `json:"identifier"`
	Label      string           `json:"label"`
	Avatar     *Avatar          `json:"avatar,omitempty"`
	Delete     DeleteAffordance `json:"delete"`
	Draggable  bool             `json:"draggable"`
}

// Build picks the variant for e. An external user missing either avatar or
// score falls back to the plain variant.
func Build(e board.Entry, deleteMode bool) Spec {
	s := Spec{
		Kind:       KindPlain,
		Identifier: e.Identifier,
		Label:      e.Identifier,
		Delete:     DeleteAffordance{Visible: deleteMode, Title: "Delete user"},
		Draggable:  true,
	}
	if e.IsExternalUser && e.AvatarURL != "" && e.Score != nil {
		c := category.Classify(*e.Score)
		s.Kind = KindExternal
		s.Avatar = &Avatar{
			URL:      e.AvatarURL,
			Alt:      e.Identifier + "'s avatar",
			Score:    *e.Score,
			Category: c,
			Color:    c.Color(),
		}
	}
	return s
}

// Node builds the element tree for s. The root is the only draggable
// element; every descendant is non-draggable and ignores the pointer,
// except the delete button.
func Node(s Spec) *html.Node {
	class := "person-item"
	if s.Kind == KindExternal {
		class += " ethos-user"
	}
	root := element(atom.Div,
		"class", class,
		"draggable", strconv.FormatBool(s.Draggable),
		"data-person", s.Identifier,
	)

	if s.Kind == KindExternal && s.Avatar != nil {
		a := s.Avatar
		border := fmt.Sprintf("border-color: %s;", a.Color)
		root.Attr = append(root.Attr, html.Attribute{Key: "data-category", Val: a.Category.String()})

		container := element(atom.Div, "class", "avatar-container")
		container.AppendChild(element(atom.Img,
			"src", a.URL,
			"alt", a.Alt,
			"class", "avatar",
			"style", border,
			"onerror", "this.style.display='none'",
		))
		container.AppendChild(element(atom.Div, "class", "score-ring", "style", border))
		badge := element(atom.Div, "class", "score-badge", "style", fmt.Sprintf("border-color: %s; color: %s;", a.Color, a.Color))
		badge.AppendChild(text(strconv.Itoa(a.Score)))
		container.AppendChild(badge)
		root.AppendChild(container)
	}

	name := element(atom.Div, "class", "username")
	name.AppendChild(text(s.Label))
	root.AppendChild(name)

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		inert(c)
	}

	display := "none"
	if s.Delete.Visible {
		display = "flex"
	}
	del := element(atom.Button,
		"class", "delete-btn",
		"title", s.Delete.Title,
		"data-delete", s.Identifier,
		"style", fmt.Sprintf("display: %s; pointer-events: auto;", display),
	)
	del.AppendChild(text(DeleteGlyph))
	root.AppendChild(del)
	return root
}

// RenderHTML serializes the node tree for s.
func RenderHTML(s Spec) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, Node(s)); err != nil {
		return "", fmt.Errorf("render %q: %w", s.Identifier, err)
	}
	return buf.String(), nil
}

// inert marks n and all of its element descendants as non-draggable and
// transparent to the pointer.
func inert(n *html.Node) {
	if n.Type == html.ElementNode {
		setAttr(n, "draggable", "false")
		style := "pointer-events: none;"
		if v, ok := attr(n, "style"); ok {
			style = v + " " + style
		}
		setAttr(n, "style", style)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inert(c)
	}
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
