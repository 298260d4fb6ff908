// Package category maps Ethos credibility scores to the ten reputation
// buckets and their display colors.
package category

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Category is one of the ten ordered reputation buckets.
type Category string

// Categories in ascending order.
const (
	Untrusted     Category = "untrusted"
	Questionable  Category = "questionable"
	Neutral       Category = "neutral"
	Known         Category = "known"
	Established   Category = "established"
	Reputable     Category = "reputable"
	Exemplary     Category = "exemplary"
	Distinguished Category = "distinguished"
	Revered       Category = "revered"
	Renowned      Category = "renowned"
)

// threshold is an exclusive upper bound for a category.
type threshold struct {
	below    int
	category Category
}

// cascade is evaluated top to bottom; the first bound the score is under wins.
var cascade = []threshold{
	{800, Untrusted},
	{1200, Questionable},
	{1400, Neutral},
	{1600, Known},
	{1800, Established},
	{2000, Reputable},
	{2200, Exemplary},
	{2400, Distinguished},
	{2600, Revered},
}

var colors = map[Category]string{
	Untrusted:     "#b72b38",
	Questionable:  "#C29010",
	Neutral:       "#c1c0b6",
	Known:         "#7C8DA8",
	Established:   "#4E86B9",
	Reputable:     "#2E7BC3",
	Exemplary:     "#427B56",
	Distinguished: "#127f31",
	Revered:       "#836DA6",
	Renowned:      "#7A5EA0",
}

var order = []Category{
	Untrusted, Questionable, Neutral, Known, Established,
	Reputable, Exemplary, Distinguished, Revered, Renowned,
}

// Classify returns the category for score. Every integer maps to exactly one category.
func Classify(score int) Category {
	for _, t := range cascade {
		if score < t.below {
			return t.category
		}
	}
	return Renowned
}

// All returns the categories in ascending order.
func All() []Category {
	out := make([]Category, len(order))
	copy(out, order)
	return out
}

// Parse resolves a category by name, case-insensitively.
func Parse(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := colors[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// Bounds returns the inclusive score range of c. The lowest category has no
// floor and the highest no ceiling; those ends are math.MinInt and math.MaxInt.
func (c Category) Bounds() (lo, hi int, ok bool) {
	r := c.Rank()
	if r < 0 {
		return 0, 0, false
	}
	lo, hi = math.MinInt, math.MaxInt
	if r > 0 {
		lo = cascade[r-1].below
	}
	if r < len(cascade) {
		hi = cascade[r].below - 1
	}
	return lo, hi, true
}

// Rank returns the zero-based position of c in the fixed order, or -1.
func (c Category) Rank() int {
	for i, o := range order {
		if o == c {
			return i
		}
	}
	return -1
}

// Color returns the hex display color.
func (c Category) Color() string {
	return colors[c]
}

// RGBA returns the display color as an opaque color.RGBA.
func (c Category) RGBA() color.RGBA {
	rgba, err := ParseHex(c.Color())
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return rgba
}

func (c Category) String() string { return string(c) }

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
