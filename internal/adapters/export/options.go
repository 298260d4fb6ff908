// Package export rasterizes the board to a bitmap and hands the PNG to a
// download or clipboard sink.
package export

import (
	"fmt"

	"github.com/okian/tierlist/internal/domain/category"
)

// Options mirror the knobs of the page's screenshot call.
type Options struct {
	// BackgroundColor fills the canvas, e.g. "#ffffff".
	BackgroundColor string `json:"background_color"`
	// Scale multiplies every dimension.
	Scale float64 `json:"scale"`
	// UseCORS fetches remote avatar images.
	UseCORS bool `json:"use_cors"`
	// AllowTaint accepts avatars served without an image content type.
	AllowTaint bool `json:"allow_taint"`
}

// DefaultOptions returns the settings the share button uses.
func DefaultOptions() Options {
	return Options{
		BackgroundColor: "#ffffff",
		Scale:           2,
		UseCORS:         true,
		AllowTaint:      true,
	}
}

// Validate reports options the rasterizer cannot honor.
func (o Options) Validate() error {
	if o.Scale <= 0 || o.Scale > maxScale {
		return fmt.Errorf("%w: scale %v out of range", ErrInvalidOptions, o.Scale)
	}
	if _, err := category.ParseHex(o.BackgroundColor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}
