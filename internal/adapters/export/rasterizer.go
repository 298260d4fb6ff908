package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // avatar decoders
	_ "image/jpeg" // avatar decoders
	_ "image/png"  // avatar decoders
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp" // avatar decoder
	"golang.org/x/sync/errgroup"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/category"
	"github.com/okian/tierlist/internal/domain/render"
	"github.com/okian/tierlist/pkg/logger"
	"github.com/okian/tierlist/pkg/metrics"
)

// Layout constants, in unscaled pixels.
const (
	maxScale       = 4
	canvasWidth    = 960
	labelWidth     = 110
	rowMinHeight   = 120
	rowGap         = 2
	cellWidth      = 96
	cellHeight     = 104
	cellGap        = 8
	avatarSize     = 60
	ringWidth      = 4
	badgeHeight    = 15
	maxAvatarBytes = 5 << 20
	avatarFetches  = 4
)

var (
	contentColor  = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	fallbackTier  = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	cardColor     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	cardBorder    = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	textColor     = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	lightText     = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	hiddenAvatar  = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	badgeFillBase = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Option applies a configuration option to the Rasterizer.
type Option func(*Rasterizer)

// WithHTTPClient sets the client used to fetch avatars.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Rasterizer) {
		if hc != nil {
			r.http = hc
		}
	}
}

// WithLogger sets a custom logger for the rasterizer.
func WithLogger(l logger.Logger) Option {
	return func(r *Rasterizer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Rasterizer draws the ranked tiers of a board snapshot into a bitmap.
type Rasterizer struct {
	http   *http.Client
	logger logger.Logger
}

// NewRasterizer creates a rasterizer.
func NewRasterizer(opts ...Option) *Rasterizer {
	r := &Rasterizer{http: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws every tier row of snap. Avatars that cannot be fetched or
// decoded are left out; they never fail the render.
func (r *Rasterizer) Render(ctx context.Context, snap board.Snapshot, opts Options) (*image.RGBA, error) {
	start := time.Now()
	defer func() {
		metrics.RecordExportLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bg, _ := category.ParseHex(opts.BackgroundColor)
	tiers := snap.Tiers()

	avatars := r.fetchAvatars(ctx, tiers, opts)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	perRow := (canvasWidth - labelWidth - cellGap) / (cellWidth + cellGap)
	heights := make([]int, len(tiers))
	total := 0
	for i, t := range tiers {
		lines := (len(t.Entries) + perRow - 1) / perRow
		heights[i] = max(rowMinHeight, lines*(cellHeight+cellGap)+cellGap)
		total += heights[i] + rowGap
	}
	if total == 0 {
		total = rowMinHeight
	}

	c := newCanvas(canvasWidth, total, opts.Scale)
	c.fill(0, 0, canvasWidth, total, bg)
	y := 0
	for i, t := range tiers {
		c.drawTier(t, y, heights[i], perRow, avatars)
		y += heights[i] + rowGap
	}
	return c.img, nil
}

func (c *canvas) drawTier(t board.ContainerSnapshot, y, h, perRow int, avatars map[string]image.Image) {
	tierColor, err := category.ParseHex(t.Color)
	if err != nil {
		tierColor = fallbackTier
	}
	c.fill(0, y, labelWidth, y+h, tierColor)
	c.textCentered(labelWidth/2, y+h/2+4, t.Label, textColor, labelWidth-8)
	c.fill(labelWidth, y, canvasWidth, y+h, contentColor)

	for j, e := range t.Entries {
		x := labelWidth + cellGap + (j%perRow)*(cellWidth+cellGap)
		ey := y + cellGap + (j/perRow)*(cellHeight+cellGap)
		c.drawEntry(render.Build(e, false), x, ey, avatars[e.Identifier])
	}
}

func (c *canvas) drawEntry(s render.Spec, x, y int, avatar image.Image) {
	cx := x + cellWidth/2
	if s.Kind != render.KindExternal || s.Avatar == nil {
		c.fill(x, y+cellHeight/2-16, x+cellWidth, y+cellHeight/2+16, cardBorder)
		c.fill(x+1, y+cellHeight/2-15, x+cellWidth-1, y+cellHeight/2+15, cardColor)
		c.textCentered(cx, y+cellHeight/2+4, s.Label, textColor, cellWidth-6)
		return
	}

	ring := s.Avatar.Category.RGBA()
	cy := y + 4 + avatarSize/2
	radius := avatarSize / 2
	c.disk(cx, cy, radius+ringWidth, ring)
	if avatar != nil {
		c.avatar(cx, cy, radius, avatar)
	} else {
		c.disk(cx, cy, radius, hiddenAvatar)
	}

	score := fmt.Sprintf("%d", s.Avatar.Score)
	bw := textWidth(score) + 8
	by := cy + radius - badgeHeight/2
	c.fill(cx-bw/2-1, by-1, cx+bw/2+1, by+badgeHeight+1, ring)
	c.fill(cx-bw/2, by, cx+bw/2, by+badgeHeight, badgeFillBase)
	c.textCentered(cx, by+badgeHeight-3, score, ring, bw)

	c.textCentered(cx, y+cellHeight-4, s.Label, lightText, cellWidth-4)
}

func (r *Rasterizer) fetchAvatars(ctx context.Context, tiers []board.ContainerSnapshot, opts Options) map[string]image.Image {
	out := make(map[string]image.Image)
	if !opts.UseCORS {
		return out
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(avatarFetches)
	for _, t := range tiers {
		for _, e := range t.Entries {
			s := render.Build(e, false)
			if s.Avatar == nil {
				continue
			}
			id, url := e.Identifier, s.Avatar.URL
			g.Go(func() error {
				img, err := r.fetch(gctx, url, opts.AllowTaint)
				if err != nil {
					if r.logger != nil {
						r.logger.Debug(gctx, "avatar skipped", logger.String("identifier", id), logger.Error(err))
					}
					return nil
				}
				mu.Lock()
				out[id] = img
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	return out
}

func (r *Rasterizer) fetch(ctx context.Context, url string, allowTaint bool) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !allowTaint && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("avatar content type %q not allowed", ct)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	return img, nil
}
