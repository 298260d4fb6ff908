package service

import (
	"context"
	"fmt"

	"github.com/okian/tierlist/internal/adapters/export"
	"github.com/okian/tierlist/internal/domain/types"
	"github.com/okian/tierlist/pkg/logger"
	"github.com/okian/tierlist/pkg/metrics"
)

// Share is the most recently generated board image.
type Share = types.Share

// Export rasterizes the ranked tiers and keeps the result for Download and
// CopyToClipboard. A second call while one is rendering fails with
// ErrExportInFlight; a failed export keeps the previous image.
func (s *Service) Export(ctx context.Context) (Share, error) {
	if !s.exports.TryAcquire(1) {
		return Share{}, ErrExportInFlight
	}
	defer s.exports.Release(1)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Share{}, err
	}

	img, err := s.rasterizer.Render(ctx, snap, s.exportOpts)
	if err != nil {
		metrics.RecordExport("render", "error")
		s.logger.Error(ctx, "export failed", logger.Error(err))
		return Share{}, err
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		metrics.RecordExport("render", "error")
		return Share{}, err
	}

	now := s.clock()
	sh := Share{
		PNG:       data,
		DataURL:   export.DataURL(data),
		Filename:  export.Filename(now),
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		CreatedAt: now,
	}
	s.shareMu.Lock()
	s.share = &sh
	s.shareMu.Unlock()

	metrics.RecordExport("render", "ok")
	s.logger.Info(ctx, "board exported",
		logger.String("filename", sh.Filename),
		logger.Int("bytes", len(data)),
	)
	return sh, nil
}

// Image returns the last generated image.
func (s *Service) Image() (Share, error) {
	s.shareMu.RLock()
	defer s.shareMu.RUnlock()
	if s.share == nil {
		return Share{}, ErrNoImage
	}
	return *s.share, nil
}

// Download hands the last image to the download sink and returns its name.
func (s *Service) Download(ctx context.Context) (string, error) {
	return s.deliver(ctx, "download", s.download)
}

// CopyToClipboard hands the last image to the clipboard sink.
func (s *Service) CopyToClipboard(ctx context.Context) error {
	_, err := s.deliver(ctx, "clipboard", s.clipboard)
	return err
}

func (s *Service) deliver(ctx context.Context, name string, sink export.Sink) (string, error) {
	sh, err := s.Image()
	if err != nil {
		return "", err
	}
	if err := sink.Deliver(ctx, sh.Filename, sh.PNG); err != nil {
		metrics.RecordExport(name, "error")
		s.logger.Warn(ctx, "image delivery failed", logger.String("sink", name), logger.Error(err))
		return "", fmt.Errorf("%s: %w", name, err)
	}
	metrics.RecordExport(name, "ok")
	return sh.Filename, nil
}
