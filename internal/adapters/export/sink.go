package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Sink receives an exported PNG.
type Sink interface {
	Deliver(ctx context.Context, name string, pngBytes []byte) error
}

// FileSink writes exports into a directory.
type FileSink struct {
	Dir string
}

// Deliver writes pngBytes to Dir/name and creates Dir when missing.
func (s FileSink) Deliver(_ context.Context, name string, pngBytes []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, pngBytes, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}

// clipboardTools are tried in order; the first one on PATH wins.
var clipboardTools = [][]string{
	{"wl-copy", "--type", "image/png"},
	{"xclip", "-selection", "clipboard", "-t", "image/png", "-i"},
}

// ClipboardSink pipes exports into the desktop clipboard.
type ClipboardSink struct {
	lookPath func(string) (string, error)
}

// NewClipboardSink returns a sink backed by the first clipboard tool found.
func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{lookPath: exec.LookPath}
}

// Available reports whether any clipboard tool is installed.
func (s *ClipboardSink) Available() bool {
	_, ok := s.tool()
	return ok
}

func (s *ClipboardSink) tool() ([]string, bool) {
	for _, t := range clipboardTools {
		if _, err := s.lookPath(t[0]); err == nil {
			return t, true
		}
	}
	return nil, false
}

// Deliver writes pngBytes to the clipboard tool's stdin.
func (s *ClipboardSink) Deliver(ctx context.Context, _ string, pngBytes []byte) error {
	t, ok := s.tool()
	if !ok {
		return ErrNoClipboard
	}
	cmd := exec.CommandContext(ctx, t[0], t[1:]...) //nolint:gosec // fixed tool list
	cmd.Stdin = bytes.NewReader(pngBytes)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s: %w: %s", ErrSink, t[0], err, bytes.TrimSpace(out))
	}
	return nil
}
