package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"time"
)

// DataURLPrefix precedes the base64 payload of an exported image.
const DataURLPrefix = "data:image/png;base64,"

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the PNG bytes as a data URL.
func DataURL(pngBytes []byte) string {
	return DataURLPrefix + base64.StdEncoding.EncodeToString(pngBytes)
}

// Filename is the download name for an export made at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("ethos-tier-list-%d.png", t.UnixMilli())
}
