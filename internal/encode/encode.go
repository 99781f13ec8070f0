// Package encode turns pixel buffers into file bytes.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"assetgen/internal/raster"

	"github.com/HugoSmits86/nativewebp"
	ico "github.com/sergeymakinen/go-ico"
)

// Format is an output file format.
type Format int

const (
	PNG Format = iota
	WebP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case WebP:
		return "webp"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	switch f {
	case WebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// ParseFormat parses "png" or "webp". The empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	}
	return 0, fmt.Errorf("encode: unknown format %q", s)
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// Encode writes buf to w in the given format.
func Encode(w io.Writer, buf *raster.Buffer, f Format) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	switch f {
	case PNG:
		if err := pngEncoder.Encode(w, buf.Image()); err != nil {
			return fmt.Errorf("encode: png: %w", err)
		}
	case WebP:
		if err := nativewebp.Encode(w, buf.Image(), nil); err != nil {
			return fmt.Errorf("encode: webp: %w", err)
		}
	default:
		return fmt.Errorf("encode: unknown format %d", int(f))
	}
	return nil
}

// Bytes encodes buf into a new byte slice.
func Bytes(buf *raster.Buffer, f Format) ([]byte, error) {
	var out bytes.Buffer
	if err := Encode(&out, buf, f); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ICO writes a multi-resolution Windows icon containing every buffer.
func ICO(w io.Writer, bufs ...*raster.Buffer) error {
	if len(bufs) == 0 {
		return fmt.Errorf("encode: ico: no images")
	}
	imgs := make([]image.Image, 0, len(bufs))
	for _, b := range bufs {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("encode: ico: %w", err)
		}
		if b.Width > 256 || b.Height > 256 {
			return fmt.Errorf("encode: ico: %s exceeds 256x256", b.Size())
		}
		imgs = append(imgs, b.Image())
	}
	if err := ico.EncodeAll(w, imgs); err != nil {
		return fmt.Errorf("encode: ico: %w", err)
	}
	return nil
}
