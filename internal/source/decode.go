// Package source decodes uploaded image bytes into pixel buffers and keeps
// decoded sources around for later preview and export requests.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"assetgen/internal/raster"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Supported source formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
	FormatSVG  = "svg"
	FormatTGA  = "tga"
)

// MaxPixels bounds the decoded area of raster sources.
const MaxPixels = raster.MaxPixels

var (
	// ErrUnsupportedFormat is returned for data that is not PNG, JPEG, WEBP, SVG or TGA.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned when a source exceeds MaxPixels or raster.MaxSide.
	ErrTooLarge = errors.New("image too large")
	// ErrMalformed is returned when recognised data fails to decode.
	ErrMalformed = errors.New("malformed image")
)

// Image is a decoded source.
type Image struct {
	Buffer *raster.Buffer
	Format string
}

// Size returns the source dimensions.
func (img *Image) Size() raster.Size {
	return img.Buffer.Size()
}

// AspectRatio returns width / height.
func (img *Image) AspectRatio() float64 {
	return float64(img.Buffer.Width) / float64(img.Buffer.Height)
}

type decoder struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

var decoders = map[string]decoder{
	FormatPNG:  {png.Decode, png.DecodeConfig},
	FormatJPEG: {jpeg.Decode, jpeg.DecodeConfig},
	FormatWebP: {nativewebp.Decode, nativewebp.DecodeConfig},
	FormatTGA:  {tga.Decode, tga.DecodeConfig},
}

// Sniff identifies the format of data from its leading bytes. TGA has no
// signature and is never sniffed; see DecodeNamed.
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return FormatJPEG
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case looksLikeSVG(data):
		return FormatSVG
	}
	return ""
}

func looksLikeSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// Decode sniffs and decodes data.
func Decode(data []byte) (*Image, error) {
	return decodeAs(Sniff(data), data)
}

// DecodeNamed decodes data, falling back to the file extension of name
// when the content cannot be sniffed. This is the only way to load TGA.
func DecodeNamed(name string, data []byte) (*Image, error) {
	format := Sniff(data)
	if format == "" && strings.EqualFold(filepath.Ext(name), ".tga") {
		format = FormatTGA
	}
	img, err := decodeAs(format, data)
	if err != nil && name != "" {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, err
}

// DecodeFile reads and decodes the file at path.
func DecodeFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return DecodeNamed(path, data)
}

func decodeAs(format string, data []byte) (*Image, error) {
	if format == FormatSVG {
		buf, err := RasterizeSVG(data)
		if err != nil {
			return nil, fmt.Errorf("source: svg: %w: %w", ErrMalformed, err)
		}
		return &Image{Buffer: buf, Format: FormatSVG}, nil
	}

	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("source: %w", ErrUnsupportedFormat)
	}

	cfg, err := dec.decodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: decode %s header: %w: %w", format, ErrMalformed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("source: %s is %dx%d: %w", format, cfg.Width, cfg.Height, raster.ErrInvalidDimensions)
	}
	if cfg.Width > raster.MaxSide || cfg.Height > raster.MaxSide || cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("source: %s is %dx%d: %w", format, cfg.Width, cfg.Height, ErrTooLarge)
	}

	img, err := dec.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w: %w", format, ErrMalformed, err)
	}
	return &Image{Buffer: raster.FromImage(img), Format: format}, nil
}
