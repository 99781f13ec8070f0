package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

var (
	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrBufferSizeMismatch is returned when len(Pix) disagrees with the declared size.
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")
)

const (
	// MaxSide bounds either side of any buffer.
	MaxSide = 16384
	// MaxPixels bounds the area of any buffer. At 4 bytes per pixel this is
	// 256 MiB.
	MaxPixels = 64 << 20
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both sides are positive, neither exceeds MaxSide
// and the area does not exceed MaxPixels.
func (s Size) Valid() bool {
	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxSide || s.Height > MaxSide {
		return false
	}
	return s.Width*s.Height <= MaxPixels
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Buffer is a non-premultiplied RGBA image stored as one flat slice,
// row-major with no padding between rows. len(Pix) == Width*Height*4.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed buffer. The size is checked before allocation.
func NewBuffer(size Size) (*Buffer, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("raster: new buffer %s: %w", size, ErrInvalidDimensions)
	}
	return &Buffer{
		Width:  size.Width,
		Height: size.Height,
		Pix:    make([]uint8, size.Width*size.Height*4),
	}, nil
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Validate checks the dimensions and the length invariant.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("raster: nil buffer: %w", ErrBufferSizeMismatch)
	}
	if !b.Size().Valid() {
		return fmt.Errorf("raster: buffer %s: %w", b.Size(), ErrInvalidDimensions)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("raster: buffer %s has %d bytes, want %d: %w",
			b.Size(), len(b.Pix), want, ErrBufferSizeMismatch)
	}
	return nil
}

// Offset returns the index of the red byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA {
	i := b.Offset(x, y)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Fill paints every pixel with c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
		b.Pix[i+3] = c.A
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Image returns an *image.NRGBA sharing Pix with b. Callers must treat it
// as read-only; it exists so encoders and x/image can consume the buffer.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage copies any decoded image into a new Buffer anchored at (0, 0).
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}

	switch img := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			si := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*w*4:(y+1)*w*4], img.Pix[si:si+w*4])
		}
	case *image.YCbCr, *image.Gray:
		// No alpha: draw and force opaque.
		view := dst.Image()
		draw.Draw(view, view.Rect, src, bounds.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				dst.Set(x, y, c)
			}
		}
	}
	return dst
}
