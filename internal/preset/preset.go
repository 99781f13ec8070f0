// Package preset holds the named size sets for each export bundle and the
// helpers used to pick a custom size.
package preset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"assetgen/internal/raster"
)

// Entry is one output image of a bundle.
type Entry struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name,omitempty"`
}

// Size returns the entry dimensions.
func (e Entry) Size() raster.Size {
	return raster.Size{Width: e.Width, Height: e.Height}
}

// Kind identifies a bundle.
type Kind string

const (
	Standard Kind = "standard"
	Android  Kind = "android"
	IOS      Kind = "ios"
	Favicon  Kind = "favicon"
	Custom   Kind = "custom"
)

// Bundle is a set of sizes exported together.
type Bundle struct {
	Kind    Kind    `json:"kind"`
	Folder  string  `json:"folder,omitempty"`
	Archive string  `json:"archive,omitempty"`
	Entries []Entry `json:"entries"`
	// ICO, when set, names a multi-resolution icon built from the entries
	// listed in ICOSizes.
	ICO      string `json:"ico,omitempty"`
	ICOSizes []int  `json:"ico_sizes,omitempty"`

	pattern func(e Entry) string
}

// Archived reports whether the bundle is packaged as a zip.
func (b Bundle) Archived() bool {
	return b.Archive != ""
}

// FileName returns the file name of e with extension ext (".png").
func (b Bundle) FileName(e Entry, ext string) string {
	if b.pattern == nil {
		return fmt.Sprintf("%dx%d%s", e.Width, e.Height, ext)
	}
	return b.pattern(e) + ext
}

func square(n int, name string) Entry {
	return Entry{Width: n, Height: n, Name: name}
}

var standardBundle = Bundle{
	Kind:    Standard,
	Folder:  "image-assets",
	Archive: "image-assets.zip",
	Entries: []Entry{
		square(16, ""), square(32, ""), square(64, ""), square(128, ""),
		square(192, ""), square(256, ""), square(512, ""), square(1024, ""),
	},
}

var androidBundle = Bundle{
	Kind:    Android,
	Folder:  "android-icons",
	Archive: "android-app-icons.zip",
	Entries: []Entry{
		square(36, "mdpi"),
		square(48, "hdpi"),
		square(72, "xhdpi"),
		square(96, "xxhdpi"),
		square(144, "xxxhdpi"),
		square(192, "xxxhdpi-large"),
	},
	pattern: func(e Entry) string {
		return fmt.Sprintf("ic_launcher_%s_%dx%d", e.Name, e.Width, e.Height)
	},
}

var iosBundle = Bundle{
	Kind:    IOS,
	Folder:  "ios-icons",
	Archive: "ios-app-icons.zip",
	Entries: []Entry{
		square(20, "iPhone-notification"),
		square(29, "iPhone-settings"),
		square(40, "iPhone-spotlight"),
		square(58, "iPhone-settings@2x"),
		square(60, "iPhone-app"),
		square(80, "iPhone-spotlight@2x"),
		square(87, "iPhone-settings@3x"),
		square(120, "iPhone-app@2x"),
		square(180, "iPhone-app@3x"),
		square(1024, "App-Store"),
	},
	pattern: func(e Entry) string {
		return fmt.Sprintf("icon_%s_%dx%d", e.Name, e.Width, e.Height)
	},
}

var faviconBundle = Bundle{
	Kind:    Favicon,
	Folder:  "favicon",
	Archive: "favicon.zip",
	Entries: []Entry{
		square(16, "favicon"),
		square(32, "favicon"),
		square(48, "favicon"),
		square(180, "apple-touch-icon"),
		square(192, "android-chrome"),
		square(512, "android-chrome"),
	},
	ICO:      "favicon.ico",
	ICOSizes: []int{16, 32, 48},
	pattern: func(e Entry) string {
		return fmt.Sprintf("%s-%dx%d", e.Name, e.Width, e.Height)
	},
}

// PreviewSizes are the quick-pick sizes offered for previewing a source.
var PreviewSizes = []Entry{
	square(16, ""), square(32, ""), square(64, ""), square(128, ""),
	square(192, ""), square(256, ""), square(512, ""),
}

var bundles = map[Kind]Bundle{
	Standard: standardBundle,
	Android:  androidBundle,
	IOS:      iosBundle,
	Favicon:  faviconBundle,
}

// Kinds lists the fixed bundles in display order.
func Kinds() []Kind {
	return []Kind{Standard, Android, IOS, Favicon}
}

// Lookup returns a copy of the fixed bundle of kind k.
func Lookup(k Kind) (Bundle, bool) {
	b, ok := bundles[Kind(strings.ToLower(string(k)))]
	if !ok {
		return Bundle{}, false
	}
	b.Entries = append([]Entry(nil), b.Entries...)
	b.ICOSizes = append([]int(nil), b.ICOSizes...)
	return b, true
}

// PreviewEntries returns the quick-pick sizes for mode k: the bundle's own
// entries for android and ios, PreviewSizes otherwise.
func PreviewEntries(k Kind) []Entry {
	switch k {
	case Android, IOS:
		b, _ := Lookup(k)
		return b.Entries
	}
	return append([]Entry(nil), PreviewSizes...)
}

// NewCustom returns the single-entry bundle for a user-chosen size. It is
// exported as a standalone file, not an archive.
func NewCustom(size raster.Size) (Bundle, error) {
	if !size.Valid() {
		return Bundle{}, fmt.Errorf("preset: custom size %s: %w", size, raster.ErrInvalidDimensions)
	}
	return Bundle{
		Kind:    Custom,
		Entries: []Entry{{Width: size.Width, Height: size.Height}},
		pattern: func(e Entry) string {
			return fmt.Sprintf("custom-image-%dx%d", e.Width, e.Height)
		},
	}, nil
}

// ParseSize parses "WxH" (also accepts "X" and "×" as separators).
func ParseSize(s string) (raster.Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, "×", "x")
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return raster.Size{}, fmt.Errorf("preset: size %q: want WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return raster.Size{}, fmt.Errorf("preset: size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return raster.Size{}, fmt.Errorf("preset: size %q: %w", s, err)
	}
	size := raster.Size{Width: w, Height: h}
	if !size.Valid() {
		return raster.Size{}, fmt.Errorf("preset: size %q: %w", s, raster.ErrInvalidDimensions)
	}
	return size, nil
}

// AspectRatio returns width / height of s.
func AspectRatio(s raster.Size) float64 {
	return float64(s.Width) / float64(s.Height)
}

// LockHeight returns the height matching width at ratio (width / height).
func LockHeight(width int, ratio float64) int {
	return int(math.Round(float64(width) / ratio))
}

// LockWidth returns the width matching height at ratio (width / height).
func LockWidth(height int, ratio float64) int {
	return int(math.Round(float64(height) * ratio))
}

// Fit selects how a source is mapped onto an entry whose aspect ratio
// differs from its own.
type Fit string

const (
	// Stretch scales each axis independently to fill the entry.
	Stretch Fit = "stretch"
	// Contain scales uniformly to fit inside the entry and centers the
	// result on a transparent canvas.
	Contain Fit = "contain"
)

// ParseFit parses "stretch" or "contain". The empty string selects Stretch.
func ParseFit(s string) (Fit, error) {
	switch Fit(strings.ToLower(strings.TrimSpace(s))) {
	case "", Stretch:
		return Stretch, nil
	case Contain:
		return Contain, nil
	}
	return "", fmt.Errorf("preset: unknown fit %q", s)
}

// ContainSize returns the largest size with the aspect ratio of src that
// fits inside box. Neither side is ever below 1.
func ContainSize(src, box raster.Size) raster.Size {
	scale := math.Min(float64(box.Width)/float64(src.Width), float64(box.Height)/float64(src.Height))
	return raster.Size{
		Width:  min(box.Width, max(1, int(math.Round(float64(src.Width)*scale)))),
		Height: min(box.Height, max(1, int(math.Round(float64(src.Height)*scale)))),
	}
}
