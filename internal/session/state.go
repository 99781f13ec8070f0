// Package session models the preview and size-selection workflow for one
// uploaded image as a reducer: commands go in, a new state and events
// come out.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"
)

// ErrUnknownCommand is returned for commands the reducer does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// State is the selection state of one image.
type State struct {
	Mode         preset.Kind   `json:"mode"`
	Selected     *raster.Size  `json:"selected,omitempty"`
	CustomWidth  string        `json:"custom_width"`
	CustomHeight string        `json:"custom_height"`
	AspectLocked bool          `json:"aspect_locked"`
	AspectRatio  float64       `json:"aspect_ratio"`
	Tier         resample.Tier `json:"tier"`
}

// NewState returns the initial state for an image with the given aspect
// ratio (width / height). Non-positive ratios are treated as 1.
func NewState(ratio float64) State {
	if ratio <= 0 {
		ratio = 1
	}
	return State{
		Mode:        preset.Standard,
		AspectRatio: ratio,
		Tier:        resample.DefaultTier,
	}
}

// Command is an input to Apply.
type Command interface {
	command() string
}

type (
	// SelectMode switches the export mode and clears every selection.
	SelectMode struct{ Mode preset.Kind }
	// SelectSize picks one of the quick-pick sizes for preview.
	SelectSize struct{ Size raster.Size }
	// SetCustomWidth updates the custom width text field.
	SetCustomWidth struct{ Value string }
	// SetCustomHeight updates the custom height text field.
	SetCustomHeight struct{ Value string }
	// ToggleAspectLock locks or unlocks the custom aspect ratio.
	ToggleAspectLock struct{}
	// SetTier changes the quality tier.
	SetTier struct{ Tier resample.Tier }
	// BackToOriginal drops the preview and the size selection.
	BackToOriginal struct{}
	// Reset starts over for a newly uploaded image.
	Reset struct{ AspectRatio float64 }
)

func (SelectMode) command() string       { return "select_mode" }
func (SelectSize) command() string       { return "select_size" }
func (SetCustomWidth) command() string   { return "set_custom_width" }
func (SetCustomHeight) command() string  { return "set_custom_height" }
func (ToggleAspectLock) command() string { return "toggle_aspect_lock" }
func (SetTier) command() string          { return "set_tier" }
func (BackToOriginal) command() string   { return "back_to_original" }
func (Reset) command() string            { return "reset" }

// Event is an output of Apply that the caller acts upon.
type Event interface {
	event() string
}

type (
	// PreviewRequested asks the viewer to show the image resized to Size.
	PreviewRequested struct{ Size raster.Size }
	// PreviewCleared asks the viewer to show the original image.
	PreviewCleared struct{}
)

func (PreviewRequested) event() string { return "preview_requested" }
func (PreviewCleared) event() string   { return "preview_cleared" }

// Apply returns the state that results from cmd and the events it raises.
// s is never modified. On error the original state is returned unchanged.
func Apply(s State, cmd Command) (State, []Event, error) {
	switch c := cmd.(type) {
	case SelectMode:
		mode := preset.Kind(strings.ToLower(string(c.Mode)))
		if mode != preset.Custom {
			if _, ok := preset.Lookup(mode); !ok {
				return s, nil, fmt.Errorf("session: select mode %q: %w", c.Mode, ErrUnknownCommand)
			}
		}
		s.Mode = mode
		s.CustomWidth, s.CustomHeight = "", ""
		s.Selected = nil
		s.AspectLocked = false
		return s, []Event{PreviewCleared{}}, nil

	case SelectSize:
		if !c.Size.Valid() {
			return s, nil, fmt.Errorf("session: select size %s: %w", c.Size, raster.ErrInvalidDimensions)
		}
		size := c.Size
		s.Selected = &size
		return s, []Event{PreviewRequested{Size: size}}, nil

	case SetCustomWidth:
		s.CustomWidth = c.Value
		if w, ok := parseDim(c.Value); ok && s.AspectLocked {
			s.CustomHeight = strconv.Itoa(preset.LockHeight(w, s.AspectRatio))
		}
		return customPreview(s)

	case SetCustomHeight:
		s.CustomHeight = c.Value
		if h, ok := parseDim(c.Value); ok && s.AspectLocked {
			s.CustomWidth = strconv.Itoa(preset.LockWidth(h, s.AspectRatio))
		}
		return customPreview(s)

	case ToggleAspectLock:
		s.AspectLocked = !s.AspectLocked
		if !s.AspectLocked {
			return s, nil, nil
		}
		if w, ok := parseDim(s.CustomWidth); ok {
			s.CustomHeight = strconv.Itoa(preset.LockHeight(w, s.AspectRatio))
		} else if h, ok := parseDim(s.CustomHeight); ok && s.CustomWidth == "" {
			s.CustomWidth = strconv.Itoa(preset.LockWidth(h, s.AspectRatio))
		} else {
			return s, nil, nil
		}
		return customPreview(s)

	case SetTier:
		if !c.Tier.Valid() {
			return s, nil, fmt.Errorf("session: set tier %d: %w", int(c.Tier), ErrUnknownCommand)
		}
		s.Tier = c.Tier
		if s.Selected != nil {
			return s, []Event{PreviewRequested{Size: *s.Selected}}, nil
		}
		return s, nil, nil

	case BackToOriginal:
		s.Selected = nil
		s.CustomWidth, s.CustomHeight = "", ""
		return s, []Event{PreviewCleared{}}, nil

	case Reset:
		next := NewState(c.AspectRatio)
		if c.AspectRatio <= 0 {
			next.AspectRatio = s.AspectRatio
		}
		next.Tier = s.Tier
		return next, []Event{PreviewCleared{}}, nil
	}
	return s, nil, fmt.Errorf("session: %T: %w", cmd, ErrUnknownCommand)
}

// customPreview requests a preview once both custom fields describe a
// valid size while in custom mode. Otherwise a stale selection is dropped so
// Selected always matches the fields.
func customPreview(s State) (State, []Event, error) {
	if s.Mode != preset.Custom {
		return s, nil, nil
	}
	w, okW := parseDim(s.CustomWidth)
	h, okH := parseDim(s.CustomHeight)
	size := raster.Size{Width: w, Height: h}
	if !okW || !okH || !size.Valid() {
		if s.Selected == nil {
			return s, nil, nil
		}
		s.Selected = nil
		return s, []Event{PreviewCleared{}}, nil
	}
	s.Selected = &size
	return s, []Event{PreviewRequested{Size: size}}, nil
}

func parseDim(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
