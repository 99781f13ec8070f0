package session

import (
	"encoding/json"
	"fmt"

	"assetgen/internal/preset"
	"assetgen/internal/resample"
)

// commandJSON is the wire form of a command: {"type": "...", ...}.
type commandJSON struct {
	Type        string         `json:"type"`
	Mode        string         `json:"mode,omitempty"`
	Size        string         `json:"size,omitempty"`
	Value       string         `json:"value,omitempty"`
	Tier        *resample.Tier `json:"tier,omitempty"`
	AspectRatio float64        `json:"aspect_ratio,omitempty"`
}

// DecodeCommand parses a JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var c commandJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("session: decode command: %w", err)
	}

	switch c.Type {
	case SelectMode{}.command():
		return SelectMode{Mode: preset.Kind(c.Mode)}, nil
	case SelectSize{}.command():
		size, err := preset.ParseSize(c.Size)
		if err != nil {
			return nil, fmt.Errorf("session: decode command: %w", err)
		}
		return SelectSize{Size: size}, nil
	case SetCustomWidth{}.command():
		return SetCustomWidth{Value: c.Value}, nil
	case SetCustomHeight{}.command():
		return SetCustomHeight{Value: c.Value}, nil
	case ToggleAspectLock{}.command():
		return ToggleAspectLock{}, nil
	case SetTier{}.command():
		if c.Tier == nil {
			return nil, fmt.Errorf("session: decode command: set_tier without tier")
		}
		return SetTier{Tier: *c.Tier}, nil
	case BackToOriginal{}.command():
		return BackToOriginal{}, nil
	case Reset{}.command():
		return Reset{AspectRatio: c.AspectRatio}, nil
	}
	return nil, fmt.Errorf("session: decode command %q: %w", c.Type, ErrUnknownCommand)
}

// EventJSON is the wire form of an event.
type EventJSON struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// EncodeEvents converts events to their wire form.
func EncodeEvents(events []Event) []EventJSON {
	out := make([]EventJSON, 0, len(events))
	for _, e := range events {
		ej := EventJSON{Type: e.event()}
		if p, ok := e.(PreviewRequested); ok {
			ej.Width, ej.Height = p.Size.Width, p.Size.Height
		}
		out = append(out, ej)
	}
	return out
}
