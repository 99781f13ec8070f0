package resample

import (
	"fmt"
	"strings"
)

// Tier selects how upscales are performed. Downscales ignore it.
type Tier int

const (
	// Standard resizes in one pass regardless of magnification.
	Standard Tier = iota
	// High resizes large upscales in steps of at most 2x.
	High
	// Ultra is High followed by a sharpening pass.
	Ultra
)

// DefaultTier is the tier used when none is configured.
const DefaultTier = High

func (t Tier) String() string {
	switch t {
	case Standard:
		return "standard"
	case High:
		return "high"
	case Ultra:
		return "ultra"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return t == Standard || t == High || t == Ultra
}

// ParseTier parses "standard", "high" or "ultra" (case-insensitive).
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return Standard, nil
	case "high":
		return High, nil
	case "ultra":
		return Ultra, nil
	}
	return 0, fmt.Errorf("resample: unknown quality tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	switch t {
	case Standard, High, Ultra:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("resample: invalid tier %d", int(t))
}

func (t *Tier) UnmarshalText(text []byte) error {
	v, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Strategy is the resize path chosen for one request.
type Strategy int

const (
	// Direct is a single interpolation pass.
	Direct Strategy = iota
	// Staged doubles in steps of at most 2x.
	Staged
	// StagedSharpen is Staged followed by Sharpen.
	StagedSharpen
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Staged:
		return "staged"
	case StagedSharpen:
		return "staged+sharpen"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// IsUpscale reports whether target exceeds src on either axis.
func IsUpscale(src, target Size) bool {
	return target.Width > src.Width || target.Height > src.Height
}

// Plan picks the strategy for resizing src to target at tier.
// Standard tier never stages, even on upscale.
func Plan(src, target Size, tier Tier) Strategy {
	if !IsUpscale(src, target) {
		return Direct
	}
	switch tier {
	case Standard:
		return Direct
	case High:
		return Staged
	case Ultra:
		return StagedSharpen
	}
	panic(fmt.Sprintf("resample: unhandled tier %v", tier))
}
