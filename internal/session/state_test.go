package session

import (
	"testing"

	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, s State, cmds ...Command) (State, []Event) {
	t.Helper()
	var events []Event
	for _, c := range cmds {
		var err error
		s, events, err = Apply(s, c)
		require.NoError(t, err, "%T", c)
	}
	return s, events
}

func TestNewState(t *testing.T) {
	s := NewState(0)
	assert.Equal(t, preset.Standard, s.Mode)
	assert.Equal(t, 1.0, s.AspectRatio)
	assert.Equal(t, resample.High, s.Tier)
	assert.Nil(t, s.Selected)
}

func TestSelectSizeRequestsPreview(t *testing.T) {
	s, events := apply(t, NewState(1), SelectSize{Size: raster.Size{Width: 64, Height: 64}})
	require.NotNil(t, s.Selected)
	assert.Equal(t, raster.Size{Width: 64, Height: 64}, *s.Selected)
	assert.Equal(t, []Event{PreviewRequested{Size: raster.Size{Width: 64, Height: 64}}}, events)

	_, _, err := Apply(s, SelectSize{Size: raster.Size{Width: 0, Height: 64}})
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestSelectModeClearsSelection(t *testing.T) {
	s, _ := apply(t, NewState(2),
		SelectMode{Mode: preset.Custom},
		ToggleAspectLock{},
		SetCustomWidth{Value: "100"},
	)
	require.NotNil(t, s.Selected)
	require.True(t, s.AspectLocked)

	s, events := apply(t, s, SelectMode{Mode: "Android"})
	assert.Equal(t, preset.Android, s.Mode)
	assert.Nil(t, s.Selected)
	assert.Empty(t, s.CustomWidth)
	assert.Empty(t, s.CustomHeight)
	assert.False(t, s.AspectLocked)
	assert.Equal(t, []Event{PreviewCleared{}}, events)

	_, _, err := Apply(s, SelectMode{Mode: "desktop"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCustomSizeWithoutLock(t *testing.T) {
	s, events := apply(t, NewState(1), SelectMode{Mode: preset.Custom}, SetCustomWidth{Value: "300"})
	assert.Empty(t, events)
	assert.Empty(t, s.CustomHeight)
	assert.Nil(t, s.Selected)

	s, events = apply(t, s, SetCustomHeight{Value: "200"})
	assert.Equal(t, []Event{PreviewRequested{Size: raster.Size{Width: 300, Height: 200}}}, events)
	require.NotNil(t, s.Selected)

	s, events = apply(t, s, SetCustomHeight{Value: "abc"})
	assert.Equal(t, []Event{PreviewCleared{}}, events)
	assert.Equal(t, "abc", s.CustomHeight)
	assert.Nil(t, s.Selected)

	s, events = apply(t, s, SetCustomWidth{Value: ""})
	assert.Empty(t, events)
	assert.Nil(t, s.Selected)
}

func TestCustomSizeClearedFieldDropsSelection(t *testing.T) {
	s, _ := apply(t, NewState(1), SelectMode{Mode: preset.Custom},
		SetCustomWidth{Value: "300"}, SetCustomHeight{Value: "200"})
	require.NotNil(t, s.Selected)

	s, events := apply(t, s, SetCustomWidth{Value: ""})
	assert.Nil(t, s.Selected)
	assert.Equal(t, []Event{PreviewCleared{}}, events)

	s, events = apply(t, s, SetCustomWidth{Value: "64"})
	require.NotNil(t, s.Selected)
	assert.Equal(t, raster.Size{Width: 64, Height: 200}, *s.Selected)
	assert.Len(t, events, 1)

	s, events = apply(t, s, SetCustomWidth{Value: "100000"})
	assert.Nil(t, s.Selected)
	assert.Equal(t, []Event{PreviewCleared{}}, events)
}

func TestAspectLock(t *testing.T) {
	s, _ := apply(t, NewState(16.0/9.0), SelectMode{Mode: preset.Custom}, ToggleAspectLock{})

	s, events := apply(t, s, SetCustomWidth{Value: "1200"})
	assert.Equal(t, "675", s.CustomHeight)
	assert.Equal(t, []Event{PreviewRequested{Size: raster.Size{Width: 1200, Height: 675}}}, events)

	s, _ = apply(t, s, SetCustomHeight{Value: "90"})
	assert.Equal(t, "160", s.CustomWidth)
}

func TestToggleLockRecomputes(t *testing.T) {
	s, _ := apply(t, NewState(2), SelectMode{Mode: preset.Custom}, SetCustomWidth{Value: "50"})
	s, events := apply(t, s, ToggleAspectLock{})
	assert.True(t, s.AspectLocked)
	assert.Equal(t, "25", s.CustomHeight)
	assert.Equal(t, []Event{PreviewRequested{Size: raster.Size{Width: 50, Height: 25}}}, events)

	s, events = apply(t, s, ToggleAspectLock{})
	assert.False(t, s.AspectLocked)
	assert.Empty(t, events)

	s, _ = apply(t, NewState(2), SelectMode{Mode: preset.Custom}, SetCustomHeight{Value: "40"}, ToggleAspectLock{})
	assert.Equal(t, "80", s.CustomWidth)
}

func TestCustomFieldsOutsideCustomMode(t *testing.T) {
	s, events := apply(t, NewState(1), SetCustomWidth{Value: "10"}, SetCustomHeight{Value: "10"})
	assert.Empty(t, events)
	assert.Nil(t, s.Selected)
}

func TestSetTier(t *testing.T) {
	s, events := apply(t, NewState(1), SetTier{Tier: resample.Ultra})
	assert.Equal(t, resample.Ultra, s.Tier)
	assert.Empty(t, events)

	s, _ = apply(t, s, SelectSize{Size: raster.Size{Width: 32, Height: 32}})
	_, events = apply(t, s, SetTier{Tier: resample.Standard})
	assert.Equal(t, []Event{PreviewRequested{Size: raster.Size{Width: 32, Height: 32}}}, events)

	_, _, err := Apply(s, SetTier{Tier: resample.Tier(9)})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestBackToOriginalAndReset(t *testing.T) {
	s, _ := apply(t, NewState(1),
		SetTier{Tier: resample.Ultra},
		SelectMode{Mode: preset.Custom},
		ToggleAspectLock{},
		SetCustomWidth{Value: "20"},
	)

	back, events := apply(t, s, BackToOriginal{})
	assert.Nil(t, back.Selected)
	assert.Empty(t, back.CustomWidth)
	assert.Empty(t, back.CustomHeight)
	assert.Equal(t, preset.Custom, back.Mode)
	assert.True(t, back.AspectLocked)
	assert.Equal(t, []Event{PreviewCleared{}}, events)

	reset, events := apply(t, s, Reset{AspectRatio: 0.5})
	assert.Equal(t, preset.Standard, reset.Mode)
	assert.False(t, reset.AspectLocked)
	assert.Equal(t, 0.5, reset.AspectRatio)
	assert.Equal(t, resample.Ultra, reset.Tier)
	assert.Equal(t, []Event{PreviewCleared{}}, events)
}

type bogus struct{}

func (bogus) command() string { return "bogus" }

func TestApplyUnknownCommand(t *testing.T) {
	s := NewState(1)
	got, events, err := Apply(s, bogus{})
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, s, got)
	assert.Nil(t, events)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s, _ := apply(t, NewState(1), SelectSize{Size: raster.Size{Width: 16, Height: 16}})
	before := *s.Selected

	_, _ = apply(t, s, SelectSize{Size: raster.Size{Width: 512, Height: 512}})
	assert.Equal(t, before, *s.Selected)
}
