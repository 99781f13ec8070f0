package export

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"path"
	"testing"

	"assetgen/internal/encode"
	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"

	ico "github.com/sergeymakinen/go-ico"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func source(t *testing.T) *raster.Buffer {
	t.Helper()
	b, err := raster.NewBuffer(raster.Size{Width: 48, Height: 48})
	require.NoError(t, err)
	b.Fill(color.NRGBA{R: 10, G: 120, B: 240, A: 255})
	return b
}

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = b
	}
	return files
}

func TestExportIOSArchive(t *testing.T) {
	bundle, ok := preset.Lookup(preset.IOS)
	require.True(t, ok)

	e := New(WithWorkers(4), WithLogger(zaptest.NewLogger(t)))
	art, report, err := e.Export(context.Background(), source(t), bundle, resample.High, encode.PNG)
	require.NoError(t, err)

	assert.Equal(t, "ios-app-icons.zip", art.Name)
	assert.Equal(t, "application/zip", art.ContentType)
	assert.Equal(t, len(bundle.Entries), report.Generated)
	assert.Empty(t, report.Failed)

	files := unzip(t, art.Data)
	assert.Len(t, files, len(bundle.Entries)+1)
	assert.Contains(t, files, "ios-icons/manifest.json")

	data, ok := files["ios-icons/icon_App-Store_1024x1024.png"]
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
}

func TestExportFaviconIncludesICO(t *testing.T) {
	bundle, ok := preset.Lookup(preset.Favicon)
	require.True(t, ok)

	art, _, err := New().Export(context.Background(), source(t), bundle, resample.Standard, encode.PNG)
	require.NoError(t, err)

	files := unzip(t, art.Data)
	data, ok := files[path.Join(bundle.Folder, bundle.ICO)]
	require.True(t, ok)

	imgs, err := ico.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, imgs, 3)
	var widths []int
	for _, img := range imgs {
		widths = append(widths, img.Bounds().Dx())
	}
	assert.ElementsMatch(t, []int{16, 32, 48}, widths)
}

func TestExportCustomIsStandalone(t *testing.T) {
	bundle, err := preset.NewCustom(raster.Size{Width: 300, Height: 150})
	require.NoError(t, err)

	art, report, err := New().Export(context.Background(), source(t), bundle, resample.Ultra, encode.WebP)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, "custom-image-300x150.webp", art.Name)
	assert.Equal(t, "image/webp", art.ContentType)
	assert.NotEmpty(t, art.Data)
}

func TestExportNothingGenerated(t *testing.T) {
	bundle := preset.Bundle{
		Kind:    "broken",
		Folder:  "broken",
		Archive: "broken.zip",
		Entries: []preset.Entry{{Width: 0, Height: 16}, {Width: 16, Height: -1}},
	}

	art, report, err := New().Export(context.Background(), source(t), bundle, resample.High, encode.PNG)
	require.ErrorIs(t, err, ErrNothingGenerated)
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
	assert.Nil(t, art)
	assert.Equal(t, 0, report.Generated)
	assert.Len(t, report.Failed, 2)
}

func TestExportPartialFailureStillArchives(t *testing.T) {
	bundle := preset.Bundle{
		Kind:    "mixed",
		Folder:  "mixed",
		Archive: "mixed.zip",
		Entries: []preset.Entry{{Width: 16, Height: 16}, {Width: 0, Height: 16}},
	}

	art, report, err := New().Export(context.Background(), source(t), bundle, resample.High, encode.PNG)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	require.Len(t, report.Failed, 1)

	files := unzip(t, art.Data)
	assert.Contains(t, files, "mixed/16x16.png")
	assert.NotContains(t, files, "mixed/0x16.png")
	assert.Contains(t, string(files["mixed/manifest.json"]), "invalid")
}

func TestExportAllOrNothing(t *testing.T) {
	bundle := preset.Bundle{
		Kind:    "mixed",
		Archive: "mixed.zip",
		Entries: []preset.Entry{{Width: 16, Height: 16}, {Width: 0, Height: 16}},
	}

	_, _, err := New(WithAllOrNothing(true)).Export(context.Background(), source(t), bundle, resample.High, encode.PNG)
	require.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestPreview(t *testing.T) {
	data, err := New().Preview(source(t), raster.Size{Width: 128, Height: 64}, resample.Ultra)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	_, err = New().Preview(source(t), raster.Size{}, resample.High)
	require.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestPreviewTrimAndContain(t *testing.T) {
	src, err := raster.NewBuffer(raster.Size{Width: 30, Height: 30})
	require.NoError(t, err)
	green := color.NRGBA{G: 255, A: 255}
	for y := 10; y < 15; y++ {
		for x := 5; x < 25; x++ {
			src.Set(x, y, green)
		}
	}

	e := New(WithTrim(true), WithFit(preset.Contain))
	data, err := e.Preview(src, raster.Size{Width: 40, Height: 40}, resample.Standard)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	// the 20x5 content becomes 40x10, centered vertically
	_, _, _, a := img.At(20, 0).RGBA()
	assert.Zero(t, a)
	_, g, _, a := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint32(0xffff), g)
}
