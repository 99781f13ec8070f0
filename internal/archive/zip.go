// Package archive packages batch results into zip files.
package archive

import (
	"fmt"
	"io"
	"path"
	"time"

	"assetgen/internal/batch"

	"github.com/klauspost/compress/zip"
)

// ManifestName is the name of the manifest written next to the images.
const ManifestName = "manifest.json"

// File is an extra archive member such as favicon.ico.
type File struct {
	Name string
	Data []byte
}

// Write creates a zip on w containing every successful result under
// folder/. Failed results are left out and only show up, with their
// error, in folder/manifest.json.
func Write(w io.Writer, folder string, results []batch.Result, extras ...File) error {
	zw := zip.NewWriter(w)
	modified := time.Now()

	add := func(name string, data []byte) error {
		hdr := &zip.FileHeader{
			Name:     path.Join(folder, name),
			Method:   zip.Deflate,
			Modified: modified,
		}
		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("archive: create %s: %w", hdr.Name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("archive: write %s: %w", hdr.Name, err)
		}
		return nil
	}

	for _, r := range results {
		if !r.Success() {
			continue
		}
		if err := add(r.FileName, r.Data); err != nil {
			return err
		}
	}
	for _, f := range extras {
		if len(f.Data) == 0 {
			continue
		}
		if err := add(f.Name, f.Data); err != nil {
			return err
		}
	}

	manifest, err := batch.MarshalManifest(results)
	if err != nil {
		return fmt.Errorf("archive: manifest: %w", err)
	}
	if err := add(ManifestName, manifest); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: close: %w", err)
	}
	return nil
}
