package batch

import (
	"encoding/json"
)

// ManifestEntry describes one bundle entry in manifest.json.
type ManifestEntry struct {
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	File   string `json:"file"`
	Bytes  int    `json:"bytes"`
	Error  string `json:"error,omitempty"`
}

// Manifest lists every result, flagging failed entries with their error.
func Manifest(results []Result) []ManifestEntry {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:   r.Entry.Name,
			Width:  r.Entry.Width,
			Height: r.Entry.Height,
			File:   r.FileName,
			Bytes:  len(r.Data),
		}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
		}
	}
	return entries
}

// MarshalManifest encodes Manifest(results) as indented JSON.
func MarshalManifest(results []Result) ([]byte, error) {
	return json.MarshalIndent(Manifest(results), "", "  ")
}
