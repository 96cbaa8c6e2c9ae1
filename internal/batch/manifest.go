package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	Image   string `json:"image,omitempty"`
	Faces   int    `json:"faces"`
	Drawn   int    `json:"drawn"`
	Culled  int    `json:"culled"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes the results as JSON. Image paths are made relative to
// the manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			Name:    r.Name,
			Model:   r.Model,
			Faces:   r.Stats.Faces,
			Drawn:   r.Stats.Drawn,
			Culled:  r.Stats.Culled,
			Skipped: r.Stats.Skipped,
			Error:   r.Error,
		}
		if r.Success {
			e.Image = r.Output
			if rel, err := filepath.Rel(dir, r.Output); err == nil {
				e.Image = filepath.ToSlash(rel)
			}
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
