package stitch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"screencatch/pkg/geometry"
)

// Metadata is the sidecar record persisted alongside each capture session
// output, under the same base name with a .json suffix.
type Metadata struct {
	Description        string          `json:"description"`
	Timestamp          string          `json:"timestamp"`
	Captures           int             `json:"captures"`
	Merged             bool            `json:"merged"`
	Filepath           string          `json:"filepath"`
	Regions            []geometry.Rect `json:"regions"`
	RecaptureIteration int             `json:"recapture_iteration"`
	MergeMethod        string          `json:"merge_method"`
}

// SidecarPath returns the metadata path for an output image path.
func SidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".json"
}

// Save writes the metadata record as indented JSON.
func (m *Metadata) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadMetadata reads a metadata record back from disk.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
