package core

import (
	"encoding/json"
	"sort"
)

const ManifestFile = "asset-manifest.json"

type Manifest struct {
	Mode       string            `json:"mode"`
	BuildID    string            `json:"build"`
	Scripts    []string          `json:"scripts"`
	Styles     []string          `json:"styles,omitempty"`
	Media      []string          `json:"media,omitempty"`
	SourceMaps []string          `json:"sourceMaps,omitempty"`
	Defines    map[string]string `json:"defines"`
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// NewManifest files the output names of a build under their kind.
func NewManifest(mode Mode, buildID string, files []string, defines map[string]string) *Manifest {
	m := &Manifest{
		Mode:    mode.String(),
		BuildID: buildID,
		Scripts: []string{},
		Defines: defines,
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	for _, name := range sorted {
		url := PublicURL(name)
		switch ClassifyAsset(name) {
		case AssetScript:
			m.Scripts = append(m.Scripts, url)
		case AssetStyle:
			m.Styles = append(m.Styles, url)
		case AssetSourceMap:
			m.SourceMaps = append(m.SourceMaps, url)
		case AssetMedia:
			m.Media = append(m.Media, url)
		}
	}

	return m
}

func (m *Manifest) Port() string {
	if m == nil {
		return ""
	}
	return m.Defines["PORT"]
}
