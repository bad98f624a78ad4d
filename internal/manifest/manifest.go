// internal/manifest/manifest.go - Input manifest loading
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DrawSpec is the user-supplied manifest naming the features to draw.
// HighlightWayNodes maps a way id (as a string, per the JSON format) to an
// index into that way's coordinate list.
type DrawSpec struct {
	Ways              []int64        `json:"ways"`
	Nodes             []int64        `json:"nodes"`
	HighlightWayNodes map[string]int `json:"highlight_way_nodes"`

	path string
}

// Load reads and parses a manifest file. A missing or unreadable file is a
// fatal condition for the run and is returned as an error.
func Load(path string) (*DrawSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var ds DrawSpec
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	ds.path = path
	return &ds, nil
}

// Stem returns the manifest filename without directory or extension; it
// names the output artifact.
func (ds *DrawSpec) Stem() string {
	base := filepath.Base(ds.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HighlightIndex returns the highlighted vertex index for a way id, if one
// was configured.
func (ds *DrawSpec) HighlightIndex(wayID int64) (int, bool) {
	index, ok := ds.HighlightWayNodes[strconv.FormatInt(wayID, 10)]
	return index, ok
}
