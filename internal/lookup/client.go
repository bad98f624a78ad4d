// internal/lookup/client.go - Feature lookup client implementation
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"osm-tile-plotter/internal/config"
)

// Client resolves OSM element ids to geometry through a Nominatim-style
// lookup endpoint. All transport and parse failures degrade to an empty
// feature so that one bad id never interrupts a batch.
type Client struct {
	client *http.Client
	config *config.LookupConfig
	log    *zap.Logger
}

// NewClient creates a new feature lookup client
func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	client := &http.Client{
		Timeout: cfg.Lookup.Timeout,
	}

	return &Client{
		client: client,
		config: &cfg.Lookup,
		log:    log,
	}
}

// lookupEntry is the subset of the jsonv2 response record that is consumed
type lookupEntry struct {
	Type    string            `json:"type"`
	GeoJSON *geojson.Geometry `json:"geojson"`
}

// Resolve queries the lookup endpoint for one element id, requesting
// GeoJSON polygon output. An empty or malformed response yields an empty
// feature; a miss is indistinguishable from a failure.
func (c *Client) Resolve(ctx context.Context, id int64, elementType ElementType) Feature {
	feature := Feature{ID: id}

	query := url.Values{}
	query.Set("osm_ids", fmt.Sprintf("%s%d", elementType, id))
	query.Set("format", "jsonv2")
	query.Set("polygon_geojson", "1")
	endpoint := fmt.Sprintf("%s/lookup.php?%s", c.config.BaseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Warn("failed to build lookup request", zap.Int64("id", id), zap.Error(err))
		return feature
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("lookup request failed", zap.Int64("id", id), zap.Error(err))
		return feature
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("lookup returned non-success status",
			zap.Int64("id", id),
			zap.Int("status", resp.StatusCode),
		)
		return feature
	}

	var entries []lookupEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		c.log.Warn("failed to decode lookup response", zap.Int64("id", id), zap.Error(err))
		return feature
	}

	if len(entries) == 0 {
		c.log.Debug("lookup returned no entries", zap.Int64("id", id))
		return feature
	}

	feature.Type = entries[0].Type
	feature.Geometry = entries[0].GeoJSON
	return feature
}

// ResolveBatch resolves each way and node id independently, one request per
// id in input order, without deduplication. Empty geometries contribute no
// coordinates to the flattened lists.
func (c *Client) ResolveBatch(ctx context.Context, wayIDs, nodeIDs []int64) *MapData {
	data := NewMapData()

	for _, id := range wayIDs {
		feature := c.Resolve(ctx, id, ElementWay)
		data.Ways[id] = feature
		data.WayCoords = append(data.WayCoords, feature.Coordinates()...)
	}

	for _, id := range nodeIDs {
		feature := c.Resolve(ctx, id, ElementNode)
		data.Nodes[id] = feature
		data.NodeCoords = append(data.NodeCoords, feature.Coordinates()...)
	}

	c.log.Debug("batch resolved",
		zap.Int("ways", len(wayIDs)),
		zap.Int("nodes", len(nodeIDs)),
		zap.Int("way_coords", len(data.WayCoords)),
		zap.Int("node_coords", len(data.NodeCoords)),
	)

	return data
}
