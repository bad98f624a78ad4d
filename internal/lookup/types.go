// internal/lookup/types.go - Feature lookup types
package lookup

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ElementType is the lookup protocol's discriminator for OSM element kinds
type ElementType string

const (
	ElementWay      ElementType = "W"
	ElementRelation ElementType = "R"
	ElementNode     ElementType = "N"
)

// Feature is one resolved OSM element. A lookup miss or failure yields a
// Feature with empty Type and nil Geometry; the two cases are not
// distinguished.
type Feature struct {
	ID       int64
	Type     string
	Geometry *geojson.Geometry
}

// Coordinates flattens the feature geometry into a list of (lon, lat)
// points. An empty feature contributes no coordinates.
func (f Feature) Coordinates() []orb.Point {
	if f.Geometry == nil {
		return nil
	}
	return collectPoints(f.Geometry.Geometry())
}

// collectPoints gathers every vertex of a geometry in order
func collectPoints(geom orb.Geometry) []orb.Point {
	switch g := geom.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.MultiPoint:
		return []orb.Point(g)
	case orb.LineString:
		return []orb.Point(g)
	case orb.MultiLineString:
		var points []orb.Point
		for _, line := range g {
			points = append(points, line...)
		}
		return points
	case orb.Ring:
		return []orb.Point(g)
	case orb.Polygon:
		var points []orb.Point
		for _, ring := range g {
			points = append(points, ring...)
		}
		return points
	case orb.MultiPolygon:
		var points []orb.Point
		for _, polygon := range g {
			points = append(points, collectPoints(polygon)...)
		}
		return points
	default:
		return nil
	}
}

// MapData accumulates the features resolved during one batch run, keyed by
// id, with flattened per-category coordinate lists for bounding-box
// computation.
type MapData struct {
	Ways       map[int64]Feature
	Nodes      map[int64]Feature
	WayCoords  []orb.Point
	NodeCoords []orb.Point
}

// NewMapData creates an empty result accumulator
func NewMapData() *MapData {
	return &MapData{
		Ways:  make(map[int64]Feature),
		Nodes: make(map[int64]Feature),
	}
}

// Bounds returns the bounding box of all resolved way coordinates. Lookup
// failures degrade to empty geometry, so a batch where nothing resolved has
// no defined bound and is reported as an error rather than propagating
// non-finite values downstream.
func (m *MapData) Bounds() (orb.Bound, error) {
	if len(m.WayCoords) == 0 {
		return orb.Bound{}, errors.New("no way coordinates resolved")
	}
	return orb.MultiPoint(m.WayCoords).Bound(), nil
}
