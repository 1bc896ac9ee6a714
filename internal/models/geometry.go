package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

const SRIDWGS84 = 4326

// GeoJSONPolygon is the API shape of a paddock boundary.
type GeoJSONPolygon struct {
	Type        string        `json:"type" binding:"required,eq=Polygon"`
	Coordinates [][][]float64 `json:"coordinates" binding:"required"`
}

// IsClosedRing reports whether every ring starts and ends on the same
// coordinate. A polygon without rings is not closed.
func (g *GeoJSONPolygon) IsClosedRing() bool {
	if g == nil || len(g.Coordinates) == 0 {
		return false
	}
	for _, ring := range g.Coordinates {
		if len(ring) < 4 {
			return false
		}
		first, last := ring[0], ring[len(ring)-1]
		if len(first) < 2 || len(first) != len(last) {
			return false
		}
		for i := range first {
			if first[i] != last[i] {
				return false
			}
		}
	}
	return true
}

// Polygon converts the GeoJSON into a go-geom polygon tagged with SRID 4326.
func (g *GeoJSONPolygon) Polygon() (*geom.Polygon, error) {
	geometry, err := decodeGeoJSON(g)
	if err != nil {
		return nil, err
	}
	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Polygon")
	}
	polygon.SetSRID(SRIDWGS84)
	return polygon, nil
}

// GeoJSON returns the raw GeoJSON document, as accepted by ST_GeomFromGeoJSON.
func (g *GeoJSONPolygon) GeoJSON() (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	return string(b), nil
}

// Value renders the polygon as EWKT, e.g. "SRID=4326;POLYGON((...))".
func (g *GeoJSONPolygon) Value() (driver.Value, error) {
	if g == nil || g.Type == "" {
		return nil, nil
	}
	polygon, err := g.Polygon()
	if err != nil {
		return nil, err
	}
	return toEWKT(polygon)
}

// Scan reads an EWKB polygon as returned by ST_AsEWKB.
func (g *GeoJSONPolygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	geometry, err := scanEWKB(value)
	if err != nil {
		return fmt.Errorf("failed to scan GeoJSONPolygon: %w", err)
	}
	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return fmt.Errorf("scanned geometry is not a Polygon")
	}
	return encodeGeoJSON(polygon, g)
}

// GeoJSONPoint is the API shape of a water point or farm center.
type GeoJSONPoint struct {
	Type        string    `json:"type" binding:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
}

func NewGeoJSONPoint(lng, lat float64) *GeoJSONPoint {
	return &GeoJSONPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Value renders the point as EWKT, e.g. "SRID=4326;POINT(-58.1 -34.6)".
func (g *GeoJSONPoint) Value() (driver.Value, error) {
	if g == nil || g.Type == "" {
		return nil, nil
	}
	geometry, err := decodeGeoJSON(g)
	if err != nil {
		return nil, err
	}
	point, ok := geometry.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Point")
	}
	point.SetSRID(SRIDWGS84)
	return toEWKT(point)
}

func (g *GeoJSONPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	geometry, err := scanEWKB(value)
	if err != nil {
		return fmt.Errorf("failed to scan GeoJSONPoint: %w", err)
	}
	point, ok := geometry.(*geom.Point)
	if !ok {
		return fmt.Errorf("scanned geometry is not a Point")
	}
	return encodeGeoJSON(point, g)
}

func decodeGeoJSON(v any) (geom.T, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	var geometry geom.T
	if err := geojson.Unmarshal(b, &geometry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GeoJSON: %w", err)
	}
	return geometry, nil
}

func toEWKT(g geom.T) (string, error) {
	s, err := wkt.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to WKT: %w", err)
	}
	return fmt.Sprintf("SRID=%d;%s", g.SRID(), s), nil
}

func scanEWKB(value interface{}) (geom.T, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected []byte, got %T", value)
	}
	geometry, err := ewkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal EWKB: %w", err)
	}
	return geometry, nil
}

func encodeGeoJSON(g geom.T, dst any) error {
	b, err := geojson.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal to GeoJSON: %w", err)
	}
	return json.Unmarshal(b, dst)
}
