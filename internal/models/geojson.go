package models

// GeoJSONFeature is a single parcel polygon encoded as a GeoJSON Feature.
type GeoJSONFeature struct {
	Type       string            `json:"type"`
	BBox       []float64         `json:"bbox,omitempty"`
	Geometry   GeoJSONGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// GeoJSONGeometry holds a single-ring polygon in [lon, lat] order.
type GeoJSONGeometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// GeoJSON converts the polygon into a Feature tagged with the parcel identifier.
// The ring is emitted as received, without forcing closure.
func (p Polygon) GeoJSON(identifier string) GeoJSONFeature {
	ring := make([][2]float64, 0, len(p))
	for _, pt := range p {
		ring = append(ring, [2]float64{pt.Longitude, pt.Latitude})
	}

	feature := GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Polygon",
			Coordinates: [][][2]float64{ring},
		},
		Properties: map[string]string{"identifier": identifier},
	}
	if b, ok := p.Bounds(); ok {
		feature.BBox = []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
	}

	return feature
}
