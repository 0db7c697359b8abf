package domain

// DefaultCoordinates points at Seoul City Hall, used until the first successful geocode.
var DefaultCoordinates = Coordinates{Latitude: 37.5665, Longitude: 126.9780}

// MapBoxDelta is the half-width in degrees of the map viewport around a location.
const MapBoxDelta = 0.01

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// BoundingBox is an axis-aligned box in degrees.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// BoundingBox returns the box spanning delta degrees on each side of c.
func (c Coordinates) BoundingBox(delta float64) BoundingBox {
	return BoundingBox{
		West:  c.Longitude - delta,
		South: c.Latitude - delta,
		East:  c.Longitude + delta,
		North: c.Latitude + delta,
	}
}
