package domain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// earthRadiusKm is the mean Earth radius used for haversine distances.
const earthRadiusKm = 6371.0

// cafeNamespace scopes coordinate-derived cafe IDs so they cannot collide
// with UUIDv5 values generated for other purposes.
var cafeNamespace = uuid.MustParse("6f1c2f3e-9a51-4d0b-8f43-2b8f6b0c9e11")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate reports whether the coordinates are within the valid WGS84 range.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}

// DistanceKm returns the great-circle distance between c and o.
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	lat1, lat2 := c.Lat*math.Pi/180, o.Lat*math.Pi/180
	dLat := (o.Lat - c.Lat) * math.Pi / 180
	dLon := (o.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// CafeID derives a stable cafe identifier from exact coordinates.
// The latitude and longitude are packed as two big-endian float64 values and
// hashed into a UUIDv5, so the same location always yields the same ID.
func CafeID(c Coordinates) uuid.UUID {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], math.Float64bits(c.Lat))
	binary.BigEndian.PutUint64(buf[8:], math.Float64bits(c.Lon))
	return uuid.NewSHA1(cafeNamespace, buf)
}
