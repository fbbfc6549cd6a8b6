package geo

import (
	"math"
	"strconv"
)

const earthRadiusKm = 6371

// Meters returns the great-circle distance between two coordinate pairs
// using the haversine formula.
func Meters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * (math.Pi / 180)
	lon1Rad := lon1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	lon2Rad := lon2 * (math.Pi / 180)

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	c := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin(dlat/2), 2)+
			math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2),
	))

	return c * earthRadiusKm * 1000
}

// DistanceBetween formats the haversine distance as "<d> m" up to and
// including 1000 meters and "<d/1000> km" above it. The raw floating-point
// value is rendered without rounding; callers rely on the exact string.
func DistanceBetween(lat1, lon1, lat2, lon2 float64) string {
	d := Meters(lat1, lon1, lat2, lon2)
	if d > 1000 {
		return strconv.FormatFloat(d/1000, 'f', -1, 64) + " km"
	}
	return strconv.FormatFloat(d, 'f', -1, 64) + " m"
}
