package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

const (
	// GeohashPrecision gives cells of roughly 150m, enough to show the cleaner's neighbourhood
	GeohashPrecision = 7
	// DefaultSpeedKmh is assumed when the cleaner does not report a speed
	DefaultSpeedKmh = 30.0

	earthRadiusKm = 6371.0
)

// GeoPoint represents a geographical point with latitude and longitude
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// EncodeLocation converts a point to a geohash string
func EncodeLocation(point GeoPoint, precision uint) string {
	return geohash.EncodeWithPrecision(point.Latitude, point.Longitude, precision)
}

// CalculateDistance returns the distance between two points in kilometers using the Haversine formula
func CalculateDistance(point1, point2 GeoPoint) float64 {
	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EstimateProgress derives distance, ETA and geohash for the cleaner heading to dest.
// It returns nil until both a location and a destination are known.
func EstimateProgress(snapshot *models.TrackingSnapshot) *models.TrackingProgress {
	if snapshot == nil || snapshot.Location == nil || snapshot.Destination == nil {
		return nil
	}
	loc := snapshot.Location
	from := GeoPoint{Latitude: loc.Latitude, Longitude: loc.Longitude}
	to := GeoPoint{Latitude: snapshot.Destination.Latitude, Longitude: snapshot.Destination.Longitude}

	distance := CalculateDistance(from, to)

	speedKmh := DefaultSpeedKmh
	if loc.Speed != nil && *loc.Speed > 0 {
		speedKmh = *loc.Speed * 3.6
	}

	return &models.TrackingProgress{
		DistanceKm: math.Round(distance*100) / 100,
		ETAMinutes: int(math.Ceil(distance / speedKmh * 60)),
		Geohash:    EncodeLocation(from, GeohashPrecision),
	}
}
