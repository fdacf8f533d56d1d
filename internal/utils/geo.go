package utils

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/bradfitz/latlong"
	"github.com/umahmood/haversine"
)

// Map center used when a drop point has no coordinates. Rendering only.
const (
	DefaultMapLatitude  = 19.0760
	DefaultMapLongitude = 72.8777
	defaultMapZoom      = 16
)

// AverageRiderSpeedKmh is the city speed ETAs are estimated with.
const AverageRiderSpeedKmh = 20.0

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := haversine.Coord{Lat: lat1, Lon: lng1}
	p2 := haversine.Coord{Lat: lat2, Lon: lng2}
	_, km := haversine.Distance(p1, p2)
	return km
}

// EstimatedMinutes is the riding time for km at AverageRiderSpeedKmh, rounded
// up to whole minutes and never below one.
func EstimatedMinutes(km float64) int {
	mins := int(math.Ceil(km / AverageRiderSpeedKmh * 60))
	if mins < 1 {
		return 1
	}
	return mins
}

// MapURL links to an OpenStreetMap view of the point, falling back to the
// default center when either coordinate is missing.
func MapURL(lat, lng *float64) string {
	la, lo := DefaultMapLatitude, DefaultMapLongitude
	if lat != nil && lng != nil {
		la, lo = *lat, *lng
	}
	q := url.Values{}
	q.Set("mlat", fmt.Sprintf("%.6f", la))
	q.Set("mlon", fmt.Sprintf("%.6f", lo))
	return fmt.Sprintf("https://www.openstreetmap.org/?%s#map=%d/%.6f/%.6f", q.Encode(), defaultMapZoom, la, lo)
}

// LocationForPoint resolves the IANA zone of a coordinate. Falls back to UTC
// when the point is unknown or the zone database cannot load it.
func LocationForPoint(lat, lng float64) *time.Location {
	name := latlong.LookupZoneName(lat, lng)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		Logger.WithError(err).Debugf("Could not load zone %q, using UTC", name)
		return time.UTC
	}
	return loc
}
