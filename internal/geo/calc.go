// Package geo holds the coordinate helpers used by the source catalog.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean earth radius used for the great-circle
// approximation.
const EarthRadiusMeters = 6371008.77141506

// SRID is the spatial reference of the sources.location column. It is part
// of the column DDL, so it is fixed at migration time and not configurable.
const SRID = 4035

// DegreesToMeters converts an angular separation in degrees to a linear
// distance for use with PostGIS geography functions.
func DegreesToMeters(degrees float64) float64 {
	return 2 * math.Pi * EarthRadiusMeters * degrees / 360
}

// WKTPoint returns a point in extended well-known-text format for the given
// RA/Dec and SRID.
func WKTPoint(ra, dec float64, srid int) string {
	return fmt.Sprintf("SRID=%d;POINT(%g %g)", srid, ra, dec)
}

// NormalizeRA maps a right ascension into [0, 360).
func NormalizeRA(ra float64) float64 {
	if ra < 0 {
		return ra + 360
	}
	return ra
}
