// Package geo derives land-base classification codes for tribal
// statistical areas from shapefile geometry and attributes.
package geo

// Land-base classification constants.
const (
	ClassAlaska        = "alaska"
	ClassLargeLandbase = "large_landbase"
	ClassMidLandbase   = "mid_landbase"
	ClassSmallLandbase = "small_landbase"
)

// Land-area thresholds for classification (square kilometers).
const (
	largeLandbaseSqKm = 2000.0 // large_landbase: land area >= 2000 km²
	midLandbaseSqKm   = 100.0  // mid_landbase: land area >= 100 km²
)

// Alaska centroid bounding box (degrees). The wrap longitude covers the
// far Aleutians past the antimeridian.
const (
	alaskaMinLat  = 51.0
	alaskaMaxLon  = -130.0
	alaskaWrapLon = 172.0
)

// Classify returns the land-base classification for a tribal area.
// Rules:
//   - alaska: centroid inside the Alaska bounding box, regardless of size
//   - large_landbase: land area >= 2000 km²
//   - mid_landbase: land area >= 100 km²
//   - small_landbase: everything else
func Classify(landSqKm, centroidLat, centroidLon float64) string {
	if centroidLat >= alaskaMinLat && (centroidLon <= alaskaMaxLon || centroidLon >= alaskaWrapLon) {
		return ClassAlaska
	}
	switch {
	case landSqKm >= largeLandbaseSqKm:
		return ClassLargeLandbase
	case landSqKm >= midLandbaseSqKm:
		return ClassMidLandbase
	default:
		return ClassSmallLandbase
	}
}
