package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Area is one tribal statistical area read from a shapefile, ready for
// merging into the tribe registry.
type Area struct {
	GeoID       string  `json:"geoid"`
	Name        string  `json:"name"`
	LandSqKm    float64 `json:"land_sq_km"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`
	Class       string  `json:"class"`
}

// Kilometers per degree of latitude; longitude shrinks with cos(lat).
const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLon = 111.320
)

// LoadAreas reads a tribal statistical-area shapefile and classifies
// each polygon record. Records without a GEOID or a usable polygon are
// skipped, not fatal. Land area comes from the ALAND attribute (square
// meters) when present, otherwise from the geometry.
func LoadAreas(shpPath string) ([]Area, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		val := strings.TrimRight(reader.Attribute(idx), "\x00")
		return strings.TrimSpace(val)
	}

	var areas []Area
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		geoid := attr("geoid")
		if geoid == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := multiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		centroid, err := xy.Centroid(mp)
		if err != nil {
			skipped++
			continue
		}
		lat, lon := centroid[1], centroid[0]

		land := landArea(attr("aland"))
		if land <= 0 {
			land = approxAreaSqKm(mp, lat)
		}

		areas = append(areas, Area{
			GeoID:       geoid,
			Name:        attr("name"),
			LandSqKm:    land,
			CentroidLat: lat,
			CentroidLon: lon,
			Class:       Classify(land, lat, lon),
		})
	}

	if skipped > 0 {
		zap.L().Debug("geo: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return areas, nil
}

// multiPolygon converts a shapefile polygon to a go-geom multipolygon,
// one single-ring polygon per part. Malformed parts are dropped; a
// record with no usable part converts to nil.
func multiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("geo: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geo: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// landArea parses an ALAND attribute (square meters) into square
// kilometers. Anything unparsable is zero.
func landArea(aland string) float64 {
	if aland == "" {
		return 0
	}
	m2, err := strconv.ParseFloat(aland, 64)
	if err != nil || m2 <= 0 {
		return 0
	}
	return m2 / 1e6
}

// approxAreaSqKm estimates land area from planar geometry. Shapefile
// outer rings wind clockwise, so the signed area comes back negative;
// only the magnitude matters here.
func approxAreaSqKm(mp *geom.MultiPolygon, centroidLat float64) float64 {
	deg2 := math.Abs(mp.Area())
	lonScale := kmPerDegreeLon * math.Cos(centroidLat*math.Pi/180)
	return deg2 * kmPerDegreeLat * lonScale
}
