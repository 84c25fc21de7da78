package geo

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygon(ring []shp.Point) *shp.Polygon {
	pl := shp.NewPolyLine([][]shp.Point{ring})
	poly := shp.Polygon(*pl)
	return &poly
}

func square(minX, minY, side float64) []shp.Point {
	return []shp.Point{
		{X: minX, Y: minY},
		{X: minX, Y: minY + side},
		{X: minX + side, Y: minY + side},
		{X: minX + side, Y: minY},
		{X: minX, Y: minY},
	}
}

func writeTestShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "areas.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("GEOID", 10),
		shp.StringField("NAME", 40),
		shp.StringField("ALAND", 20),
	}))

	// Large southwest area with a reported ALAND.
	w.Write(polygon(square(-107.0, 35.0, 0.9)))
	require.NoError(t, w.WriteAttribute(0, 0, "3500"))
	require.NoError(t, w.WriteAttribute(0, 1, "Mesa Verde Pueblo"))
	require.NoError(t, w.WriteAttribute(0, 2, "7150000000"))

	// Small coastal area with no ALAND: area comes from geometry.
	w.Write(polygon(square(-124.40, 47.48, 0.02)))
	require.NoError(t, w.WriteAttribute(1, 0, "5301"))
	require.NoError(t, w.WriteAttribute(1, 1, "Cedar River"))

	// Interior Alaska.
	w.Write(polygon(square(-151.0, 64.0, 0.5)))
	require.NoError(t, w.WriteAttribute(2, 0, "0201"))
	require.NoError(t, w.WriteAttribute(2, 1, "Tanana Valley"))
	require.NoError(t, w.WriteAttribute(2, 2, "9000000000"))

	// No GEOID: dropped during loading.
	w.Write(polygon(square(-90.0, 40.0, 0.1)))
	require.NoError(t, w.WriteAttribute(3, 1, "Unlabeled"))

	return path
}

func TestLoadAreas(t *testing.T) {
	path := writeTestShapefile(t)

	areas, err := LoadAreas(path)
	require.NoError(t, err)
	require.Len(t, areas, 3)

	mesa := areas[0]
	assert.Equal(t, "3500", mesa.GeoID)
	assert.Equal(t, "Mesa Verde Pueblo", mesa.Name)
	assert.InDelta(t, 7150, mesa.LandSqKm, 0.001)
	assert.InDelta(t, 35.45, mesa.CentroidLat, 0.01)
	assert.InDelta(t, -106.55, mesa.CentroidLon, 0.01)
	assert.Equal(t, ClassLargeLandbase, mesa.Class)

	cedar := areas[1]
	assert.Equal(t, "5301", cedar.GeoID)
	assert.InDelta(t, 3.33, cedar.LandSqKm, 0.05)
	assert.Equal(t, ClassSmallLandbase, cedar.Class)

	tanana := areas[2]
	assert.Equal(t, "0201", tanana.GeoID)
	assert.Equal(t, ClassAlaska, tanana.Class)
}

func TestLoadAreasMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadAreas(filepath.Join(t.TempDir(), "absent.shp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open shapefile")
}

func TestMultiPolygonEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, multiPolygon(nil))
	assert.Nil(t, multiPolygon(&shp.Polygon{}))
}

func TestLandArea(t *testing.T) {
	t.Parallel()

	assert.Zero(t, landArea(""))
	assert.Zero(t, landArea("not-a-number"))
	assert.Zero(t, landArea("-5"))
	assert.InDelta(t, 1.5, landArea("1500000"), 0.001)
}
