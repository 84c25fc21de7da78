//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-policy/packet-cli/internal/confidence"
	"github.com/meridian-policy/packet-cli/internal/impact"
	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
	"github.com/meridian-policy/packet-cli/internal/region"
	"github.com/meridian-policy/packet-cli/internal/registry"
	"github.com/meridian-policy/packet-cli/internal/relevance"
	"github.com/meridian-policy/packet-cli/internal/store"
	"github.com/meridian-policy/packet-cli/internal/tracker"
)

func newServeEnv(t *testing.T) *packetEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "packet.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	tribes := []model.Tribe{
		{ID: "cedar-river", Name: "Cedar River Nation", States: []string{"WA", "OR"}, GeoClasses: []string{"forested", "riverine"}},
		{ID: "mesa-verde", Name: "Mesa Verde Pueblo", States: []string{"NM"}, GeoClasses: []string{"arid_southwest"}},
	}
	regions := []model.RegionDef{
		{ID: "pacific-northwest", Name: "Pacific Northwest", States: []string{"WA", "OR", "ID"}},
	}
	reg := registry.New(registry.BuiltinPrograms(), tribes, regions)

	gen := pipeline.New(st, reg,
		relevance.NewFilter(relevance.DefaultConfig()),
		impact.NewCalculator(impact.DefaultConfig()),
		confidence.NewScorer(confidence.DefaultConfig()),
		tracker.New(t.TempDir()),
		pipeline.WithoutSnapshotSave(),
	)

	return &packetEnv{
		Store:      st,
		Registry:   reg,
		Generator:  gen,
		Aggregator: region.NewAggregator(regions, tribes),
	}
}

func seedServeStore(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	risk := 72.4
	require.NoError(t, st.PutHazardProfile(ctx, &model.HazardProfile{
		TribeID:       "cedar-river",
		Hazards:       []model.Hazard{{Type: model.HazardWildfire, RiskScore: 85.2, Rating: "Very High"}},
		CompositeRisk: &risk,
		Source:        "fema_nri",
		AsOf:          "2026-01-10",
	}))
	require.NoError(t, st.PutAwards(ctx, &model.AwardSet{
		TribeID: "cedar-river",
		Awards:  []model.Award{{ProgramID: "fema-bric", Amount: 500_000}},
		Source:  "usaspending",
		AsOf:    "2026-01-12",
	}))
}

func doRequest(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestBuildRouter_HealthEndpoint(t *testing.T) {
	router := buildRouter(newServeEnv(t), 100, 100)

	rr := doRequest(t, router, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestBuildRouter_Tribes(t *testing.T) {
	router := buildRouter(newServeEnv(t), 100, 100)

	rr := doRequest(t, router, "/api/tribes")

	assert.Equal(t, http.StatusOK, rr.Code)

	var tribes []model.Tribe
	err := json.Unmarshal(rr.Body.Bytes(), &tribes)
	require.NoError(t, err)
	require.Len(t, tribes, 2)
	assert.Equal(t, "cedar-river", tribes[0].ID)
}

func TestBuildRouter_Packet(t *testing.T) {
	env := newServeEnv(t)
	seedServeStore(t, env.Store)
	router := buildRouter(env, 100, 100)

	rr := doRequest(t, router, "/api/packets/cedar-river")

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)

	assert.Equal(t, "cedar-river", body["tribe_id"])
	assert.Equal(t, "wildfire-mitigation", body["advocacy_goal"])
	assert.Equal(t, true, body["first_generation"])

	programs, ok := body["programs"].([]any)
	require.True(t, ok, "programs should be an array")
	assert.NotEmpty(t, programs)
}

func TestBuildRouter_PacketUnknownTribe(t *testing.T) {
	router := buildRouter(newServeEnv(t), 100, 100)

	rr := doRequest(t, router, "/api/packets/atlantis")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown tribe")
}

func TestBuildRouter_Region(t *testing.T) {
	env := newServeEnv(t)
	seedServeStore(t, env.Store)
	router := buildRouter(env, 100, 100)

	rr := doRequest(t, router, "/api/regions/pacific-northwest")

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)

	assert.Equal(t, "pacific-northwest", body["region_id"])
	assert.Equal(t, float64(1), body["tribe_count"])
	assert.Equal(t, float64(500_000), body["total_awarded"])
}

func TestBuildRouter_RegionUnknown(t *testing.T) {
	router := buildRouter(newServeEnv(t), 100, 100)

	rr := doRequest(t, router, "/api/regions/atlantis")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown region")
}

func TestBuildRouter_RateLimit(t *testing.T) {
	router := buildRouter(newServeEnv(t), 1, 1)

	first := doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, router, "/health")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
}

func TestBuildRouter_CORSHeaders(t *testing.T) {
	router := buildRouter(newServeEnv(t), 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
