package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/meridian-policy/packet-cli/internal/model"
)

func TestLoadPrograms(t *testing.T) {
	programs := []model.Program{
		{ID: "fema-bric", Name: "BRIC", Tier: model.TierCritical, ALNumbers: []string{"97.047"}},
		{ID: "epa-gap", Name: "GAP", Tier: model.TierHigh},
	}
	data, err := json.Marshal(programs)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "programs.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadPrograms(path)
	if err != nil {
		t.Fatalf("LoadPrograms() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(got))
	}
	if got[0].ID != "fema-bric" {
		t.Errorf("expected program ID fema-bric, got %s", got[0].ID)
	}
	if got[1].Tier != model.TierHigh {
		t.Errorf("expected tier high, got %s", got[1].Tier)
	}
}

func TestLoadPrograms_NotFound(t *testing.T) {
	_, err := LoadPrograms("/nonexistent/programs.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadPrograms_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadPrograms(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadTribes(t *testing.T) {
	tribes := []model.Tribe{
		{ID: "cedar-river", Name: "Cedar River Tribe", States: []string{"WA"}},
	}
	data, err := json.Marshal(tribes)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "tribes.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTribes(path)
	if err != nil {
		t.Fatalf("LoadTribes() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "cedar-river" {
		t.Fatalf("unexpected roster: %+v", got)
	}
	if len(got[0].States) != 1 || got[0].States[0] != "WA" {
		t.Errorf("expected states [WA], got %v", got[0].States)
	}
}

func TestLoadRegions(t *testing.T) {
	yml := `- id: southwest
  name: Southwest
  states: [AZ, NM]
  priority_programs:
    - bor-watersmart
- id: national
  name: National
`
	path := filepath.Join(t.TempDir(), "regions.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadRegions(path)
	if err != nil {
		t.Fatalf("LoadRegions() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(got))
	}
	if got[0].ID != "southwest" || len(got[0].States) != 2 {
		t.Errorf("unexpected region: %+v", got[0])
	}
	if len(got[0].PriorityPrograms) != 1 || got[0].PriorityPrograms[0] != "bor-watersmart" {
		t.Errorf("expected priority program bor-watersmart, got %v", got[0].PriorityPrograms)
	}
	if len(got[1].States) != 0 {
		t.Errorf("expected national region with no state filter, got %v", got[1].States)
	}
}

func TestLoadRegions_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(": not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRegions(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
