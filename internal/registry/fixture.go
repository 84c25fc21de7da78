package registry

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// LoadPrograms reads a JSON array of model.Program from the given path.
func LoadPrograms(path string) ([]model.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read program catalog")
	}

	var programs []model.Program
	if err := json.Unmarshal(data, &programs); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal program catalog")
	}

	return programs, nil
}

// LoadTribes reads a JSON array of model.Tribe from the given path.
func LoadTribes(path string) ([]model.Tribe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read tribe roster")
	}

	var tribes []model.Tribe
	if err := json.Unmarshal(data, &tribes); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal tribe roster")
	}

	return tribes, nil
}

// LoadRegions reads a YAML list of model.RegionDef from the given path.
func LoadRegions(path string) ([]model.RegionDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read region definitions")
	}

	var regions []model.RegionDef
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal region definitions")
	}

	return regions, nil
}
