// Package registry holds the program catalog, tribe roster, and region
// definitions, with indexed lookups over each.
package registry

import (
	"sort"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Registry indexes the three reference datasets every packet run needs.
type Registry struct {
	programs []model.Program
	tribes   []model.Tribe
	regions  []model.RegionDef

	programByID map[string]*model.Program
	tribeByID   map[string]*model.Tribe
	regionByID  map[string]*model.RegionDef
	programByAL map[string][]*model.Program
}

// New builds a Registry from the given datasets. Later entries win on
// duplicate IDs.
func New(programs []model.Program, tribes []model.Tribe, regions []model.RegionDef) *Registry {
	r := &Registry{
		programs:    programs,
		tribes:      tribes,
		regions:     regions,
		programByID: make(map[string]*model.Program, len(programs)),
		tribeByID:   make(map[string]*model.Tribe, len(tribes)),
		regionByID:  make(map[string]*model.RegionDef, len(regions)),
		programByAL: map[string][]*model.Program{},
	}
	for i := range programs {
		p := &r.programs[i]
		r.programByID[p.ID] = p
		for _, al := range p.ALNumbers {
			r.programByAL[al] = append(r.programByAL[al], p)
		}
	}
	for i := range tribes {
		r.tribeByID[tribes[i].ID] = &r.tribes[i]
	}
	for i := range regions {
		r.regionByID[regions[i].ID] = &r.regions[i]
	}
	return r
}

// Programs returns the full catalog.
func (r *Registry) Programs() []model.Program { return r.programs }

// Tribes returns the full roster.
func (r *Registry) Tribes() []model.Tribe { return r.tribes }

// Regions returns all region definitions.
func (r *Registry) Regions() []model.RegionDef { return r.regions }

// ProgramByID returns the catalog entry for id, or nil.
func (r *Registry) ProgramByID(id string) *model.Program { return r.programByID[id] }

// TribeByID returns the roster entry for id, or nil.
func (r *Registry) TribeByID(id string) *model.Tribe { return r.tribeByID[id] }

// RegionByID returns the region definition for id, or nil.
func (r *Registry) RegionByID(id string) *model.RegionDef { return r.regionByID[id] }

// ProgramsByAL returns every catalog entry claiming the given assistance
// listing number.
func (r *Registry) ProgramsByAL(code string) []*model.Program { return r.programByAL[code] }

// TribeIDs returns the sorted roster IDs.
func (r *Registry) TribeIDs() []string {
	ids := make([]string, 0, len(r.tribes))
	for _, t := range r.tribes {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}
