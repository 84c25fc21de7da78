package registry

import "github.com/meridian-policy/packet-cli/internal/model"

// BuiltinPrograms returns the compiled-in federal program catalog. A
// catalog file given on the command line replaces this wholesale.
func BuiltinPrograms() []model.Program {
	return []model.Program{
		{
			ID: "fema-bric", Name: "Building Resilient Infrastructure and Communities",
			Agency: "FEMA", Tier: model.TierCritical, Mechanism: "competitive",
			ALNumbers: []string{"97.047"},
		},
		{
			ID: "fema-hmgp", Name: "Hazard Mitigation Grant Program",
			Agency: "FEMA", Tier: model.TierCritical, Mechanism: "formula",
			ALNumbers: []string{"97.039"},
		},
		{
			ID: "bia-climate-resilience", Name: "Tribal Climate Resilience Program",
			Agency: "BIA", Tier: model.TierCritical, Mechanism: "competitive",
			ALNumbers: []string{"15.156"},
		},
		{
			ID: "ihs-sanitation", Name: "Sanitation Facilities Construction",
			Agency: "IHS", Tier: model.TierCritical, Mechanism: "formula",
			ALNumbers: []string{"93.046"},
		},
		{
			ID: "hud-icdbg", Name: "Indian Community Development Block Grant",
			Agency: "HUD", Tier: model.TierCritical, Mechanism: "competitive",
			ALNumbers: []string{"14.862"},
		},
		{
			ID: "fema-fma", Name: "Flood Mitigation Assistance",
			Agency: "FEMA", Tier: model.TierHigh, Mechanism: "competitive",
			ALNumbers: []string{"97.029"},
		},
		{
			ID: "dot-tribal-transportation", Name: "Tribal Transportation Program",
			Agency: "DOT", Tier: model.TierHigh, Mechanism: "formula",
			ALNumbers: []string{"20.205"},
		},
		{
			ID: "usda-water-environmental", Name: "Water and Waste Disposal Systems for Rural Communities",
			Agency: "USDA", Tier: model.TierHigh, Mechanism: "competitive",
			ALNumbers: []string{"10.760"},
		},
		{
			ID: "epa-gap", Name: "Indian Environmental General Assistance Program",
			Agency: "EPA", Tier: model.TierHigh, Mechanism: "formula",
			ALNumbers: []string{"66.926"},
		},
		{
			ID: "noaa-coastal-resilience", Name: "Coastal Zone Management and Resilience",
			Agency: "NOAA", Tier: model.TierHigh, Mechanism: "competitive",
			ALNumbers: []string{"11.419"},
		},
		{
			ID: "doe-indian-energy", Name: "Office of Indian Energy Deployment Grants",
			Agency: "DOE", Tier: model.TierHigh, Mechanism: "competitive",
			ALNumbers: []string{"81.087"},
		},
		{
			ID: "fema-thsgp", Name: "Tribal Homeland Security Grant Program",
			Agency: "FEMA", Tier: model.TierMedium, Mechanism: "competitive",
			ALNumbers: []string{"97.067"},
		},
		{
			ID: "usda-community-wildfire", Name: "Community Wildfire Defense Grant",
			Agency: "USDA", Tier: model.TierMedium, Mechanism: "competitive",
			ALNumbers: []string{"10.732"},
		},
		{
			ID: "bor-watersmart", Name: "WaterSMART Grants",
			Agency: "BOR", Tier: model.TierMedium, Mechanism: "competitive",
			ALNumbers: []string{"15.507"},
		},
		{
			ID: "epa-cwisa", Name: "Clean Water Indian Set-Aside",
			Agency: "EPA", Tier: model.TierMedium, Mechanism: "set-aside",
			ALNumbers: []string{"66.418"},
		},
		{
			ID: "usace-tribal-partnership", Name: "Tribal Partnership Program",
			Agency: "USACE", Tier: model.TierMedium, Mechanism: "cost-share",
		},
		{
			ID: "doe-grid-resilience", Name: "Grid Resilience State and Tribal Formula Grants",
			Agency: "DOE", Tier: model.TierMedium, Mechanism: "formula",
			ALNumbers: []string{"81.254"},
		},
		{
			ID: "bia-fuels-management", Name: "Fuels Management and Community Fire Protection",
			Agency: "BIA", Tier: model.TierMedium, Mechanism: "formula",
			ALNumbers: []string{"15.031"},
		},
		{
			ID: "doe-weatherization", Name: "Weatherization Assistance Program",
			Agency: "DOE", Tier: model.TierLow, Mechanism: "formula",
			ALNumbers: []string{"81.042"},
		},
		{
			ID: "hhs-liheap", Name: "Low Income Home Energy Assistance Program",
			Agency: "HHS", Tier: model.TierLow, Mechanism: "formula",
			ALNumbers: []string{"93.568"},
		},
		{
			ID: "bia-hip", Name: "Housing Improvement Program",
			Agency: "BIA", Tier: model.TierLow, Mechanism: "formula",
			ALNumbers: []string{"15.141"},
		},
		{
			ID: "bia-roads-maintenance", Name: "Road Maintenance on Indian Roads",
			Agency: "BIA", Tier: model.TierLow, Mechanism: "formula",
			ALNumbers: []string{"15.033"},
		},
		{
			ID: "cdfi-native", Name: "Native American CDFI Assistance",
			Agency: "Treasury", Tier: model.TierLow, Mechanism: "competitive",
			ALNumbers: []string{"21.012"},
		},
	}
}

// BuiltinRegions returns the compiled-in region definitions. The
// national region has no state filter and so matches every tribe.
func BuiltinRegions() []model.RegionDef {
	return []model.RegionDef{
		{
			ID: "alaska", Name: "Alaska",
			States:           []string{"AK"},
			PriorityPrograms: []string{"ihs-sanitation", "doe-indian-energy"},
		},
		{
			ID: "pacific-northwest", Name: "Pacific Northwest",
			States:           []string{"WA", "OR", "ID"},
			PriorityPrograms: []string{"noaa-coastal-resilience"},
		},
		{
			ID: "california-nevada", Name: "California and Nevada",
			States:           []string{"CA", "NV"},
			PriorityPrograms: []string{"usda-community-wildfire"},
		},
		{
			ID: "southwest", Name: "Southwest",
			States:           []string{"AZ", "NM", "UT", "CO"},
			PriorityPrograms: []string{"bor-watersmart"},
		},
		{
			ID: "great-plains", Name: "Great Plains",
			States: []string{"MT", "WY", "ND", "SD", "NE", "KS"},
		},
		{
			ID: "southern-plains", Name: "Southern Plains",
			States: []string{"OK", "TX"},
		},
		{
			ID: "midwest", Name: "Midwest",
			States: []string{"MN", "WI", "MI", "IA"},
		},
		{
			ID: "eastern", Name: "Eastern",
			States: []string{"ME", "NY", "MA", "CT", "RI", "VA", "NC", "SC", "FL", "AL", "MS", "LA", "TN"},
		},
		{
			ID: "national", Name: "National",
		},
	}
}
