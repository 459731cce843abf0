package morphospace

import "github.com/xiy/reflective-mcp/internal/taxonomy"

// DefaultState anchors composite prompts when no vector or preset is given.
const DefaultState = "mirror_still"

// State is a named anchor point in the appearance space.
type State struct {
	Name        string `json:"name"`
	Vector      Vector `json:"parameters"`
	Material    string `json:"material"`
	Geometry    string `json:"geometry"`
	Description string `json:"description"`
}

// States holds the canonical states in declaration order.
var States = taxonomy.NewTable("canonical state", "states", func(s State) string { return s.Name }, canonicalStates)

var canonicalStates = []State{
	{
		Name:        "mirror_still",
		Vector:      Vector{Clarity: 0.95, Roughness: 0.02, Metallic: 0.0, Distortion: 0.0, Drama: 0.3},
		Material:    "mirror_glass",
		Geometry:    "flat",
		Description: "Flawless planar mirror holding a true, undisturbed image",
	},
	{
		Name:        "frosted_pane",
		Vector:      Vector{Clarity: 0.10, Roughness: 0.85, Metallic: 0.0, Distortion: 0.2, Drama: 0.2},
		Material:    "frosted_glass",
		Geometry:    "flat",
		Description: "Etched glass scattering light into a soft luminous veil",
	},
	{
		Name:        "chrome_sphere",
		Vector:      Vector{Clarity: 0.85, Roughness: 0.05, Metallic: 1.0, Distortion: 0.6, Drama: 0.6},
		Material:    "polished_chrome",
		Geometry:    "convex",
		Description: "Polished chrome ball wrapping the whole room into a fisheye reflection",
	},
	{
		Name:        "rippled_pool",
		Vector:      Vector{Clarity: 0.45, Roughness: 0.4, Metallic: 0.0, Distortion: 0.55, Drama: 0.5},
		Material:    "rippled_water",
		Geometry:    "flat",
		Description: "Wind-stirred water breaking the sky into moving caustic fragments",
	},
	{
		Name:        "neon_puddle",
		Vector:      Vector{Clarity: 0.6, Roughness: 0.3, Metallic: 0.0, Distortion: 0.3, Drama: 0.9},
		Material:    "wet_pavement",
		Geometry:    "flat",
		Description: "Rain-slicked street mirroring saturated signage at night",
	},
	{
		Name:        "gilded_relic",
		Vector:      Vector{Clarity: 0.7, Roughness: 0.1, Metallic: 1.0, Distortion: 0.7, Drama: 0.75},
		Material:    "gold",
		Geometry:    "compound",
		Description: "Ornate gold surface pooling warm light along sculpted curves",
	},
	{
		Name:        "brushed_panel",
		Vector:      Vector{Clarity: 0.5, Roughness: 0.3, Metallic: 0.9, Distortion: 0.1, Drama: 0.35},
		Material:    "brushed_metal",
		Geometry:    "flat",
		Description: "Satin metal panel with streaked, directional highlights",
	},
	{
		Name:        "crystal_facet",
		Vector:      Vector{Clarity: 0.75, Roughness: 0.05, Metallic: 0.0, Distortion: 0.5, Drama: 0.8},
		Material:    "mirror_glass",
		Geometry:    "faceted",
		Description: "Cut crystal splitting the scene into prismatic shards",
	},
	{
		Name:        "marble_hall",
		Vector:      Vector{Clarity: 0.65, Roughness: 0.15, Metallic: 0.0, Distortion: 0.05, Drama: 0.4},
		Material:    "polished_marble",
		Geometry:    "flat",
		Description: "Polished stone floor carrying a faint, veined echo of the architecture",
	},
}
