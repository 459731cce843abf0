package morphospace

import "github.com/xiy/reflective-mcp/internal/taxonomy"

// OpticalTags summarises how an archetype reads optically.
type OpticalTags struct {
	Reflectance  string `json:"reflectance"`
	Highlight    string `json:"highlight"`
	EdgeBehavior string `json:"edge_behavior"`
}

// Archetype is a vocabulary bundle anchored at a reference vector.
type Archetype struct {
	Name              string      `json:"name"`
	Vector            Vector      `json:"parameters"`
	Keywords          []string    `json:"keywords"`
	OpticalProperties OpticalTags `json:"optical_properties"`
	ColorAssociations []string    `json:"color_associations"`
}

// Match is the result of a nearest-archetype lookup.
type Match struct {
	Archetype Archetype `json:"archetype"`
	Distance  float64   `json:"distance"`
}

// Archetypes holds the six visual archetypes. Declaration order is the
// iteration order for nearest-neighbor tie-breaks.
var Archetypes = taxonomy.NewTable("visual archetype", "archetypes", func(a Archetype) string { return a.Name }, visualArchetypes)

// Nearest returns the archetype closest to v. On exact distance ties the
// archetype declared first wins.
func Nearest(v Vector) Match {
	return nearestOf(v, visualArchetypes)
}

func nearestOf(v Vector, candidates []Archetype) Match {
	var best Match
	for i, a := range candidates {
		d := Distance(v, a.Vector)
		if i == 0 || d < best.Distance {
			best = Match{Archetype: a, Distance: d}
		}
	}
	return best
}

var visualArchetypes = []Archetype{
	{
		Name:     "liquid_mirror",
		Vector:   Vector{Clarity: 0.92, Roughness: 0.05, Metallic: 0.05, Distortion: 0.05, Drama: 0.35},
		Keywords: []string{"flawless mirror surface", "crisp doubled image", "glass-smooth stillness", "perfect symmetry"},
		OpticalProperties: OpticalTags{
			Reflectance:  "near-total",
			Highlight:    "pinpoint",
			EdgeBehavior: "crisp",
		},
		ColorAssociations: []string{"cool silver", "pale sky blue", "clean white"},
	},
	{
		Name:     "frosted_veil",
		Vector:   Vector{Clarity: 0.12, Roughness: 0.85, Metallic: 0.0, Distortion: 0.25, Drama: 0.2},
		Keywords: []string{"soft translucent haze", "diffused glow", "muted silhouettes", "velvety light scatter"},
		OpticalProperties: OpticalTags{
			Reflectance:  "scattered",
			Highlight:    "broad bloom",
			EdgeBehavior: "dissolving",
		},
		ColorAssociations: []string{"milky white", "powder blue", "faint lavender"},
	},
	{
		Name:     "molten_chrome",
		Vector:   Vector{Clarity: 0.8, Roughness: 0.08, Metallic: 1.0, Distortion: 0.55, Drama: 0.65},
		Keywords: []string{"liquid chrome", "warped panoramic reflection", "high-gloss metal", "specular streaks"},
		OpticalProperties: OpticalTags{
			Reflectance:  "high, tinted",
			Highlight:    "sharp streaks",
			EdgeBehavior: "wrapping",
		},
		ColorAssociations: []string{"gunmetal", "icy steel blue", "mercury silver"},
	},
	{
		Name:     "rippled_caustic",
		Vector:   Vector{Clarity: 0.4, Roughness: 0.45, Metallic: 0.0, Distortion: 0.6, Drama: 0.55},
		Keywords: []string{"dancing caustic light", "fractured reflections", "undulating surface", "shimmering light net"},
		OpticalProperties: OpticalTags{
			Reflectance:  "broken",
			Highlight:    "moving caustics",
			EdgeBehavior: "wavering",
		},
		ColorAssociations: []string{"aquamarine", "sunlit teal", "sparkling white"},
	},
	{
		Name:     "noir_sheen",
		Vector:   Vector{Clarity: 0.55, Roughness: 0.3, Metallic: 0.1, Distortion: 0.25, Drama: 0.9},
		Keywords: []string{"rain-soaked gleam", "neon-smeared reflections", "deep contrast shadows", "moody wet sheen"},
		OpticalProperties: OpticalTags{
			Reflectance:  "partial",
			Highlight:    "colored bleed",
			EdgeBehavior: "smeared",
		},
		ColorAssociations: []string{"electric magenta", "cyan neon", "inky black"},
	},
	{
		Name:     "gilded_baroque",
		Vector:   Vector{Clarity: 0.65, Roughness: 0.12, Metallic: 0.95, Distortion: 0.75, Drama: 0.8},
		Keywords: []string{"ornate golden gleam", "sculpted metallic curves", "opulent warm reflections", "baroque luster"},
		OpticalProperties: OpticalTags{
			Reflectance:  "rich, warm-tinted",
			Highlight:    "pooled glints",
			EdgeBehavior: "flowing",
		},
		ColorAssociations: []string{"burnished gold", "amber", "deep bronze"},
	},
}
