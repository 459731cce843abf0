// Package taxonomy holds the reflective-surface reference tables: reflection
// types, surface materials, optical phenomena, geometry factors and lighting
// environments. All tables are built once at init and never mutated.
package taxonomy

// ReflectionOptics describes how a reflection type treats the mirrored image.
type ReflectionOptics struct {
	PreservesAngles bool   `json:"preserves_angles"`
	ColorFidelity   string `json:"color_fidelity"`
	DepthPerception string `json:"depth_perception"`
}

// ReflectionType is a class of reflective behaviour.
type ReflectionType struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	ReflectionCoefficient float64          `json:"reflection_coefficient"`
	Clarity               float64          `json:"clarity"`
	Distortion            float64          `json:"distortion"`
	Keywords              []string         `json:"keywords"`
	Materials             []string         `json:"materials"`
	OpticalProperties     ReflectionOptics `json:"optical_properties"`
}

// Material is a surface material with its optical parameters.
type Material struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	ReflectionType        string   `json:"reflection_type"`
	ReflectionCoefficient float64  `json:"reflection_coefficient"`
	Roughness             float64  `json:"roughness"`
	IOR                   float64  `json:"ior"`
	Metallic              float64  `json:"metallic"`
	ColorTint             *string  `json:"color_tint"`
	Keywords              []string `json:"keywords"`
}

// Phenomenon is an optical effect with free-form reference attributes.
type Phenomenon struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Attributes          map[string]any `json:"attributes"`
	Keywords            []string       `json:"keywords"`
	ApplicableMaterials []string       `json:"applicable_materials"`
}

// Geometry is a surface shape and the distortion it introduces.
type Geometry struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Curvature            string   `json:"curvature"`
	ReflectionDistortion float64  `json:"reflection_distortion"`
	CoverageUniformity   float64  `json:"coverage_uniformity"`
	Keywords             []string `json:"keywords"`
	ExampleContexts      []string `json:"example_contexts"`
}

// Environment is a lighting context.
type Environment struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	LightIntensity       float64  `json:"light_intensity"`
	ContrastRatio        float64  `json:"contrast_ratio"`
	ColorTemperature     int      `json:"color_temperature"`
	ReflectionVisibility float64  `json:"reflection_visibility"`
	Keywords             []string `json:"keywords"`
}

// Snapshot is the full taxonomy in declaration order.
type Snapshot struct {
	ReflectionTypes []ReflectionType `json:"reflection_types"`
	Materials       []Material       `json:"surface_materials"`
	Phenomena       []Phenomenon     `json:"optical_phenomena"`
	Geometries      []Geometry       `json:"geometry_factors"`
	Environments    []Environment    `json:"environmental_contexts"`
}

var (
	ReflectionTypes = NewTable("reflection type", "reflection_types", func(r ReflectionType) string { return r.ID }, reflectionTypes)
	Materials       = NewTable("material", "materials", func(m Material) string { return m.ID }, materials)
	Phenomena       = NewTable("phenomenon", "phenomena", func(p Phenomenon) string { return p.ID }, phenomena)
	Geometries      = NewTable("geometry", "geometries", func(g Geometry) string { return g.ID }, geometries)
	Environments    = NewTable("environment", "environments", func(e Environment) string { return e.ID }, environments)
)

// All returns a snapshot of every table.
func All() Snapshot {
	return Snapshot{
		ReflectionTypes: ReflectionTypes.All(),
		Materials:       Materials.All(),
		Phenomena:       Phenomena.All(),
		Geometries:      Geometries.All(),
		Environments:    Environments.All(),
	}
}

func tint(s string) *string { return &s }

var reflectionTypes = []ReflectionType{
	{
		ID:                    "specular",
		Name:                  "Specular Reflection",
		Description:           "Mirror-like perfect reflections",
		ReflectionCoefficient: 0.9,
		Clarity:               1.0,
		Distortion:            0.0,
		Keywords:              []string{"mirror-like", "sharp reflections", "perfect clarity", "distinct mirror image"},
		Materials:             []string{"polished chrome", "mirror glass", "still water", "polished marble"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: true, ColorFidelity: "high", DepthPerception: "accurate"},
	},
	{
		ID:                    "glossy",
		Name:                  "Glossy Reflection",
		Description:           "Clear but softer reflections with slight diffusion",
		ReflectionCoefficient: 0.6,
		Clarity:               0.7,
		Distortion:            0.2,
		Keywords:              []string{"polished surface", "soft reflections", "gentle sheen", "semi-reflective"},
		Materials:             []string{"polished wood", "glazed ceramic", "car paint", "wet pavement"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: true, ColorFidelity: "medium-high", DepthPerception: "slightly softened"},
	},
	{
		ID:                    "diffuse",
		Name:                  "Diffuse Reflection",
		Description:           "Scattered light, no clear image reflection",
		ReflectionCoefficient: 0.3,
		Clarity:               0.2,
		Distortion:            0.8,
		Keywords:              []string{"matte surface", "scattered light", "soft glow", "no distinct reflection"},
		Materials:             []string{"unpolished metal", "frosted glass", "matte paint", "rough stone"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: false, ColorFidelity: "low", DepthPerception: "minimal"},
	},
	{
		ID:                    "caustic",
		Name:                  "Caustic Patterns",
		Description:           "Focused light patterns from curved/refractive surfaces",
		ReflectionCoefficient: 0.4,
		Clarity:               0.3,
		Distortion:            0.6,
		Keywords:              []string{"light patterns", "dancing reflections", "rippled caustics", "focused beams"},
		Materials:             []string{"rippled water", "textured glass", "crystal facets", "ice surfaces"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: false, ColorFidelity: "varies", DepthPerception: "complex"},
	},
	{
		ID:                    "metallic",
		Name:                  "Metallic Reflection",
		Description:           "Color-tinted reflections from metal surfaces",
		ReflectionCoefficient: 0.8,
		Clarity:               0.85,
		Distortion:            0.1,
		Keywords:              []string{"metal sheen", "tinted reflections", "lustrous surface", "metallic gleam"},
		Materials:             []string{"brushed aluminum", "copper", "brass", "gold", "silver"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: true, ColorFidelity: "tinted", DepthPerception: "accurate with color cast"},
	},
	{
		ID:                    "refractive",
		Name:                  "Refractive Distortion",
		Description:           "Bent light paths through transparent media",
		ReflectionCoefficient: 0.5,
		Clarity:               0.6,
		Distortion:            0.5,
		Keywords:              []string{"bent light", "distorted view", "magnification", "prismatic effects"},
		Materials:             []string{"glass", "water", "crystal", "ice", "transparent plastic"},
		OpticalProperties:     ReflectionOptics{PreservesAngles: false, ColorFidelity: "chromatic aberration possible", DepthPerception: "warped"},
	},
}

var materials = []Material{
	{
		ID: "mirror_glass", Name: "Mirror Glass", ReflectionType: "specular",
		ReflectionCoefficient: 0.95, Roughness: 0.0, IOR: 1.52, Metallic: 0.0,
		Keywords: []string{"perfect mirror", "silvered glass", "clear reflection", "flawless surface"},
	},
	{
		ID: "polished_chrome", Name: "Polished Chrome", ReflectionType: "metallic",
		ReflectionCoefficient: 0.88, Roughness: 0.05, IOR: 2.7, Metallic: 1.0, ColorTint: tint("cool_neutral"),
		Keywords: []string{"chrome finish", "metallic sheen", "industrial gleam", "steel-like"},
	},
	{
		ID: "brushed_metal", Name: "Brushed Metal", ReflectionType: "glossy",
		ReflectionCoefficient: 0.6, Roughness: 0.25, IOR: 2.5, Metallic: 0.9, ColorTint: tint("varies"),
		Keywords: []string{"directional grain", "soft metal sheen", "textured surface", "industrial finish"},
	},
	{
		ID: "still_water", Name: "Still Water", ReflectionType: "specular",
		ReflectionCoefficient: 0.85, Roughness: 0.02, IOR: 1.33, Metallic: 0.0, ColorTint: tint("slight_blue"),
		Keywords: []string{"glassy surface", "lake reflection", "mirror-like water", "perfect stillness"},
	},
	{
		ID: "rippled_water", Name: "Rippled Water", ReflectionType: "caustic",
		ReflectionCoefficient: 0.6, Roughness: 0.4, IOR: 1.33, Metallic: 0.0, ColorTint: tint("slight_blue"),
		Keywords: []string{"dancing reflections", "wave patterns", "distorted mirror", "moving surface"},
	},
	{
		ID: "frosted_glass", Name: "Frosted Glass", ReflectionType: "diffuse",
		ReflectionCoefficient: 0.2, Roughness: 0.8, IOR: 1.52, Metallic: 0.0,
		Keywords: []string{"translucent", "soft glow", "privacy glass", "diffused light"},
	},
	{
		ID: "wet_pavement", Name: "Wet Pavement", ReflectionType: "glossy",
		ReflectionCoefficient: 0.5, Roughness: 0.3, IOR: 1.33, Metallic: 0.0, ColorTint: tint("neutral_dark"),
		Keywords: []string{"rain-slicked", "street reflections", "urban sheen", "puddle mirrors"},
	},
	{
		ID: "polished_marble", Name: "Polished Marble", ReflectionType: "glossy",
		ReflectionCoefficient: 0.7, Roughness: 0.15, IOR: 1.55, Metallic: 0.0, ColorTint: tint("varies"),
		Keywords: []string{"stone gleam", "luxury surface", "veined reflection", "architectural polish"},
	},
	{
		ID: "copper", Name: "Copper", ReflectionType: "metallic",
		ReflectionCoefficient: 0.75, Roughness: 0.1, IOR: 2.8, Metallic: 1.0, ColorTint: tint("warm_orange"),
		Keywords: []string{"copper gleam", "warm metallic", "reddish tint", "oxidized patina potential"},
	},
	{
		// Real part of gold's complex IOR; F0 from it is only a rough stand-in.
		ID: "gold", Name: "Gold", ReflectionType: "metallic",
		ReflectionCoefficient: 0.8, Roughness: 0.08, IOR: 0.47, Metallic: 1.0, ColorTint: tint("warm_yellow"),
		Keywords: []string{"golden luster", "warm reflections", "precious metal", "rich gleam"},
	},
}

var phenomena = []Phenomenon{
	{
		ID:          "fresnel_effect",
		Name:        "Fresnel Effect",
		Description: "Reflection intensity varies with viewing angle",
		Attributes: map[string]any{
			"angle_dependency":     "strong",
			"intensity_at_grazing": 1.0,
			"intensity_at_normal":  0.04,
		},
		Keywords:            []string{"angle-dependent reflection", "edge brightness", "viewing angle changes"},
		ApplicableMaterials: []string{"glass", "water", "plastics", "dielectrics"},
	},
	{
		ID:          "chromatic_aberration",
		Name:        "Chromatic Aberration",
		Description: "Color fringing in refractive materials",
		Attributes: map[string]any{
			"effect_strength":  "medium",
			"color_separation": []string{"red_shift_edges", "blue_shift_center"},
		},
		Keywords:            []string{"color fringing", "rainbow edges", "prismatic effect", "wavelength separation"},
		ApplicableMaterials: []string{"glass", "crystal", "water", "transparent_media"},
	},
	{
		ID:          "total_internal_reflection",
		Name:        "Total Internal Reflection",
		Description: "Complete reflection at critical angle in denser media",
		Attributes: map[string]any{
			"critical_angle_glass": 41.8,
			"critical_angle_water": 48.6,
		},
		Keywords:            []string{"fiber optic effect", "trapped light", "critical angle", "complete reflection"},
		ApplicableMaterials: []string{"glass", "water", "diamond", "transparent_solids"},
	},
	{
		ID:          "subsurface_scattering",
		Name:        "Subsurface Scattering",
		Description: "Light penetrates surface, scatters internally",
		Attributes: map[string]any{
			"depth_penetration": "shallow",
			"color_shift":       "subtle",
		},
		Keywords:            []string{"internal glow", "translucent effect", "soft diffusion", "depth glow"},
		ApplicableMaterials: []string{"marble", "wax", "skin", "jade", "alabaster"},
	},
	{
		ID:          "anisotropic_reflection",
		Name:        "Anisotropic Reflection",
		Description: "Directional surface structure creates elongated highlights",
		Attributes: map[string]any{
			"directionality":  "strong",
			"highlight_shape": "elongated",
		},
		Keywords:            []string{"brushed metal look", "directional grain", "linear highlights", "CD-like iridescence"},
		ApplicableMaterials: []string{"brushed_metal", "hair", "fabric", "wood_grain"},
	},
}

var geometries = []Geometry{
	{
		ID: "flat", Name: "Flat Surface", Curvature: "none",
		ReflectionDistortion: 0.0, CoverageUniformity: 1.0,
		Keywords:        []string{"planar reflection", "undistorted mirror", "parallel surfaces", "true image"},
		ExampleContexts: []string{"wall mirrors", "still water", "glass windows", "polished floors"},
	},
	{
		ID: "convex", Name: "Convex Surface", Curvature: "positive",
		ReflectionDistortion: 0.6, CoverageUniformity: 0.4,
		Keywords:        []string{"wide-angle view", "compressed reflection", "fisheye effect", "panoramic distortion"},
		ExampleContexts: []string{"spheres", "domes", "security mirrors", "watch crystals", "bubbles"},
	},
	{
		ID: "concave", Name: "Concave Surface", Curvature: "negative",
		ReflectionDistortion: 0.7, CoverageUniformity: 0.3,
		Keywords:        []string{"magnified reflection", "focused convergence", "inverted beyond focal point", "concentrated view"},
		ExampleContexts: []string{"spoons", "satellite dishes", "makeup mirrors", "parabolic reflectors"},
	},
	{
		ID: "compound", Name: "Compound Curvature", Curvature: "complex",
		ReflectionDistortion: 0.8, CoverageUniformity: 0.2,
		Keywords:        []string{"complex distortion", "variable magnification", "artistic warping", "multi-directional curves"},
		ExampleContexts: []string{"car bodies", "sculptures", "architectural features", "organic forms"},
	},
	{
		ID: "faceted", Name: "Faceted Surface", Curvature: "discrete",
		ReflectionDistortion: 0.5, CoverageUniformity: 0.5,
		Keywords:        []string{"fragmented reflections", "geometric patterns", "prismatic separation", "crystalline structure"},
		ExampleContexts: []string{"cut glass", "gemstones", "disco balls", "architectural glass", "crystal"},
	},
}

var environments = []Environment{
	{
		ID: "bright_daylight", Name: "Bright Daylight",
		LightIntensity: 1.0, ContrastRatio: 0.8, ColorTemperature: 5500, ReflectionVisibility: 0.9,
		Keywords: []string{"harsh reflections", "high contrast", "glare potential", "sharp definition"},
	},
	{
		ID: "overcast", Name: "Overcast Sky",
		LightIntensity: 0.4, ContrastRatio: 0.3, ColorTemperature: 6500, ReflectionVisibility: 0.5,
		Keywords: []string{"soft reflections", "low contrast", "diffused lighting", "gentle tones"},
	},
	{
		ID: "golden_hour", Name: "Golden Hour",
		LightIntensity: 0.6, ContrastRatio: 0.7, ColorTemperature: 3500, ReflectionVisibility: 0.85,
		Keywords: []string{"warm reflections", "amber tones", "long shadows", "dramatic lighting"},
	},
	{
		ID: "artificial_indoor", Name: "Artificial Indoor",
		LightIntensity: 0.5, ContrastRatio: 0.6, ColorTemperature: 4000, ReflectionVisibility: 0.7,
		Keywords: []string{"controlled lighting", "mixed sources", "ambient fill", "practical lights"},
	},
	{
		ID: "night_urban", Name: "Night Urban",
		LightIntensity: 0.2, ContrastRatio: 0.9, ColorTemperature: 3000, ReflectionVisibility: 0.8,
		Keywords: []string{"neon reflections", "colored lights", "deep shadows", "artificial glow"},
	},
}
