package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// ToolDefinition models MCP tool metadata.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

type tool struct {
	def  ToolDefinition
	call toolFunc
}

func toolset(svc *reflective.Service) []tool {
	return []tool{
		{
			def: ToolDefinition{
				Name:        "get_reflection_taxonomy",
				Description: "Return the complete reflection taxonomy: reflection types, materials, phenomena, geometries and environments.",
				InputSchema: jsonSchema(map[string]any{}, nil),
			},
			call: func(context.Context, json.RawMessage) (any, error) {
				return svc.Taxonomy(), nil
			},
		},
		{
			def: ToolDefinition{
				Name:        "map_material_properties",
				Description: "Look up the optical properties and composition guidance of one surface material.",
				InputSchema: jsonSchema(map[string]any{
					"material_id": propStringEnum("Surface material id.", taxonomy.Materials.IDs()),
				}, []string{"material_id"}),
			},
			call: bind(func(_ context.Context, in types.MaterialInput) (any, error) {
				return svc.MaterialProperties(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "compute_fresnel_intensity",
				Description: "Compute Schlick-approximated Fresnel reflectance for a material at a viewing angle.",
				InputSchema: jsonSchema(map[string]any{
					"viewing_angle_degrees": propNumber("Angle from the surface normal, 0 (head-on) to 90 (grazing)."),
					"material_id":           propStringEnum("Surface material id. Defaults to mirror_glass.", taxonomy.Materials.IDs()),
				}, []string{"viewing_angle_degrees"}),
			},
			call: bind(func(_ context.Context, in types.FresnelInput) (any, error) {
				return svc.Fresnel(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "analyze_reflection_context",
				Description: "Analyze a full reflection scenario combining material, geometry, environment and viewing angle.",
				InputSchema: jsonSchema(map[string]any{
					"material_id":           propStringEnum("Surface material id.", taxonomy.Materials.IDs()),
					"geometry":              propStringEnum("Geometry factor id.", taxonomy.Geometries.IDs()),
					"environment":           propStringEnum("Environmental context id.", taxonomy.Environments.IDs()),
					"viewing_angle_degrees": propNumber("Viewing angle in degrees. Defaults to 45."),
				}, []string{"material_id", "geometry", "environment"}),
			},
			call: bind(func(_ context.Context, in types.ContextInput) (any, error) {
				return svc.AnalyzeContext(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "detect_reflection_keywords",
				Description: "Scan free text for reflection vocabulary and suggest missing context.",
				InputSchema: jsonSchema(map[string]any{
					"prompt": propString("Prompt text to scan."),
				}, []string{"prompt"}),
			},
			call: bind(func(_ context.Context, in types.KeywordInput) (any, error) {
				return svc.DetectKeywords(in), nil
			}),
		},
		{
			def: ToolDefinition{
				Name:        "generate_reflection_prompt_enhancement",
				Description: "Build reflection vocabulary and a suggested prompt structure for a base prompt.",
				InputSchema: jsonSchema(map[string]any{
					"base_prompt":           propString("Prompt to enhance."),
					"material_id":           propStringEnum("Surface material id.", taxonomy.Materials.IDs()),
					"geometry":              propStringEnum("Geometry factor id. Defaults to flat.", taxonomy.Geometries.IDs()),
					"environment":           propStringEnum("Environmental context id. Defaults to bright_daylight.", taxonomy.Environments.IDs()),
					"viewing_angle":         propNumber("Viewing angle in degrees. Defaults to 45."),
					"reflection_prominence": propNumber("Desired prominence 0-1. Defaults to 0.7."),
					"style_modifier":        propString("Optional style phrase."),
				}, []string{"base_prompt", "material_id"}),
			},
			call: bind(func(_ context.Context, in types.EnhancementInput) (any, error) {
				return svc.Enhance(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "compare_reflection_scenarios",
				Description: "Compare two or more reflection scenarios and report intensity, visibility and complexity spans.",
				InputSchema: jsonSchema(map[string]any{
					"scenarios": map[string]any{
						"description": "Array of scenarios (or a JSON string holding one) with label, material_id, geometry, environment and viewing_angle.",
						"type":        []string{"array", "string"},
						"items": jsonSchema(map[string]any{
							"label":         propString("Scenario label."),
							"material_id":   propString("Surface material id."),
							"geometry":      propString("Geometry factor id."),
							"environment":   propString("Environmental context id."),
							"viewing_angle": propNumber("Viewing angle in degrees."),
						}, nil),
					},
				}, []string{"scenarios"}),
			},
			call: bind(func(_ context.Context, in types.CompareInput) (any, error) {
				return svc.Compare(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "list_canonical_states",
				Description: "List the canonical states of the reflective parameter space.",
				InputSchema: jsonSchema(map[string]any{}, nil),
			},
			call: func(context.Context, json.RawMessage) (any, error) {
				states := svc.ListStates()
				return map[string]any{"canonical_states": states, "count": len(states)}, nil
			},
		},
		{
			def: ToolDefinition{
				Name:        "list_rhythmic_presets",
				Description: "List the rhythmic presets available to apply_rhythmic_preset.",
				InputSchema: jsonSchema(map[string]any{}, nil),
			},
			call: func(context.Context, json.RawMessage) (any, error) {
				presets := svc.ListPresets()
				return map[string]any{"presets": presets, "count": len(presets)}, nil
			},
		},
		{
			def: ToolDefinition{
				Name:        "list_visual_archetypes",
				Description: "List the visual archetypes used for vocabulary mapping.",
				InputSchema: jsonSchema(map[string]any{}, nil),
			},
			call: func(context.Context, json.RawMessage) (any, error) {
				archetypes := svc.ListArchetypes()
				return map[string]any{"archetypes": archetypes, "count": len(archetypes)}, nil
			},
		},
		{
			def: ToolDefinition{
				Name:        "interpolate_states",
				Description: "Linearly blend two canonical states and report the nearest archetype.",
				InputSchema: jsonSchema(map[string]any{
					"state_a": propStringEnum("Start state.", morphospace.States.IDs()),
					"state_b": propStringEnum("End state.", morphospace.States.IDs()),
					"alpha":   propNumber("Blend factor, 0 yields state_a and 1 yields state_b."),
				}, []string{"state_a", "state_b", "alpha"}),
			},
			call: bind(func(_ context.Context, in types.InterpolateInput) (any, error) {
				return svc.Interpolate(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "generate_rhythmic_sequence",
				Description: "Oscillate between two canonical states with a waveform and return every step.",
				InputSchema: jsonSchema(map[string]any{
					"state_a":         propStringEnum("Start state.", morphospace.States.IDs()),
					"state_b":         propStringEnum("End state.", morphospace.States.IDs()),
					"waveform":        propStringEnum("Oscillation shape. Defaults to sinusoidal.", waveformNames()),
					"cycles":          propNumber("Number of oscillation cycles. Defaults to 1."),
					"steps_per_cycle": propNumber("Samples per cycle. Defaults to 12."),
					"phase_offset":    propNumber("Phase offset in cycles."),
				}, []string{"state_a", "state_b"}),
			},
			call: bind(func(_ context.Context, in types.SequenceInput) (any, error) {
				return svc.Sequence(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "apply_rhythmic_preset",
				Description: "Generate the rhythmic sequence stored under a preset name.",
				InputSchema: jsonSchema(map[string]any{
					"preset":       propStringEnum("Preset name.", rhythm.Presets.IDs()),
					"phase_offset": propNumber("Phase offset in cycles."),
				}, []string{"preset"}),
			},
			call: bind(func(_ context.Context, in types.PresetInput) (any, error) {
				return svc.ApplyPreset(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "map_parameters_to_vocabulary",
				Description: "Map a parameter vector to the nearest visual archetype and its vocabulary.",
				InputSchema: jsonSchema(map[string]any{
					"parameters": propVector("Parameter vector. Missing dimensions default to 0.5."),
				}, []string{"parameters"}),
			},
			call: bind(func(_ context.Context, in types.VocabularyInput) (any, error) {
				return svc.MapVocabulary(in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "generate_composite_prompt",
				Description: "Assemble one image prompt from a parameter vector, a preset midpoint or the default state.",
				InputSchema: jsonSchema(map[string]any{
					"parameters":   propVector("Optional parameter vector. Takes precedence over preset."),
					"preset":       propStringEnum("Optional preset whose midpoint is used.", rhythm.Presets.IDs()),
					"style_prefix": propString("Optional leading style phrase."),
				}, nil),
			},
			call: bind(func(ctx context.Context, in types.CompositeInput) (any, error) {
				return svc.Composite(ctx, in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "generate_sequence_prompts",
				Description: "Assemble one prompt per evenly sampled keyframe of a rhythmic preset.",
				InputSchema: jsonSchema(map[string]any{
					"preset":       propStringEnum("Preset name.", rhythm.Presets.IDs()),
					"keyframes":    propNumber("Number of keyframes to sample."),
					"style_prefix": propString("Optional leading style phrase."),
					"phase_offset": propNumber("Phase offset in cycles."),
				}, []string{"preset"}),
			},
			call: bind(func(ctx context.Context, in types.SequencePromptInput) (any, error) {
				return svc.SequencePrompts(ctx, in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "get_prompt_history",
				Description: "Return recently generated prompts, newest first.",
				InputSchema: jsonSchema(map[string]any{
					"limit": propNumber("Maximum prompts to return."),
					"tool":  propStringEnum("Optional generating tool filter.", []string{reflective.ToolComposite, reflective.ToolSequencePrompts}),
				}, nil),
			},
			call: bind(func(ctx context.Context, in types.HistoryInput) (any, error) {
				return svc.History(ctx, in)
			}),
		},
		{
			def: ToolDefinition{
				Name:        "get_server_info",
				Description: "Report server version, taxonomy coverage and capabilities.",
				InputSchema: jsonSchema(map[string]any{}, nil),
			},
			call: func(context.Context, json.RawMessage) (any, error) {
				return svc.ServerInfo(), nil
			},
		},
	}
}

func toolDefinitions(tools []tool) []ToolDefinition {
	defs := make([]ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = t.def
	}
	return defs
}

// bind decodes tool arguments into T before calling fn. Missing or null
// arguments decode to the zero value.
func bind[T any](fn func(context.Context, T) (any, error)) toolFunc {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in T
		if s := strings.TrimSpace(string(args)); s != "" && s != "null" {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, types.MalformedInput("invalid arguments: %v", err)
			}
		}
		return fn(ctx, in)
	}
}

func waveformNames() []string {
	out := make([]string, len(rhythm.Waveforms))
	for i, w := range rhythm.Waveforms {
		out[i] = string(w)
	}
	return out
}

func jsonSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func propString(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func propStringEnum(description string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func propNumber(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func propVector(description string) map[string]any {
	props := make(map[string]any, len(morphospace.Dimensions))
	for _, d := range morphospace.Dimensions {
		props[d] = propNumber(d + " in [0,1].")
	}
	return map[string]any{"type": "object", "description": description, "properties": props}
}
