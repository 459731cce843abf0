package reflective

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/internal/config"
	"github.com/xiy/reflective-mcp/internal/metrics"
	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/optics"
	"github.com/xiy/reflective-mcp/internal/prompt"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// Version is reported by get_server_info and the version command.
const Version = "1.0.0"

// Tool names recorded with prompt history.
const (
	ToolComposite       = "generate_composite_prompt"
	ToolSequencePrompts = "generate_sequence_prompts"
)

const (
	defaultCycles        = 1.0
	defaultStepsPerCycle = 12
	defaultHistoryLimit  = 20
	maxHistoryLimit      = 200
)

// History persists generated prompts.
type History interface {
	InsertPrompt(ctx context.Context, rec types.PromptRecord) (types.PromptRecord, error)
	RecentPrompts(ctx context.Context, limit int, tool string) ([]types.PromptRecord, error)
}

// Service validates tool inputs, runs the domain packages and records
// generated prompts.
type Service struct {
	history History
	cfg     config.Config
	gen     *rhythm.Generator
	builder *prompt.Builder
	metrics *metrics.Recorder
	logger  *log.Logger
}

// NewService constructs a reflective service. A nil history disables prompt
// persistence.
func NewService(history History, cfg config.Config, logger *log.Logger) (*Service, error) {
	gen := rhythm.NewGenerator(cfg.DriftSeed)
	b, err := prompt.NewBuilder(gen, cfg.DefaultState)
	if err != nil {
		return nil, fmt.Errorf("default state: %w", err)
	}
	return &Service{history: history, cfg: cfg, gen: gen, builder: b, logger: logger}, nil
}

// UseMetrics attaches a recorder for generated prompt counts.
func (s *Service) UseMetrics(r *metrics.Recorder) { s.metrics = r }

// Taxonomy returns every reference table.
func (s *Service) Taxonomy() taxonomy.Snapshot { return taxonomy.All() }

// MaterialProperties looks up one material.
func (s *Service) MaterialProperties(in types.MaterialInput) (optics.MaterialReport, error) {
	return optics.MaterialProperties(strings.TrimSpace(in.MaterialID))
}

// Fresnel computes angle-dependent reflectance.
func (s *Service) Fresnel(in types.FresnelInput) (optics.FresnelResult, error) {
	return optics.Fresnel(in.ViewingAngleDegrees, strings.TrimSpace(in.MaterialID))
}

// AnalyzeContext evaluates one full reflection scenario.
func (s *Service) AnalyzeContext(in types.ContextInput) (optics.Analysis, error) {
	return optics.Analyze(optics.Scenario{
		MaterialID:   strings.TrimSpace(in.MaterialID),
		Geometry:     strings.TrimSpace(in.Geometry),
		Environment:  strings.TrimSpace(in.Environment),
		ViewingAngle: floatOr(in.ViewingAngleDegrees, optics.DefaultViewingAngle),
	})
}

// DetectKeywords scans free text for reflection vocabulary.
func (s *Service) DetectKeywords(in types.KeywordInput) optics.KeywordReport {
	return optics.DetectKeywords(in.Prompt)
}

// Enhance builds reflection vocabulary for a base prompt.
func (s *Service) Enhance(in types.EnhancementInput) (optics.Enhancement, error) {
	if strings.TrimSpace(in.BasePrompt) == "" {
		return optics.Enhancement{}, types.MalformedInput("base_prompt is required")
	}
	return optics.Enhance(optics.EnhanceRequest{
		BasePrompt: strings.TrimSpace(in.BasePrompt),
		Scenario: optics.Scenario{
			MaterialID:   strings.TrimSpace(in.MaterialID),
			Geometry:     stringOr(in.Geometry, optics.DefaultGeometry),
			Environment:  stringOr(in.Environment, optics.DefaultEnvironment),
			ViewingAngle: floatOr(in.ViewingAngle, optics.DefaultViewingAngle),
		},
		Prominence:    floatOr(in.ReflectionProminence, optics.DefaultProminence),
		StyleModifier: strings.TrimSpace(in.StyleModifier),
	})
}

// Compare analyses two or more scenarios side by side.
func (s *Service) Compare(in types.CompareInput) (optics.Comparison, error) {
	specs, err := optics.DecodeScenarios(in.Scenarios)
	if err != nil {
		return optics.Comparison{}, err
	}
	return optics.Compare(specs)
}

// ListStates returns the canonical states.
func (s *Service) ListStates() []morphospace.State { return morphospace.States.All() }

// ListPresets returns the rhythmic presets.
func (s *Service) ListPresets() []rhythm.Preset { return rhythm.Presets.All() }

// ListArchetypes returns the visual archetypes.
func (s *Service) ListArchetypes() []morphospace.Archetype { return morphospace.Archetypes.All() }

// Interpolation is a blend of two canonical states and its nearest archetype.
type Interpolation struct {
	StateA    string             `json:"state_a"`
	StateB    string             `json:"state_b"`
	Alpha     float64            `json:"alpha"`
	Vector    morphospace.Vector `json:"parameters"`
	Archetype string             `json:"nearest_archetype"`
	Distance  float64            `json:"distance"`
}

// Interpolate blends two named states.
func (s *Service) Interpolate(in types.InterpolateInput) (Interpolation, error) {
	if math.IsNaN(in.Alpha) || math.IsInf(in.Alpha, 0) {
		return Interpolation{}, types.MalformedInput("alpha must be a finite number")
	}
	a, err := morphospace.States.Get(strings.TrimSpace(in.StateA))
	if err != nil {
		return Interpolation{}, err
	}
	b, err := morphospace.States.Get(strings.TrimSpace(in.StateB))
	if err != nil {
		return Interpolation{}, err
	}
	v := morphospace.Interpolate(a.Vector, b.Vector, in.Alpha)
	m := morphospace.Nearest(v)
	return Interpolation{
		StateA:    a.Name,
		StateB:    b.Name,
		Alpha:     in.Alpha,
		Vector:    roundVector(v),
		Archetype: m.Archetype.Name,
		Distance:  optics.Round3(m.Distance),
	}, nil
}

// Sequence generates a rhythmic walk between two states. Cycles default to
// one and steps per cycle to twelve.
func (s *Service) Sequence(in types.SequenceInput) (rhythm.Sequence, error) {
	cycles := in.Cycles
	if cycles == 0 {
		cycles = defaultCycles
	}
	spc := in.StepsPerCycle
	if spc == 0 {
		spc = defaultStepsPerCycle
	}
	return roundSequence(s.gen.Sequence(rhythm.Request{
		StateA:        strings.TrimSpace(in.StateA),
		StateB:        strings.TrimSpace(in.StateB),
		Waveform:      rhythm.Waveform(strings.ToLower(strings.TrimSpace(in.Waveform))),
		Cycles:        cycles,
		StepsPerCycle: spc,
		PhaseOffset:   in.PhaseOffset,
	}))
}

// ApplyPreset runs a stored rhythmic preset.
func (s *Service) ApplyPreset(in types.PresetInput) (rhythm.Sequence, error) {
	return roundSequence(s.gen.ApplyPreset(strings.TrimSpace(in.Preset), in.PhaseOffset))
}

// Vocabulary is the nearest archetype for a decoded vector.
type Vocabulary struct {
	Vector    morphospace.Vector    `json:"parameters"`
	Archetype morphospace.Archetype `json:"archetype"`
	Distance  float64               `json:"distance"`
}

// MapVocabulary decodes a parameter vector and finds its archetype.
func (s *Service) MapVocabulary(in types.VocabularyInput) (Vocabulary, error) {
	v, err := morphospace.DecodeVector(in.Parameters)
	if err != nil {
		return Vocabulary{}, err
	}
	m := morphospace.Nearest(v)
	return Vocabulary{Vector: v, Archetype: m.Archetype, Distance: optics.Round3(m.Distance)}, nil
}

// Composite renders one prompt and records it in history.
func (s *Service) Composite(ctx context.Context, in types.CompositeInput) (prompt.Composite, error) {
	req := prompt.CompositeRequest{
		Preset:      strings.TrimSpace(in.Preset),
		StylePrefix: in.StylePrefix,
	}
	if hasPayload(in.Parameters) {
		v, err := morphospace.DecodeVector(in.Parameters)
		if err != nil {
			return prompt.Composite{}, err
		}
		req.Vector = &v
	}
	out, err := s.builder.Composite(req)
	if err != nil {
		return prompt.Composite{}, err
	}
	s.record(ctx, []types.PromptRecord{{
		Tool:      ToolComposite,
		Source:    out.Source,
		Archetype: out.Archetype,
		Prompt:    out.Prompt,
	}})
	out.Vector = roundVector(out.Vector)
	out.Distance = optics.Round3(out.Distance)
	return out, nil
}

// SequencePrompts renders keyframe prompts for a preset and records them.
func (s *Service) SequencePrompts(ctx context.Context, in types.SequencePromptInput) (prompt.Sequence, error) {
	k := in.Keyframes
	if k == 0 {
		k = s.cfg.DefaultKeyframes
	}
	if k < 1 || k > s.cfg.MaxKeyframes {
		return prompt.Sequence{}, types.MalformedInput("keyframes must be between 1 and %d, got %d", s.cfg.MaxKeyframes, k)
	}
	out, err := s.builder.Sequence(prompt.SequenceRequest{
		Preset:      strings.TrimSpace(in.Preset),
		Keyframes:   k,
		StylePrefix: in.StylePrefix,
		PhaseOffset: in.PhaseOffset,
	})
	if err != nil {
		return prompt.Sequence{}, err
	}
	now := time.Now().UTC()
	recs := make([]types.PromptRecord, 0, len(out.Keyframes))
	for _, kf := range out.Keyframes {
		recs = append(recs, types.PromptRecord{
			Tool:      ToolSequencePrompts,
			Source:    out.Preset,
			Archetype: kf.Archetype,
			Prompt:    kf.Prompt,
			Step:      kf.Step,
			CreatedAt: now,
		})
	}
	s.record(ctx, recs)
	for i := range out.Keyframes {
		kf := &out.Keyframes[i]
		kf.BlendFactor = optics.Round3(kf.BlendFactor)
		kf.Vector = roundVector(kf.Vector)
		kf.Distance = optics.Round3(kf.Distance)
	}
	return out, nil
}

// HistoryResult lists recent prompts.
type HistoryResult struct {
	Enabled bool                 `json:"enabled"`
	Prompts []types.PromptRecord `json:"prompts"`
}

// History returns recently generated prompts, newest first.
func (s *Service) History(ctx context.Context, in types.HistoryInput) (HistoryResult, error) {
	if s.history == nil {
		return HistoryResult{Enabled: false, Prompts: []types.PromptRecord{}}, nil
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	recs, err := s.history.RecentPrompts(ctx, limit, strings.TrimSpace(in.Tool))
	if err != nil {
		return HistoryResult{}, fmt.Errorf("load prompt history: %w", err)
	}
	if recs == nil {
		recs = []types.PromptRecord{}
	}
	return HistoryResult{Enabled: true, Prompts: recs}, nil
}

// Info describes the server and its data coverage.
type Info struct {
	Server       string         `json:"server"`
	Version      string         `json:"version"`
	Description  string         `json:"description"`
	Coverage     map[string]int `json:"taxonomy_coverage"`
	Waveforms    []string       `json:"waveforms"`
	Capabilities []string       `json:"key_capabilities"`
	History      bool           `json:"history_enabled"`
	DriftSeed    int64          `json:"drift_seed"`
}

// ServerInfo reports server metadata.
func (s *Service) ServerInfo() Info {
	waves := make([]string, len(rhythm.Waveforms))
	for i, w := range rhythm.Waveforms {
		waves[i] = string(w)
	}
	return Info{
		Server:      s.cfg.ServerName,
		Version:     Version,
		Description: "Deterministic visual vocabulary for reflective surface aesthetics",
		Coverage: map[string]int{
			"reflection_types":       taxonomy.ReflectionTypes.Len(),
			"surface_materials":      taxonomy.Materials.Len(),
			"optical_phenomena":      taxonomy.Phenomena.Len(),
			"geometry_factors":       taxonomy.Geometries.Len(),
			"environmental_contexts": taxonomy.Environments.Len(),
			"canonical_states":       morphospace.States.Len(),
			"rhythmic_presets":       rhythm.Presets.Len(),
			"visual_archetypes":      morphospace.Archetypes.Len(),
		},
		Waveforms: waves,
		Capabilities: []string{
			"Fresnel equation calculations",
			"Material optical property lookup",
			"Multi-factor reflection analysis",
			"Keyword detection and extraction",
			"Comparative scenario analysis",
			"Image prompt enhancement",
			"Morphospace interpolation and rhythmic sequences",
			"Nearest-archetype vocabulary mapping",
			"Composite and keyframe prompt assembly",
		},
		History:   s.history != nil,
		DriftSeed: s.gen.Seed(),
	}
}

func (s *Service) record(ctx context.Context, recs []types.PromptRecord) {
	s.metrics.AddPrompts(len(recs))
	if s.history == nil {
		return
	}
	for _, rec := range recs {
		if _, err := s.history.InsertPrompt(ctx, rec); err != nil {
			s.logger.Warn("persist prompt history failed", "tool", rec.Tool, "error", err)
			return
		}
	}
}

// roundVector rounds every dimension to 3 decimals for output.
func roundVector(v morphospace.Vector) morphospace.Vector {
	d := v.Values()
	for i := range d {
		d[i] = optics.Round3(d[i])
	}
	return morphospace.FromValues(d)
}

func roundSequence(seq rhythm.Sequence, err error) (rhythm.Sequence, error) {
	if err != nil {
		return seq, err
	}
	for i := range seq.Steps {
		st := &seq.Steps[i]
		st.BlendFactor = optics.Round3(st.BlendFactor)
		st.CyclePosition = optics.Round3(st.CyclePosition)
		st.Vector = roundVector(st.Vector)
	}
	return seq, nil
}

func hasPayload(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return t != "" && t != "null"
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
