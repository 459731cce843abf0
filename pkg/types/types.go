package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrorKind classifies a recoverable tool failure.
type ErrorKind string

const (
	KindUnknownIdentifier ErrorKind = "unknown_identifier"
	KindMalformedInput    ErrorKind = "malformed_input"
	KindInvalidArity      ErrorKind = "invalid_arity"
	KindInvalidWaveform   ErrorKind = "invalid_waveform"
)

// ToolError is the structured failure returned to MCP callers instead of a
// transport error. Subject names the table the alternatives come from and
// becomes the "available_<subject>" key on the wire.
type ToolError struct {
	Kind      ErrorKind
	Message   string
	Subject   string
	Available []string
}

func (e *ToolError) Error() string { return e.Message }

// MarshalJSON renders the error payload shape expected by tool callers.
func (e *ToolError) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"error": e.Message,
		"kind":  e.Kind,
	}
	if e.Subject != "" && len(e.Available) > 0 {
		m["available_"+e.Subject] = e.Available
	}
	return json.Marshal(m)
}

// UnknownIdentifier builds an unknown-identifier error listing valid ids.
func UnknownIdentifier(label, subject, id string, available []string) *ToolError {
	return &ToolError{
		Kind:      KindUnknownIdentifier,
		Message:   fmt.Sprintf("Unknown %s: %s", label, id),
		Subject:   subject,
		Available: available,
	}
}

// MalformedInput builds a malformed-input error.
func MalformedInput(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindMalformedInput, Message: fmt.Sprintf(format, args...)}
}

// PromptRecord is one generated prompt kept in history.
type PromptRecord struct {
	ID        string    `json:"id"`
	Tool      string    `json:"tool"`
	Source    string    `json:"source"`
	Archetype string    `json:"archetype"`
	Prompt    string    `json:"prompt"`
	Step      int       `json:"step"`
	CreatedAt time.Time `json:"created_at"`
}

// FresnelInput requests a Fresnel reflectance calculation.
type FresnelInput struct {
	ViewingAngleDegrees float64 `json:"viewing_angle_degrees"`
	MaterialID          string  `json:"material_id,omitempty"`
}

// MaterialInput names a surface material.
type MaterialInput struct {
	MaterialID string `json:"material_id"`
}

// ContextInput describes one reflection scenario.
type ContextInput struct {
	MaterialID          string   `json:"material_id"`
	Geometry            string   `json:"geometry"`
	Environment         string   `json:"environment"`
	ViewingAngleDegrees *float64 `json:"viewing_angle_degrees,omitempty"`
}

// KeywordInput carries a free-text prompt to scan.
type KeywordInput struct {
	Prompt string `json:"prompt"`
}

// EnhancementInput requests reflection vocabulary for a base prompt.
type EnhancementInput struct {
	BasePrompt           string   `json:"base_prompt"`
	MaterialID           string   `json:"material_id"`
	Geometry             string   `json:"geometry,omitempty"`
	Environment          string   `json:"environment,omitempty"`
	ViewingAngle         *float64 `json:"viewing_angle,omitempty"`
	ReflectionProminence *float64 `json:"reflection_prominence,omitempty"`
	StyleModifier        string   `json:"style_modifier,omitempty"`
}

// CompareInput carries the scenarios to compare, either as a JSON array or a
// string containing one.
type CompareInput struct {
	Scenarios json.RawMessage `json:"scenarios"`
}

// InterpolateInput blends two canonical states.
type InterpolateInput struct {
	StateA string  `json:"state_a"`
	StateB string  `json:"state_b"`
	Alpha  float64 `json:"alpha"`
}

// SequenceInput requests a rhythmic sequence between two canonical states.
type SequenceInput struct {
	StateA        string  `json:"state_a"`
	StateB        string  `json:"state_b"`
	Waveform      string  `json:"waveform,omitempty"`
	Cycles        float64 `json:"cycles,omitempty"`
	StepsPerCycle int     `json:"steps_per_cycle,omitempty"`
	PhaseOffset   float64 `json:"phase_offset,omitempty"`
}

// PresetInput applies a named rhythmic preset.
type PresetInput struct {
	Preset      string  `json:"preset"`
	PhaseOffset float64 `json:"phase_offset,omitempty"`
}

// VocabularyInput maps a parameter vector to archetype vocabulary.
type VocabularyInput struct {
	Parameters json.RawMessage `json:"parameters"`
}

// CompositeInput requests a single composite prompt.
type CompositeInput struct {
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Preset      string          `json:"preset,omitempty"`
	StylePrefix string          `json:"style_prefix,omitempty"`
}

// SequencePromptInput requests one prompt per sampled keyframe of a preset.
type SequencePromptInput struct {
	Preset      string  `json:"preset"`
	Keyframes   int     `json:"keyframes,omitempty"`
	StylePrefix string  `json:"style_prefix,omitempty"`
	PhaseOffset float64 `json:"phase_offset,omitempty"`
}

// HistoryInput requests recent prompt history.
type HistoryInput struct {
	Limit int    `json:"limit,omitempty"`
	Tool  string `json:"tool,omitempty"`
}
