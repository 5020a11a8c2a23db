package types

import (
	"maps"
	"slices"
	"time"
)

// Coordinates is a located UI element's bounding box.
type Coordinates struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// IntentData is the structured classification result attached to a record.
type IntentData struct {
	Intent                 string            `json:"intent"`
	ActionType             string            `json:"action_type"`
	Confidence             float64           `json:"confidence"`
	RequiresScreenAnalysis bool              `json:"requires_screen_analysis"`
	TargetElements         []string          `json:"target_elements,omitempty"`
	Parameters             map[string]string `json:"parameters,omitempty"`
	Category               Category          `json:"category,omitempty"`
	ResponseVariant        ResponseVariant   `json:"response_variant,omitempty"`

	// Provenance, mirrored into the performance monitor.
	Provider        string `json:"provider,omitempty"`
	Model           string `json:"model,omitempty"`
	InstantResponse bool   `json:"instant_response,omitempty"`
	FromCache       bool   `json:"from_cache,omitempty"`
	FallbackResult  bool   `json:"fallback_result,omitempty"`
}

// RequestRecord is the single mutable value threaded through every pipeline
// stage for one request. Stages receive it by value and return an extended
// copy, so concurrent requests never share state by reference.
type RequestRecord struct {
	SessionID string `json:"session_id"`

	// Inputs
	Transcript    string `json:"transcript,omitempty"`
	UITree        string `json:"ui_tree,omitempty"`
	HasAudio      bool   `json:"has_audio"`
	HasScreenshot bool   `json:"has_screenshot"`

	// Raw payloads, never serialized and dropped before any checkpoint write.
	Audio      []byte `json:"-"`
	Screenshot []byte `json:"-"`

	// Classification
	Intent     string      `json:"intent,omitempty"`
	IntentData *IntentData `json:"intent_data,omitempty"`
	UseVLM     bool        `json:"use_vlm"`

	// Vision location
	UIElementCoords    *Coordinates `json:"ui_element_coords,omitempty"`
	VLMConfidence      float64      `json:"vlm_confidence,omitempty"`
	ElementDescription string       `json:"element_description,omitempty"`
	VLMReasoning       string       `json:"vlm_reasoning,omitempty"`
	VLMAttempted       bool         `json:"vlm_attempted,omitempty"`

	// Outputs
	ActionPlan        []ActionStep `json:"action_plan,omitempty"`
	ResponseText      string       `json:"response_text,omitempty"`
	TTSAudioAvailable bool         `json:"tts_audio_available,omitempty"`
	TTSAudioSize      int          `json:"tts_audio_size,omitempty"`

	// Control flow
	Error    string `json:"error,omitempty"`
	Complete bool   `json:"complete"`

	// Timing
	StageTimings map[string]time.Duration `json:"stage_timings,omitempty"`
	StartTime    time.Time                `json:"start_time,omitempty"`
	TotalTime    time.Duration            `json:"total_processing_time,omitempty"`
}

// WithTiming returns a copy of the record with the stage duration recorded.
// The timing map is copied so sibling copies are never mutated through it.
func (r RequestRecord) WithTiming(stage string, d time.Duration) RequestRecord {
	timings := make(map[string]time.Duration, len(r.StageTimings)+1)
	maps.Copy(timings, r.StageTimings)
	timings[stage] = d
	r.StageTimings = timings
	return r
}

// Snapshot returns a copy safe to persist: raw audio and screenshot payloads
// are dropped and the mutable slices/maps are detached from the original.
func (r RequestRecord) Snapshot() RequestRecord {
	r.Audio = nil
	r.Screenshot = nil
	r.ActionPlan = slices.Clone(r.ActionPlan)
	r.StageTimings = maps.Clone(r.StageTimings)
	if r.IntentData != nil {
		id := *r.IntentData
		id.TargetElements = slices.Clone(id.TargetElements)
		id.Parameters = maps.Clone(id.Parameters)
		r.IntentData = &id
	}
	if r.UIElementCoords != nil {
		c := *r.UIElementCoords
		r.UIElementCoords = &c
	}
	return r
}
