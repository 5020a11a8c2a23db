package types

// Action step types understood by the device-side executor.
const (
	ActionTap           = "tap"
	ActionSwipe         = "swipe"
	ActionType          = "type"
	ActionOpenApp       = "open_app"
	ActionSystemCommand = "system_command"
	ActionSpeak         = "speak"
	ActionRespond       = "respond"
	ActionNavigate      = "navigate"
)

// Action step sources: which part of the pipeline produced the step.
const (
	SourceVLM            = "vlm"
	SourceIntent         = "intent"
	SourceUITree         = "ui_tree"
	SourceFallback       = "fallback"
	SourceConversational = "conversational"
)

// ActionStep is one unit of the device action plan.
type ActionStep struct {
	Type        string  `json:"type"`
	X           *int    `json:"x,omitempty"`
	Y           *int    `json:"y,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	Text        string  `json:"text,omitempty"`
	AppName     string  `json:"app_name,omitempty"`
	Command     string  `json:"command,omitempty"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
	Method      string  `json:"method,omitempty"`

	// RequiresScreen is a tri-state: nil means unknown, false marks a simple
	// action that works without a screen image.
	RequiresScreen *bool `json:"requires_screen,omitempty"`
	Fallback       bool  `json:"fallback,omitempty"`
}

// HasCoordinates reports whether the step targets a screen position.
func (s ActionStep) HasCoordinates() bool {
	return s.X != nil && s.Y != nil
}

// IsSimple reports whether the step explicitly works without the screen.
func (s ActionStep) IsSimple() bool {
	return s.RequiresScreen != nil && !*s.RequiresScreen
}

// IntPtr is a small helper for the optional coordinate fields.
func IntPtr(v int) *int { return &v }

// BoolPtr is a small helper for the optional RequiresScreen field.
func BoolPtr(v bool) *bool { return &v }
