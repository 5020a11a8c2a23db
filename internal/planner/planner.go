// Package planner builds the ordered device action plan from classified
// intent data and, when the vision locator found one, on-screen coordinates.
package planner

import (
	"fmt"
	"time"

	"github.com/aura-assist/aura-backend/internal/types"
)

// Planner builds action plans. The clock is injectable so time-of-day
// greetings are testable.
type Planner struct {
	now func() time.Time
}

func New() *Planner {
	return &Planner{now: time.Now}
}

// NewWithClock is for tests that need a fixed time of day.
func NewWithClock(now func() time.Time) *Planner {
	return &Planner{now: now}
}

// Build produces the action plan for one record. With coordinates present the
// plan targets the located element; otherwise it falls back to what the
// intent alone supports.
func (p *Planner) Build(data *types.IntentData, coords *types.Coordinates, intent string) []types.ActionStep {
	if coords != nil {
		return p.coordinatePlan(data, coords, intent)
	}
	return p.intentPlan(data, intent)
}

func (p *Planner) coordinatePlan(data *types.IntentData, coords *types.Coordinates, intent string) []types.ActionStep {
	actionType := "tap"
	confidence := 0.7
	if data != nil {
		if data.ActionType != "" {
			actionType = data.ActionType
		}
		confidence = data.Confidence
	}

	plan := []types.ActionStep{{
		Type:        actionType,
		X:           types.IntPtr(coords.X),
		Y:           types.IntPtr(coords.Y),
		Width:       optionalInt(coords.Width),
		Height:      optionalInt(coords.Height),
		Description: fmt.Sprintf("Tap on UI element at (%d, %d) to %s", coords.X, coords.Y, intent),
		Confidence:  confidence,
		Source:      types.SourceVLM,
		Method:      "coordinate_based",
	}}

	if actionType == types.ActionType {
		if text, ok := typedText(data); ok {
			plan = append(plan, types.ActionStep{
				Type:        types.ActionType,
				Text:        text,
				Description: fmt.Sprintf("Type '%s' into the field", text),
				Confidence:  confidence,
				Source:      types.SourceIntent,
			})
		}
	}

	return plan
}

// typedText pulls the text payload for a type action from the intent
// parameters. The classifier emits it as text_input; external callers may
// pass it as text.
func typedText(data *types.IntentData) (string, bool) {
	if data == nil {
		return "", false
	}
	if text, ok := data.Parameters["text"]; ok && text != "" {
		return text, true
	}
	if text, ok := data.Parameters["text_input"]; ok && text != "" {
		return text, true
	}
	return "", false
}

func (p *Planner) intentPlan(data *types.IntentData, intent string) []types.ActionStep {
	actionType := "speak"
	confidence := 0.3
	category := types.Category("")
	if data != nil {
		if data.ActionType != "" {
			actionType = data.ActionType
		}
		confidence = data.Confidence
		category = data.Category
	}

	// Conversational intents get a full canned reply rather than the generic
	// clearer-view fallback.
	if actionType == types.ActionRespond || category == types.CategoryGreeting || category == types.CategoryHelp {
		return []types.ActionStep{{
			Type:           types.ActionSpeak,
			Text:           conversationalReply(data, intent, p.now()),
			Description:    "Respond conversationally to the user",
			Confidence:     0.98,
			Source:         types.SourceConversational,
			Method:         "intent_based",
			RequiresScreen: types.BoolPtr(false),
		}}
	}

	switch {
	case actionType == types.ActionSpeak || data == nil:
		return []types.ActionStep{{
			Type:        types.ActionSpeak,
			Text:        fmt.Sprintf("I understand you want to %s, but I need a clearer view of the current screen to help you.", intent),
			Description: "Provide feedback to user about needing more information",
			Confidence:  0.9,
			Source:      types.SourceFallback,
			Method:      "intent_based",
		}}
	case actionType == types.ActionOpenApp:
		appName := data.Parameters["app_name"]
		description := "Open requested application"
		if appName != "" {
			description = "Open " + appName
		}
		return []types.ActionStep{{
			Type:        types.ActionOpenApp,
			AppName:     appName,
			Description: description,
			Confidence:  confidence,
			Source:      types.SourceIntent,
			Method:      "app_launch",
		}}
	case actionType == types.ActionSystemCommand:
		command := data.Parameters["command"]
		if command == "" {
			command = data.Parameters["system_action"]
		}
		return []types.ActionStep{{
			Type:        types.ActionSystemCommand,
			Command:     command,
			Description: "Execute system command: " + command,
			Confidence:  confidence,
			Source:      types.SourceIntent,
			Method:      "system_action",
		}}
	default:
		return []types.ActionStep{{
			Type:        types.ActionSpeak,
			Text:        fmt.Sprintf("I'll help you %s. Please make sure the relevant screen is visible and try again.", intent),
			Description: fmt.Sprintf("Attempt to execute %s with guidance", intent),
			Confidence:  confidence,
			Source:      types.SourceFallback,
			Method:      "guided_retry",
			Fallback:    true,
		}}
	}
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return types.IntPtr(v)
}
