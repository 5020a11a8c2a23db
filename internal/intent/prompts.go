package intent

import (
	"fmt"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/types"
)

// promptTemplate is the per-category prompt configuration. Prompts demand raw
// JSON with a fixed shape so responses parse without post-processing, and the
// token budgets are kept tight to hold latency down.
type promptTemplate struct {
	system         string
	maxTokens      int
	expectedFields []string
}

var promptTemplates = map[types.Category]promptTemplate{
	types.CategoryNavigation: {
		system: `AURA navigation analyzer. Extract app/action info FAST.

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "open_app|navigate_back|go_home",
    "app_name": "app name or null",
    "action_type": "open_app|navigate|back|home",
    "confidence": 0.9,
    "requires_screen_analysis": false
}

KEYWORDS: open, launch, start, go back, home, switch to`,
		maxTokens:      80,
		expectedFields: []string{"intent", "app_name", "action_type", "confidence", "requires_screen_analysis"},
	},
	types.CategoryUIInteraction: {
		system: `AURA UI interaction analyzer. Extract interaction details FAST.

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "brief description",
    "action_type": "tap|swipe|scroll|type|long_press",
    "target_element": "element description or null",
    "text_input": "text to type or null",
    "direction": "up|down|left|right or null",
    "confidence": 0.85,
    "requires_screen_analysis": true
}

KEYWORDS: tap, click, press, scroll, swipe, type, enter`,
		maxTokens:      120,
		expectedFields: []string{"intent", "action_type", "target_element", "confidence", "requires_screen_analysis"},
	},
	types.CategorySystemControl: {
		system: `AURA system control analyzer. Extract system actions FAST.

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "brief description",
    "action_type": "system_command",
    "system_action": "wifi_toggle|bluetooth_toggle|volume_up|volume_down|brightness_up|brightness_down|settings",
    "confidence": 0.9,
    "requires_screen_analysis": false
}

KEYWORDS: wifi, bluetooth, volume, brightness, settings`,
		maxTokens:      70,
		expectedFields: []string{"intent", "action_type", "system_action", "confidence", "requires_screen_analysis"},
	},
	types.CategoryInformation: {
		system: `You are AURA's information request analyzer. Extract what user wants to know.

RESPOND WITH ONLY THIS JSON:
{
    "intent": "brief description of information request",
    "action_type": "read_screen|describe_ui|get_info",
    "info_type": "screen_content|app_info|element_details|general",
    "confidence": 0.0-1.0,
    "requires_screen_analysis": true
}`,
		maxTokens:      150,
		expectedFields: []string{"intent", "action_type", "info_type", "confidence", "requires_screen_analysis"},
	},
	types.CategoryGreeting: {
		system: `AURA greeting analyzer. Detect greetings FAST.

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "greeting or conversation",
    "action_type": "respond",
    "greeting_type": "hello|how_are_you|good_morning|casual",
    "confidence": 0.95,
    "requires_screen_analysis": false
}

KEYWORDS: hello, hi, hey, good morning, how are you`,
		maxTokens:      60,
		expectedFields: []string{"intent", "action_type", "greeting_type", "confidence", "requires_screen_analysis"},
	},
	types.CategoryCommunication: {
		system: `AURA communication analyzer. Extract messaging/calling details FAST.

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "brief description",
    "action_type": "send_message|make_call|open_chat",
    "app_name": "whatsapp|telegram|phone|messages|null",
    "recipient": "contact name or null",
    "message_text": "message content or null",
    "confidence": 0.85,
    "requires_screen_analysis": true
}

KEYWORDS: send, message, call, text, whatsapp, telegram`,
		maxTokens:      100,
		expectedFields: []string{"intent", "action_type", "app_name", "confidence", "requires_screen_analysis"},
	},
}

// generalTemplate handles transcripts no category claimed.
var generalTemplate = promptTemplate{
	system: `AURA Android assistant. Analyze command EFFICIENTLY.

CATEGORIES: Navigation (open apps), UI (tap/scroll/type), System (wifi/volume), Info (read screen)

RESPOND WITH ONLY THIS JSON (no explanations):
{
    "intent": "1-sentence description",
    "action_type": "tap|swipe|type|navigate|open_app|system_command|read_screen",
    "confidence": 0.7,
    "requires_screen_analysis": true
}

BE FAST and ACCURATE.`,
	maxTokens:      150,
	expectedFields: []string{"intent", "action_type", "confidence", "requires_screen_analysis"},
}

func templateFor(category types.Category) promptTemplate {
	if t, ok := promptTemplates[category]; ok {
		return t
	}
	return generalTemplate
}

// modelFor picks the chat model per category. Simple categories ride the
// fastest model; everything else gets the quality model.
func modelFor(category types.Category, defaultModel string) string {
	switch category {
	case types.CategoryGreeting, types.CategorySystemControl:
		return "compound-beta-mini"
	default:
		return defaultModel
	}
}

// buildRequest assembles the JSON-mode completion for one transcript. The UI
// tree rides along only for the categories that need it, truncated to the
// configured excerpt so the prompt stays small.
func buildRequest(transcript string, category types.Category, uiTree string, excerptLen int, model string) providers.CompletionRequest {
	template := templateFor(category)

	user := fmt.Sprintf("'%s'", transcript)
	if (category == types.CategoryUIInteraction || category == types.CategoryInformation) && len(uiTree) > 30 {
		excerpt := uiTree
		if len(excerpt) > excerptLen {
			excerpt = excerpt[:excerptLen] + "..."
		}
		user += "\nUI: " + excerpt
	}

	return providers.CompletionRequest{
		Model:       model,
		System:      template.system,
		User:        user,
		MaxTokens:   template.maxTokens,
		Temperature: 0,
		JSONMode:    true,
	}
}
