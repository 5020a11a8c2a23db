package intent

import (
	"slices"
	"strings"

	"github.com/aura-assist/aura-backend/internal/types"
)

// instantResponses maps ultra-common transcripts to pre-computed results so
// the hot path never touches a provider.
var instantResponses = map[string]types.IntentData{
	"hello":             greetingResult(),
	"hello aura":        greetingResult(),
	"hi":                greetingResult(),
	"hi aura":           greetingResult(),
	"hey":               greetingResult(),
	"hey aura":          greetingResult(),
	"good morning":      greetingResult(),
	"good morning aura": greetingResult(),
	"go back":           navigationResult("navigate back"),
	"home":              navigationResult("go home"),
}

func greetingResult() types.IntentData {
	return types.IntentData{
		Intent:     "greeting",
		ActionType: "respond",
		Confidence: 0.95,
		Category:   types.CategoryGreeting,
	}
}

func navigationResult(intent string) types.IntentData {
	return types.IntentData{
		Intent:     intent,
		ActionType: "navigate",
		Confidence: 0.95,
		Category:   types.CategoryNavigation,
	}
}

var (
	greetingWords   = []string{"hello", "hi", "hey", "good", "morning", "afternoon", "evening"}
	auraWords       = []string{"aura", "ora", "aurora"}
	capabilityWords = []string{"what", "can", "you", "do", "help", "capabilities", "assist", "support"}

	capabilityPhrases = []string{
		"what can you do", "what can you", "how can you help",
		"what are your capabilities", "what do you do", "help me",
		"what can aura do", "what are you capable of",
	}
)

// matchInstant checks the cleaned transcript against the instant table and
// the flexible greeting/capability patterns. It returns nil when nothing
// matched and the transcript should go through classification.
func matchInstant(clean string) *types.IntentData {
	if result, ok := instantResponses[clean]; ok {
		return &result
	}

	stripped := strings.NewReplacer(",", "", ".", "", "!", "", "?", "").Replace(clean)
	words := strings.Fields(stripped)

	// Capability and help questions.
	if containsAny(words, capabilityWords) {
		for _, phrase := range capabilityPhrases {
			if strings.Contains(clean, phrase) {
				return &types.IntentData{
					Intent:          "explain capabilities and features",
					ActionType:      "respond",
					Confidence:      0.95,
					Category:        types.CategoryHelp,
					ResponseVariant: types.VariantCapabilitiesExplanation,
				}
			}
		}
	}

	// Greetings, keyed off the first word.
	if len(words) > 0 && slices.Contains(greetingWords, words[0]) {
		switch {
		case words[0] == "good" && len(words) > 1 && slices.Contains([]string{"morning", "afternoon", "evening"}, words[1]):
			return &types.IntentData{
				Intent:          "greeting",
				ActionType:      "respond",
				Confidence:      0.95,
				Category:        types.CategoryGreeting,
				ResponseVariant: types.VariantTimeBasedGreeting,
			}
		case words[0] == "hello" || words[0] == "hi" || words[0] == "hey":
			// A long greeting or one that asks a question is really a help
			// request, not a plain hello.
			if len(words) > 4 || containsAny(words, capabilityWords) {
				return &types.IntentData{
					Intent:          "greeting with capability inquiry",
					ActionType:      "respond",
					Confidence:      0.95,
					Category:        types.CategoryHelp,
					ResponseVariant: types.VariantGreetingWithCapabilities,
				}
			}
			if len(words) <= 3 && (len(words) == 1 || containsAny(words, auraWords)) {
				return &types.IntentData{
					Intent:          "greeting",
					ActionType:      "respond",
					Confidence:      0.95,
					Category:        types.CategoryGreeting,
					ResponseVariant: types.VariantSimpleGreeting,
				}
			}
		}
	}

	// Navigation shortcuts.
	switch clean {
	case "back", "go back":
		result := navigationResult("navigate back")
		return &result
	case "home", "go home":
		result := navigationResult("go home")
		return &result
	}

	// Common confirmations.
	switch clean {
	case "yes", "ok", "okay", "sure", "no":
		return &types.IntentData{
			Intent:     "confirmation: " + clean,
			ActionType: "respond",
			Confidence: 0.90,
			Category:   types.CategoryUtility,
		}
	}

	return nil
}

func containsAny(words, wanted []string) bool {
	for _, w := range words {
		if slices.Contains(wanted, w) {
			return true
		}
	}
	return false
}
