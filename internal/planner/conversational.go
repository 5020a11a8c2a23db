package planner

import (
	"hash/fnv"
	"time"

	"github.com/aura-assist/aura-backend/internal/types"
)

// Canned conversational replies for intents that never touch the screen.
// Plain-greeting variety comes from a stable hash of the intent text, so the
// same transcript always gets the same reply across runs and restarts.

var simpleGreetings = []string{
	"Hello! I'm AURA, your accessibility assistant. How can I help you today?",
	"Hi there! I'm ready to help. What would you like me to do?",
	"Hey! AURA here. Tell me what you need and I'll take care of it.",
}

const capabilitiesExplanation = "I can help you with opening apps, taking screenshots, " +
	"reading UI elements, and interacting with your device. I can also tap buttons, " +
	"type text, and adjust system settings like volume and brightness. " +
	"What would you like me to do?"

const greetingWithCapabilities = "Hello! I'm AURA, your accessibility assistant. " +
	"I can open apps, read what's on your screen, tap and type for you, and control " +
	"system settings. What would you like me to do?"

// stableHash is FNV-1a over the text. Not seeded, so the variant choice
// survives process restarts.
func stableHash(text string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	return h.Sum32()
}

func timeBasedGreeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning! I'm AURA. How can I help you start your day?"
	case hour < 18:
		return "Good afternoon! I'm AURA. What can I do for you?"
	default:
		return "Good evening! I'm AURA. What can I help you with?"
	}
}

// conversationalReply picks the reply text for a respond-style intent.
func conversationalReply(data *types.IntentData, intent string, now time.Time) string {
	variant := types.VariantNone
	if data != nil {
		variant = data.ResponseVariant
	}
	switch variant {
	case types.VariantCapabilitiesExplanation:
		return capabilitiesExplanation
	case types.VariantGreetingWithCapabilities:
		return greetingWithCapabilities
	case types.VariantTimeBasedGreeting:
		return timeBasedGreeting(now)
	default:
		return simpleGreetings[stableHash(intent)%uint32(len(simpleGreetings))]
	}
}
