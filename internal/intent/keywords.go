package intent

import (
	"strings"

	"github.com/aura-assist/aura-backend/internal/types"
)

// quickClassifier holds the keyword set and acceptance threshold for one
// category. Scores below the threshold never classify, so a generic word like
// "what" alone cannot hijack a command into the information category.
type quickClassifier struct {
	keywords  []string
	threshold float64
}

var quickClassifiers = map[types.Category]quickClassifier{
	types.CategoryGreeting: {
		keywords:  []string{"hello", "hi", "hey", "good morning", "good afternoon", "how are you", "what's up", "greetings"},
		threshold: 0.95,
	},
	types.CategoryNavigation: {
		keywords:  []string{"open", "launch", "start", "go to", "navigate", "back", "home", "switch", "exit", "close app"},
		threshold: 0.85,
	},
	types.CategoryUIInteraction: {
		keywords:  []string{"tap", "click", "press", "scroll", "swipe", "type", "enter", "input", "select", "touch", "drag"},
		threshold: 0.90,
	},
	types.CategorySystemControl: {
		keywords:  []string{"wifi", "bluetooth", "settings", "volume", "brightness", "airplane mode", "silent", "vibrate"},
		threshold: 0.95,
	},
	types.CategoryInformation: {
		keywords:  []string{"what", "read", "tell me", "show me", "describe", "explain", "what's on", "screen content"},
		threshold: 0.80,
	},
	types.CategoryHelp: {
		keywords:  []string{"help", "what can you do", "how do", "assist", "support", "tutorial", "guide"},
		threshold: 0.90,
	},
	types.CategoryCommunication: {
		keywords:  []string{"send message", "call", "text", "email", "whatsapp", "telegram", "sms"},
		threshold: 0.85,
	},
}

// classifyFast scores the transcript against every category's keyword set and
// returns the best qualifying category, or "" when nothing clears its
// threshold. Ties resolve to the first qualifying category in the fixed
// types.Categories order, keeping classification deterministic.
func classifyFast(transcript string) types.Category {
	lower := strings.ToLower(strings.TrimSpace(transcript))
	if len(lower) < 2 {
		return ""
	}

	var best types.Category
	bestScore := 0.0

	for _, category := range types.Categories {
		classifier, ok := quickClassifiers[category]
		if !ok {
			continue
		}

		score := 0.0
		hits := 0
		for _, keyword := range classifier.keywords {
			if strings.Contains(lower, keyword) {
				score += 1.0
				hits++
				continue
			}
			for _, part := range strings.Fields(keyword) {
				if strings.Contains(lower, part) {
					score += 0.5
					hits++
					break
				}
			}
		}
		if hits == 0 {
			continue
		}

		normalized := score / float64(len(classifier.keywords))
		if hits > 1 {
			normalized *= 1.5
		}
		if normalized > classifier.threshold && normalized > bestScore {
			bestScore = normalized
			best = category
		}
	}

	return best
}
