package types

// Category is a closed set of intent classes used for fast routing and
// provider/prompt selection.
type Category string

const (
	CategoryNavigation    Category = "navigation"     // open app, go back, navigate
	CategoryUIInteraction Category = "ui_interaction" // tap, scroll, type, swipe
	CategorySystemControl Category = "system_control" // settings, wifi, bluetooth
	CategoryInformation   Category = "information"    // what's on screen, read content
	CategoryCommunication Category = "communication"  // send message, make call
	CategoryUtility       Category = "utility"        // screenshot, timers, everything else
	CategoryGreeting      Category = "greeting"       // hello, hi, how are you
	CategoryHelp          Category = "help"           // what can you do, help me
)

// Categories lists all intent categories in their fixed iteration order.
// The fast classifier breaks score ties by this order, so it must stay stable.
var Categories = []Category{
	CategoryGreeting,
	CategoryNavigation,
	CategoryUIInteraction,
	CategorySystemControl,
	CategoryInformation,
	CategoryHelp,
	CategoryCommunication,
	CategoryUtility,
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// RequiresScreenByDefault reports whether intents in this category need a
// screen image when the classifier result omits the field.
func (c Category) RequiresScreenByDefault() bool {
	switch c {
	case CategoryUIInteraction, CategoryInformation:
		return true
	default:
		return false
	}
}

// ResponseVariant tags a conversational intent with the canned-reply family
// the planner should use.
type ResponseVariant string

const (
	VariantNone                     ResponseVariant = ""
	VariantSimpleGreeting           ResponseVariant = "simple_greeting"
	VariantTimeBasedGreeting        ResponseVariant = "time_based_greeting"
	VariantGreetingWithCapabilities ResponseVariant = "greeting_with_capabilities"
	VariantCapabilitiesExplanation  ResponseVariant = "capabilities_explanation"
)
