package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/telemetry"
	"github.com/aura-assist/aura-backend/internal/types"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	lastReq  providers.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req providers.CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	return s.response, s.err
}

func newTestClassifier(completer providers.Completer) *Classifier {
	return NewClassifier(completer, telemetry.NewMonitor(100), nil, Options{CacheSize: 50})
}

func TestMatchInstant_SimpleGreetings(t *testing.T) {
	for _, transcript := range []string{"hello", "hi aura", "hey", "good morning"} {
		result := matchInstant(transcript)
		if result == nil {
			t.Fatalf("expected instant match for %q", transcript)
		}
		if result.Category != types.CategoryGreeting {
			t.Errorf("%q: expected greeting category, got %s", transcript, result.Category)
		}
		if result.ActionType != "respond" {
			t.Errorf("%q: expected respond action, got %s", transcript, result.ActionType)
		}
		if result.RequiresScreenAnalysis {
			t.Errorf("%q: greeting should not require screen", transcript)
		}
	}
}

func TestMatchInstant_TimeBasedGreeting(t *testing.T) {
	result := matchInstant("good evening")
	if result == nil {
		t.Fatal("expected match")
	}
	if result.ResponseVariant != types.VariantTimeBasedGreeting {
		t.Errorf("expected time_based_greeting variant, got %s", result.ResponseVariant)
	}
}

func TestMatchInstant_GreetingWithCapabilities(t *testing.T) {
	result := matchInstant("hi aura what can you do")
	if result == nil {
		t.Fatal("expected match")
	}
	if result.Category != types.CategoryHelp {
		t.Errorf("expected help category, got %s", result.Category)
	}
	if result.ResponseVariant != types.VariantGreetingWithCapabilities {
		t.Errorf("expected greeting_with_capabilities variant, got %s", result.ResponseVariant)
	}
}

func TestMatchInstant_CapabilityQuestion(t *testing.T) {
	result := matchInstant("what can you do")
	if result == nil {
		t.Fatal("expected match")
	}
	if result.ResponseVariant != types.VariantCapabilitiesExplanation {
		t.Errorf("expected capabilities_explanation variant, got %s", result.ResponseVariant)
	}
}

func TestMatchInstant_NavigationShortcuts(t *testing.T) {
	for transcript, wantIntent := range map[string]string{
		"back":    "navigate back",
		"go back": "navigate back",
		"home":    "go home",
		"go home": "go home",
	} {
		result := matchInstant(transcript)
		if result == nil {
			t.Fatalf("expected match for %q", transcript)
		}
		if result.Intent != wantIntent {
			t.Errorf("%q: expected intent %q, got %q", transcript, wantIntent, result.Intent)
		}
		if result.ActionType != "navigate" {
			t.Errorf("%q: expected navigate action, got %s", transcript, result.ActionType)
		}
	}
}

func TestMatchInstant_Confirmations(t *testing.T) {
	result := matchInstant("okay")
	if result == nil {
		t.Fatal("expected match")
	}
	if result.Intent != "confirmation: okay" {
		t.Errorf("unexpected intent %q", result.Intent)
	}
	if result.Confidence != 0.90 {
		t.Errorf("expected confidence 0.90, got %v", result.Confidence)
	}
}

func TestMatchInstant_NoMatch(t *testing.T) {
	for _, transcript := range []string{"tap the send button", "open whatsapp", "turn on wifi"} {
		if result := matchInstant(transcript); result != nil {
			t.Errorf("%q: unexpected instant match %+v", transcript, result)
		}
	}
}

func TestClassifyFast_Deterministic(t *testing.T) {
	// Enough exact keyword hits to clear the ui_interaction threshold.
	transcript := "tap click press scroll swipe type enter input select"
	first := classifyFast(transcript)
	if first != types.CategoryUIInteraction {
		t.Fatalf("expected ui_interaction, got %q", first)
	}
	for i := 0; i < 10; i++ {
		if got := classifyFast(transcript); got != first {
			t.Fatalf("classification changed between runs: %s vs %s", first, got)
		}
	}
}

func TestClassifyFast_BelowThreshold(t *testing.T) {
	// A couple of keyword hits is not enough; the LLM path decides instead.
	if got := classifyFast("tap the send button"); got != "" {
		t.Errorf("expected no fast classification, got %q", got)
	}
}

func TestClassifyFast_ShortTranscript(t *testing.T) {
	if got := classifyFast("a"); got != "" {
		t.Errorf("expected no category for 1-char transcript, got %s", got)
	}
}

func TestClassify_InstantSkipsProvider(t *testing.T) {
	stub := &stubCompleter{}
	c := newTestClassifier(stub)

	result := c.Classify(context.Background(), "hello", "")
	if !result.InstantResponse {
		t.Error("expected instant response flag")
	}
	if stub.calls != 0 {
		t.Errorf("expected no provider calls, got %d", stub.calls)
	}
}

func TestClassify_CachesProviderResult(t *testing.T) {
	stub := &stubCompleter{response: `{"intent": "open whatsapp", "action_type": "open_app", "confidence": 0.9, "requires_screen_analysis": false}`}
	c := newTestClassifier(stub)

	first := c.Classify(context.Background(), "open whatsapp please", "")
	if first.FromCache {
		t.Error("first lookup should not be a cache hit")
	}
	second := c.Classify(context.Background(), "open whatsapp please", "")
	if !second.FromCache {
		t.Error("second lookup should be a cache hit")
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", stub.calls)
	}
	if second.Intent != first.Intent {
		t.Errorf("cache changed the result: %q vs %q", first.Intent, second.Intent)
	}
}

func TestClassify_ProviderFailureFallsBack(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	c := newTestClassifier(stub)

	result := c.Classify(context.Background(), "tap the blue button in the corner", "")
	if !result.FallbackResult {
		t.Error("expected fallback result")
	}
	if result.ActionType != "tap" {
		t.Errorf("expected tap fallback action, got %s", result.ActionType)
	}
	if result.Confidence != 0.3 {
		t.Errorf("expected confidence 0.3, got %v", result.Confidence)
	}
	if !result.RequiresScreenAnalysis {
		t.Error("fallback should demand screen analysis")
	}
}

func TestClassify_MalformedJSONFallsBack(t *testing.T) {
	stub := &stubCompleter{response: "I think the user wants to tap something"}
	c := newTestClassifier(stub)

	result := c.Classify(context.Background(), "tap the button over there", "")
	if !result.FallbackResult {
		t.Error("expected fallback result for unparseable response")
	}
}

func TestBuildRequest_UITreeExcerpt(t *testing.T) {
	uiTree := strings.Repeat("x", 2000)

	req := buildRequest("tap the send button", types.CategoryUIInteraction, uiTree, 800, "llama-3.3-70b-versatile")
	if !strings.Contains(req.User, "UI: ") {
		t.Error("expected UI tree excerpt for ui_interaction")
	}
	if len(req.User) > 900 {
		t.Errorf("UI excerpt not truncated, prompt length %d", len(req.User))
	}
	if !req.JSONMode {
		t.Error("classification must request JSON mode")
	}
	if req.Temperature != 0 {
		t.Errorf("expected temperature 0, got %v", req.Temperature)
	}

	req = buildRequest("open whatsapp", types.CategoryNavigation, uiTree, 800, "llama-3.3-70b-versatile")
	if strings.Contains(req.User, "UI: ") {
		t.Error("navigation prompt must not carry the UI tree")
	}
}

func TestParseResult_RepairsMissingFields(t *testing.T) {
	result, err := parseResult(`{"intent": "do something"}`, types.CategoryUIInteraction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionType != "tap" {
		t.Errorf("expected default action tap, got %s", result.ActionType)
	}
	if result.Confidence != 0.5 {
		t.Errorf("expected confidence repaired to 0.5, got %v", result.Confidence)
	}
	if !result.RequiresScreenAnalysis {
		t.Error("ui_interaction must require screen analysis")
	}
}

func TestParseResult_ClampsLowConfidence(t *testing.T) {
	result, err := parseResult(`{"intent": "x", "action_type": "tap", "confidence": 0.1}`, types.CategoryUtility)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Confidence != 0.5 {
		t.Errorf("expected confidence clamped to 0.5, got %v", result.Confidence)
	}
}

func TestParseResult_GreetingForcesRespond(t *testing.T) {
	result, err := parseResult(`{"intent": "hello there", "action_type": "tap", "confidence": 0.9, "requires_screen_analysis": true}`, types.CategoryGreeting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionType != "respond" {
		t.Errorf("greeting must force respond, got %s", result.ActionType)
	}
	if result.RequiresScreenAnalysis {
		t.Error("greeting must not require screen analysis")
	}
}

func TestParseResult_CollectsParameters(t *testing.T) {
	result, err := parseResult(`{"intent": "message bob", "action_type": "send_message", "confidence": 0.85, "app_name": "whatsapp", "recipient": "bob", "message_text": null}`, types.CategoryCommunication)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Parameters["app_name"] != "whatsapp" {
		t.Errorf("expected app_name parameter, got %v", result.Parameters)
	}
	if result.Parameters["recipient"] != "bob" {
		t.Errorf("expected recipient parameter, got %v", result.Parameters)
	}
	if _, ok := result.Parameters["message_text"]; ok {
		t.Error("null fields must not land in parameters")
	}
}

func TestResultCache_EvictsOldest(t *testing.T) {
	cache := newResultCache(3)

	cache.Put("one", types.IntentData{Intent: "one"})
	cache.Put("two", types.IntentData{Intent: "two"})
	cache.Put("three", types.IntentData{Intent: "three"})
	cache.Put("four", types.IntentData{Intent: "four"})

	if cache.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", cache.Len())
	}
	if _, ok := cache.Get("one"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := cache.Get("four"); !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheKey_Bounded(t *testing.T) {
	key := cacheKey(strings.Repeat("a", 200))
	if len(key) != cacheKeyMaxLen {
		t.Errorf("expected key bounded to %d chars, got %d", cacheKeyMaxLen, len(key))
	}
}

func TestModelFor(t *testing.T) {
	if got := modelFor(types.CategoryGreeting, "llama-3.3-70b-versatile"); got != "compound-beta-mini" {
		t.Errorf("greeting should use the fast model, got %s", got)
	}
	if got := modelFor(types.CategoryCommunication, "llama-3.3-70b-versatile"); got != "llama-3.3-70b-versatile" {
		t.Errorf("communication should use the default model, got %s", got)
	}
}
