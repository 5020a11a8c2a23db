package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/aura-assist/aura-backend/internal/types"
)

func TestBuild_CoordinateTypePlan(t *testing.T) {
	p := New()
	data := &types.IntentData{
		ActionType: "type",
		Confidence: 0.85,
		Parameters: map[string]string{"text": "hi"},
	}
	coords := &types.Coordinates{X: 300, Y: 700}

	plan := p.Build(data, coords, "type a message")
	if len(plan) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(plan))
	}

	first := plan[0]
	if first.X == nil || *first.X != 300 || first.Y == nil || *first.Y != 700 {
		t.Errorf("unexpected coordinates on step 1: %+v", first)
	}
	if first.Source != types.SourceVLM {
		t.Errorf("expected vlm source, got %s", first.Source)
	}
	if !strings.Contains(first.Description, "(300, 700)") {
		t.Errorf("unexpected description %q", first.Description)
	}

	second := plan[1]
	if second.Type != "type" {
		t.Errorf("expected type step, got %s", second.Type)
	}
	if second.Text != "hi" {
		t.Errorf("expected text %q, got %q", "hi", second.Text)
	}
	if second.Source != types.SourceIntent {
		t.Errorf("expected intent source, got %s", second.Source)
	}
}

func TestBuild_CoordinateTapPlan_NoTypeStep(t *testing.T) {
	p := New()
	data := &types.IntentData{ActionType: "tap", Confidence: 0.9}
	plan := p.Build(data, &types.Coordinates{X: 100, Y: 200}, "tap send")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
}

func TestBuild_TypeStepFromTextInputParameter(t *testing.T) {
	p := New()
	data := &types.IntentData{
		ActionType: "type",
		Confidence: 0.85,
		Parameters: map[string]string{"text_input": "hello world"},
	}
	plan := p.Build(data, &types.Coordinates{X: 10, Y: 20}, "type hello")
	if len(plan) != 2 || plan[1].Text != "hello world" {
		t.Fatalf("expected type step from text_input, got %+v", plan)
	}
}

func TestBuild_ConversationalGreeting(t *testing.T) {
	p := New()
	data := &types.IntentData{
		ActionType:      "respond",
		Confidence:      0.95,
		Category:        types.CategoryGreeting,
		ResponseVariant: types.VariantSimpleGreeting,
	}

	plan := p.Build(data, nil, "greeting")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
	step := plan[0]
	if step.Type != types.ActionSpeak {
		t.Errorf("expected speak step, got %s", step.Type)
	}
	if step.Confidence != 0.98 {
		t.Errorf("expected confidence 0.98, got %v", step.Confidence)
	}
	if step.Source != types.SourceConversational {
		t.Errorf("expected conversational source, got %s", step.Source)
	}
	if !step.IsSimple() {
		t.Error("conversational step must not require the screen")
	}
	if step.Text == "" {
		t.Error("expected non-empty reply text")
	}
}

func TestBuild_GreetingVariantDeterministic(t *testing.T) {
	data := &types.IntentData{
		ActionType:      "respond",
		Category:        types.CategoryGreeting,
		ResponseVariant: types.VariantSimpleGreeting,
	}

	first := New().Build(data, nil, "greeting")[0].Text
	for i := 0; i < 20; i++ {
		// Fresh planner each run simulates a process restart.
		if got := New().Build(data, nil, "greeting")[0].Text; got != first {
			t.Fatalf("variant changed between runs: %q vs %q", first, got)
		}
	}
}

func TestBuild_TimeBasedGreeting(t *testing.T) {
	morning := func() time.Time { return time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC) }
	evening := func() time.Time { return time.Date(2026, 8, 29, 21, 0, 0, 0, time.UTC) }
	data := &types.IntentData{
		ActionType:      "respond",
		Category:        types.CategoryGreeting,
		ResponseVariant: types.VariantTimeBasedGreeting,
	}

	if text := NewWithClock(morning).Build(data, nil, "greeting")[0].Text; !strings.Contains(text, "Good morning") {
		t.Errorf("expected morning greeting, got %q", text)
	}
	if text := NewWithClock(evening).Build(data, nil, "greeting")[0].Text; !strings.Contains(text, "Good evening") {
		t.Errorf("expected evening greeting, got %q", text)
	}
}

func TestBuild_CapabilitiesVariants(t *testing.T) {
	p := New()
	explain := p.Build(&types.IntentData{
		ActionType:      "respond",
		Category:        types.CategoryHelp,
		ResponseVariant: types.VariantCapabilitiesExplanation,
	}, nil, "explain capabilities and features")[0].Text
	if !strings.Contains(explain, "opening apps") {
		t.Errorf("unexpected capabilities text %q", explain)
	}

	combo := p.Build(&types.IntentData{
		ActionType:      "respond",
		Category:        types.CategoryHelp,
		ResponseVariant: types.VariantGreetingWithCapabilities,
	}, nil, "greeting with capability inquiry")[0].Text
	if !strings.Contains(combo, "Hello") {
		t.Errorf("expected greeting prefix, got %q", combo)
	}
}

func TestBuild_SpeakFallbackWithoutData(t *testing.T) {
	plan := New().Build(nil, nil, "do the thing")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
	step := plan[0]
	if step.Type != types.ActionSpeak || step.Source != types.SourceFallback {
		t.Errorf("expected speak fallback, got %+v", step)
	}
	if step.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", step.Confidence)
	}
	if !strings.Contains(step.Text, "clearer view") {
		t.Errorf("unexpected text %q", step.Text)
	}
}

func TestBuild_OpenAppPlan(t *testing.T) {
	data := &types.IntentData{
		ActionType: "open_app",
		Confidence: 0.9,
		Category:   types.CategoryNavigation,
		Parameters: map[string]string{"app_name": "whatsapp"},
	}
	plan := New().Build(data, nil, "open whatsapp")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
	if plan[0].Type != types.ActionOpenApp || plan[0].AppName != "whatsapp" {
		t.Errorf("unexpected step %+v", plan[0])
	}
}

func TestBuild_SystemCommandPlan(t *testing.T) {
	data := &types.IntentData{
		ActionType: "system_command",
		Confidence: 0.9,
		Category:   types.CategorySystemControl,
		Parameters: map[string]string{"system_action": "volume_up"},
	}
	plan := New().Build(data, nil, "turn up the volume")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
	if plan[0].Type != types.ActionSystemCommand || plan[0].Command != "volume_up" {
		t.Errorf("unexpected step %+v", plan[0])
	}
}

func TestBuild_GuidedRetryFallback(t *testing.T) {
	data := &types.IntentData{
		ActionType: "tap",
		Confidence: 0.5,
		Category:   types.CategoryUtility,
	}
	plan := New().Build(data, nil, "tap the thing")
	if len(plan) != 1 {
		t.Fatalf("expected single step, got %d", len(plan))
	}
	if !plan[0].Fallback {
		t.Error("expected fallback flag on guided-retry step")
	}
	if plan[0].Method != "guided_retry" {
		t.Errorf("expected guided_retry method, got %s", plan[0].Method)
	}
}

func TestStableHash_Stable(t *testing.T) {
	if stableHash("greeting") != stableHash("greeting") {
		t.Error("hash not stable")
	}
	if stableHash("greeting") == stableHash("other") {
		t.Error("distinct inputs unexpectedly collide")
	}
}
