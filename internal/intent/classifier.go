// Package intent classifies a transcript into structured intent data through
// four layers of increasing cost: an instant-response table, a bounded result
// cache, a keyword scorer, and finally a JSON-mode chat completion with a
// category-specific prompt.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/telemetry"
	"github.com/aura-assist/aura-backend/internal/types"
)

// Classifier turns transcripts into IntentData. Classification never returns
// an error: when the provider or its JSON output fails, the caller gets a
// low-confidence fallback result and the pipeline keeps moving.
type Classifier struct {
	completer    providers.Completer
	cache        *resultCache
	monitor      *telemetry.Monitor
	metrics      *telemetry.Metrics
	logger       *slog.Logger
	defaultModel string
	uiExcerpt    int
}

type Options struct {
	CacheSize     int
	UITreeExcerpt int
	DefaultModel  string
}

func NewClassifier(completer providers.Completer, monitor *telemetry.Monitor, metrics *telemetry.Metrics, opts Options) *Classifier {
	if opts.UITreeExcerpt <= 0 {
		opts.UITreeExcerpt = 800
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = "llama-3.3-70b-versatile"
	}
	return &Classifier{
		completer:    completer,
		cache:        newResultCache(opts.CacheSize),
		monitor:      monitor,
		metrics:      metrics,
		logger:       slog.Default().With("component", "classifier"),
		defaultModel: opts.DefaultModel,
		uiExcerpt:    opts.UITreeExcerpt,
	}
}

// Classify resolves the transcript through the layered classifiers.
func (c *Classifier) Classify(ctx context.Context, transcript, uiTree string) types.IntentData {
	start := time.Now()
	clean := strings.ToLower(strings.TrimSpace(transcript))

	if instant := matchInstant(clean); instant != nil {
		result := *instant
		result.Provider = "instant"
		result.Model = "pre_computed"
		result.InstantResponse = true
		c.record(result, start, true)
		c.hit("instant")
		c.logger.Info("instant response", "transcript", clean, "intent", result.Intent)
		return result
	}

	key := cacheKey(clean)
	if cached, ok := c.cache.Get(key); ok {
		cached.Provider = "cache"
		cached.Model = "cached"
		cached.FromCache = true
		cached.InstantResponse = false
		c.record(cached, start, true)
		c.hit("cache")
		c.logger.Info("cache hit", "transcript", clean, "intent", cached.Intent)
		return cached
	}

	category := classifyFast(transcript)
	if category == "" {
		category = types.CategoryUtility
	}

	model := modelFor(category, c.defaultModel)
	req := buildRequest(transcript, category, uiTree, c.uiExcerpt, model)

	content, err := c.completer.Complete(ctx, req)
	if err != nil {
		c.logger.Error("classification completion failed", "error", err, "category", category)
		return c.fallback(transcript, category, start)
	}

	result, err := parseResult(content, category)
	if err != nil {
		c.logger.Error("classification parse failed", "error", err, "category", category)
		return c.fallback(transcript, category, start)
	}
	result.Provider = "groq"
	result.Model = model

	c.cache.Put(key, result)
	c.record(result, start, true)
	c.hit("llm")
	c.logger.Info("intent classified",
		"category", category,
		"confidence", result.Confidence,
		"model", model,
		"duration", time.Since(start))
	return result
}

// fallback builds the degraded result used when the provider or its JSON
// output fails. It always demands screen analysis so the vision path gets a
// chance to recover the intent.
func (c *Classifier) fallback(transcript string, category types.Category, start time.Time) types.IntentData {
	excerpt := transcript
	if len(excerpt) > 100 {
		excerpt = excerpt[:100]
	}
	result := types.IntentData{
		Intent:                 "Process user request: " + excerpt,
		ActionType:             "tap",
		Confidence:             0.3,
		RequiresScreenAnalysis: true,
		TargetElements:         []string{},
		Parameters:             map[string]string{},
		Category:               category,
		FallbackResult:         true,
	}
	c.record(result, start, false)
	return result
}

func (c *Classifier) record(result types.IntentData, start time.Time, success bool) {
	if c.monitor == nil {
		return
	}
	c.monitor.Record(telemetry.Operation{
		Name:            "intent_analysis",
		Duration:        time.Since(start),
		Provider:        result.Provider,
		Model:           result.Model,
		Category:        string(result.Category),
		Success:         success,
		Confidence:      result.Confidence,
		CacheHit:        result.FromCache,
		InstantResponse: result.InstantResponse,
	})
}

func (c *Classifier) hit(layer string) {
	if c.metrics != nil {
		c.metrics.RecordClassifierHit(layer)
	}
}

// parameterFields are the category-specific string fields the prompts may
// return. They land in IntentData.Parameters keyed by their JSON name.
var parameterFields = []string{
	"app_name", "system_action", "text_input", "direction",
	"recipient", "message_text", "greeting_type", "info_type",
}

// parseResult decodes the model's JSON and repairs it into a usable result:
// missing fields get safe defaults and implausible confidence is clamped up
// to a workable floor.
func parseResult(content string, category types.Category) (types.IntentData, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return types.IntentData{}, fmt.Errorf("decode intent response: %w", err)
	}

	result := types.IntentData{
		Category:   category,
		Parameters: map[string]string{},
	}
	if v, ok := raw["intent"].(string); ok {
		result.Intent = v
	}
	if v, ok := raw["action_type"].(string); ok {
		result.ActionType = v
	}
	if v, ok := raw["confidence"].(float64); ok {
		result.Confidence = v
	}
	if v, ok := raw["target_element"].(string); ok && v != "" && v != "null" {
		result.TargetElements = append(result.TargetElements, v)
	}
	if vs, ok := raw["target_elements"].([]any); ok {
		for _, v := range vs {
			if s, ok := v.(string); ok {
				result.TargetElements = append(result.TargetElements, s)
			}
		}
	}
	for _, field := range parameterFields {
		if v, ok := raw[field].(string); ok && v != "" && v != "null" {
			result.Parameters[field] = v
		}
	}

	if result.ActionType == "" {
		result.ActionType = "tap"
	}
	if v, ok := raw["requires_screen_analysis"].(bool); ok {
		result.RequiresScreenAnalysis = v
	} else {
		result.RequiresScreenAnalysis = category.RequiresScreenByDefault()
	}
	if result.Confidence < 0.3 {
		result.Confidence = 0.5
	}

	// Category invariants override whatever the model claimed.
	switch category {
	case types.CategoryGreeting:
		result.RequiresScreenAnalysis = false
		result.ActionType = "respond"
	case types.CategorySystemControl:
		result.RequiresScreenAnalysis = false
	case types.CategoryUIInteraction:
		result.RequiresScreenAnalysis = true
	}

	return result, nil
}
