package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aura-assist/aura-backend/internal/types"
)

// CheckUIStage decides between acting directly and escalating to the vision
// locator. Intents that need no screen get a trivial one-step plan here and
// skip the richer conversational planning entirely; that shortcut is kept
// deliberate, see DESIGN.md.
type CheckUIStage struct {
	logger *slog.Logger
}

func NewCheckUIStage() *CheckUIStage {
	return &CheckUIStage{logger: slog.Default().With("stage", StageCheckUI)}
}

func (s *CheckUIStage) Name() string { return StageCheckUI }

func (s *CheckUIStage) Run(_ context.Context, record types.RequestRecord) types.RequestRecord {
	requiresScreen := true
	if record.IntentData != nil {
		requiresScreen = record.IntentData.RequiresScreenAnalysis
	}

	if !requiresScreen {
		s.logger.Info("intent needs no screen, creating simple action plan")
		record.ActionPlan = simpleActionPlan(record.IntentData)
		record.UseVLM = false
		return record
	}

	if record.UITree == "" {
		s.logger.Info("no ui tree available, will use vision locator")
		record.UseVLM = true
		return record
	}

	var targets []string
	if record.IntentData != nil {
		targets = record.IntentData.TargetElements
	}
	if len(targets) > 0 && findElementsInTree(record.UITree, targets) {
		s.logger.Info("target elements found in ui tree")
		record.ActionPlan = treeActionPlan(record.IntentData)
		record.UseVLM = false
		return record
	}

	s.logger.Info("target elements not found in ui tree, will use vision locator")
	record.UseVLM = true
	return record
}

// findElementsInTree reports whether any target element appears literally in
// the tree text, with a looser heuristic matching generic UI vocabulary that
// occurs in both the target descriptions and the tree.
func findElementsInTree(uiTree string, targets []string) bool {
	treeLower := strings.ToLower(uiTree)

	for _, element := range targets {
		if element != "" && strings.Contains(treeLower, strings.ToLower(element)) {
			return true
		}
	}

	targetsLower := strings.ToLower(strings.Join(targets, " "))
	for _, pattern := range []string{"button", "click", "tap", "edit", "input", "text"} {
		if strings.Contains(targetsLower, pattern) && strings.Contains(treeLower, pattern) {
			return true
		}
	}
	return false
}

func simpleActionPlan(data *types.IntentData) []types.ActionStep {
	actionType := "system_command"
	intent := "Execute action"
	confidence := 0.9
	if data != nil {
		if data.ActionType != "" {
			actionType = data.ActionType
		}
		if data.Intent != "" {
			intent = data.Intent
		}
		confidence = data.Confidence
	}
	return []types.ActionStep{{
		Type:           actionType,
		Description:    "Execute: " + intent,
		Method:         "system_action",
		Confidence:     confidence,
		Source:         types.SourceIntent,
		RequiresScreen: types.BoolPtr(false),
	}}
}

func treeActionPlan(data *types.IntentData) []types.ActionStep {
	actionType := "tap"
	intent := "Execute action"
	if data != nil {
		if data.ActionType != "" {
			actionType = data.ActionType
		}
		if data.Intent != "" {
			intent = data.Intent
		}
	}
	return []types.ActionStep{{
		Type:        actionType,
		Description: fmt.Sprintf("Execute %s using UI tree information", intent),
		Method:      "ui_tree_based",
		Confidence:  0.8,
		Source:      types.SourceUITree,
	}}
}
