package pipeline

import (
	"context"
	"log/slog"

	"github.com/aura-assist/aura-backend/internal/planner"
	"github.com/aura-assist/aura-backend/internal/types"
)

// PlanStage builds the device action plan from whatever the earlier stages
// produced: located coordinates when the vision path succeeded, intent data
// alone otherwise.
type PlanStage struct {
	planner *planner.Planner
	logger  *slog.Logger
}

func NewPlanStage(p *planner.Planner) *PlanStage {
	return &PlanStage{
		planner: p,
		logger:  slog.Default().With("stage", StagePlan),
	}
}

func (s *PlanStage) Name() string { return StagePlan }

func (s *PlanStage) Run(_ context.Context, record types.RequestRecord) types.RequestRecord {
	intent := record.Intent
	if intent == "" {
		intent = "Unknown action"
	}

	record.ActionPlan = s.planner.Build(record.IntentData, record.UIElementCoords, intent)
	s.logger.Info("action plan created",
		"steps", len(record.ActionPlan),
		"coordinate_based", record.UIElementCoords != nil)
	return record
}
