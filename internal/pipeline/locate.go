package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/types"
)

// LocateStage asks the vision locator for on-screen coordinates matching the
// intent. A structured miss or a provider failure both land in record.Error;
// the planner then falls back to an intent-only plan.
type LocateStage struct {
	locator providers.Locator
	timeout time.Duration
	logger  *slog.Logger
}

func NewLocateStage(locator providers.Locator, timeout time.Duration) *LocateStage {
	return &LocateStage{
		locator: locator,
		timeout: timeout,
		logger:  slog.Default().With("stage", StageLocate),
	}
}

func (s *LocateStage) Name() string { return StageLocate }

func (s *LocateStage) Run(ctx context.Context, record types.RequestRecord) types.RequestRecord {
	if len(record.Screenshot) == 0 {
		record.Error = "No screenshot data available for VLM analysis"
		return record
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.locator.Locate(ctx, record.Screenshot, record.Intent)
	record.VLMAttempted = true
	if err != nil {
		s.logger.Error("vision location failed", "error", err)
		record.Error = "VLM processing failed: " + err.Error()
		return record
	}

	if !result.Found {
		reason := result.Reason
		if reason == "" {
			reason = "UI element not found by VLM"
		}
		s.logger.Warn("element not located", "reason", reason)
		record.Error = reason
		return record
	}

	s.logger.Info("element located",
		"description", result.ElementDescription,
		"confidence", result.Confidence)
	record.UIElementCoords = result.Coordinates
	record.VLMConfidence = result.Confidence
	record.ElementDescription = result.ElementDescription
	record.VLMReasoning = result.Reasoning
	return record
}
