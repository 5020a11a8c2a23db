package pipeline

import (
	"context"
	"log/slog"

	"github.com/aura-assist/aura-backend/internal/intent"
	"github.com/aura-assist/aura-backend/internal/types"
)

// ClassifyStage resolves the transcript into structured intent data through
// the layered classifier. Classification itself never fails; only a missing
// transcript is an error here.
type ClassifyStage struct {
	classifier *intent.Classifier
	logger     *slog.Logger
}

func NewClassifyStage(classifier *intent.Classifier) *ClassifyStage {
	return &ClassifyStage{
		classifier: classifier,
		logger:     slog.Default().With("stage", StageClassify),
	}
}

func (s *ClassifyStage) Name() string { return StageClassify }

func (s *ClassifyStage) Run(ctx context.Context, record types.RequestRecord) types.RequestRecord {
	if record.Transcript == "" {
		// A transcription failure already explains why there is no
		// transcript; don't bury it under a less specific message.
		if record.Error == "" {
			record.Error = "No transcript available for intent analysis"
		}
		return record
	}

	data := s.classifier.Classify(ctx, record.Transcript, record.UITree)

	record.Intent = data.Intent
	record.IntentData = &data
	record.UseVLM = data.RequiresScreenAnalysis

	s.logger.Info("intent analyzed",
		"intent", data.Intent,
		"category", data.Category,
		"requires_screen", data.RequiresScreenAnalysis)
	return record
}
