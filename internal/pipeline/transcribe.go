package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/types"
)

// TranscribeStage converts the audio payload to text. In text-only mode the
// transcript is already populated and the stage passes through untouched.
type TranscribeStage struct {
	transcriber providers.Transcriber
	timeout     time.Duration
	logger      *slog.Logger
}

func NewTranscribeStage(transcriber providers.Transcriber, timeout time.Duration) *TranscribeStage {
	return &TranscribeStage{
		transcriber: transcriber,
		timeout:     timeout,
		logger:      slog.Default().With("stage", StageTranscribe),
	}
}

func (s *TranscribeStage) Name() string { return StageTranscribe }

func (s *TranscribeStage) Run(ctx context.Context, record types.RequestRecord) types.RequestRecord {
	if record.Transcript != "" && len(record.Audio) == 0 {
		s.logger.Info("transcript already provided, skipping")
		return record
	}

	if len(record.Audio) == 0 {
		record.Error = "No audio data provided"
		return record
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	transcript, err := s.transcriber.Transcribe(ctx, record.Audio)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error("transcription timeout")
		record.Error = "STT request timeout"
	case err != nil:
		s.logger.Error("transcription failed", "error", err)
		record.Error = "STT failed to transcribe audio"
	case transcript == "":
		s.logger.Error("empty transcription result")
		record.Error = "STT failed to transcribe audio"
	default:
		s.logger.Info("transcription successful", "chars", len(transcript))
		record.Transcript = transcript
	}
	return record
}
