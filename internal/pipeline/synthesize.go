package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/types"
)

// SynthesizeStage is the terminal stage. It always runs, always sets
// Complete, renders the response text and attempts speech synthesis with a
// fallback voice when the primary fails. Only audio metadata lands in the
// record.
type SynthesizeStage struct {
	primary  providers.Synthesizer
	fallback providers.Synthesizer
	voice    string
	fbVoice  string
	timeout  time.Duration
	clock    func() time.Time
	logger   *slog.Logger
}

func NewSynthesizeStage(primary, fallback providers.Synthesizer, voice, fallbackVoice string, timeout time.Duration) *SynthesizeStage {
	return &SynthesizeStage{
		primary:  primary,
		fallback: fallback,
		voice:    voice,
		fbVoice:  fallbackVoice,
		timeout:  timeout,
		clock:    time.Now,
		logger:   slog.Default().With("stage", StageSynthesize),
	}
}

func (s *SynthesizeStage) Name() string { return StageSynthesize }

func (s *SynthesizeStage) Run(ctx context.Context, record types.RequestRecord) types.RequestRecord {
	isSimple := false
	for _, step := range record.ActionPlan {
		if step.IsSimple() {
			isSimple = true
			break
		}
	}

	if record.Error != "" && !isSimple {
		record.ResponseText = errorResponse(record.Error, record.Intent)
	} else {
		record.ResponseText = s.successResponse(record.ActionPlan, record.Intent)
		// A simple screen-independent action succeeded regardless of what an
		// earlier stage complained about.
		if isSimple {
			record.Error = ""
		}
	}

	audio := s.synthesize(ctx, record.ResponseText)
	if len(audio) > 0 {
		record.TTSAudioAvailable = true
		record.TTSAudioSize = len(audio)
		s.logger.Info("tts generation successful", "bytes", len(audio))
	} else {
		record.TTSAudioAvailable = false
		s.logger.Warn("tts generation failed, text-only response")
	}

	record.Complete = true
	return record
}

func (s *SynthesizeStage) synthesize(ctx context.Context, text string) []byte {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	audio, err := s.primary.Synthesize(ctx, text, s.voice)
	if err == nil && len(audio) > 0 {
		return audio
	}
	if err != nil {
		s.logger.Warn("primary tts failed, trying fallback", "error", err)
	}
	if s.fallback == nil {
		return nil
	}
	audio, err = s.fallback.Synthesize(ctx, text, s.fbVoice)
	if err != nil {
		s.logger.Error("fallback tts failed", "error", err)
		return nil
	}
	return audio
}

// errorResponse maps the internal error string to a user-facing apology by
// keyword. Raw provider errors never reach the caller.
func errorResponse(errText, intent string) string {
	lower := strings.ToLower(errText)
	switch {
	case strings.Contains(lower, "timeout"):
		return "I'm sorry, the request is taking longer than expected. Please try again."
	case strings.Contains(lower, "api"), strings.Contains(lower, "key"):
		return "I'm having trouble connecting to my services. Please check your connection and try again."
	case strings.Contains(lower, "audio"):
		return "I couldn't hear you clearly. Please try speaking again."
	case strings.Contains(lower, "screenshot"), strings.Contains(lower, "image"):
		return "I need to see the screen to help you with that. Please make sure screen sharing is enabled."
	default:
		return fmt.Sprintf("I'm sorry, I couldn't complete that action. %s", intent)
	}
}

// successResponse chooses the spoken text by plan content, in priority order:
// fallback step text, speak step text, coordinate hit, app launch, system
// command, then a generic acknowledgment.
func (s *SynthesizeStage) successResponse(plan []types.ActionStep, intent string) string {
	if len(plan) == 0 {
		return "I'm ready to help, but I need more information about what you'd like me to do."
	}

	for _, step := range plan {
		if step.Fallback {
			if step.Text != "" {
				return step.Text
			}
			return fmt.Sprintf("I'll help you with %s.", intent)
		}
	}

	for _, step := range plan {
		if step.Type == types.ActionSpeak {
			if step.Text != "" {
				return step.Text
			}
			return "Executing " + intent
		}
	}

	for _, step := range plan {
		if step.HasCoordinates() {
			return fmt.Sprintf("I found the element on screen. Executing your request: %s", intent)
		}
	}

	for _, step := range plan {
		if step.Type == types.ActionOpenApp {
			app := step.AppName
			if app == "" {
				app = "the app"
			}
			return fmt.Sprintf("Opening %s for you.", app)
		}
	}

	for _, step := range plan {
		if step.Type == types.ActionSystemCommand {
			return s.systemCommandResponse(intent)
		}
	}

	return fmt.Sprintf("Executing your request: %s", intent)
}

func (s *SynthesizeStage) systemCommandResponse(intent string) string {
	lower := strings.ToLower(intent)
	switch {
	case strings.Contains(lower, "time"):
		return fmt.Sprintf("The current time is %s.", s.clock().Format("3:04 PM"))
	case strings.Contains(lower, "date"):
		return fmt.Sprintf("Today is %s.", s.clock().Format("Monday, January 2, 2006"))
	case strings.Contains(lower, "weather"):
		return "I would need to check the weather app for current weather information."
	default:
		return fmt.Sprintf("I can help you with %s. Let me process that for you.", intent)
	}
}
