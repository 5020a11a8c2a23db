package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aura-assist/aura-backend/internal/config"
)

// ErrCircuitOpen is returned when a provider's circuit breaker is rejecting
// calls after repeated failures.
var ErrCircuitOpen = errors.New("provider circuit open")

// NewClient builds the shared OpenAI-compatible API client from config.
func NewClient(cfg config.ProvidersConfig) *openai.Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(apiCfg)
}

// GroqTranscriber implements Transcriber over the Whisper transcription API.
type GroqTranscriber struct {
	client  *openai.Client
	model   string
	breaker *CircuitBreaker
}

func NewGroqTranscriber(client *openai.Client, cfg config.ProvidersConfig) *GroqTranscriber {
	return &GroqTranscriber{
		client:  client,
		model:   cfg.STT.Model,
		breaker: NewCircuitBreaker(cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.RecoveryProbeInterval),
	}
}

func (t *GroqTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !t.breaker.Allow() {
		return "", fmt.Errorf("stt: %w", ErrCircuitOpen)
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatText,
		Language: "en",
	})
	if err != nil {
		t.breaker.RecordFailure()
		return "", fmt.Errorf("stt transcription: %w", err)
	}
	t.breaker.RecordSuccess()

	return strings.TrimSpace(resp.Text), nil
}

// GroqCompleter implements Completer over the chat completions API.
type GroqCompleter struct {
	client  *openai.Client
	breaker *CircuitBreaker
}

func NewGroqCompleter(client *openai.Client, cfg config.ProvidersConfig) *GroqCompleter {
	return &GroqCompleter{
		client:  client,
		breaker: NewCircuitBreaker(cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.RecoveryProbeInterval),
	}
}

func (c *GroqCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.breaker.Allow() {
		return "", fmt.Errorf("chat: %w", ErrCircuitOpen)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		c.breaker.RecordFailure()
		return "", fmt.Errorf("chat completion: %w", err)
	}
	c.breaker.RecordSuccess()

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const locatorSystemPrompt = `You are a UI element locator. Analyze the screenshot and find the UI element
that matches the user's intent. Look for buttons, text fields, icons, or other interactive elements.

Return coordinates in JSON format:
{
    "found": true/false,
    "coordinates": {"x": int, "y": int, "width": int, "height": int},
    "confidence": 0.0-1.0,
    "element_description": "what you found",
    "reasoning": "why you chose this element"
}

If multiple elements match, choose the most likely one based on context.`

// GroqLocator implements Locator over the multimodal chat API.
type GroqLocator struct {
	client  *openai.Client
	model   string
	breaker *CircuitBreaker
}

func NewGroqLocator(client *openai.Client, cfg config.ProvidersConfig) *GroqLocator {
	return &GroqLocator{
		client:  client,
		model:   cfg.Vision.Model,
		breaker: NewCircuitBreaker(cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.RecoveryProbeInterval),
	}
}

func (l *GroqLocator) Locate(ctx context.Context, image []byte, intent string) (LocateResult, error) {
	if !l.breaker.Allow() {
		return LocateResult{}, fmt.Errorf("vlm: %w", ErrCircuitOpen)
	}

	userPrompt := fmt.Sprintf(`Find the UI element for this action: %q

Look for:
- Buttons with relevant text
- Input fields if typing is needed
- Icons or images that match the intent
- Navigation elements
- Any clickable areas

Provide exact pixel coordinates for the center of the element.`, intent)

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: locatorSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		MaxTokens:   500,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		l.breaker.RecordFailure()
		return LocateResult{}, fmt.Errorf("vlm completion: %w", err)
	}
	l.breaker.RecordSuccess()

	if len(resp.Choices) == 0 {
		return LocateResult{}, errors.New("vlm completion: empty choices")
	}
	return ParseLocateResult(resp.Choices[0].Message.Content)
}

// ParseLocateResult decodes the locator's JSON payload into a tagged result.
// A payload that parses but reports found=false is a valid structured miss.
func ParseLocateResult(content string) (LocateResult, error) {
	var result LocateResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return LocateResult{}, fmt.Errorf("parse vlm response: %w", err)
	}
	if result.Found && result.Coordinates == nil {
		result.Found = false
		result.Reason = "locator reported a match without coordinates"
	}
	return result, nil
}

// GroqSynthesizer implements Synthesizer over the speech API.
type GroqSynthesizer struct {
	client  *openai.Client
	model   string
	voice   string
	breaker *CircuitBreaker
	logger  *slog.Logger
}

func NewGroqSynthesizer(client *openai.Client, model, voice string, cb config.CircuitBreakerConfig) *GroqSynthesizer {
	return &GroqSynthesizer{
		client:  client,
		model:   model,
		voice:   voice,
		breaker: NewCircuitBreaker(cb.FailureThreshold, cb.RecoveryProbeInterval),
		logger:  slog.Default(),
	}
}

func (s *GroqSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("tts: empty text")
	}
	if !s.breaker.Allow() {
		return nil, fmt.Errorf("tts: %w", ErrCircuitOpen)
	}
	if voice == "" {
		voice = s.voice
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		s.breaker.RecordFailure()
		return nil, fmt.Errorf("tts speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		s.breaker.RecordFailure()
		return nil, fmt.Errorf("tts read audio: %w", err)
	}
	s.breaker.RecordSuccess()

	s.logger.Debug("tts generated", "bytes", len(audio), "voice", voice)
	return audio, nil
}
