// Package providers contains the narrow clients for the four external model
// services: transcription (STT), chat classification, vision location and
// speech synthesis. All production providers speak the OpenAI-compatible API.
package providers

import (
	"context"

	"github.com/aura-assist/aura-backend/internal/types"
)

// Transcriber converts raw audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// CompletionRequest is a single JSON-mode chat completion.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// Completer runs a chat completion and returns the raw response content.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// LocateResult is the vision locator's tagged outcome. Found=false with a
// non-empty Reason is a structured miss, not a transport failure.
type LocateResult struct {
	Found              bool               `json:"found"`
	Coordinates        *types.Coordinates `json:"coordinates,omitempty"`
	Confidence         float64            `json:"confidence"`
	ElementDescription string             `json:"element_description,omitempty"`
	Reasoning          string             `json:"reasoning,omitempty"`
	Reason             string             `json:"error,omitempty"`
}

// Locator finds the on-screen element matching an intent.
type Locator interface {
	Locate(ctx context.Context, image []byte, intent string) (LocateResult, error)
}

// Synthesizer renders response text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
