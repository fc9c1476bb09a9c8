// README: Provider contract for AI-backed parsing and extraction.
package ai

import (
	"context"

	"tripdesk/internal/types"
)

// Provider defines the contract for the AI model behind message parsing.
// This interface allows for swapping different providers (Gemini, OpenAI,
// etc.) without touching the chat pipeline.
type Provider interface {
	// ParseTravelRequest analyzes a free-text agency message and extracts a
	// structured search request. prior carries the conversation context so
	// the model can resolve references like "lo mismo pero en marzo".
	ParseTravelRequest(ctx context.Context, message string, prior *types.ContextState) (*types.TravelRequest, error)
}
