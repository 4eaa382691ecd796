// Package cli holds the shared plumbing of the copygen command: client
// initialization, interactive prompts, and fatal error presentation.
package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-commerce-copy/internal/auth"
	"github.com/fpang/ai-commerce-copy/internal/llm"
)

// InitClient creates and validates a Gemini client for the given model.
// Returns the context and client ready for use, or exits fatally on failure.
func InitClient(model string) (context.Context, *llm.Client) {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to retrieve API key")
	}
	if err := auth.ValidateKeyFormat(apiKey); err != nil {
		log.Fatal().Err(err).Msg("API key failed format check")
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, apiKey, model)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}

	log.Info().Str("model", client.Model()).Msg("connection successful - Gemini client initialized")

	if err := auth.ValidateAPIKey(ctx, client.Raw(), client.Model()); err != nil {
		HandleValidationError(err)
	}

	log.Info().Msg("API key validation complete - ready for operations")

	return ctx, client
}
