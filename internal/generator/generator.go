// Package generator turns one raw product record into validated marketing
// copy. It orchestrates the single-product pipeline: input validation,
// prompt construction, model invocation through the retry policy, response
// parsing, and validate-or-repair on the output. A successful return always
// carries content that passes content.Validate.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-commerce-copy/internal/content"
	"github.com/fpang/ai-commerce-copy/internal/parse"
	"github.com/fpang/ai-commerce-copy/internal/retry"
)

// ModelInvoker performs one model call. Implemented by llm.Client; tests
// substitute fakes.
type ModelInvoker interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator is the single-product pipeline. Construct with New.
type Generator struct {
	model  ModelInvoker
	tones  Catalogue
	policy *retry.Policy
}

// New builds a Generator. The tone catalogue and retry policy are injected
// so tests can run with alternate catalogues and a no-sleep policy. A nil
// policy gets the default budget (3 retries, 1s/60s bases). When the policy
// has no OnRetry hook, one is installed that logs each backoff.
func New(model ModelInvoker, tones Catalogue, policy *retry.Policy) *Generator {
	if policy == nil {
		policy = retry.New(3, 0, 0)
	}
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, class retry.Class, wait time.Duration, err error) {
			log.Warn().
				Int("attempt", attempt).
				Stringer("class", class).
				Dur("wait", wait).
				Err(err).
				Msg("Model call failed, retrying after backoff")
		}
	}
	return &Generator{model: model, tones: tones, policy: policy}
}

// Process generates content for one product record. Failures identify the
// stage that failed: input validation (content.InputError, never retried),
// model invocation (fatal or retry-exhausted API failure), or response
// parsing (parse.ParseError).
func (g *Generator) Process(ctx context.Context, rec content.ProductRecord, tone string) (content.GeneratedContent, error) {
	if outcome := rec.Validate(); !outcome.Valid {
		return content.GeneratedContent{}, &content.InputError{Errors: outcome.Errors}
	} else if len(outcome.Warnings) > 0 {
		log.Warn().Strs("warnings", outcome.Warnings).Msg("Product record has validation warnings")
	}

	info := ProductInfo(rec)
	prompt := BuildPrompt(info, tone, g.tones.Get(tone))

	var raw string
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		reply, err := g.model.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		raw = reply
		return nil
	})
	if err != nil {
		return content.GeneratedContent{}, fmt.Errorf("content generation failed: %w", err)
	}

	fields, err := parse.Response(raw)
	if err != nil {
		return content.GeneratedContent{}, err
	}

	generated := content.GeneratedContent{
		Title:       fields.Title,
		Description: fields.Description,
		Hashtags:    fields.Hashtags,
	}

	if outcome := content.Validate(generated); !outcome.Valid {
		log.Warn().
			Strs("errors", outcome.Errors).
			Msg("Generated content failed validation, repairing")
		generated = content.Repair(generated)
	}

	log.Debug().
		Int("title_length", len(generated.Title)).
		Int("description_words", generated.WordCount()).
		Int("hashtag_count", len(generated.Hashtags)).
		Msg("Content generated")
	return generated, nil
}

// Tones returns the generator's tone catalogue.
func (g *Generator) Tones() Catalogue {
	return g.tones
}
