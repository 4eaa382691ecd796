package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-commerce-copy/internal/auth"
	"github.com/fpang/ai-commerce-copy/internal/csvio"
	"github.com/fpang/ai-commerce-copy/internal/s3util"
)

// ValidateAndResolveInput checks that the input path exists, is a regular
// file with a supported extension, and returns the absolute path. S3 URIs
// pass through untouched. Exits fatally on failure.
func ValidateAndResolveInput(path string) string {
	if !csvio.AllowedExtension(path) {
		log.Fatal().Str("path", path).Msg("Unsupported file type, expected .csv or .tsv (optionally gzipped)")
	}
	if s3util.IsURI(path) {
		return path
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatal().Str("path", path).Msg("Input file not found")
		}
		log.Fatal().Err(err).Str("path", path).Msg("Failed to access input file")
	}
	if info.IsDir() {
		log.Fatal().Str("path", path).Msg("Input path is a directory, expected a file")
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		path = absPath
	}

	return path
}

// HandleValidationError processes auth.ValidationError and exits with appropriate messaging.
func HandleValidationError(err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Type {
		case auth.ErrTypeNoKey:
			log.Fatal().Msg("No API key configured. Set GEMINI_API_KEY or write the key to ~/.ai-commerce-copy/credentials")
		case auth.ErrTypeInvalidKey:
			log.Fatal().Err(err).Msg("Invalid API key. Please check your API key and try again")
		case auth.ErrTypeNetworkError:
			log.Fatal().Err(err).Msg("Network error. Please check your internet connection")
		case auth.ErrTypeQuotaExceeded:
			log.Fatal().Err(err).Msg("API quota exceeded. Please try again later or check your usage limits")
		default:
			log.Fatal().Err(err).Msg("API key validation failed")
		}
	} else {
		log.Fatal().Err(err).Msg("unexpected error during API key validation")
	}
	os.Exit(1)
}
