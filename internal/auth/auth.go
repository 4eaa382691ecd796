// Package auth resolves and validates the Gemini API key used for content
// generation.
package auth

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".ai-commerce-copy"
	credentialFile = "credentials"

	// placeholderKey is the value shipped in example env files; treating it
	// as configured produces confusing downstream auth failures.
	placeholderKey = "your_gemini_api_key_here"

	keyPrefix = "AIza"
	minKeyLen = 20
)

// GetAPIKey retrieves the Gemini API key from available sources.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. Plain file at ~/.ai-commerce-copy/credentials (first non-empty line)
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := getFromFile()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from credentials file")
		return key, nil
	}

	log.Error().Err(err).Msg("Failed to retrieve API key")
	return "", fmt.Errorf("API key not found. Set GEMINI_API_KEY or write the key to ~/%s/%s", credentialDir, credentialFile)
}

// ValidateKeyFormat performs a cheap shape check before any network call.
// Gemini API keys start with "AIza" and are well over 20 characters.
func ValidateKeyFormat(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("API key is empty")
	case key == placeholderKey:
		return fmt.Errorf("API key is the placeholder value; set a real key")
	case !strings.HasPrefix(key, keyPrefix):
		return fmt.Errorf("API key does not look like a Gemini key (expected %q prefix)", keyPrefix)
	case len(key) < minKeyLen:
		return fmt.Errorf("API key is too short to be valid")
	}
	return nil
}

// getFromFile reads the API key from the plain credentials file.
func getFromFile() (string, error) {
	credPath, err := getCredentialPath()
	if err != nil {
		return "", err
	}

	f, err := os.Open(credPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("credentials file not found at %s", credPath)
		}
		return "", fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read credentials file: %w", err)
	}
	return "", fmt.Errorf("credentials file at %s contains no key", credPath)
}

// getCredentialPath returns the full path to the credentials file.
func getCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, credentialDir, credentialFile), nil
}
