package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed persona.md
var embeddedPersona string

// DefaultPersona returns the built-in persona instruction for the
// assistant.
func DefaultPersona() string {
	return embeddedPersona
}

// LoadPersona returns the persona instruction to run with. An empty path
// selects the embedded default; otherwise the file at path is read and
// validated.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return embeddedPersona, nil
	}

	content, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}

	persona := string(content)
	if err := ValidatePersona(persona); err != nil {
		return "", err
	}
	return persona, nil
}

// ValidatePersona ensures a persona instruction is non-empty after trimming
// whitespace.
func ValidatePersona(persona string) error {
	if strings.TrimSpace(persona) == "" {
		return fmt.Errorf("persona instruction is empty")
	}
	return nil
}
