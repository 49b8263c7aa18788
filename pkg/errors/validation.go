package errors

import (
	"strings"
	"unicode"
)

// Limits applied to user-supplied generator and solver parameters.
const (
	MaxVertices     = 100_000
	MaxConnectivity = 100
	maxPathLength   = 500
)

// ValidateVertexCount validates the size of a generated instance.
func ValidateVertexCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "vertex count cannot be negative: %d", n)
	}
	if n > MaxVertices {
		return New(ErrCodeInvalidInput, "vertex count too large (max %d): %d", MaxVertices, n)
	}
	return nil
}

// ValidateConnectivity validates a connectivity percentage.
func ValidateConnectivity(c int) error {
	if c < 0 || c > MaxConnectivity {
		return New(ErrCodeInvalidInput, "connectivity must be between 0 and %d: %d", MaxConnectivity, c)
	}
	return nil
}

// ValidateStrategyName checks that a strategy name is a plain lowercase
// identifier. Whether the strategy exists is decided by the solver.
func ValidateStrategyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidStrategy, "strategy name cannot be empty")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && r != '-' && r != '_' {
			return New(ErrCodeInvalidStrategy, "strategy name contains invalid characters: %q", name)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRunID validates a run identifier received over the API.
// Run ids are UUID strings; anything with path or control characters is
// rejected before it reaches the store.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "run id too long")
	}
	if strings.ContainsAny(id, "/\\.") {
		return New(ErrCodeInvalidInput, "run id contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "run id contains invalid characters")
		}
	}
	return nil
}
