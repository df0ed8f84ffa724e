// Error types shared by all providers.

package llm

import "fmt"

// GenerationError wraps any provider-side failure (auth, network, quota,
// malformed response). Callers treat it as opaque beyond the provider name.
type GenerationError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
