package generation

import (
	"fmt"

	"github.com/jonathan/postsphere/internal/platform"
)

// UnknownPlatformError is returned when a platform has no rules.
type UnknownPlatformError struct {
	Platform platform.ID
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform: %q", e.Platform)
}

// GenerationError wraps a failed model call for one platform.
type GenerationError struct {
	Platform platform.ID
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("content generation failed for %s: %v", e.Platform, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
