package dashboard

import (
	"errors"
	"fmt"

	"github.com/jonathan/postsphere/internal/platform"
)

// Sentinel errors for rejected transitions.
var (
	ErrNoPlatforms     = errors.New("no platforms selected")
	ErrNoScheduleDate  = errors.New("no schedule date set")
	ErrBusy            = errors.New("an operation is already in progress")
	ErrUnsupportedType = errors.New("media must be an image or video")
)

// UnknownPlatformError is returned when a transition names a platform without rules.
type UnknownPlatformError struct {
	Platform platform.ID
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform: %q", e.Platform)
}

// InvalidActionError reports an action that cannot be applied.
type InvalidActionError struct {
	Type    ActionType
	Message string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %q: %s", e.Type, e.Message)
}

// RestoreError wraps a failure to decode or validate a serialized view-model.
type RestoreError struct {
	Cause error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("invalid dashboard state: %v", e.Cause)
}

func (e *RestoreError) Unwrap() error {
	return e.Cause
}
