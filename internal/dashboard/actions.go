package dashboard

import (
	"time"

	"github.com/jonathan/postsphere/internal/platform"
)

// ActionType names a view-model transition.
type ActionType string

// Transitions that can be applied from serialized actions.
const (
	ActionSelectPlatform          ActionType = "select_platform"
	ActionSetBaseContent          ActionType = "set_base_content"
	ActionBeginGeneration         ActionType = "begin_generation"
	ActionReceiveGeneratedContent ActionType = "receive_generated_content"
	ActionReceiveBatch            ActionType = "receive_batch"
	ActionFinishGeneration        ActionType = "finish_generation"
	ActionSetScheduleDate         ActionType = "set_schedule_date"
	ActionAttachMedia             ActionType = "attach_media"
	ActionDetachMedia             ActionType = "detach_media"
)

// Action is a serialized transition request.
type Action struct {
	Type     ActionType  `json:"type" validate:"required"`
	Platform platform.ID `json:"platform,omitempty"`
	Text     string      `json:"text,omitempty"`
	// Contents carries a whole generation result for receive_batch.
	Contents map[platform.ID]string `json:"contents,omitempty"`
	Date     *time.Time             `json:"date,omitempty"`
	Media    *Media                 `json:"media,omitempty"`
}

// Apply runs the transition described by a. On error the view-model is left
// exactly as it was.
func (vm *ViewModel) Apply(a Action) error {
	if err := validate.Struct(a); err != nil {
		return &InvalidActionError{Type: a.Type, Message: err.Error()}
	}

	next := vm.Clone()
	if err := next.apply(a); err != nil {
		return err
	}
	*vm = *next
	return nil
}

func (vm *ViewModel) apply(a Action) error {
	switch a.Type {
	case ActionSelectPlatform:
		return vm.SelectPlatform(a.Platform)
	case ActionSetBaseContent:
		vm.SetBaseContent(a.Text)
		return nil
	case ActionBeginGeneration:
		return vm.BeginGeneration()
	case ActionReceiveGeneratedContent:
		return vm.ReceiveGeneratedContent(a.Platform, a.Text)
	case ActionReceiveBatch:
		return vm.ReceiveBatch(a.Contents)
	case ActionFinishGeneration:
		vm.FinishGeneration()
		return nil
	case ActionSetScheduleDate:
		if a.Date == nil {
			vm.SetScheduleDate(time.Time{})
			return nil
		}
		vm.SetScheduleDate(*a.Date)
		return nil
	case ActionAttachMedia:
		if a.Media == nil {
			return &InvalidActionError{Type: a.Type, Message: "media is required"}
		}
		return vm.AttachMedia(*a.Media)
	case ActionDetachMedia:
		vm.DetachMedia()
		return nil
	default:
		return &InvalidActionError{Type: a.Type, Message: "unknown action type"}
	}
}
