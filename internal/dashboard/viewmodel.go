// Package dashboard holds the composer's view-model: a serializable record of
// what the user has typed, selected and received, changed only through named
// transitions.
package dashboard

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/postsphere/internal/platform"
	"github.com/jonathan/postsphere/internal/schemas"
	embedded "github.com/jonathan/postsphere/schemas"
)

// MaxBaseContent is the limit applied to user-typed base content, in characters.
const MaxBaseContent = 280

// Status is the coarse activity state of the dashboard.
type Status string

// Dashboard statuses.
const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusScheduling Status = "scheduling"
	StatusScheduled  Status = "scheduled"
	StatusPublished  Status = "published"
)

// Media describes an attached image or video. Only metadata is kept.
type Media struct {
	Name        string `json:"name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size,omitempty" validate:"gte=0"`
}

// ViewModel is the complete dashboard state.
type ViewModel struct {
	BaseContent       string                 `json:"base_content"`
	SelectedPlatforms []platform.ID          `json:"selected_platforms"`
	Generated         map[platform.ID]string `json:"generated"`
	ScheduleDate      *time.Time             `json:"schedule_date,omitempty"`
	Media             *Media                 `json:"media,omitempty"`
	Status            Status                 `json:"status"`
	Version           int                    `json:"version"`
}

var validate = validator.New()

// New returns an empty, idle view-model.
func New() *ViewModel {
	return &ViewModel{
		SelectedPlatforms: []platform.ID{},
		Generated:         map[platform.ID]string{},
		Status:            StatusIdle,
	}
}

// Clone returns a deep copy.
func (vm *ViewModel) Clone() *ViewModel {
	out := *vm
	out.SelectedPlatforms = append([]platform.ID{}, vm.SelectedPlatforms...)
	out.Generated = make(map[platform.ID]string, len(vm.Generated))
	for k, v := range vm.Generated {
		out.Generated[k] = v
	}
	if vm.ScheduleDate != nil {
		d := *vm.ScheduleDate
		out.ScheduleDate = &d
	}
	if vm.Media != nil {
		m := *vm.Media
		out.Media = &m
	}
	return &out
}

// IsSelected reports whether id is among the selected platforms.
func (vm *ViewModel) IsSelected(id platform.ID) bool {
	return slices.Contains(vm.SelectedPlatforms, id)
}

// SelectPlatform toggles id in the selection, keeping selection order.
func (vm *ViewModel) SelectPlatform(id platform.ID) error {
	if !platform.Known(id) {
		return &UnknownPlatformError{Platform: id}
	}
	if i := slices.Index(vm.SelectedPlatforms, id); i >= 0 {
		vm.SelectedPlatforms = slices.Delete(vm.SelectedPlatforms, i, i+1)
	} else {
		vm.SelectedPlatforms = append(vm.SelectedPlatforms, id)
	}
	vm.bump()
	return nil
}

// SetBaseContent replaces the base post, truncated to MaxBaseContent characters.
func (vm *ViewModel) SetBaseContent(text string) {
	vm.BaseContent = truncateRunes(text, MaxBaseContent)
	vm.bump()
}

// BeginGeneration marks a generation request as in flight.
func (vm *ViewModel) BeginGeneration() error {
	if len(vm.SelectedPlatforms) == 0 {
		return ErrNoPlatforms
	}
	if vm.busy() {
		return ErrBusy
	}
	vm.Status = StatusGenerating
	vm.bump()
	return nil
}

// ReceiveGeneratedContent stores the normalized post for one platform.
// Results for platforms that were deselected meanwhile are stored anyway and
// stay visible until overwritten.
func (vm *ViewModel) ReceiveGeneratedContent(id platform.ID, text string) error {
	if !platform.Known(id) {
		return &UnknownPlatformError{Platform: id}
	}
	vm.Generated[id] = text
	vm.bump()
	return nil
}

// ReceiveBatch stores every delivered post and ends the generation.
// Platforms missing from contents keep their previous result.
func (vm *ViewModel) ReceiveBatch(contents map[platform.ID]string) error {
	for id := range contents {
		if !platform.Known(id) {
			return &UnknownPlatformError{Platform: id}
		}
	}
	for id, text := range contents {
		vm.Generated[id] = text
	}
	if vm.Status == StatusGenerating {
		vm.Status = StatusIdle
	}
	vm.bump()
	return nil
}

// FinishGeneration returns a generating dashboard to idle without new content.
func (vm *ViewModel) FinishGeneration() {
	if vm.Status == StatusGenerating {
		vm.Status = StatusIdle
		vm.bump()
	}
}

// SetScheduleDate sets the publication date; the zero time clears it.
func (vm *ViewModel) SetScheduleDate(t time.Time) {
	if t.IsZero() {
		vm.ScheduleDate = nil
	} else {
		t = t.UTC()
		vm.ScheduleDate = &t
	}
	vm.bump()
}

// AttachMedia records an image or video to accompany the post.
func (vm *ViewModel) AttachMedia(m Media) error {
	if err := validate.Struct(m); err != nil {
		return &InvalidActionError{Type: ActionAttachMedia, Message: err.Error()}
	}
	if !strings.HasPrefix(m.ContentType, "image/") && !strings.HasPrefix(m.ContentType, "video/") {
		return ErrUnsupportedType
	}
	vm.Media = &m
	vm.bump()
	return nil
}

// DetachMedia removes any attached media.
func (vm *ViewModel) DetachMedia() {
	vm.Media = nil
	vm.bump()
}

// BeginScheduling checks that the post can be scheduled and marks it in flight.
func (vm *ViewModel) BeginScheduling() error {
	if len(vm.SelectedPlatforms) == 0 {
		return ErrNoPlatforms
	}
	if vm.ScheduleDate == nil {
		return ErrNoScheduleDate
	}
	if vm.busy() {
		return ErrBusy
	}
	vm.Status = StatusScheduling
	vm.bump()
	return nil
}

// MarkScheduled records a successful scheduling.
func (vm *ViewModel) MarkScheduled() {
	vm.Status = StatusScheduled
	vm.bump()
}

// AbortScheduling returns a scheduling dashboard to idle.
func (vm *ViewModel) AbortScheduling() {
	if vm.Status == StatusScheduling {
		vm.Status = StatusIdle
		vm.bump()
	}
}

// MarkPublished clears the composed post after a successful publish.
// The schedule date is kept.
func (vm *ViewModel) MarkPublished() {
	vm.BaseContent = ""
	vm.Media = nil
	vm.SelectedPlatforms = []platform.ID{}
	vm.Generated = map[platform.ID]string{}
	vm.Status = StatusPublished
	vm.bump()
}

// Marshal encodes the view-model as JSON.
func (vm *ViewModel) Marshal() ([]byte, error) {
	return json.Marshal(vm)
}

// Restore decodes a serialized view-model, validating it against the embedded
// schema before accepting it.
func Restore(data []byte) (*ViewModel, error) {
	if err := schemas.ValidateEmbedded(embedded.ViewModel, data); err != nil {
		return nil, &RestoreError{Cause: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	vm := New()
	if err := dec.Decode(vm); err != nil {
		return nil, &RestoreError{Cause: err}
	}
	if vm.SelectedPlatforms == nil {
		vm.SelectedPlatforms = []platform.ID{}
	}
	if vm.Generated == nil {
		vm.Generated = map[platform.ID]string{}
	}
	if vm.Media != nil {
		if err := validate.Struct(vm.Media); err != nil {
			return nil, &RestoreError{Cause: err}
		}
	}
	return vm, nil
}

func (vm *ViewModel) busy() bool {
	return vm.Status == StatusGenerating || vm.Status == StatusScheduling
}

func (vm *ViewModel) bump() {
	vm.Version++
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
