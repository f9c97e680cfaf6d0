// Package notify sends desktop notifications for drawing events.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventGenerate fires when a generated image has been applied.
	EventGenerate Event = "generate"
	// EventFailure fires when a generation request fails.
	EventFailure Event = "failure"
	// EventSave fires when the drawing is exported to disk.
	EventSave Event = "save"
	// EventCopy fires when the drawing is copied to the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in a stable order.
func Events() []Event { return []Event{EventGenerate, EventFailure, EventSave, EventCopy} }

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "codraw",
		Events: map[Event]EventPreference{
			EventGenerate: {Template: "Generated: %s"},
			EventFailure:  {Template: "Generation failed: %s"},
			EventSave:     {Template: "Saved %s"},
			EventCopy:     {Template: "Copied %s to clipboard"},
		},
	}
}

// EnvKey returns the environment variable overriding an event template.
func EnvKey(event Event) string {
	return "CODRAW_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
}

// LoadPreferences applies CODRAW_NOTIFY_* environment overrides to base.
func LoadPreferences(base Preferences) Preferences {
	prefs := Preferences{Title: base.Title, Events: make(map[Event]EventPreference, len(base.Events))}
	for k, v := range base.Events {
		prefs.Events[k] = v
	}
	if prefs.Title == "" {
		prefs.Title = DefaultPreferences().Title
	}
	if v := strings.TrimSpace(os.Getenv("CODRAW_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range Events() {
		if v := strings.TrimSpace(os.Getenv(EnvKey(event))); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
}

// New creates a Notifier using the platform notification service.
func New(prefs Preferences) *Notifier {
	return NewWithSender(prefs, platform.Notify)
}

// NewWithSender creates a Notifier that delivers through send.
func NewWithSender(prefs Preferences, send SendFunc) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: send}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Generated reports an applied image, with a preview when img is set.
func (n *Notifier) Generated(prompt string, img image.Image) {
	if !n.enabledFor(EventGenerate) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			logging.Logger().Warn("notification preview", "error", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventGenerate, prompt, opts)
}

// Failed reports a failed generation.
func (n *Notifier) Failed(err error) {
	if err == nil {
		return
	}
	n.dispatch(EventFailure, err.Error(), platform.Options{})
}

// Save reports an export, showing the absolute path and the file itself
// as the icon when it exists.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy reports a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "drawing"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

// Body renders the notification text for event, or "" when the event has
// no template.
func (n *Notifier) Body(event Event, detail string) string {
	if n == nil {
		return ""
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return ""
	}
	if !strings.Contains(template, "%") {
		return template
	}
	return strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	body := n.Body(event, detail)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		logging.Logger().Warn("notification failed", "event", event, "error", err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "codraw-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.Logger().Warn("remove preview", "error", err)
		}
	}
	return path, cleanup, nil
}
