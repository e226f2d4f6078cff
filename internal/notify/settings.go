package notify

import (
	"fmt"
	"os"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Default delivery settings, used when the settings file omits a field or
// no file is given at all.
const (
	DefaultTemplate = "Reminder: {{.Title}} at {{.Venue}} on {{.StartsAt}}. " +
		"Organised by {{.Organiser}} ({{.OrganiserEmail}})."
	DefaultTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

	NumberFieldPhone  = "phone"
	NumberFieldMobile = "mobile"
)

// Settings controls how participant notifications are rendered and
// addressed. The start-time format and the phone-vs-mobile choice are
// settings rather than fixed behavior.
type Settings struct {
	Template    string `yaml:"template"`
	TimeLayout  string `yaml:"time_layout"`
	NumberField string `yaml:"number_field"`
}

// DefaultSettings returns the built-in delivery settings.
func DefaultSettings() *Settings {
	return &Settings{
		Template:    DefaultTemplate,
		TimeLayout:  DefaultTimeLayout,
		NumberField: NumberFieldPhone,
	}
}

// Loader reads a YAML delivery-settings file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Settings
	onChange []func(*Settings)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	s, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = s
	return l, nil
}

// Settings returns the current (latest) delivery settings.
func (l *Loader) Settings() *Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the settings reload.
func (l *Loader) OnChange(fn func(*Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the settings on
// file changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("settings watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					// Keep the old settings if the new file is invalid.
					if _, err := l.Reload(); err != nil {
						continue
					}
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the settings file.
func (l *Loader) Reload() (*Settings, error) {
	s, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = s
	callbacks := make([]func(*Settings), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(s)
	}
	return s, nil
}

func (l *Loader) load() (*Settings, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", l.path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", l.path, err)
	}
	// Apply defaults.
	if s.Template == "" {
		s.Template = DefaultTemplate
	}
	if s.TimeLayout == "" {
		s.TimeLayout = DefaultTimeLayout
	}
	if s.NumberField == "" {
		s.NumberField = NumberFieldPhone
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("settings %s: %w", l.path, err)
	}
	return &s, nil
}

func validate(s *Settings) error {
	if s.NumberField != NumberFieldPhone && s.NumberField != NumberFieldMobile {
		return fmt.Errorf("number_field must be %q or %q, got %q",
			NumberFieldPhone, NumberFieldMobile, s.NumberField)
	}
	if _, err := template.New("message").Parse(s.Template); err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}
	return nil
}
