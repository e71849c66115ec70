package hotkey

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

// ErrorKind classifies a registration failure.
type ErrorKind int

const (
	// InvalidSpec means the shortcut text did not parse.
	InvalidSpec ErrorKind = iota + 1
	// OSRejected means the OS (or the lack of a backend) refused the grab,
	// typically because another application already owns the combination.
	OSRejected
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidSpec:
		return "invalid shortcut"
	case OSRejected:
		return "rejected by the OS"
	default:
		return "unknown"
	}
}

// RegistrationError is returned by Registry.Register.
type RegistrationError struct {
	Kind ErrorKind
	Spec string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register shortcut %q: %s: %v", e.Spec, e.Kind, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Registry owns the single global shortcut of the application.
type Registry struct {
	mu      sync.Mutex
	backend Backend
	active  *binding
}

type binding struct {
	text   string
	handle RegisteredHotkey
	done   chan struct{}
}

// NewRegistry creates a registry on top of backend. A nil backend is allowed;
// every registration then fails with OSRejected.
func NewRegistry(backend Backend) *Registry {
	return &Registry{backend: backend}
}

// Register replaces whatever shortcut is active with spec. onActivate runs on
// a listener goroutine for each key press; callers that touch UI state must
// hand the work off to their UI loop.
//
// The previous binding is always released first. If spec cannot be parsed or
// the OS refuses it, no shortcut is active afterwards.
func (r *Registry) Register(spec string, onActivate func()) error {
	if onActivate == nil {
		return errors.New("onActivate callback is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterAllLocked()

	parsed, err := shortcut.Parse(spec)
	if err != nil {
		return &RegistrationError{Kind: InvalidSpec, Spec: spec, Err: err}
	}
	if r.backend == nil {
		return &RegistrationError{Kind: OSRejected, Spec: spec, Err: ErrBackendNotAvailable}
	}

	handle, err := r.backend.Register(parsed)
	if err != nil {
		return &RegistrationError{Kind: OSRejected, Spec: spec, Err: err}
	}

	b := &binding{
		text:   parsed.String(),
		handle: handle,
		done:   make(chan struct{}),
	}
	go b.listen(onActivate)
	r.active = b

	log.Printf("Hotkey registry: Registered '%s' via %s", b.text, r.backend.Name())
	return nil
}

// Active returns the canonical text of the active shortcut, or "" if none.
func (r *Registry) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return ""
	}
	return r.active.text
}

// Close releases the active shortcut.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterAllLocked()
}

func (r *Registry) unregisterAllLocked() error {
	if r.active != nil {
		close(r.active.done)
		log.Printf("Hotkey registry: Unregistering '%s'", r.active.text)
		r.active = nil
	}
	if r.backend == nil {
		return nil
	}
	if err := r.backend.UnregisterAll(); err != nil {
		log.Printf("Hotkey registry: Error during unregister: %v", err)
		return err
	}
	return nil
}

func (b *binding) listen(onActivate func()) {
	for {
		select {
		case <-b.done:
			return
		case _, ok := <-b.handle.Keydown():
			if !ok {
				return
			}
			// A press racing with replacement belongs to the old binding.
			select {
			case <-b.done:
				return
			default:
			}
			b.fire(onActivate)
		}
	}
}

func (b *binding) fire(onActivate func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in hotkey callback (%s): %v", b.text, r)
		}
	}()
	onActivate()
}
