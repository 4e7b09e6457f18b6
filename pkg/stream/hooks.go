package stream

import (
	"errors"

	"github.com/ssargent/pfostream/pkg/event"
)

var (
	// ErrNilHook is returned when registering a nil hook
	ErrNilHook = errors.New("nil extension hook")
	// ErrHookRegistered is returned when a record kind already has a hook
	ErrHookRegistered = errors.New("extension hook already registered")
)

// Hook decodes format-specific fields into a parameter bundle before the
// built-in fields are read. It runs with the reader positioned on the record,
// so it may call r.ReadVariable.
type Hook func(params event.Parameters, r *Reader) error

// Hooks maps record kinds to their extension hook. A kind without a hook is
// read with the built-in fields only.
type Hooks struct {
	hooks map[event.RecordKind]Hook
}

// NewHooks creates an empty hook registry
func NewHooks() *Hooks {
	return &Hooks{hooks: make(map[event.RecordKind]Hook)}
}

// Register installs hook for kind
func (h *Hooks) Register(kind event.RecordKind, hook Hook) error {
	if hook == nil {
		return ErrNilHook
	}
	if _, exists := h.hooks[kind]; exists {
		return ErrHookRegistered
	}
	h.hooks[kind] = hook
	return nil
}

// Lookup returns the hook registered for kind
func (h *Hooks) Lookup(kind event.RecordKind) (Hook, bool) {
	if h == nil {
		return nil, false
	}
	hook, ok := h.hooks[kind]
	return hook, ok
}

// Len returns the number of registered hooks
func (h *Hooks) Len() int {
	if h == nil {
		return 0
	}
	return len(h.hooks)
}

func (h *Hooks) run(params event.Parameters, r *Reader) error {
	hook, ok := h.Lookup(params.Kind())
	if !ok {
		return nil
	}
	return hook(params, r)
}
