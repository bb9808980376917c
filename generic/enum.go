/*
enum.go - Enum registry, labels, style classes, aliases and transitions

PURPOSE:
  Every status or category column in the dashboard is a closed set of
  string keys with a human label and a badge class. The registry holds
  those sets in one place so lookups of unrecognised keys fail loudly
  instead of falling back to a grey "unknown" badge.

ALIASES:
  Several enums are the same key set under different semantic names
  (maintenance priority and support priority are both "priority").
  Alias(alias, target) makes the alias resolve to the target's options.
  There is exactly one copy of the key set.

TRANSITIONS:
  Status enums have no enforced state machine by default: any
  status->status change is allowed. A TransitionTable can be attached to
  an enum to opt into stricter rules; CanTransition consults it.

USAGE:
  reg := generic.NewRegistry()
  reg.Register(generic.Enum{Name: "priority", Options: []generic.Option{
      {Key: "LOW", Label: "Low", Class: "badge-gray"},
  }})
  reg.Alias("maintenance_priority", "priority")
  label, err := reg.Label("maintenance_priority", "LOW")
*/
package generic

import (
	"fmt"
	"sort"
	"sync"
)

// Option is one member of an enum's closed set.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Class string `json:"class,omitempty"`
}

// TransitionTable maps a status key to the keys it may move to.
// A key absent from the table has no outgoing transitions.
type TransitionTable map[string][]string

// Allows reports whether from->to is permitted. Staying on the same key is
// always allowed.
func (t TransitionTable) Allows(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Enum is a named closed set of options.
type Enum struct {
	Name        string
	Options     []Option
	Transitions TransitionTable // nil = any transition allowed
}

// Keys returns the option keys in declaration order.
func (e Enum) Keys() []string {
	keys := make([]string, len(e.Options))
	for i, o := range e.Options {
		keys[i] = o.Key
	}
	return keys
}

func (e Enum) option(key string) (Option, bool) {
	for _, o := range e.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds enums and aliases. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	enums   map[string]*Enum
	aliases map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		enums:   make(map[string]*Enum),
		aliases: make(map[string]string),
	}
}

// Register adds or replaces an enum.
func (r *Registry) Register(e Enum) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := e
	cp.Options = append([]Option(nil), e.Options...)
	r.enums[e.Name] = &cp
}

// Alias makes alias resolve to target. The target must already be registered.
func (r *Registry) Alias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enums[target]; !ok {
		return fmt.Errorf("alias %s: %w: %s", alias, ErrUnknownEnum, target)
	}
	r.aliases[alias] = target
	return nil
}

// WithTransitions attaches a transition table to a registered enum.
// Passing nil restores the open behaviour.
func (r *Registry) WithTransitions(name string, table TransitionTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.resolveLocked(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEnum, name)
	}
	e.Transitions = table
	return nil
}

// Lookup returns a copy of the enum registered under name or alias.
func (r *Registry) Lookup(name string) (Enum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.resolveLocked(name)
	if !ok {
		return Enum{}, fmt.Errorf("%w: %s", ErrUnknownEnum, name)
	}
	cp := *e
	cp.Options = append([]Option(nil), e.Options...)
	return cp, nil
}

// Canonical returns the target name for an alias, or name itself.
func (r *Registry) Canonical(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

func (r *Registry) resolveLocked(name string) (*Enum, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	e, ok := r.enums[name]
	return e, ok
}

// Keys returns the closed key set of an enum.
func (r *Registry) Keys(name string) ([]string, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Keys(), nil
}

// Options returns the options of an enum in declaration order.
func (r *Registry) Options(name string) ([]Option, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Options, nil
}

// Contains reports whether key belongs to the enum. Unknown enums report false.
func (r *Registry) Contains(name, key string) bool {
	_, err := r.option(name, key)
	return err == nil
}

// Label returns the human-readable label for key.
func (r *Registry) Label(name, key string) (string, error) {
	o, err := r.option(name, key)
	if err != nil {
		return "", err
	}
	return o.Label, nil
}

// StyleClass returns the presentation class for key.
func (r *Registry) StyleClass(name, key string) (string, error) {
	o, err := r.option(name, key)
	if err != nil {
		return "", err
	}
	return o.Class, nil
}

func (r *Registry) option(name, key string) (Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.resolveLocked(name)
	if !ok {
		return Option{}, fmt.Errorf("%w: %s", ErrUnknownEnum, name)
	}
	o, ok := e.option(key)
	if !ok {
		return Option{}, &UnknownEnumKeyError{Enum: name, Key: key}
	}
	return o, nil
}

// CanTransition checks from->to against the enum's transition table.
// Both keys must be members of the enum. Without a table every change is allowed.
func (r *Registry) CanTransition(name, from, to string) error {
	if _, err := r.option(name, from); err != nil {
		return err
	}
	if _, err := r.option(name, to); err != nil {
		return err
	}
	r.mu.RLock()
	e, _ := r.resolveLocked(name)
	table := e.Transitions
	r.mu.RUnlock()
	if table == nil || table.Allows(from, to) {
		return nil
	}
	return &IllegalTransitionError{Enum: name, From: from, To: to}
}

// Names returns all registered enum names and aliases, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enums)+len(r.aliases))
	for n := range r.enums {
		names = append(names, n)
	}
	for a := range r.aliases {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// DEFAULT REGISTRY
// =============================================================================

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry domain packages
// register into from init().
func DefaultRegistry() *Registry { return defaultRegistry }
