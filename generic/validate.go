/*
validate.go - One-pass draft validation

PURPOSE:
  A draft record is checked against a RuleSet. Every rule runs, and the
  triggered messages are merged into a FieldErrors map keyed by field
  name. Nothing short-circuits: a form shows all of its problems at once.

INVARIANTS:
  - Validation never mutates the draft.
  - The first message recorded for a field wins, so rule order inside a
    set decides which message a field shows (required before length).
  - An empty FieldErrors means the draft is valid.

USAGE:
  rules := generic.RuleSet[Draft]{
      generic.Required("title", "Title", func(d Draft) string { return d.Title }),
      generic.MinLength("title", "Title", 5, func(d Draft) string { return d.Title }),
  }
  errs := rules.Validate(draft, generic.Env{Now: time.Now()})
  if err := errs.Err("maintenance-requests"); err != nil { ... }
*/
package generic

import (
	"sort"
	"time"
)

// FieldErrors maps a field name to its error message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if msg == "" {
		return
	}
	if _, exists := f[field]; exists {
		return
	}
	f[field] = msg
}

// Merge copies other into f without overwriting existing messages.
func (f FieldErrors) Merge(other FieldErrors) {
	for _, k := range sortedKeys(other) {
		f.Add(k, other[k])
	}
}

// Fields returns the failing field names, sorted.
func (f FieldErrors) Fields() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Valid reports whether no rule failed.
func (f FieldErrors) Valid() bool { return len(f) == 0 }

// Err returns a *ValidationFailedError when any field failed, nil otherwise.
func (f FieldErrors) Err(kind Kind) error {
	if len(f) == 0 {
		return nil
	}
	cp := make(FieldErrors, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return &ValidationFailedError{Kind: kind, Fields: cp}
}

// Env carries the context rules may depend on.
type Env struct {
	Now      time.Time
	Creating bool // true when validating a draft for create rather than update
}

// Rule is one independent check on a draft of type D.
// Check returns the error message, or "" when the draft passes.
type Rule[D any] struct {
	Field string
	Check func(d D, env Env) string
}

// RuleSet is an ordered collection of rules over the same draft type.
type RuleSet[D any] []Rule[D]

// Validate evaluates every rule and returns the union of failures.
func (rs RuleSet[D]) Validate(d D, env Env) FieldErrors {
	errs := FieldErrors{}
	for _, r := range rs {
		errs.Add(r.Field, r.Check(d, env))
	}
	return errs
}

// With returns a new set with extra rules appended.
func (rs RuleSet[D]) With(rules ...Rule[D]) RuleSet[D] {
	out := make(RuleSet[D], 0, len(rs)+len(rules))
	out = append(out, rs...)
	return append(out, rules...)
}
