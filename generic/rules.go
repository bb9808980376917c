package generic

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE COMBINATORS
// =============================================================================
// Each constructor takes the field key, the label used in messages and a
// getter. Length, numeric and date rules skip empty values; pair them with
// Required when the field is mandatory.

var shapes = validator.New()

// Required fails when the trimmed string is empty.
func Required[D any](field, label string, get func(D) string) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		if strings.TrimSpace(get(d)) == "" {
			return label + " is required."
		}
		return ""
	}}
}

// RequiredTime fails when the time is nil or zero.
func RequiredTime[D any](field, label string, get func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		if t := get(d); t == nil || t.IsZero() {
			return label + " is required."
		}
		return ""
	}}
}

// Length bounds the trimmed rune count to [min, max]. A max of 0 means unbounded.
func Length[D any](field, label string, min, max int, get func(D) string) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		s := strings.TrimSpace(get(d))
		if s == "" {
			return ""
		}
		n := utf8.RuneCountInString(s)
		if min > 0 && n < min {
			return fmt.Sprintf("%s must be at least %d characters.", label, min)
		}
		if max > 0 && n > max {
			return fmt.Sprintf("%s must be at most %d characters.", label, max)
		}
		return ""
	}}
}

// MinLength is Length with no upper bound.
func MinLength[D any](field, label string, min int, get func(D) string) Rule[D] {
	return Length(field, label, min, 0, get)
}

// MaxLength is Length with no lower bound.
func MaxLength[D any](field, label string, max int, get func(D) string) Rule[D] {
	return Length(field, label, 0, max, get)
}

// Positive requires amount > 0.
func Positive[D any](field, label string, get func(D) decimal.Decimal) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		if !get(d).IsPositive() {
			return label + " must be greater than 0."
		}
		return ""
	}}
}

// NonNegative requires amount >= 0.
func NonNegative[D any](field, label string, get func(D) decimal.Decimal) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		if get(d).IsNegative() {
			return label + " cannot be negative."
		}
		return ""
	}}
}

// IntBetween requires min <= v <= max.
func IntBetween[D any](field, label string, min, max int, get func(D) int) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		v := get(d)
		if v < min || v > max {
			return fmt.Sprintf("%s must be between %d and %d.", label, min, max)
		}
		return ""
	}}
}

// IntAtLeast requires v >= min.
func IntAtLeast[D any](field, label string, min int, get func(D) int) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		if get(d) < min {
			return fmt.Sprintf("%s must be at least %d.", label, min)
		}
		return ""
	}}
}

// FloatRange requires min < v <= max (minExclusive) or min <= v <= max.
func FloatRange[D any](field, label string, min, max float64, minExclusive bool, get func(D) float64) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		v := get(d)
		low := v < min || (minExclusive && v == min)
		if low || v > max {
			if minExclusive {
				return fmt.Sprintf("%s must be greater than %g and at most %g.", label, min, max)
			}
			return fmt.Sprintf("%s must be between %g and %g.", label, min, max)
		}
		return ""
	}}
}

// After requires the field's date to be strictly after another date.
// The rule is silent while either date is missing.
func After[D any](field, label, otherLabel string, get, other func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		t, o := get(d), other(d)
		if t == nil || o == nil || t.IsZero() || o.IsZero() {
			return ""
		}
		if !t.After(*o) {
			return fmt.Sprintf("%s must be after %s.", label, otherLabel)
		}
		return ""
	}}
}

// Within requires the field's date to fall inside [start, end].
func Within[D any](field, label string, get func(D) *time.Time, bounds func(D) (start, end *time.Time)) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, env Env) string {
		t := get(d)
		if t == nil || t.IsZero() {
			return ""
		}
		loc := env.Now.Location()
		day := CalendarDay(*t, loc)
		start, end := bounds(d)
		if start != nil && day.Before(CalendarDay(*start, loc)) {
			return fmt.Sprintf("%s cannot be before %s.", label, start.Format(DateLayout))
		}
		if end != nil && day.After(CalendarDay(*end, loc)) {
			return fmt.Sprintf("%s cannot be after %s.", label, end.Format(DateLayout))
		}
		return ""
	}}
}

// NotFuture rejects timestamps after now and date-only values after today.
func NotFuture[D any](field, label string, get func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, env Env) string {
		t := get(d)
		if t == nil || t.IsZero() {
			return ""
		}
		if afterToday(*t, env.Now) {
			return label + " cannot be in the future."
		}
		return ""
	}}
}

// NotPast rejects dates before today. Today itself is accepted.
func NotPast[D any](field, label string, get func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, env Env) string {
		t := get(d)
		if t == nil || t.IsZero() {
			return ""
		}
		if CalendarDay(*t, env.Now.Location()).Before(StartOfDay(env.Now)) {
			return label + " cannot be in the past."
		}
		return ""
	}}
}

// NotPastInstant rejects timestamps strictly before now.
func NotPastInstant[D any](field, label string, get func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, env Env) string {
		t := get(d)
		if t == nil || t.IsZero() {
			return ""
		}
		if t.Before(env.Now) {
			return label + " cannot be in the past."
		}
		return ""
	}}
}

// AgeBetween requires the birth date to yield an age in [min, max] as of now.
func AgeBetween[D any](field, label string, min, max int, get func(D) *time.Time) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, env Env) string {
		t := get(d)
		if t == nil || t.IsZero() {
			return ""
		}
		if CalendarDay(*t, env.Now.Location()).After(StartOfDay(env.Now)) {
			return label + " cannot be in the future."
		}
		age := AgeAt(*t, env.Now)
		if age < min || age > max {
			return fmt.Sprintf("Age must be between %d and %d years.", min, max)
		}
		return ""
	}}
}

func afterToday(t, now time.Time) bool {
	if IsDateOnly(t) {
		return CalendarDay(t, now.Location()).After(StartOfDay(now))
	}
	return t.After(now)
}

// AtMost requires get(d) <= limit(d). The rule is silent when limit reports ok=false.
func AtMost[D any](field, message string, get func(D) int, limit func(D) (int, bool)) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		max, ok := limit(d)
		if !ok {
			return ""
		}
		if get(d) > max {
			return fmt.Sprintf(message, max)
		}
		return ""
	}}
}

// Email checks the RFC shape of a non-empty address.
func Email[D any](field, label string, get func(D) string) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		s := strings.TrimSpace(get(d))
		if s == "" {
			return ""
		}
		if err := shapes.Var(s, "email"); err != nil {
			return label + " is not a valid email address."
		}
		return ""
	}}
}

// Phone checks a loose phone shape: digits with optional leading '+', spaces
// and dashes, 9 to 15 digits.
func Phone[D any](field, label string, get func(D) string) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		s := strings.TrimSpace(get(d))
		if s == "" {
			return ""
		}
		digits := 0
		for i, r := range s {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == '+' && i == 0, r == ' ', r == '-':
			default:
				return label + " is not a valid phone number."
			}
		}
		if digits < 9 || digits > 15 {
			return label + " is not a valid phone number."
		}
		return ""
	}}
}

// OneOf requires a non-empty key to belong to the enum.
func OneOf[D any](reg *Registry, enum, field, label string, get func(D) string) Rule[D] {
	return Rule[D]{Field: field, Check: func(d D, _ Env) string {
		key := get(d)
		if key == "" {
			return ""
		}
		if !reg.Contains(enum, key) {
			keys, _ := reg.Keys(enum)
			return fmt.Sprintf("%s must be one of %s.", label, strings.Join(keys, ", "))
		}
		return ""
	}}
}

// When applies rule only while cond holds.
func When[D any](cond func(D) bool, rule Rule[D]) Rule[D] {
	return Rule[D]{Field: rule.Field, Check: func(d D, env Env) string {
		if !cond(d) {
			return ""
		}
		return rule.Check(d, env)
	}}
}

// OnCreate applies rule only when validating a draft for creation.
func OnCreate[D any](rule Rule[D]) Rule[D] {
	return Rule[D]{Field: rule.Field, Check: func(d D, env Env) string {
		if !env.Creating {
			return ""
		}
		return rule.Check(d, env)
	}}
}

// Custom wraps an arbitrary check.
func Custom[D any](field string, check func(D, Env) string) Rule[D] {
	return Rule[D]{Field: field, Check: check}
}
