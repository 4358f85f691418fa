// Package theme holds the portal's light/dark/system preference: how it is
// persisted, how "system" resolves against the OS color scheme, and the
// Provider that keeps both in sync for a component tree.
package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// Mode is the user's theme preference.
type Mode string

const (
	Light  Mode = "light"
	Dark   Mode = "dark"
	System Mode = "system"
)

// DefaultMode is used when nothing valid has been persisted.
const DefaultMode = System

// ErrInvalidMode is returned by ParseMode for anything outside light/dark/system.
var ErrInvalidMode = errors.New("invalid theme mode")

// Modes lists the selectable modes in switcher order.
func Modes() []Mode {
	return []Mode{Light, Dark, System}
}

// ParseMode converts a stored or submitted value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case Light, Dark, System:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// Next returns the mode a cycling switcher moves to: light, dark, system, light...
func (m Mode) Next() Mode {
	switch m {
	case Light:
		return Dark
	case Dark:
		return System
	default:
		return Light
	}
}

// Label is the human readable name shown in switchers.
func (m Mode) Label() string {
	switch m {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	case System:
		return "System"
	}
	return "Unknown"
}
