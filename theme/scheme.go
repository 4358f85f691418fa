package theme

import (
	"sync"
	"sync/atomic"
)

// SchemeSource is the platform's "prefers dark" signal.
type SchemeSource interface {
	// PrefersDark reports the current OS color scheme.
	PrefersDark() bool
	// Watch registers fn for scheme changes. The returned function detaches
	// fn; it is safe to call more than once and fn never runs after it returns.
	Watch(fn func(dark bool)) (unwatch func())
}

// EffectiveMode resolves m to light or dark. System consults src; with no
// source available the answer is light.
func EffectiveMode(m Mode, src SchemeSource) Mode {
	switch m {
	case Dark:
		return Dark
	case System:
		if src != nil && prefersDark(src) {
			return Dark
		}
	}
	return Light
}

func prefersDark(src SchemeSource) (dark bool) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("Color scheme source unavailable, assuming light", "panic", r)
			dark = false
		}
	}()
	return src.PrefersDark()
}

// watcher is one registration on a scheme source.
type watcher struct {
	fn     func(bool)
	active atomic.Bool
}

// watcherSet is the bookkeeping shared by the in-process sources.
type watcherSet struct {
	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

func (s *watcherSet) add(fn func(bool)) func() {
	w := &watcher{fn: fn}
	w.active.Store(true)
	s.mu.Lock()
	if s.watchers == nil {
		s.watchers = make(map[*watcher]struct{})
	}
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.active.Store(false)
			s.mu.Lock()
			delete(s.watchers, w)
			s.mu.Unlock()
		})
	}
}

func (s *watcherSet) notify(dark bool) {
	s.mu.Lock()
	snapshot := make([]*watcher, 0, len(s.watchers))
	for w := range s.watchers {
		snapshot = append(snapshot, w)
	}
	s.mu.Unlock()
	for _, w := range snapshot {
		if w.active.Load() {
			w.fn(dark)
		}
	}
}

func (s *watcherSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

// ManualScheme is a SchemeSource whose signal is set by the caller. The server
// uses it for client hints and tests use it to flip the OS preference.
type ManualScheme struct {
	mu   sync.Mutex
	dark bool
	set  watcherSet
}

// NewManualScheme starts with the given preference.
func NewManualScheme(dark bool) *ManualScheme {
	return &ManualScheme{dark: dark}
}

// PrefersDark implements SchemeSource.
func (m *ManualScheme) PrefersDark() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dark
}

// Watch implements SchemeSource.
func (m *ManualScheme) Watch(fn func(dark bool)) func() {
	return m.set.add(fn)
}

// Set changes the signal and notifies watchers when it actually changed.
func (m *ManualScheme) Set(dark bool) {
	m.mu.Lock()
	changed := m.dark != dark
	m.dark = dark
	m.mu.Unlock()
	if changed {
		m.set.notify(dark)
	}
}

// Watchers is the number of live registrations.
func (m *ManualScheme) Watchers() int {
	return m.set.count()
}

// StaticScheme never changes; Watch registers nothing.
type StaticScheme bool

// PrefersDark implements SchemeSource.
func (s StaticScheme) PrefersDark() bool {
	return bool(s)
}

// Watch implements SchemeSource.
func (s StaticScheme) Watch(func(bool)) func() {
	return func() {}
}

// SchemeFromHint reads a Sec-CH-Prefers-Color-Scheme value.
func SchemeFromHint(hint string) StaticScheme {
	switch hint {
	case "dark", `"dark"`:
		return StaticScheme(true)
	}
	return StaticScheme(false)
}
