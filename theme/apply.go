package theme

import "sync"

// Applier pushes the resolved theme onto whatever styles the page,
// e.g. a data-theme attribute on the document element.
type Applier interface {
	ApplyTheme(mode, effective Mode)
}

// Apply resolves mode against src at call time and hands the result to a.
func Apply(a Applier, src SchemeSource, mode Mode) Mode {
	effective := EffectiveMode(mode, src)
	if a == nil {
		return effective
	}
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("Unable to apply theme", "mode", mode, "panic", r)
		}
	}()
	a.ApplyTheme(mode, effective)
	return effective
}

// NopApplier discards everything.
type NopApplier struct{}

// ApplyTheme implements Applier.
func (NopApplier) ApplyTheme(Mode, Mode) {}

// Applied is one recorded ApplyTheme call.
type Applied struct {
	Mode      Mode
	Effective Mode
}

// RecordingApplier remembers every call; the last one is what the page shows.
type RecordingApplier struct {
	mu    sync.Mutex
	calls []Applied
}

// ApplyTheme implements Applier.
func (r *RecordingApplier) ApplyTheme(mode, effective Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Applied{Mode: mode, Effective: effective})
}

// Last returns the most recent call, ok is false before the first one.
func (r *RecordingApplier) Last() (Applied, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Applied{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Calls returns how many times ApplyTheme ran.
func (r *RecordingApplier) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
