package theme

import (
	"errors"
	"sync"
)

// ErrProviderClosed is returned by SetMode after Close.
var ErrProviderClosed = errors.New("theme provider closed")

// Options configures a Provider. Zero values are usable: no storage means
// nothing persists, no scheme means system resolves to light.
type Options struct {
	Storage     Storage
	StorageKey  string
	Scheme      SchemeSource
	Applier     Applier
	DefaultMode Mode
}

// State is the value a Provider exposes to its consumers.
type State struct {
	Mode          Mode `json:"mode"`
	EffectiveMode Mode `json:"effectiveMode"`
	Mounted       bool `json:"-"`
}

// Provider owns the theme state for one component tree. It holds at most one
// OS scheme subscription, and holds it exactly while the mode is System.
type Provider struct {
	mu          sync.Mutex
	store       *Store
	scheme      SchemeSource
	applier     Applier
	defaultMode Mode

	mode      Mode
	effective Mode
	mounted   bool
	closed    bool

	unwatch  func()
	watchGen uint64

	observers    map[uint64]func(State)
	nextObserver uint64
}

// NewProvider builds an unmounted provider.
func NewProvider(opts Options) *Provider {
	def := opts.DefaultMode
	if !def.Valid() {
		def = DefaultMode
	}
	applier := opts.Applier
	if applier == nil {
		applier = NopApplier{}
	}
	return &Provider{
		store:       NewStore(opts.Storage, opts.StorageKey),
		scheme:      opts.Scheme,
		applier:     applier,
		defaultMode: def,
		mode:        def,
		effective:   EffectiveMode(def, nil),
		observers:   make(map[uint64]func(State)),
	}
}

// Mount reads the persisted mode (or the default), applies it and starts
// watching the OS scheme if needed. Calling it again does nothing.
func (p *Provider) Mount() State {
	p.mu.Lock()
	if p.mounted || p.closed {
		s := p.stateLocked()
		p.mu.Unlock()
		return s
	}
	mode, ok := p.store.Load()
	if !ok {
		mode = p.defaultMode
	}
	p.mode = mode
	p.effective = Apply(p.applier, p.scheme, mode)
	p.syncWatchLocked()
	p.mounted = true
	s := p.stateLocked()
	observers := p.observersLocked()
	p.mu.Unlock()

	Logger.Debug("Theme provider mounted", "mode", s.Mode, "effective", s.EffectiveMode)
	notify(observers, s)
	return s
}

// SetMode switches the preference, persists it and re-applies it. The
// returned state is already consistent with the new mode.
func (p *Provider) SetMode(mode Mode) (State, error) {
	if !mode.Valid() {
		return p.State(), ErrInvalidMode
	}
	p.mu.Lock()
	if p.closed {
		s := p.stateLocked()
		p.mu.Unlock()
		return s, ErrProviderClosed
	}
	p.mode = mode
	p.store.Save(mode)
	p.effective = Apply(p.applier, p.scheme, mode)
	p.syncWatchLocked()
	p.mounted = true
	s := p.stateLocked()
	observers := p.observersLocked()
	p.mu.Unlock()

	Logger.Debug("Theme mode changed", "mode", s.Mode, "effective", s.EffectiveMode)
	notify(observers, s)
	return s, nil
}

// Mode returns the preference.
func (p *Provider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// EffectiveMode returns the applied light or dark value.
func (p *Provider) EffectiveMode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.effective
}

// State returns mode and effective mode together.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Watching reports whether an OS scheme subscription is held.
func (p *Provider) Watching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unwatch != nil
}

// Observe registers fn for every state change. The returned cancel is idempotent.
func (p *Provider) Observe(fn func(State)) (cancel func()) {
	p.mu.Lock()
	id := p.nextObserver
	p.nextObserver++
	p.observers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

// Close releases the OS subscription and drops observers. Safe to call twice.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.releaseWatchLocked()
	p.observers = make(map[uint64]func(State))
}

func (p *Provider) onSchemeChange(gen uint64, dark bool) {
	p.mu.Lock()
	if p.unwatch == nil || gen != p.watchGen || p.mode != System {
		p.mu.Unlock()
		return
	}
	effective := Light
	if dark {
		effective = Dark
	}
	if effective == p.effective {
		p.mu.Unlock()
		return
	}
	p.effective = effective
	p.applyResolvedLocked()
	s := p.stateLocked()
	observers := p.observersLocked()
	p.mu.Unlock()

	Logger.Debug("System color scheme changed", "effective", effective)
	notify(observers, s)
}

func (p *Provider) applyResolvedLocked() {
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("Unable to apply theme", "mode", p.mode, "panic", r)
		}
	}()
	p.applier.ApplyTheme(p.mode, p.effective)
}

// syncWatchLocked makes the subscription exist iff mode is System.
func (p *Provider) syncWatchLocked() {
	want := p.mode == System && !p.closed && p.scheme != nil
	switch {
	case want && p.unwatch == nil:
		p.watchGen++
		gen := p.watchGen
		p.unwatch = p.scheme.Watch(func(dark bool) { p.onSchemeChange(gen, dark) })
	case !want && p.unwatch != nil:
		p.releaseWatchLocked()
	}
}

func (p *Provider) releaseWatchLocked() {
	if p.unwatch == nil {
		return
	}
	unwatch := p.unwatch
	p.unwatch = nil
	p.watchGen++
	unwatch()
}

func (p *Provider) stateLocked() State {
	return State{Mode: p.mode, EffectiveMode: p.effective, Mounted: p.mounted}
}

func (p *Provider) observersLocked() []func(State) {
	out := make([]func(State), 0, len(p.observers))
	for _, fn := range p.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
