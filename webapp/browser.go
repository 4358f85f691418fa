package webapp

import (
	"sync"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/theme"
)

const darkSchemeQuery = "(prefers-color-scheme: dark)"

// localStorage stores raw strings in window.localStorage so the pre-paint
// script in the page head can read the same value.
type localStorage struct{}

func (localStorage) Get(key string) (string, error) {
	v := app.Window().Get("localStorage").Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", theme.ErrNotStored
	}
	return v.String(), nil
}

func (localStorage) Set(key, value string) error {
	app.Window().Get("localStorage").Call("setItem", key, value)
	return nil
}

// serverSyncedStorage keeps localStorage as the source of truth and mirrors
// every write to PUT /api/theme, so the server rendered pages follow suit.
type serverSyncedStorage struct {
	localStorage
}

func (s serverSyncedStorage) Set(key, value string) error {
	if err := s.localStorage.Set(key, value); err != nil {
		return err
	}
	mode, err := theme.ParseMode(value)
	if err != nil {
		return err
	}
	app.Window().Call("fetch", "/api/theme", themeUpdateRequest(mode)).
		Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			theme.Logger.Warn("Unable to store theme on the server", "mode", mode)
			return nil
		}))
	return nil
}

// themeUpdateRequest is the fetch init for PUT /api/theme.
func themeUpdateRequest(mode theme.Mode) map[string]any {
	return map[string]any{
		"method":  "PUT",
		"headers": map[string]any{"Content-Type": "application/json"},
		"body":    `{"mode":"` + mode.String() + `"}`,
	}
}

// DefaultThemeEnv carries the configured default mode from the server to
// the wasm app through app.Handler.Env.
const DefaultThemeEnv = "PORTAL_DEFAULT_THEME"

// defaultMode parses the configured default, falling back to System.
func defaultMode(s string) theme.Mode {
	mode, err := theme.ParseMode(s)
	if err != nil {
		return theme.System
	}
	return mode
}

// mediaScheme follows window.matchMedia('(prefers-color-scheme: dark)').
type mediaScheme struct{}

func (mediaScheme) list() app.Value {
	if !app.Window().Get("matchMedia").Truthy() {
		return nil
	}
	return app.Window().Call("matchMedia", darkSchemeQuery)
}

func (s mediaScheme) PrefersDark() bool {
	mq := s.list()
	if mq == nil {
		return false
	}
	return mq.Get("matches").Bool()
}

func (s mediaScheme) Watch(fn func(dark bool)) func() {
	mq := s.list()
	if mq == nil {
		return func() {}
	}
	var mu sync.Mutex
	active := true
	listener := app.FuncOf(func(this app.Value, args []app.Value) any {
		mu.Lock()
		live := active
		mu.Unlock()
		if live && len(args) > 0 {
			fn(args[0].Get("matches").Bool())
		}
		return nil
	})
	mq.Call("addEventListener", "change", listener)

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			active = false
			mu.Unlock()
			mq.Call("removeEventListener", "change", listener)
			listener.Release()
		})
	}
}

// documentApplier marks <html> with data-theme and the dark class.
type documentApplier struct{}

func (documentApplier) ApplyTheme(mode, effective theme.Mode) {
	root := app.Window().Get("document").Get("documentElement")
	root.Call("setAttribute", "data-theme", effective.String())
	root.Call("setAttribute", "data-theme-mode", mode.String())
	root.Get("classList").Call("toggle", "dark", effective == theme.Dark)
}

var (
	portalThemeOnce sync.Once
	portalTheme     *theme.Provider
)

// PortalTheme is the browser-wide theme provider shared by every page.
func PortalTheme() *theme.Provider {
	portalThemeOnce.Do(func() {
		portalTheme = theme.NewProvider(theme.Options{
			Storage:     serverSyncedStorage{},
			StorageKey:  theme.DefaultStorageKey,
			Scheme:      mediaScheme{},
			Applier:     documentApplier{},
			DefaultMode: defaultMode(app.Getenv(DefaultThemeEnv)),
		})
	})
	return portalTheme
}
