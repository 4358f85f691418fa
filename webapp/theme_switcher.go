package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// Switcher variants.
const (
	SwitcherButton   = "button"
	SwitcherDropdown = "dropdown"
)

// ThemeSwitcher lets the user pick light, dark or system. The button variant
// cycles through the modes, the dropdown selects one directly.
type ThemeSwitcher struct {
	app.Compo
	Theme   *theme.Provider
	Variant string

	stopObserving func()
}

// OnMount is called when the component is mounted
func (s *ThemeSwitcher) OnMount(ctx app.Context) {
	s.stopObserving = theme.Must(s.Theme).Observe(func(theme.State) {
		ctx.Dispatch(func(ctx app.Context) {})
	})
}

// OnDismount is called when the component is removed
func (s *ThemeSwitcher) OnDismount() {
	if s.stopObserving != nil {
		s.stopObserving()
		s.stopObserving = nil
	}
}

// Render renders the switcher
func (s *ThemeSwitcher) Render() app.UI {
	state := theme.Must(s.Theme).State()
	if s.Variant == SwitcherDropdown {
		modes := theme.Modes()
		return app.Select().
			Class("theme-select").
			Aria("label", "Theme").
			OnChange(s.onSelect).
			Body(
				app.Range(modes).Slice(func(i int) app.UI {
					return app.Option().
						Value(modes[i].String()).
						Selected(modes[i] == state.Mode).
						Text(modes[i].Label())
				}),
			)
	}

	label := "Theme: " + state.Mode.Label()
	return app.Button().
		Class("theme-toggle").
		Title("%s", label).
		Aria("label", label).
		OnClick(s.onCycle).
		Body(
			app.Span().Class("theme-icon").Text(modeIcon(state.Mode)),
		)
}

func (s *ThemeSwitcher) onCycle(ctx app.Context, e app.Event) {
	s.cycle()
}

func (s *ThemeSwitcher) onSelect(ctx app.Context, e app.Event) {
	mode, err := theme.ParseMode(ctx.JSSrc().Get("value").String())
	if err != nil {
		return
	}
	theme.Must(s.Theme).SetMode(mode)
}

// cycle moves the provider to the next mode and returns the new state.
func (s *ThemeSwitcher) cycle() theme.State {
	p := theme.Must(s.Theme)
	state, _ := p.SetMode(p.Mode().Next())
	return state
}

func modeIcon(m theme.Mode) string {
	switch m {
	case theme.Light:
		return navigation.Icon("sun")
	case theme.Dark:
		return navigation.Icon("moon")
	}
	return navigation.Icon("monitor")
}
