package webapp

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/theme"
)

// SettingsPage holds the user's appearance and notification settings
type SettingsPage struct {
	app.Compo
	Theme *theme.Provider

	running bool
	result  string
	error   string
}

type markAllResponse struct {
	Updated int64 `json:"updated"`
}

// Render renders the settings page
func (s *SettingsPage) Render() app.UI {
	buttonText := "Mark all as read"
	if s.running {
		buttonText = "Marking..."
	}

	return app.Section().
		Class("page settings-page").
		Body(
			app.H2().Text("Settings"),

			app.Div().Class("settings-group").Body(
				app.H3().Text("Appearance"),
				app.P().Text("System follows the colour scheme of your device."),
				&ThemeSwitcher{Theme: s.Theme, Variant: SwitcherDropdown},
			),

			app.Div().Class("settings-group").Body(
				app.H3().Text("Notifications"),
				app.Button().
					Class("btn-primary").
					Disabled(s.running).
					OnClick(s.onMarkAllClick).
					Text(buttonText),
				s.renderStatus(),
			),
		)
}

func (s *SettingsPage) renderStatus() app.UI {
	switch {
	case s.running:
		return app.Div().Class("loading").Text("Updating messages...")
	case s.error != "":
		return app.Div().Class("error").Text("Error: " + s.error)
	case s.result != "":
		return app.Div().Class("success").Body(app.P().Text(s.result))
	}
	return nil
}

func (s *SettingsPage) onMarkAllClick(ctx app.Context, e app.Event) {
	s.running = true
	s.result = ""
	s.error = ""

	var res markAllResponse
	fetchJSON(ctx, "/api/messages/read-all", map[string]any{"method": "POST"}, &res, func(err error) {
		s.running = false
		if err != nil {
			s.error = err.Error()
			return
		}
		s.result = markAllResult(res.Updated)
	})
}

func markAllResult(updated int64) string {
	switch updated {
	case 0:
		return "No unread messages."
	case 1:
		return "Marked 1 message as read."
	}
	return fmt.Sprintf("Marked %d messages as read.", updated)
}
