package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
)

// SidebarNavigation is the desktop side menu: the primary items followed by
// collapsible sections.
type SidebarNavigation struct {
	app.Compo
	Path     string
	Items    []navigation.Item
	Sections []navigation.Section

	expanded navigation.Sections
}

// OnInit sets the sections to their mount-time state
func (s *SidebarNavigation) OnInit() {
	s.expanded = navigation.DefaultSections()
}

// ActiveIDs returns the ids of the primary items this menu highlights
func (s *SidebarNavigation) ActiveIDs() []string {
	return navigation.ActiveIDs(s.Path, s.Items)
}

// Expanded reports whether a section is open
func (s *SidebarNavigation) Expanded(id string) bool {
	return s.sections().Expanded(id)
}

// Render renders the sidebar
func (s *SidebarNavigation) Render() app.UI {
	return app.Aside().
		Class("sidebar").
		Body(
			app.Nav().Aria("label", "Sidebar").Body(
				app.Div().Class("sidebar-primary").Body(
					app.Range(s.Items).Slice(func(i int) app.UI {
						return navLink("sidebar", s.Path, s.Items[i])
					}),
				),
				app.Range(s.Sections).Slice(func(i int) app.UI {
					return s.renderSection(s.Sections[i])
				}),
			),
		)
}

func (s *SidebarNavigation) renderSection(section navigation.Section) app.UI {
	open := s.Expanded(section.ID)
	chevron := "▸"
	var items app.UI
	if open {
		chevron = "▾"
		items = app.Div().Class("sidebar-section-items").Body(
			app.Range(section.Items).Slice(func(i int) app.UI {
				return navLink("sidebar", s.Path, section.Items[i])
			}),
		)
	}
	id := section.ID
	return app.Div().
		Class("sidebar-section").
		ID("sidebar-section-%s", id).
		Body(
			app.Button().
				Class("sidebar-section-toggle").
				Aria("expanded", open).
				OnClick(func(ctx app.Context, e app.Event) {
					s.toggleSection(id)
				}, app.EventScope(id)).
				Body(
					app.Span().Text(chevron),
					app.Span().Text(section.Title),
				),
			items,
		)
}

// toggleSection flips one section; the others keep their state.
func (s *SidebarNavigation) toggleSection(id string) bool {
	return s.sections().Toggle(id)
}

func (s *SidebarNavigation) sections() navigation.Sections {
	if s.expanded == nil {
		s.expanded = navigation.DefaultSections()
	}
	return s.expanded
}
