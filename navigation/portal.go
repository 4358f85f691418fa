package navigation

// Section ids of the sidebar groups.
const (
	SectionSecondary = "secondary"
	SectionAccount   = "account"
)

// Config is the complete portal navigation: the primary list shared by
// every bar, plus the sidebar-only groups.
type Config struct {
	Primary   []Item    `json:"items"`
	Secondary []Item    `json:"secondary"`
	Account   []Item    `json:"account"`
	Sections  []Section `json:"-"`
}

// Portal returns the user portal's navigation. The result is a fresh copy so
// callers may merge badges into it.
func Portal() Config {
	primary := []Item{
		{ID: "dashboard", Href: "/user/dashboard", Label: "Dashboard", Icon: "home"},
		{ID: "appointments", Href: "/user/appointments", Label: "Appointments", Icon: "calendar"},
		{ID: "messages", Href: "/user/messages", Label: "Messages", Icon: "message"},
		{ID: "documents", Href: "/user/documents", Label: "Documents", Icon: "document"},
		{ID: "finance", Href: "/user/finance", Label: "Finance", Icon: "wallet"},
	}
	secondary := []Item{
		{ID: "notifications", Href: "/user/notifications", Label: "Notifications", Icon: "bell"},
		{ID: "purchases", Href: "/user/purchases", Label: "Purchases", Icon: "cart"},
		{ID: "help", Href: "/user/help", Label: "Help", Icon: "help"},
	}
	account := []Item{
		{ID: "profile", Href: "/user/profile", Label: "Profile", Icon: "user"},
		{ID: "settings", Href: "/user/settings", Label: "Settings", Icon: "settings"},
	}
	return Config{
		Primary:   primary,
		Secondary: secondary,
		Account:   account,
		Sections: []Section{
			{ID: SectionSecondary, Title: "More", Items: secondary},
			{ID: SectionAccount, Title: "Account", Items: account},
		},
	}
}

// All returns every item of c, primary first.
func (c Config) All() []Item {
	all := make([]Item, 0, len(c.Primary)+len(c.Secondary)+len(c.Account))
	all = append(all, c.Primary...)
	all = append(all, c.Secondary...)
	return append(all, c.Account...)
}

// WithBadges returns a copy of c with counts merged into every list.
func (c Config) WithBadges(counts map[string]int) Config {
	out := Config{
		Primary:   WithBadges(c.Primary, counts),
		Secondary: WithBadges(c.Secondary, counts),
		Account:   WithBadges(c.Account, counts),
	}
	for _, s := range c.Sections {
		s.Items = WithBadges(s.Items, counts)
		out.Sections = append(out.Sections, s)
	}
	return out
}
