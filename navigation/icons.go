package navigation

var icons = map[string]string{
	"home":     "🏠",
	"calendar": "📅",
	"message":  "💬",
	"document": "📄",
	"wallet":   "💳",
	"bell":     "🔔",
	"cart":     "🛒",
	"help":     "❓",
	"user":     "👤",
	"settings": "⚙️",
	"menu":     "☰",
	"close":    "✕",
	"sun":      "☀️",
	"moon":     "🌙",
	"monitor":  "🖥️",
}

// Icon maps an icon key to its glyph; unknown keys get a bullet.
func Icon(name string) string {
	if glyph, ok := icons[name]; ok {
		return glyph
	}
	return "•"
}
