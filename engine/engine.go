package engine

import (
	"net/http"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/labstack/echo/v4"

	"github.com/drummonds/userportal/config"
	"github.com/drummonds/userportal/database"
	"github.com/drummonds/userportal/theme"
)

// UserHeader names the user a request acts for.
const UserHeader = "X-Portal-User"

// ColorSchemeHint is the client hint carrying the browser's color scheme.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	DB           database.DBInterface
	SearchDB     bleve.Index
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Badges       *BadgeCache
}

// BadgeCache keeps the last unread counts per user so navigation requests
// do not hit the database every time.
type BadgeCache struct {
	mu     sync.RWMutex
	counts map[string]map[string]int
}

// NewBadgeCache returns an empty cache.
func NewBadgeCache() *BadgeCache {
	return &BadgeCache{counts: make(map[string]map[string]int)}
}

// Get returns a copy of the cached counts for user.
func (b *BadgeCache) Get(user string) (map[string]int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	counts, ok := b.counts[user]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out, true
}

// Set replaces the cached counts for user. Users with nothing unread are
// dropped, so only users with badges stay cached and get refreshed by cron.
func (b *BadgeCache) Set(user string, counts map[string]int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range counts {
		if n > 0 {
			b.counts[user] = counts
			return
		}
	}
	delete(b.counts, user)
}

// Users lists every cached user.
func (b *BadgeCache) Users() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	users := make([]string, 0, len(b.counts))
	for user := range b.counts {
		users = append(users, user)
	}
	return users
}

// userID returns the user the request acts for
func (serverHandler *ServerHandler) userID(context echo.Context) string {
	if user := context.Request().Header.Get(UserHeader); user != "" {
		return user
	}
	return serverHandler.ServerConfig.DefaultUser
}

// badgeCounts returns unread counts for user, from the cache when possible
func (serverHandler *ServerHandler) badgeCounts(user string) (map[string]int, error) {
	if serverHandler.Badges != nil {
		if counts, ok := serverHandler.Badges.Get(user); ok {
			return counts, nil
		}
	}
	return serverHandler.refreshBadges(user)
}

// BadgeCounts returns the unread counts for the user making the request
func (serverHandler *ServerHandler) BadgeCounts(context echo.Context) (map[string]int, error) {
	return serverHandler.badgeCounts(serverHandler.userID(context))
}

func (serverHandler *ServerHandler) refreshBadges(user string) (map[string]int, error) {
	counts, err := serverHandler.DB.UnreadCounts(user)
	if err != nil {
		return nil, err
	}
	if serverHandler.Badges != nil {
		serverHandler.Badges.Set(user, counts)
	}
	return counts, nil
}

// ThemeContext is middleware giving each request a mounted theme provider
// backed by the user's stored preference and the browser's color scheme hint.
func (serverHandler *ServerHandler) ThemeContext(next echo.HandlerFunc) echo.HandlerFunc {
	defaultMode, err := theme.ParseMode(serverHandler.ServerConfig.DefaultThemeMode)
	if err != nil {
		Logger.Warn("Invalid default theme mode, using system", "value", serverHandler.ServerConfig.DefaultThemeMode)
		defaultMode = theme.System
	}
	return func(context echo.Context) error {
		request := context.Request()
		provider := theme.NewProvider(theme.Options{
			Storage:     database.PreferenceStorage{DB: serverHandler.DB, UserID: serverHandler.userID(context)},
			StorageKey:  serverHandler.ServerConfig.ThemeStorageKey,
			Scheme:      theme.SchemeFromHint(request.Header.Get(ColorSchemeHint)),
			DefaultMode: defaultMode,
		})
		provider.Mount()
		defer provider.Close()

		context.SetRequest(request.WithContext(theme.WithProvider(request.Context(), provider)))
		header := context.Response().Header()
		header.Set("Accept-CH", ColorSchemeHint)
		header.Add("Vary", ColorSchemeHint)
		header.Add("Vary", UserHeader)
		return next(context)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(context echo.Context, status int, message string) error {
	return context.JSON(status, errorResponse{Error: message})
}

func internalError(context echo.Context, msg string, err error) error {
	Logger.Error(msg, "path", context.Path(), "error", err)
	return jsonError(context, http.StatusInternalServerError, msg)
}
