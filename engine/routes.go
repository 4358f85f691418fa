package engine

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drummonds/userportal/config"
	"github.com/drummonds/userportal/database"
	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// NavigationResponse is the portal navigation with live badges
type NavigationResponse struct {
	Items     []navigation.Item `json:"items"`
	Secondary []navigation.Item `json:"secondary"`
	Account   []navigation.Item `json:"account"`
	Active    []string          `json:"active"`
	Theme     theme.State       `json:"theme"`
}

type searchResponse struct {
	Results []navigation.Item `json:"results"`
}

type themeRequest struct {
	Mode string `json:"mode" form:"mode"`
}

type messageRequest struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type messagesResponse struct {
	Messages []database.Message `json:"messages"`
}

// GetNavigation returns the navigation list, badges merged in and the items
// active for ?path= marked
func (serverHandler *ServerHandler) GetNavigation(context echo.Context) error {
	user := serverHandler.userID(context)
	counts, err := serverHandler.badgeCounts(user)
	if err != nil {
		return internalError(context, "Unable to load badge counts", err)
	}
	nav := navigation.Portal().WithBadges(counts)
	path := context.QueryParam("path")
	response := NavigationResponse{
		Items:     nav.Primary,
		Secondary: nav.Secondary,
		Account:   nav.Account,
		Active:    navigation.ActiveIDs(path, nav.All()),
		Theme:     theme.FromContext(context.Request().Context()).State(),
	}
	return context.JSON(http.StatusOK, response)
}

// SearchNavigation finds navigation items for the quick-jump box
func (serverHandler *ServerHandler) SearchNavigation(context echo.Context) error {
	term := context.QueryParam("q")
	limit, err := strconv.Atoi(context.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 20 {
		limit = 5
	}
	ids, err := database.SearchNavigation(serverHandler.SearchDB, term, limit)
	if err != nil {
		return internalError(context, "Search failed", err)
	}
	all := navigation.Portal().All()
	results := make([]navigation.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := navigation.Find(all, id); ok {
			results = append(results, item)
		}
	}
	Logger.Debug("Navigation search", "term", term, "results", len(results))
	return context.JSON(http.StatusOK, searchResponse{Results: results})
}

// GetTheme returns the user's theme mode and the mode actually applied
func (serverHandler *ServerHandler) GetTheme(context echo.Context) error {
	return context.JSON(http.StatusOK, theme.FromContext(context.Request().Context()).State())
}

// UpdateTheme stores a new theme mode for the user
func (serverHandler *ServerHandler) UpdateTheme(context echo.Context) error {
	var req themeRequest
	if err := context.Bind(&req); err != nil {
		return jsonError(context, http.StatusBadRequest, "Invalid request body")
	}
	mode, err := theme.ParseMode(req.Mode)
	if err != nil {
		return jsonError(context, http.StatusBadRequest, err.Error())
	}
	state, err := theme.FromContext(context.Request().Context()).SetMode(mode)
	if err != nil {
		return internalError(context, "Unable to change theme", err)
	}
	Logger.Info("Theme updated", "user", serverHandler.userID(context), "mode", state.Mode)
	return context.JSON(http.StatusOK, state)
}

// GetMessages lists the user's messages, ?unread=true for unread only
func (serverHandler *ServerHandler) GetMessages(context echo.Context) error {
	unreadOnly, _ := strconv.ParseBool(context.QueryParam("unread"))
	messages, err := serverHandler.DB.GetMessages(serverHandler.userID(context), unreadOnly)
	if err != nil {
		return internalError(context, "Unable to load messages", err)
	}
	return context.JSON(http.StatusOK, messagesResponse{Messages: messages})
}

// CreateMessage adds an unread message; kind must be a navigation item id
func (serverHandler *ServerHandler) CreateMessage(context echo.Context) error {
	var req messageRequest
	if err := context.Bind(&req); err != nil {
		return jsonError(context, http.StatusBadRequest, "Invalid request body")
	}
	if _, ok := navigation.Find(navigation.Portal().All(), req.Kind); !ok {
		return jsonError(context, http.StatusBadRequest, "Unknown message kind")
	}
	if req.Subject == "" {
		return jsonError(context, http.StatusBadRequest, "Subject is required")
	}
	user := serverHandler.userID(context)
	msg := database.NewMessage(user, req.Kind, req.Subject, req.Body)
	if err := serverHandler.DB.AddMessage(msg); err != nil {
		return internalError(context, "Unable to save message", err)
	}
	if _, err := serverHandler.refreshBadges(user); err != nil {
		Logger.Warn("Unable to refresh badges", "user", user, "error", err)
	}
	return context.JSON(http.StatusCreated, msg)
}

// MarkMessageRead marks one message read
func (serverHandler *ServerHandler) MarkMessageRead(context echo.Context) error {
	user := serverHandler.userID(context)
	err := serverHandler.DB.MarkMessageRead(user, context.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return jsonError(context, http.StatusNotFound, "Message not found")
	}
	if err != nil {
		return internalError(context, "Unable to update message", err)
	}
	counts, err := serverHandler.refreshBadges(user)
	if err != nil {
		return internalError(context, "Unable to load badge counts", err)
	}
	return context.JSON(http.StatusOK, counts)
}

// MarkAllRead marks every unread message read, ?kind= to limit it to one badge
func (serverHandler *ServerHandler) MarkAllRead(context echo.Context) error {
	user := serverHandler.userID(context)
	updated, err := serverHandler.DB.MarkAllRead(user, context.QueryParam("kind"))
	if err != nil {
		return internalError(context, "Unable to update messages", err)
	}
	if _, err := serverHandler.refreshBadges(user); err != nil {
		Logger.Warn("Unable to refresh badges", "user", user, "error", err)
	}
	return context.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// GetAboutInfo returns information about the running portal
func (serverHandler *ServerHandler) GetAboutInfo(context echo.Context) error {
	return context.JSON(http.StatusOK, map[string]string{
		"name":     serverHandler.ServerConfig.AppName,
		"version":  config.Version,
		"database": serverHandler.ServerConfig.DatabaseType,
	})
}
