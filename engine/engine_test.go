package engine

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/drummonds/userportal/config"
	"github.com/drummonds/userportal/database"
	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

func setupTestHandler(t *testing.T) (*echo.Echo, *ServerHandler) {
	t.Helper()
	db, err := database.SetupSQLiteDatabase(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Failed to setup database: %v", err)
	}
	searchDB, err := database.SetupSearchDB(navigation.Portal().All())
	if err != nil {
		t.Fatalf("Unable to setup search database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		searchDB.Close()
	})

	e := echo.New()
	e.HideBanner = true
	serverHandler := &ServerHandler{
		DB:       db,
		SearchDB: searchDB,
		Echo:     e,
		ServerConfig: config.ServerConfig{
			DefaultThemeMode: "system",
			ThemeStorageKey:  "theme",
			DefaultUser:      "guest",
		},
		Badges: NewBadgeCache(),
	}
	api := e.Group("/api", serverHandler.ThemeContext)
	api.GET("/navigation", serverHandler.GetNavigation)
	api.GET("/navigation/search", serverHandler.SearchNavigation)
	api.GET("/theme", serverHandler.GetTheme)
	api.PUT("/theme", serverHandler.UpdateTheme)
	api.GET("/messages", serverHandler.GetMessages)
	api.POST("/messages", serverHandler.CreateMessage)
	api.POST("/messages/read-all", serverHandler.MarkAllRead)
	api.POST("/messages/:id/read", serverHandler.MarkMessageRead)
	return e, serverHandler
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestThemeEndpoints(t *testing.T) {
	e, _ := setupTestHandler(t)
	alice := map[string]string{UserHeader: "alice", ColorSchemeHint: "dark"}

	t.Run("Default mode resolves against the client hint", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/theme", "", alice)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		var state theme.State
		if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if state.Mode != theme.System || state.EffectiveMode != theme.Dark {
			t.Errorf("Expected system/dark, got %+v", state)
		}
		if rec.Header().Get("Accept-CH") != ColorSchemeHint {
			t.Errorf("Expected Accept-CH header, got %q", rec.Header().Get("Accept-CH"))
		}
	})

	t.Run("Update persists per user", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/theme", `{"mode":"light"}`, alice)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, "/api/theme", "", alice)
		var state theme.State
		json.Unmarshal(rec.Body.Bytes(), &state)
		if state.Mode != theme.Light || state.EffectiveMode != theme.Light {
			t.Errorf("Expected light/light after reload, got %+v", state)
		}

		rec = doRequest(e, http.MethodGet, "/api/theme", "", map[string]string{UserHeader: "bob"})
		json.Unmarshal(rec.Body.Bytes(), &state)
		if state.Mode != theme.System {
			t.Errorf("Expected bob to keep the default, got %+v", state)
		}
	})

	t.Run("Invalid mode is rejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/theme", `{"mode":"sepia"}`, alice)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

func TestThemeHandlerWithoutMiddlewarePanics(t *testing.T) {
	e, serverHandler := setupTestHandler(t)
	e.GET("/bare/theme", serverHandler.GetTheme)

	defer func() {
		if r := recover(); r != theme.ErrNoProvider {
			t.Errorf("Expected ErrNoProvider panic, got %v", r)
		}
	}()
	doRequest(e, http.MethodGet, "/bare/theme", "", nil)
}

func TestNavigationBadgesAndActive(t *testing.T) {
	e, _ := setupTestHandler(t)
	alice := map[string]string{UserHeader: "alice"}

	for i := 0; i < 12; i++ {
		rec := doRequest(e, http.MethodPost, "/api/messages", `{"kind":"messages","subject":"hello"}`, alice)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	rec := doRequest(e, http.MethodPost, "/api/messages", `{"kind":"notifications","subject":"moved"}`, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/navigation?path=/user/messages/42", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var nav NavigationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &nav); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	messages, _ := navigation.Find(nav.Items, "messages")
	if messages.Badge != 12 {
		t.Errorf("Expected 12 unread messages, got %d", messages.Badge)
	}
	if text, _ := navigation.BadgeText(messages.Badge); text != "9+" {
		t.Errorf("Expected badge text 9+, got %q", text)
	}
	notifications, _ := navigation.Find(nav.Secondary, "notifications")
	if notifications.Badge != 1 {
		t.Errorf("Expected 1 notification, got %d", notifications.Badge)
	}
	if len(nav.Active) != 1 || nav.Active[0] != "messages" {
		t.Errorf("Expected only messages active, got %v", nav.Active)
	}

	rec = doRequest(e, http.MethodPost, "/api/messages/read-all?kind=messages", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	rec = doRequest(e, http.MethodGet, "/api/navigation", "", alice)
	var cleared NavigationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cleared); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	messages, _ = navigation.Find(cleared.Items, "messages")
	if messages.Badge != 0 {
		t.Errorf("Expected badge cleared after read-all, got %d", messages.Badge)
	}
}

func TestMarkMessageRead(t *testing.T) {
	e, _ := setupTestHandler(t)
	alice := map[string]string{UserHeader: "alice"}

	rec := doRequest(e, http.MethodPost, "/api/messages", `{"kind":"messages","subject":"hello"}`, alice)
	var msg database.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("Failed to parse message: %v", err)
	}

	rec = doRequest(e, http.MethodPost, "/api/messages/"+msg.ID.String()+"/read", "", map[string]string{UserHeader: "mallory"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for another user's message, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodPost, "/api/messages/"+msg.ID.String()+"/read", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var counts map[string]int
	json.Unmarshal(rec.Body.Bytes(), &counts)
	if counts["messages"] != 0 {
		t.Errorf("Expected no unread messages, got %v", counts)
	}

	rec = doRequest(e, http.MethodGet, "/api/messages?unread=true", "", alice)
	var list messagesResponse
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Messages) != 0 {
		t.Errorf("Expected no unread messages listed, got %d", len(list.Messages))
	}
}

func TestCreateMessageValidation(t *testing.T) {
	e, _ := setupTestHandler(t)

	rec := doRequest(e, http.MethodPost, "/api/messages", `{"kind":"spam","subject":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown kind, got %d", rec.Code)
	}
	rec = doRequest(e, http.MethodPost, "/api/messages", `{"kind":"messages"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing subject, got %d", rec.Code)
	}
}

func TestSearchNavigationEndpoint(t *testing.T) {
	e, _ := setupTestHandler(t)

	rec := doRequest(e, http.MethodGet, "/api/navigation/search?q=appoint", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var res searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(res.Results) == 0 || res.Results[0].ID != "appointments" {
		t.Errorf("Expected appointments first, got %+v", res.Results)
	}
}

func TestBadgeRefreshJob(t *testing.T) {
	_, serverHandler := setupTestHandler(t)
	if err := serverHandler.DB.AddMessage(database.NewMessage("carol", "messages", "hi", "")); err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}
	serverHandler.Badges.Set("dave", map[string]int{"messages": 3})

	serverHandler.badgeRefreshJobFunc()

	if counts, ok := serverHandler.Badges.Get("carol"); !ok || counts["messages"] != 1 {
		t.Errorf("Expected carol to have 1 cached unread message, got %v", counts)
	}
	if counts, _ := serverHandler.Badges.Get("dave"); counts["messages"] != 0 {
		t.Errorf("Expected stale cache for dave to be cleared, got %v", counts)
	}
}

func TestBadgeCacheSkipsUsersWithoutUnread(t *testing.T) {
	e, serverHandler := setupTestHandler(t)

	for i := 0; i < 50; i++ {
		rec := doRequest(e, http.MethodGet, "/api/navigation", "", map[string]string{UserHeader: fmt.Sprintf("visitor-%d", i)})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
	}
	if users := serverHandler.Badges.Users(); len(users) != 0 {
		t.Errorf("Expected no cached users without unread messages, got %d", len(users))
	}

	alice := map[string]string{UserHeader: "alice"}
	rec := doRequest(e, http.MethodPost, "/api/messages", `{"kind":"messages","subject":"hello"}`, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}
	if users := serverHandler.Badges.Users(); len(users) != 1 || users[0] != "alice" {
		t.Errorf("Expected only alice cached, got %v", users)
	}

	doRequest(e, http.MethodPost, "/api/messages/read-all", "", alice)
	if _, ok := serverHandler.Badges.Get("alice"); ok {
		t.Error("Expected alice evicted once everything is read")
	}
}
