package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/robfig/cron/v3"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// InitializeSchedules starts the cron jobs (currently just the badge refresh)
func (serverHandler *ServerHandler) InitializeSchedules() (*cron.Cron, error) {
	interval := serverHandler.ServerConfig.BadgeRefreshSeconds
	if interval <= 0 {
		interval = 30
	}

	c := cron.New()
	var badgeJob cron.Job
	badgeJob = cron.FuncJob(serverHandler.badgeRefreshJobFunc)
	badgeJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(badgeJob) //ensure we don't kick off another if old one is still running
	if _, err := c.AddJob(fmt.Sprintf("@every %ds", interval), badgeJob); err != nil {
		return nil, fmt.Errorf("failed to schedule badge refresh: %w", err)
	}
	Logger.Info("Adding badge refresh scheduler", "interval_seconds", interval)
	c.Start()
	return c, nil
}

func (serverHandler *ServerHandler) badgeRefreshJobFunc() {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in badge refresh job", "panic", r)
		}
	}()
	users, err := serverHandler.DB.UsersWithUnread()
	if err != nil {
		Logger.Error("Unable to list users for badge refresh", "error", err)
		return
	}
	if serverHandler.Badges != nil {
		// cached users whose unread count dropped to zero still need a refresh
		users = append(users, serverHandler.Badges.Users()...)
	}
	sort.Strings(users)
	refreshed := 0
	for i, user := range users {
		if i > 0 && users[i-1] == user {
			continue
		}
		if _, err := serverHandler.refreshBadges(user); err != nil {
			Logger.Warn("Unable to refresh badges", "user", user, "error", err)
			continue
		}
		refreshed++
	}
	Logger.Debug("Badge counts refreshed", "users", refreshed)
}
