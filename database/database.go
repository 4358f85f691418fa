package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

//go:embed migrations
var migrationFiles embed.FS

// ErrNotFound is returned when a preference or message does not exist.
var ErrNotFound = errors.New("not found")

// DBInterface is the storage the portal backend needs, implemented for SQLite and PostgreSQL
type DBInterface interface {
	Close() error
	GetPreference(userID, key string) (string, error)
	SavePreference(userID, key, value string) error
	AddMessage(msg *Message) error
	GetMessages(userID string, unreadOnly bool) ([]Message, error)
	MarkMessageRead(userID, id string) error
	MarkAllRead(userID, kind string) (int64, error)
	UnreadCounts(userID string) (map[string]int, error)
	UsersWithUnread() ([]string, error)
}

// Message is an inbox entry. Kind is the id of the navigation item whose
// badge counts it (messages, notifications, ...).
type Message struct {
	ID        ulid.ULID  `json:"id"`
	UserID    string     `json:"userId"`
	Kind      string     `json:"kind"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

// NewMessage builds an unread message with a fresh ULID.
func NewMessage(userID, kind, subject, body string) *Message {
	now := time.Now().UTC()
	return &Message{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		UserID:    userID,
		Kind:      kind,
		Subject:   subject,
		Body:      body,
		CreatedAt: now,
	}
}

// SetupDatabase opens the configured database, running migrations
func SetupDatabase(databaseType, connString, sqlitePath string) (DBInterface, error) {
	switch databaseType {
	case "postgres", "postgresql":
		Logger.Info("Setting up PostgreSQL database")
		return SetupPostgresDatabase(connString)
	case "sqlite", "":
		Logger.Info("Setting up SQLite database", "path", sqlitePath)
		return SetupSQLiteDatabase(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown database type %q", databaseType)
	}
}

func millis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
