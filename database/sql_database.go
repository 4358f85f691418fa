package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// sqlStore holds the queries shared by SQLite and PostgreSQL. Queries are
// written with ? placeholders and rebound for drivers that number them.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

// SQLiteDB implements DBInterface for SQLite
type SQLiteDB struct {
	sqlStore
}

// SetupSQLiteDatabase initializes SQLite database with migrations
func SetupSQLiteDatabase(dbPath string) (*SQLiteDB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	if err := runMigrations(driver, "sqlite", "migrations/sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteDB{sqlStore{db: db}}, nil
}

func runMigrations(driver migratedb.Driver, driverName, dir string) error {
	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	Logger.Info("Database migrations completed successfully", "driver", driverName)
	return nil
}

func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// GetPreference returns a stored user preference
func (s *sqlStore) GetPreference(userID, key string) (string, error) {
	var value string
	err := s.db.QueryRow(s.rebind(`SELECT value FROM preferences WHERE user_id = ? AND key = ?`), userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// SavePreference inserts or replaces a user preference
func (s *sqlStore) SavePreference(userID, key, value string) error {
	query := `
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(s.rebind(query), userID, key, value, millis(time.Now())); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// AddMessage stores a new message
func (s *sqlStore) AddMessage(msg *Message) error {
	var readAt sql.NullInt64
	if msg.ReadAt != nil {
		readAt = sql.NullInt64{Int64: millis(*msg.ReadAt), Valid: true}
	}
	query := `INSERT INTO messages (id, user_id, kind, subject, body, created_at, read_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(s.rebind(query),
		msg.ID.String(), msg.UserID, msg.Kind, msg.Subject, msg.Body, millis(msg.CreatedAt), readAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// GetMessages lists a user's messages, newest first
func (s *sqlStore) GetMessages(userID string, unreadOnly bool) ([]Message, error) {
	query := `SELECT id, user_id, kind, subject, body, created_at, read_at FROM messages WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(s.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkMessageRead marks one message read; ErrNotFound if it is not the user's
func (s *sqlStore) MarkMessageRead(userID, id string) error {
	query := `UPDATE messages SET read_at = COALESCE(read_at, ?) WHERE id = ? AND user_id = ?`
	res, err := s.db.Exec(s.rebind(query), millis(time.Now()), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread message read, optionally only of one kind
func (s *sqlStore) MarkAllRead(userID, kind string) (int64, error) {
	query := `UPDATE messages SET read_at = ? WHERE user_id = ? AND read_at IS NULL`
	args := []any{millis(time.Now()), userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	res, err := s.db.Exec(s.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return res.RowsAffected()
}

// UnreadCounts returns the unread count per message kind
func (s *sqlStore) UnreadCounts(userID string) (map[string]int, error) {
	query := `SELECT kind, COUNT(*) FROM messages WHERE user_id = ? AND read_at IS NULL GROUP BY kind`
	rows, err := s.db.Query(s.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// UsersWithUnread lists users that currently have unread messages
func (s *sqlStore) UsersWithUnread() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM messages WHERE read_at IS NULL ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Helper function to scan multiple messages from rows
func scanMessages(rows *sql.Rows) ([]Message, error) {
	messages := []Message{}

	for rows.Next() {
		msg := Message{}
		var idStr string
		var createdAt int64
		var readAt sql.NullInt64

		err := rows.Scan(&idStr, &msg.UserID, &msg.Kind, &msg.Subject, &msg.Body, &createdAt, &readAt)
		if err != nil {
			return nil, err
		}

		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ULID: %w", err)
		}
		msg.ID = id
		msg.CreatedAt = fromMillis(createdAt)
		if readAt.Valid {
			t := fromMillis(readAt.Int64)
			msg.ReadAt = &t
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
