package database

import (
	"errors"

	"github.com/drummonds/userportal/theme"
)

// PreferenceStorage exposes one user's preferences as a theme.Storage
type PreferenceStorage struct {
	DB     DBInterface
	UserID string
}

// Get implements theme.Storage
func (p PreferenceStorage) Get(key string) (string, error) {
	value, err := p.DB.GetPreference(p.UserID, key)
	if errors.Is(err, ErrNotFound) {
		return "", theme.ErrNotStored
	}
	return value, err
}

// Set implements theme.Storage
func (p PreferenceStorage) Set(key, value string) error {
	return p.DB.SavePreference(p.UserID, key, value)
}
