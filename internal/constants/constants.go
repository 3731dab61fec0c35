package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	// RecentMatchLimit bounds how many matches get a replay fetch per view.
	RecentMatchLimit = 10

	// CardDisplayLimit caps the deduplicated card set shown per match side.
	CardDisplayLimit = 3

	// TopCardLimit caps the "most used cards" list on the profile view.
	TopCardLimit = 6

	RecentSearchLimit = 5
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
