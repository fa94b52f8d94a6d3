package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./impactcheck.db"
)
