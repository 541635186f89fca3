package config

import "time"

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./bestsellers.db"

	// DefaultNYTBaseURL is the root of the NYT Books "lists" API.
	DefaultNYTBaseURL = "https://api.nytimes.com/svc/books/v3/lists/"

	// DefaultOverviewTTL is how long a weekly overview stays cached.
	DefaultOverviewTTL = 24 * time.Hour
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)
