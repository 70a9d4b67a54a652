package config

import "time"

// UI constants
const (
	LeaderboardPageSize = 10

	InfoColor = 0x0099FF

	// Reactions added to result messages in the results channel.
	RecordedReaction  = "✅"
	DuplicateReaction = "🔁"
	FailedReaction    = "❌"
)

// Timeouts and limits
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	FetchTimeout            = 5 * time.Minute
	NetworkDialTimeout      = 5 * time.Second
	ShutdownTimeout         = 10 * time.Second

	// Discord caps a message history page at 100.
	HistoryPageSize     = 100
	HistoryWriteWorkers = 8

	StatsCacheSize       = 1024
	StatsCacheExpiration = 5 * time.Minute
)
