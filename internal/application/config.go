package application

import "time"

// Delays are the fixed per-operation pauses used for sequential rate
// limiting during bulk handler loops. They are configuration, not
// constants, so tests run them at near-zero.
type Delays struct {
	Ban        time.Duration
	Join       time.Duration
	Leave      time.Duration
	Delete     time.Duration
	SummaryTTL time.Duration
	FloodWait  time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Ban:        time.Second,
		Join:       2 * time.Second,
		Leave:      2 * time.Second,
		Delete:     300 * time.Millisecond,
		SummaryTTL: 2 * time.Second,
		FloodWait:  60 * time.Second,
	}
}

// Config is the resolved runtime configuration handed to every component.
type Config struct {
	DataDir      string
	RegistryPath string
	SessionsDir  string
	AvatarPath   string

	// CleanupScanLimit bounds how many recent messages the service-message
	// cleanup walks.
	CleanupScanLimit int
	// DialogScanLimit bounds the leave-groups fallback scan over joined
	// chats.
	DialogScanLimit int

	Delays Delays
}

func (c *Config) ApplyDefaults() {
	if c.CleanupScanLimit <= 0 {
		c.CleanupScanLimit = 10000
	}
	if c.DialogScanLimit <= 0 {
		c.DialogScanLimit = 200
	}
	zero := Delays{}
	if c.Delays == zero {
		c.Delays = DefaultDelays()
	}
}
