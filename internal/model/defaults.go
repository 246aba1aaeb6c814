package model

import "time"

// Shared defaults used by both the service and TUI binaries.
const (
	DefaultUpdateInterval   = 600 * time.Millisecond
	DefaultAutosaveInterval = 60 * time.Second
	DefaultHistoryInterval  = 10 * time.Second

	// MilliPerCycle is the length of one game cycle.
	MilliPerCycle = 200
	// CycleInterval is MilliPerCycle as a duration.
	CycleInterval = MilliPerCycle * time.Millisecond

	// MaximumGangMembers caps the gang roster.
	MaximumGangMembers = 12
)
