package config

import "time"

// Worker intervals and timeouts
const (
	// FenceRefreshInterval defines how often the fence worker rebuilds the
	// active geofence set from PostgreSQL
	FenceRefreshInterval = 60 * time.Second

	// PositionFlushInterval defines how often dirty last-known positions are
	// flushed to Redis
	PositionFlushInterval = 10 * time.Second

	// ReportTimeout bounds a single arrival report call
	ReportTimeout = 10 * time.Second
)
