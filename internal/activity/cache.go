package activity

import (
	"os"
	"sync"
	"time"
)

// Snapshot is the cache state handed to a status pass. The event slice
// is shared read-only across callers; it must not be mutated.
type Snapshot struct {
	Events       []Event
	IdleTimeMS   int64
	IdleChecked  int64
	SourceMod    time.Time
	HasSourceMod bool
}

// Cache holds the last-parsed activity log and a periodically refreshed
// system idle-time reading. One Cache exists per process; every access
// goes through its mutex and the lock is released before any store work.
type Cache struct {
	mu sync.Mutex

	logPath string

	events     []Event
	modTime    time.Time
	hasModTime bool

	idleTimeMS  int64
	idleChecked int64

	idleCacheMS int64
	probe       func() int64
	now         func() int64
}

// NewCache creates a cache for the activity log at logPath. idleCacheMS
// is the minimum interval between idle-probe invocations.
func NewCache(logPath string, idleCacheMS int64) *Cache {
	return &Cache{
		logPath:     logPath,
		idleCacheMS: idleCacheMS,
		probe:       SystemIdleMS,
		now:         nowMS,
	}
}

func nowMS() int64 {
	return time.Now().UnixMilli()
}

// Snapshot refreshes the cache if the log file changed, refreshes the
// idle reading if its window elapsed, and returns the current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refreshEvents()
	c.refreshIdle()

	return Snapshot{
		Events:       c.events,
		IdleTimeMS:   c.idleTimeMS,
		IdleChecked:  c.idleChecked,
		SourceMod:    c.modTime,
		HasSourceMod: c.hasModTime,
	}
}

// refreshEvents re-parses the log only when its mtime moved. An absent
// file keeps the cached snapshot. Caller holds c.mu.
func (c *Cache) refreshEvents() {
	info, err := os.Stat(c.logPath)
	if err != nil {
		return
	}
	current := info.ModTime()

	if c.hasModTime && current.Equal(c.modTime) {
		return
	}

	c.events = ReadLog(c.logPath)
	c.modTime = current
	c.hasModTime = true
}

// refreshIdle re-probes system idle time at most once per window.
// Caller holds c.mu.
func (c *Cache) refreshIdle() {
	now := c.now()
	if now-c.idleChecked >= c.idleCacheMS {
		c.idleTimeMS = c.probe()
		c.idleChecked = now
	}
}
