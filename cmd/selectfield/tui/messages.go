package tui

import (
	"log/slog"
	"time"

	"github.com/ruminaider/selectfield/internal/catalog"
)

// catalogLoadedMsg carries the result of a catalog reload.
type catalogLoadedMsg struct {
	items []catalog.Item[string]
	err   error
}

// logRecordMsg delivers a log record to the status bar.
type logRecordMsg struct {
	summary string
	level   slog.Level
}

// flashClearMsg clears the status bar message it was scheduled for.
// Newer messages bump the sequence, so stale clears are dropped.
type flashClearMsg struct {
	seq int
}

// flashDuration is how long a status bar message stays visible.
const flashDuration = 4 * time.Second
