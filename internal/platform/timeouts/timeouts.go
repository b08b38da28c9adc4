// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// TelemetryShutdown caps how long a command waits for pending spans to flush
// on exit.
const TelemetryShutdown = 5 * time.Second

// JournalBusy is how long SQLite waits on a locked journal before failing.
const JournalBusy = 5 * time.Second
