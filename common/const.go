package common

import "time"

const (
	// AppName names the config directory, the socket and the autostart entry.
	AppName = "lightsout"

	// ConfigFileName is the configuration file inside the config dir.
	ConfigFileName = "config.yml"
	// LogFileName is the default run log.
	LogFileName = "shutdown_scheduler.log"
	// ErrorLogFileName receives failures of the run log itself.
	ErrorLogFileName = "scheduler_error.log"
	// JournalFileName is the run history database.
	JournalFileName = "journal.db"
	// PidFileName holds the daemon's process id while it runs.
	PidFileName = "daemon.pid"
	// OverrideFileName holds the override hash when no keyring is available.
	OverrideFileName = "override.hash"
	// SocketFileName is the status socket on Unix systems.
	SocketFileName = "lightsout.sock"

	// DefaultDialTimeout bounds connecting to the daemon.
	DefaultDialTimeout = 2 * time.Second
)

// JSON-RPC methods served by the daemon.
const (
	MethodStatus  = "curfew.status"
	MethodVersion = "system.version"
)

// VersionResult is the response for system.version.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
	Pid       int    `json:"pid"`
}
