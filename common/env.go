// Package common provides the names and paths shared by the lightsout
// daemon and its command-line client.
package common

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "LIGHTSOUT_CONFIG_DIR"

	// SocketPathEnv is the environment variable for a custom socket path.
	SocketPathEnv = "LIGHTSOUT_SOCKET_PATH"

	// PipeNameEnv is the environment variable for a custom Windows pipe name.
	PipeNameEnv = "LIGHTSOUT_PIPE_NAME"

	// DebugEnv enables debug logging in the client.
	DebugEnv = "LIGHTSOUT_DEBUG"
)
