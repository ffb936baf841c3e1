package cmd

const DESCRIPTION = `
lightsout turns your computer off at bedtime. Every evening it shows a
first warning, then a final warning, and shuts the computer down at the
configured time unless you cancel. Restarting after the shutdown time
brings the warning straight back.

The schedule lives in config.yml inside the configuration directory
(see "lightsout check" for the effective values).
`

const (
	RunDescription = `The run command starts the curfew daemon in the
background and returns immediately. Nothing happens when a
daemon is already running. With --foreground the daemon
runs in the current terminal instead.

Example:
        lightsout run
        lightsout --dry-run run --foreground

`
	DaemonDescription = `The daemon command runs the curfew in the current
process until the computer shuts down or the process is
stopped. It is what "lightsout run" starts in the background.

Example:
        lightsout daemon --once

`
	StatusDescription = `The status command asks the running daemon for
tonight's checkpoints and which of them have passed.

Example:
        lightsout status

`
	StopDescription = `The stop command stops the running daemon. A pending
shutdown that was already issued to the operating system is
not revoked.

Example:
        lightsout stop

`
	CountdownDescription = `The countdown command draws a progress bar from now
until tonight's shutdown and exits when the lights go out.
Press Ctrl-C to leave early; the shutdown is not affected.

Example:
        lightsout countdown

`
	HistoryDescription = `The history command lists recent curfew runs from the
run journal. Pass a run id to see every event of that run.

Example:
        lightsout history
        lightsout history --limit 30
        lightsout history 4b1c2f1e-7f1d-4a57-9d59-6c0b5b1d8c1a

`
	PasswdDescription = `The passwd command sets the passphrase that overrides
the shutdown after a restart past the shutdown time. The
passphrase is stored as a bcrypt hash in the system keyring,
or in the configuration directory when no keyring exists.
Without a passphrase no override is offered.

Example:
        lightsout passwd
        lightsout passwd --clear

`
	AutostartDescription = `The autostart command makes lightsout start with your
desktop session.

Example:
        lightsout autostart enable
        lightsout autostart status

`
	CheckDescription = `The check command validates config.yml and prints the
effective schedule and file locations.

Example:
        lightsout check

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
