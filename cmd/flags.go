package cmd

import (
	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/common"
)

// Global flag names; the background daemon receives them on its command
// line.
const (
	flagConfig = "config"
	flagDryRun = "dry-run"
	flagDialog = "dialog"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   flagConfig + ", c",
		Usage:  "configuration directory",
		EnvVar: common.ConfigDirEnv,
	},
	cli.BoolFlag{
		Name:  flagDryRun,
		Usage: "log the shutdown instead of performing it",
	},
	cli.StringFlag{
		Name:  flagDialog,
		Usage: "dialog backend: auto, zenity, kdialog, osascript, powershell or console",
	},
}

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "foreground, f",
		Usage: "run the daemon in this terminal instead of the background",
	},
}

var daemonFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "once",
		Usage: "exit after tonight's run instead of waiting for the next day",
	},
}

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "limit, n",
		Usage: "number of runs to list",
		Value: 10,
	},
}

var passwdFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "clear",
		Usage: "remove the override passphrase",
	},
}
