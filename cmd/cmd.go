// Package cmd implements the lightsout command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is reported by the daemon and compared by clients.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "lightsout",
		HelpName:              "lightsout",
		Usage:                 "Shuts your computer down at bedtime.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "lightsout [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "run",
				Aliases:            []string{"r"},
				Usage:              "start the curfew daemon in the background",
				Description:        RunDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             run,
				Flags:              runFlags,
			},
			{
				Name:               "daemon",
				Usage:              "run the curfew in this process",
				Description:        DaemonDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             daemon,
				Flags:              daemonFlags,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "show tonight's checkpoints",
				Description:        StatusDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             status,
			},
			{
				Name:               "stop",
				Usage:              "stop the running daemon",
				Description:        StopDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             stop,
			},
			{
				Name:               "countdown",
				Aliases:            []string{"c"},
				Usage:              "show a progress bar until the shutdown",
				Description:        CountdownDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             countdown,
			},
			{
				Name:                   "history",
				Usage:                  "list recent curfew runs",
				Description:            HistoryDescription,
				ArgsUsage:              "[run id]",
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Action:                 history,
				Flags:                  historyFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "passwd",
				Usage:              "set the restart override passphrase",
				Description:        PasswdDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             passwd,
				Flags:              passwdFlags,
			},
			{
				Name:               "autostart",
				Usage:              "start lightsout at login",
				Description:        AutostartDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Subcommands: []cli.Command{
					{
						Name:   "enable",
						Usage:  "start lightsout at login",
						Action: autostartEnable,
					},
					{
						Name:   "disable",
						Usage:  "stop starting lightsout at login",
						Action: autostartDisable,
					},
					{
						Name:   "status",
						Usage:  "show whether lightsout starts at login",
						Action: autostartStatus,
					},
				},
			},
			{
				Name:               "check",
				Usage:              "validate the configuration",
				Description:        CheckDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             check,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of lightsout",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      run,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
