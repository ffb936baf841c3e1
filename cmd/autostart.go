package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/cmd/common"
	sharedcommon "github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/autostart"
)

var (
	newAutostart = autostart.New
	executable   = os.Executable
)

// loginEntry returns the autostart entry for this binary and ctx's
// settings.
func loginEntry(ctx *cli.Context) (autostart.Autostart, error) {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return nil, err
	}
	self, err := executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	command := []string{self, "--" + flagConfig, env.paths.Dir}
	if d := ctx.GlobalString(flagDialog); d != "" {
		command = append(command, "--"+flagDialog, d)
	}
	command = append(command, "run")
	return newAutostart(fsys, autostart.Entry{Name: sharedcommon.AppName, Command: command})
}

func autostartEnable(ctx *cli.Context) error {
	a, err := loginEntry(ctx)
	if err != nil {
		return err
	}
	if err := a.Enable(); err != nil {
		return fmt.Errorf("failed to enable autostart: %w", err)
	}
	fmt.Printf("lightsout will start at login (%s)\n", a.Location())
	if err := registerEventSource(); err != nil {
		common.PrintRuntimeErr(ctx, "autostart", "event_source", err)
	}
	return nil
}

func autostartDisable(ctx *cli.Context) error {
	a, err := loginEntry(ctx)
	if err != nil {
		return err
	}
	if err := a.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	fmt.Println("lightsout will no longer start at login")
	return nil
}

func autostartStatus(ctx *cli.Context) error {
	a, err := loginEntry(ctx)
	if err != nil {
		return err
	}
	on, err := a.Enabled()
	if err != nil {
		common.PrintRuntimeErr(ctx, "autostart", "status", err)
		return nil
	}
	if on {
		fmt.Printf("Autostart is enabled (%s)\n", a.Location())
	} else {
		fmt.Println("Autostart is disabled")
	}
	return nil
}
