package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/config"
)

// fsys backs the config, log, pid and autostart files.
var fsys = afero.NewOsFs()

// environment is the loaded configuration and the files it points at.
type environment struct {
	cfg   *config.Config
	paths config.Paths
}

// loadEnvironment resolves the config dir, loads config.yml and applies
// the global flag overrides.
func loadEnvironment(ctx *cli.Context) (*environment, error) {
	if dir := ctx.GlobalString(flagConfig); dir != "" {
		// Exported so the background daemon and the autostart entry see it.
		if err := os.Setenv(common.ConfigDirEnv, dir); err != nil {
			return nil, err
		}
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(fsys, filepath.Join(dir, common.ConfigFileName))
	if err != nil {
		return nil, err
	}
	if d := ctx.GlobalString(flagDialog); d != "" {
		cfg.Dialog = d
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &environment{cfg: cfg, paths: config.PathsFor(dir, cfg)}, nil
}

// daemonArgs returns the command line that starts the daemon with the
// same global settings as ctx.
func daemonArgs(ctx *cli.Context, env *environment) []string {
	args := []string{"--" + flagConfig, env.paths.Dir}
	if ctx.GlobalBool(flagDryRun) {
		args = append(args, "--"+flagDryRun)
	}
	if d := ctx.GlobalString(flagDialog); d != "" {
		args = append(args, "--"+flagDialog, d)
	}
	return append(args, "daemon")
}
