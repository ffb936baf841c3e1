package config

import (
	"path/filepath"

	"github.com/warpdl/lightsout/common"
)

// Paths holds the files the daemon and its commands use.
type Paths struct {
	Dir      string
	Config   string
	Log      string
	ErrorLog string
	Journal  string
	Pid      string
	Override string
	Socket   string
}

// PathsFor lays the files out under dir. Log files follow cfg when it is
// not nil.
func PathsFor(dir string, cfg *Config) Paths {
	p := Paths{
		Dir:      dir,
		Config:   filepath.Join(dir, common.ConfigFileName),
		Log:      filepath.Join(dir, common.LogFileName),
		ErrorLog: filepath.Join(dir, common.ErrorLogFileName),
		Journal:  filepath.Join(dir, common.JournalFileName),
		Pid:      filepath.Join(dir, common.PidFileName),
		Override: filepath.Join(dir, common.OverrideFileName),
		Socket:   common.SocketPath(dir),
	}
	if cfg != nil {
		if cfg.LogFile != "" {
			p.Log = resolve(dir, cfg.LogFile)
		}
		if cfg.ErrorLogFile != "" {
			p.ErrorLog = resolve(dir, cfg.ErrorLogFile)
		}
	}
	return p
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
