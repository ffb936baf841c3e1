package shutdown

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/warpdl/lightsout/pkg/logger"
)

var execCommandContext = exec.CommandContext

// commandMethod runs name with the arguments built for the request.
func commandMethod(log logger.Logger, label, name string, build func(Request) ([]string, error)) Method {
	return Method{
		Name: label,
		Run: func(ctx context.Context, req Request) error {
			args, err := build(req)
			if err != nil {
				return err
			}
			return runCommand(ctx, log, name, args...)
		},
	}
}

func runCommand(ctx context.Context, log logger.Logger, name string, args ...string) error {
	log.Info("Running %s", shellescape.QuoteCommand(append([]string{name}, args...)))
	cmd := execCommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
