// Package shutdown powers the machine off through the platform's own tools.
// Each platform has an ordered list of methods; MethodExecutor tries them in
// turn and stops at the first that succeeds.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/warpdl/lightsout/pkg/logger"
)

// Request describes one power-off.
type Request struct {
	// Delay postpones the power-off. Zero means now.
	Delay time.Duration
	// Force closes applications without waiting for them to save work.
	Force bool
	// Message is shown to logged-in users where the platform supports it.
	Message string
}

// Executor issues an OS shutdown.
type Executor interface {
	Shutdown(ctx context.Context, req Request) error
}

// Method is one way of powering off.
type Method struct {
	Name string
	Run  func(ctx context.Context, req Request) error
}

// ErrNoMethods is returned by a MethodExecutor with an empty method list.
var ErrNoMethods = errors.New("no shutdown methods available")

// errDelayUnsupported is returned by methods that can only power off now.
var errDelayUnsupported = errors.New("delayed shutdown not supported")

// MethodExecutor tries Methods in order.
type MethodExecutor struct {
	methods []Method
	log     logger.Logger
}

// NewMethodExecutor returns an executor over the given methods.
func NewMethodExecutor(log logger.Logger, methods ...Method) *MethodExecutor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MethodExecutor{methods: methods, log: log}
}

// New returns the executor for the current platform.
func New(log logger.Logger) *MethodExecutor {
	return NewMethodExecutor(log, platformMethods(log)...)
}

// Methods lists the method names in the order they are tried.
func (m *MethodExecutor) Methods() []string {
	names := make([]string, len(m.methods))
	for i, method := range m.methods {
		names[i] = method.Name
	}
	return names
}

// Shutdown runs each method until one succeeds. Every failure is logged; when
// all fail the combined error is returned.
func (m *MethodExecutor) Shutdown(ctx context.Context, req Request) error {
	if len(m.methods) == 0 {
		m.log.Error("Shutdown failed: %v", ErrNoMethods)
		return ErrNoMethods
	}
	var result *multierror.Error
	for _, method := range m.methods {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		err := method.Run(ctx, req)
		if err == nil {
			m.log.Info("Shutdown issued via %s (delay %s, force %t)", method.Name, req.Delay, req.Force)
			return nil
		}
		m.log.Warning("Shutdown via %s failed: %v", method.Name, err)
		result = multierror.Append(result, fmt.Errorf("%s: %w", method.Name, err))
	}
	err := result.ErrorOrNil()
	m.log.Error("All shutdown methods failed: %v", err)
	return err
}

// DryRun logs shutdown requests instead of acting on them.
type DryRun struct {
	Log logger.Logger
}

func (d DryRun) Shutdown(_ context.Context, req Request) error {
	if d.Log != nil {
		d.Log.Info("[dry-run] would shut down (delay %s, force %t): %s", req.Delay, req.Force, req.Message)
	}
	return nil
}
