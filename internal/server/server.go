// Package server answers status queries from the lightsout command-line
// client. It speaks line-delimited JSON-RPC 2.0 over a Unix socket or a
// Windows named pipe.
package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/pkg/logger"
)

// codeNoRun is returned by curfew.status between runs.
const codeNoRun = jrpc2.Code(-32001)

// ErrNoRun is returned by a StatusFunc when no run is active.
var ErrNoRun = errors.New("no active curfew run")

// StatusFunc reports the current run.
type StatusFunc func() (curfew.Status, error)

// Server manages JSON-RPC connections from CLI clients.
type Server struct {
	log      logger.Logger
	path     string
	status   StatusFunc
	version  common.VersionResult
	methods  handler.Map
	listener net.Listener
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewServer creates a server listening on path, a socket file or a pipe
// name depending on the platform.
func NewServer(l logger.Logger, path string, status StatusFunc, version common.VersionResult) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	s := &Server{
		log:     l,
		path:    path,
		status:  status,
		version: version,
	}
	s.methods = handler.Map{
		common.MethodStatus:  handler.New(s.curfewStatus),
		common.MethodVersion: handler.New(s.systemVersion),
	}
	return s
}

// Path returns the listening address.
func (s *Server) Path() string { return s.path }

// Listen creates the platform listener. Start calls it when it has not
// been called yet.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	l, err := createListener(s.path)
	if err != nil {
		return err
	}
	s.listener = l
	return nil
}

// Start accepts connections until ctx is canceled. Each connection gets
// its own jrpc2 server.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.log.Warning("Error accepting status connection: %v", err)
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	srv := jrpc2.NewServer(s.methods, nil).Start(channel.Line(conn, conn))
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			srv.Stop()
		case <-done:
		}
	}()
	_ = srv.Wait()
	close(done)
}

// Shutdown closes the listener and removes the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Warning("Error closing listener: %v", err)
		}
		s.listener = nil
	}
	if err := cleanupSocket(s.path); err != nil {
		s.log.Warning("Error removing socket file: %v", err)
		return err
	}
	return nil
}

func (s *Server) curfewStatus(_ context.Context) (*curfew.Status, error) {
	st, err := s.status()
	if errors.Is(err, ErrNoRun) {
		return nil, &jrpc2.Error{Code: codeNoRun, Message: err.Error()}
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Server) systemVersion(_ context.Context) (*common.VersionResult, error) {
	v := s.version
	return &v, nil
}
