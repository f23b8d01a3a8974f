// Package server provides a TCP listener that runs one session per
// accepted connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrServerClosed is returned by Serve after Shutdown is called.
var ErrServerClosed = errors.New("server closed")

// Bounds of the delay between failed accepts.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// HandlerFunc runs a single session. It owns the connection until it
// returns and the server closes the connection afterwards.
type HandlerFunc func(ctx context.Context, conn net.Conn)

// Server accepts connections and dispatches each to the handler on its own
// goroutine.
type Server struct {
	log     *zap.SugaredLogger
	handler HandlerFunc

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a server that runs the handler for every connection.
func New(log *zap.SugaredLogger, handler HandlerFunc) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		log:     log,
		handler: handler,
		conns:   make(map[net.Conn]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ListenAndServe listens on the TCP address and serves connections.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve accepts connections on the listener until Shutdown is called. A
// failure accepting one connection is logged and does not stop the loop.
// Consecutive failures, such as running out of file descriptors, back off
// exponentially up to a second.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	s.log.Infow("server", "status", "accepting connections", "host", listener.Addr().String())

	var delay time.Duration

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			delay = max(min(delay*2, maxAcceptDelay), minAcceptDelay)
			s.log.Errorw("server", "status", "accept failed", "retry", delay, "ERROR", err)

			select {
			case <-time.After(delay):
			case <-s.ctx.Done():
				return ErrServerClosed
			}
			continue
		}
		delay = 0

		if !s.track(conn) {
			conn.Close()
			return ErrServerClosed
		}

		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			defer conn.Close()

			s.handler(s.ctx, conn)
		}()
	}
}

// Addr returns the address the server is listening on, or nil before Serve
// has been called.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for the running sessions
// to finish. When the context expires first, open connections are closed
// and the context error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil

	case <-ctx.Done():
		s.cancel()

		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		<-done
		return ctx.Err()
	}
}

// track registers the connection and its session with the wait group. It
// reports false once shutdown has started.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.conns[conn] = struct{}{}
	s.wg.Add(1)

	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
}
