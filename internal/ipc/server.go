package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/framewm/internal/runtimepath"
	"github.com/1broseidon/framewm/internal/wm"
	"github.com/hashicorp/go-multierror"
)

// maxRequestSize bounds a single request line.
const maxRequestSize = 64 * 1024

// Source is the read-only view of the window manager the server reports on.
// *wm.Manager implements it.
type Source interface {
	Status() wm.Status
	Clients() []wm.Client
}

var _ Source = (*wm.Manager)(nil)

// Server answers status queries on a unix socket. It never mutates the
// window manager.
type Server struct {
	socketPath   string
	listener     net.Listener
	source       Source
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server. An empty socketPath selects the runtime
// directory default.
func NewServer(source Source, socketPath string, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.ResolveSocket(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		source:     source,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections. A socket another process still
// answers on is left alone and reported as an error; a stale one is replaced.
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, time.Second); err == nil {
		conn.Close()
		return fmt.Errorf("IPC socket %s is already in use", s.socketPath)
	}
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxRequestSize)

	// One JSON request per line.
	if !scanner.Scan() {
		err := scanner.Err()
		switch {
		case errors.Is(err, bufio.ErrTooLong):
			s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Request exceeds %d bytes", maxRequestSize)))
		case err != nil:
			s.logger.Warn("IPC read error", "error", err)
		}
		return
	}

	req, err := ParseRequest(scanner.Bytes())
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListClients:
		return s.handleListClients()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	st := s.source.Status()
	started := st.Started
	if started.IsZero() {
		started = s.startTime
	}

	resp, err := NewOKResponse(StatusData{
		State:          st.State.String(),
		Display:        st.Display,
		ManagedClients: st.Clients,
		UptimeSeconds:  int64(time.Since(started).Seconds()),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleListClients() *Response {
	clients := s.source.Clients()
	data := ClientsData{Clients: make([]ClientInfo, len(clients))}
	for i, c := range clients {
		data.Clients[i] = ClientInfo{Window: uint32(c.Window), Frame: uint32(c.Frame)}
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for the accept loop and removes the socket.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return nil
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	var result *multierror.Error
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			result = multierror.Append(result, fmt.Errorf("close listener: %w", err))
		}
		s.wg.Wait()
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, fmt.Errorf("remove socket: %w", err))
	}
	return result.ErrorOrNil()
}
