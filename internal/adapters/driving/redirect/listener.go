// Package redirect provides the one-shot local HTTP listener that captures
// the provider's OAuth redirect.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wellfetch/withings-cli/internal/core/domain"
	"github.com/wellfetch/withings-cli/internal/core/ports/driven"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// Ensure Listener implements the interface.
var _ driven.RedirectListener = (*Listener)(nil)

// DefaultPort is the port Withings apps are conventionally registered with.
const DefaultPort = 8888

// ackBody is shown in the user's browser after the redirect is captured.
const ackBody = "Please return to the terminal."

// Listener binds a local port, accepts exactly one redirect request, and
// returns the extracted code/state pair. It is single-use: each handshake
// attempt creates a fresh Listener.
type Listener struct {
	port int
}

// New creates a listener for the given port. Port 0 falls back to
// DefaultPort; tests use an ephemeral port from FindAvailablePort.
func New(port int) *Listener {
	if port == 0 {
		port = DefaultPort
	}
	return &Listener{port: port}
}

// Port returns the configured port.
func (l *Listener) Port() int {
	return l.port
}

// RedirectURI returns the redirect URI to register with the provider.
func (l *Listener) RedirectURI() string {
	if l.port == DefaultPort {
		return "http://localhost:8888"
	}
	return fmt.Sprintf("http://localhost:%d", l.port)
}

type captureOutcome struct {
	result *domain.RedirectResult
	err    error
}

// Capture binds the port, waits for a single inbound request, responds with
// a plaintext acknowledgment, and releases the socket. Any path is
// accepted; only the query string matters. The wait has no internal
// timeout; cancel ctx to bound it. The socket is released on every exit
// path.
func (l *Listener) Capture(ctx context.Context) (*domain.RedirectResult, error) {
	addr := fmt.Sprintf("0.0.0.0:%d", l.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrListenerBind, addr, err)
	}

	outcome := make(chan captureOutcome, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		result := &domain.RedirectResult{
			Code:  query.Get("code"),
			State: query.Get("state"),
		}

		// The browser gets the same acknowledgment either way; the
		// failure is reported to the terminal, where the operator is.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, ackBody)

		var captureErr error
		if result.Code == "" || result.State == "" {
			captureErr = fmt.Errorf("%w: got code=%q state present=%t",
				domain.ErrMissingRedirectParams, result.Code, result.State != "")
			result = nil
		}

		// Only the first request counts.
		select {
		case outcome <- captureOutcome{result: result, err: captureErr}:
		default:
		}
	})

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	logger.Info("listening on port %d for the OAuth redirect", l.port)

	var result *domain.RedirectResult
	select {
	case out := <-outcome:
		result, err = out.result, out.err
	case srvErr := <-serveErr:
		err = fmt.Errorf("redirect listener: %w", srvErr)
	case <-ctx.Done():
		err = ctx.Err()
	}

	// Release the socket before returning, giving the in-flight response a
	// moment to flush.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		server.Close()
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
