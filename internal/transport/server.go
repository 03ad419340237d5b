// Package transport runs the IPP-over-HTTP(S) listener: request/response
// plumbing, the TLS certificate gate, and the IPP-status-to-HTTP-status
// mapping. Chunked transfer-encoding and Expect:100-continue handling
// are delegated to net/http, which already implements RFC 7230 §4.1 and
// §3.2.3 correctly — this server doesn't re-implement its own HTTP
// parsing the way the Python original (built on BaseHTTPServer's raw
// socket handling) had to.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/h2g2bob/ippserver/internal/ipp"
)

// maxBodySize caps how much of a request body handleIPP will read, per
// spec's recommended 256 MiB ceiling.
const maxBodySize = 256 * 1024 * 1024

// Handler processes a decoded IPP request into a response. Implemented
// by internal/dispatch.Dispatcher.
type Handler interface {
	Handle(req *ipp.Request) *ipp.Response
}

// Server serves one IPP printer over plain HTTP and, if a valid
// certificate is configured, HTTPS as well.
type Server struct {
	Addr       string
	SSLAddr    string
	CertPath   string
	KeyPath    string
	Handler    Handler
	PPD        func() []byte // GET /*.ppd body; nil answers 404
	Log        zerolog.Logger
	SSLEnabled bool // computed by New from CheckCertificateValid
}

// New builds a Server. If certPath/keyPath are set but don't load as a
// valid certificate, SSLEnabled is left false and a warning is logged —
// the server still starts, HTTP-only, matching the original's silent
// downgrade rather than refusing to start.
func New(addr, sslAddr, certPath, keyPath string, handler Handler, log zerolog.Logger) *Server {
	s := &Server{
		Addr: addr, SSLAddr: sslAddr, CertPath: certPath, KeyPath: keyPath,
		Handler: handler, Log: log.With().Str("component", "transport").Logger(),
	}
	if certPath != "" && keyPath != "" {
		if CheckCertificateValid(certPath, keyPath) {
			s.SSLEnabled = true
		} else {
			s.Log.Warn().Msg("TLS certificate/key invalid, starting HTTP only")
		}
	}
	return s
}

// ListenAndServe starts the HTTP listener and, if SSLEnabled, the HTTPS
// listener, blocking until ctx is canceled or a listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)

	httpServer := &http.Server{Addr: s.Addr, Handler: mux}

	errCh := make(chan error, 2)
	go func() {
		s.Log.Info().Str("addr", s.Addr).Msg("starting HTTP listener")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http listener: %w", err)
		}
	}()

	var httpsServer *http.Server
	if s.SSLEnabled {
		tlsConfig, err := NewServerTLSConfig(s.CertPath, s.KeyPath)
		if err != nil {
			return fmt.Errorf("transport: building TLS config: %w", err)
		}
		httpsServer = &http.Server{
			Addr:              s.SSLAddr,
			Handler:           mux,
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: 30 * time.Second,
		}
		go func() {
			s.Log.Info().Str("addr", s.SSLAddr).Msg("starting HTTPS listener")
			if err := httpsServer.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("https listener: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		if httpsServer != nil {
			httpsServer.Shutdown(shutdownCtx)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// handleRequest routes by method: every POST body is IPP regardless of
// path, a GET for a .ppd path serves the generated PPD text, and any
// other GET answers the identity ping.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleIPP(w, r)
	case http.MethodGet, http.MethodHead:
		if strings.HasSuffix(r.URL.Path, ".ppd") {
			s.handlePPD(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "IPP server is running; POST an IPP request to this URL")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePPD serves the PPD text legacy print stacks probe for with
// "GET /<printer>.ppd".
func (s *Server) handlePPD(w http.ResponseWriter, r *http.Request) {
	if s.PPD == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(s.PPD())
}

// handleIPP reads the request body, decodes it as an IPP message,
// dispatches it, and writes the response. net/http has already handled
// chunked decoding and Expect:100-continue by the time this runs.
func (s *Server) handleIPP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.Log.Warn().Msg("request body exceeded maxBodySize")
			http.Error(w, "request entity too large", ipp.MapStatusToHTTP(ipp.StatusClientErrorRequestEntityTooLarge))
			return
		}
		http.Error(w, "error reading body", http.StatusBadRequest)
		return
	}

	req, err := ipp.DecodeRequest(body)
	if err != nil {
		s.Log.Warn().Err(err).Msg("failed to decode IPP request")
		http.Error(w, "malformed IPP request", http.StatusBadRequest)
		return
	}

	resp := s.Handler.Handle(req)
	wire := ipp.EncodeResponse(resp)

	w.Header().Set("Content-Type", "application/ipp")
	w.WriteHeader(ipp.MapStatusToHTTP(resp.Status))
	if _, err := w.Write(wire); err != nil {
		s.Log.Warn().Err(err).Msg("failed to write IPP response")
	}
}
