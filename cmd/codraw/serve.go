package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/codraw/internal/config"
	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/logging"
)

var (
	errNoAPIKey     = errors.New("gemini backend needs an API key (set GEMINI_API_KEY or -api-key)")
	errSelfEndpoint = errors.New("endpoint points back at this server")
)

// serveCmd exposes the generation backend as the /api/generate route.
type serveCmd struct {
	*root
	fs         *flag.FlagSet
	gen        serviceFlags
	listen     string
	archiveDir string
	archiveURL string
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	s.gen.register(fs, r.config)
	fs.StringVar(&s.listen, "listen", r.config.Generate.Listen, "address to listen on")
	fs.StringVar(&s.archiveDir, "archive-dir", r.config.Generate.ArchiveDir, "directory for images saved with saveToFile (empty disables)")
	fs.StringVar(&s.archiveURL, "archive-url", generate.DefaultArchiveURL, "URL prefix archived images are served under")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

// router wraps the generate handler with request ids and access logs.
func (s *serveCmd) router(svc generate.Service) (http.Handler, error) {
	if s.archiveDir != "" {
		if err := os.MkdirAll(s.archiveDir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	h := &generate.Handler{Service: svc, ArchiveDir: s.archiveDir, ArchiveURL: s.archiveURL}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Mount("/", h.Router())
	return r, nil
}

// backend picks the service behind the route. Unlike the drawing commands
// it never falls back from Gemini to the http backend.
func (s *serveCmd) backend(listen string) (generate.Service, error) {
	switch strings.ToLower(s.gen.backend) {
	case config.BackendGemini:
		if s.gen.key() == "" {
			return nil, errNoAPIKey
		}
	case config.BackendHTTP:
		loop, err := loopsBack(s.gen.endpoint, listen)
		if err != nil {
			return nil, err
		}
		if loop {
			return nil, fmt.Errorf("%w: %s", errSelfEndpoint, s.gen.endpoint)
		}
	}
	return s.gen.service()
}

// loopsBack reports whether endpoint reaches the listen address.
func loopsBack(endpoint, listen string) (bool, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return false, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	host, lport, err := net.SplitHostPort(listen)
	if err != nil {
		return false, fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	if port != lport {
		return false, nil
	}
	targets := resolveHost(u.Hostname())
	if wildcard(host) {
		for _, ip := range targets {
			if ip.IsLoopback() || ip.IsUnspecified() || localIP(ip) {
				return true, nil
			}
		}
		return false, nil
	}
	for _, l := range resolveHost(host) {
		for _, ip := range targets {
			if l.Equal(ip) {
				return true, nil
			}
		}
	}
	return false, nil
}

func wildcard(host string) bool {
	if host == "" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsUnspecified()
}

func resolveHost(host string) []net.IP {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}
	}
	if strings.EqualFold(host, "localhost") {
		return []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback}
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil
	}
	return ips
}

func localIP(ip net.IP) bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok && n.IP.Equal(ip) {
			return true
		}
	}
	return false
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *serveCmd) Run() error {
	if _, err := s.backend(s.listen); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	svc, err := s.backend(ln.Addr().String())
	if err != nil {
		ln.Close()
		return err
	}
	handler, err := s.router(svc)
	if err != nil {
		ln.Close()
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.gen.timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Fprintf(s.stdout, "listening on http://%s%s\n", ln.Addr(), generate.RoutePath)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Logger().Info("server stopped")
	return nil
}
