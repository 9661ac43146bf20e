// Package terminal serves the portfolio over SSH as a bubbletea program.
package terminal

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/akashsharma1462/portfolio/internal/config"
	"github.com/akashsharma1462/portfolio/internal/content"
	"github.com/akashsharma1462/portfolio/internal/ratelimit"
	"github.com/akashsharma1462/portfolio/internal/typewriter"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       config.SSHConfig
	portfolio *content.Portfolio
	logger    *log.Logger
	timing    []typewriter.Option
	srv       *ssh.Server
}

// New builds the SSH server. Middleware runs bottom to top: rate limit,
// request logging, then the active-terminal check before the program starts.
func New(cfg config.SSHConfig, p *content.Portfolio, logger *log.Logger, limiter *ratelimit.Limiter, opts ...typewriter.Option) (*Server, error) {
	s := &Server{cfg: cfg, portfolio: p, logger: logger, timing: opts}

	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Addr),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
			ratelimit.Wish(limiter, logger),
		),
	)
	if err != nil {
		return nil, err
	}
	s.srv = srv
	return s, nil
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	m, err := NewModel(s.portfolio, bm.MakeRenderer(sess), s.timing...)
	if err != nil {
		s.logger.Error("terminal_model_failed", "err", err, "user", sess.User())
		wish.Fatalln(sess, "portfolio unavailable")
		return nil, nil
	}
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ssh_listening", "addr", s.cfg.Addr, "host_key_path", s.cfg.HostKeyPath, "idle_timeout", s.cfg.IdleTimeout)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}
