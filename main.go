package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/akashsharma1462/portfolio/internal/config"
	"github.com/akashsharma1462/portfolio/internal/contact"
	"github.com/akashsharma1462/portfolio/internal/content"
	"github.com/akashsharma1462/portfolio/internal/logging"
	"github.com/akashsharma1462/portfolio/internal/ratelimit"
	"github.com/akashsharma1462/portfolio/internal/relay"
	"github.com/akashsharma1462/portfolio/internal/session"
	"github.com/akashsharma1462/portfolio/internal/store"
	"github.com/akashsharma1462/portfolio/internal/terminal"
	"github.com/akashsharma1462/portfolio/internal/typewriter"
)

const (
	sweepInterval     = time.Minute
	retentionInterval = 24 * time.Hour
	shutdownTimeout   = 10 * time.Second
)

// site holds everything the HTTP handlers share.
type site struct {
	cfg        config.Config
	logger     *log.Logger
	portfolio  *content.Portfolio
	store      *store.Store
	channel    contact.Channel
	visitors   *session.Registry[*visitor]
	limiter    *ratelimit.Limiter // contact submits
	sshLimiter *ratelimit.Limiter // terminal connections
	admin      *adminAuth
	timing     []typewriter.Option
	now        func() time.Time
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	portfolio, err := content.LoadFile(cfg.ContentPath)
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSite(cfg, logger, portfolio, db)
	if err != nil {
		return err
	}
	defer s.visitors.Close()

	go s.visitors.RunSweeper(ctx, sweepInterval, func(n int) {
		logger.Debug("session_sweep", "evicted", n)
	})
	go s.sweepLimiter(ctx)
	go s.runRetention(ctx)

	errCh := make(chan error, 2)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http_listening", "addr", srv.Addr, "channel", s.channel.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.SSH.Enabled {
		ssh, err := terminal.New(cfg.SSH, portfolio, logger, s.sshLimiter)
		if err != nil {
			return err
		}
		go func() {
			if err := ssh.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSite(cfg config.Config, logger *log.Logger, portfolio *content.Portfolio, db *store.Store) (*site, error) {
	admin, err := newAdminAuth(cfg.Admin)
	if err != nil {
		return nil, err
	}
	if cfg.Admin.Defaulted {
		logger.Warn("admin_default_credentials", "hint", "set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	s := &site{
		cfg:        cfg,
		logger:     logger,
		portfolio:  portfolio,
		store:      db,
		channel:    newChannel(cfg, portfolio.Contact.Recipient, logger),
		limiter:    ratelimit.New(cfg.Contact.RateLimitPerMinute, cfg.Contact.RateLimitBurst),
		sshLimiter: ratelimit.New(cfg.SSH.RateLimitPerMinute, cfg.SSH.RateLimitBurst),
		admin:      admin,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.visitors = session.NewRegistry(s.newVisitor, cfg.Contact.SessionIdleTimeout)
	return s, nil
}

// newChannel picks the delivery channel once. Without relay credentials the
// visitor's own mail client finishes the job.
func newChannel(cfg config.Config, r content.Recipient, logger *log.Logger) contact.Channel {
	recipient := contact.Recipient{Email: r.Email, Name: r.Name}
	if cfg.ToEmail != "" {
		recipient.Email = cfg.ToEmail
	}

	if !cfg.Relay.Configured() {
		logger.Warn("contact_relay_unconfigured", "relay", cfg.Relay.Kind, "fallback", "mailto")
		return contact.NewLocalMailClient(recipient)
	}

	var sender relay.Sender
	switch cfg.Relay.Kind {
	case config.RelaySMTP:
		smtpCfg := cfg.Relay.SMTP
		smtpCfg.To = recipient.Email
		sender = relay.NewSMTP(smtpCfg)
	default:
		sender = relay.NewEmailJS(cfg.Relay.EmailJS, &http.Client{Timeout: cfg.Relay.Timeout})
	}
	logger.Info("contact_relay_configured", "relay", cfg.Relay.Kind)
	return contact.NewRemoteRelay(sender, recipient)
}

func (s *site) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.limiter.Sweep(now.UTC())
			s.sshLimiter.Sweep(now.UTC())
		}
	}
}

var templateFuncs = template.FuncMap{
	"join":      strings.Join,
	"maxLength": func(name string) int { return contact.MaxLength(contact.FieldName(name)) },
	"external":  func(l content.Link) bool { return l.External() },
	// Links come from the content file, which is trusted, and include tel:
	// URIs that html/template would otherwise filter.
	"href": func(l content.Link) template.URL { return template.URL(l.Href) },
}

func newRouter(s *site) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(s.logger), gin.Recovery(), s.visitorTrackingMiddleware())
	r.SetFuncMap(templateFuncs)
	r.LoadHTMLGlob("templates/*")

	r.Static("/static", "./static")

	r.GET("/", s.handleIndex)
	r.GET("/contact-form", s.handleContactForm)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "channel": s.channel.Name()})
	})
	r.GET("/hero/typewriter", s.handleTypewriter)

	submitLimit := ratelimit.Gin(s.limiter, s.logger, s.rejectThrottled)
	r.POST("/contact/field", s.handleContactField)
	r.POST("/contact", submitLimit, s.handleContactSubmit)

	api := r.Group("/api/contact")
	api.GET("", s.handleContactState)
	api.PATCH("", s.handleContactPatch)
	api.POST("/submit", submitLimit, s.handleContactAPISubmit)

	s.setupAdminRoutes(r)
	return r
}

func (s *site) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"portfolio": s.portfolio,
		"profile":   s.portfolio.Profile,
		"sections":  sectionCopy,
		"hero":      s.portfolio.Typewriter,
		"heroText":  firstPhrase(s.portfolio),
		"year":      s.now().Year(),
	})
}

func firstPhrase(p *content.Portfolio) string {
	if phrases := p.Phrases(); len(phrases) > 0 {
		return phrases[0]
	}
	return ""
}
