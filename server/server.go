package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redsource/redsource-server/auth"
	"github.com/redsource/redsource-server/internal/config"
	"github.com/redsource/redsource-server/internal/metrics"
	"github.com/redsource/redsource-server/token"
	"github.com/redsource/redsource-server/token/refresh"
	"github.com/redsource/redsource-server/users"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Repos holds the storage the server is built on.
type Repos struct {
	Users   users.UserRepo // Credential store
	Refresh refresh.Repo   // Refresh token store
	DB      Pinger         // Optional; checked by the health endpoint
}

type Server struct {
	env           string // Environment (e.g. "DEV", "PROD")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	repos         Repos
	auth          *auth.Service
	accounts      *auth.AccountService
	authenticator *auth.Authenticator
	metrics       *metrics.Metrics
	limiter       *rateLimiter
	nowFunc       func() time.Time
}

type Option func(*Server)

// WithNowFunc sets the clock used for token issue and verification (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

// WithMetrics shares a metrics registry with the caller.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func New(cfg config.Config, repos Repos, options ...Option) (*Server, error) {
	if repos.Users == nil || repos.Refresh == nil {
		return nil, fmt.Errorf("[Server New] users and refresh repos are required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		repos:   repos,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if cfg.GetEnableRateLimiting() {
		s.limiter = newRateLimiter(cfg.GetRateLimitPerSecond(), cfg.GetRateLimitBurst(), cfg.GetTrustProxyHeaders(), s.nowFunc)
	}

	codec := token.NewCodec(token.NewHMACSigner(cfg.GetSigningSecret()), cfg.GetIssuer(), token.WithCodecNowFunc(s.nowFunc))
	issuer := token.NewIssuer(codec, cfg.GetIssuer(), cfg.GetAccessTokenExpiry(), token.WithIssuerNowFunc(s.nowFunc))
	refreshManager := refresh.NewManager(repos.Refresh, repos.Users, cfg, refresh.WithNowFunc(s.nowFunc))

	authService, err := auth.NewService(repos.Users, issuer, refreshManager)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}
	s.auth = authService
	s.accounts = auth.NewAccountService(repos.Users, refreshManager)
	s.authenticator = auth.NewAuthenticator(codec, repos.Users)

	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// Routes returns the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Info().Msgf("[%s] %s", color+paddedMethod+ResetColor, path)
}
