package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/hirelane/engage/app/modules/auth/infrastructure/jwt"
	"github.com/hirelane/engage/config"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	Provider    authjwt.Provider
	RateLimiter *authhandlers.IPRateLimiter
	config      *config.Config
	tokens      *authhandlers.TokenHandlers
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Module, error) {
	logger.InfoContext(ctx, "Initializing auth module")

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	return &Module{
		Provider:    provider,
		RateLimiter: authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		config:      cfg,
		tokens:      authhandlers.NewTokenHandlers(provider),
		logger:      logger,
	}, nil
}

// HTTPMiddleware returns the chi middleware applied to every API route.
func (m *Module) HTTPMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.config.HTTP.AllowedOrigins),
		authhandlers.RateLimitMiddleware(m.RateLimiter),
	}
}

// RegisterAPI installs bearer validation and the token routes.
func (m *Module) RegisterAPI(api huma.API) {
	api.UseMiddleware(authhandlers.NewAuthMiddleware(api, m.Provider, m.logger))
	m.tokens.Register(api)
}

// Run starts the auth module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close shuts down the auth module.
func (m *Module) Close() error {
	m.logger.Info("Stopping auth module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
