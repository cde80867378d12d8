package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/janisto/profile-composer/internal/http/v1/routes"
	"github.com/janisto/profile-composer/internal/platform/auth"
	"github.com/janisto/profile-composer/internal/platform/config"
	"github.com/janisto/profile-composer/internal/platform/firebase"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	appmiddleware "github.com/janisto/profile-composer/internal/platform/middleware"
	"github.com/janisto/profile-composer/internal/platform/respond"
	"github.com/janisto/profile-composer/internal/profile/composer"
	"github.com/janisto/profile-composer/internal/profile/normalize"
	"github.com/janisto/profile-composer/internal/profile/render"
	"github.com/janisto/profile-composer/internal/profile/resolver"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	docsPath        = "/api-docs"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}
	err := run()
	if err != nil {
		applog.LogError(context.Background(), "server failed", err)
	}
	if syncErr := applog.Sync(); syncErr != nil {
		applog.LogError(context.Background(), "logger sync error", syncErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			applog.LogError(context.Background(), "closing clients", err)
		}
	}()

	router, _ := newRouter(a)
	return serve(ctx, newServer(cfg.Port, router))
}

// app holds the services the HTTP layer is built from.
type app struct {
	deps     routes.Deps
	verifier auth.Verifier
	clients  *firebase.Clients
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	base, err := normalize.NewAssetBase(cfg.AssetBaseURL)
	if err != nil {
		return nil, err
	}

	a := &app{}
	if cfg.NeedsFirebase() {
		a.clients, err = firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:                    cfg.FirebaseProjectID,
			GoogleApplicationCredentials: cfg.GoogleApplicationCredentials,
			Auth:                         cfg.AuthEnabled,
			Firestore:                    cfg.ProfileSource == config.SourceFirestore,
		})
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		if a.clients.Auth != nil {
			a.verifier = auth.NewFirebaseVerifier(a.clients.Auth)
		}
	}

	src, err := newSource(cfg, a.clients)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	templates := resolver.New(src, base)
	a.deps = routes.Deps{
		Loader:     composer.NewLoader(src, templates, base),
		Templates:  templates,
		Dispatcher: render.NewDispatcher(nil, cfg.PublicBaseURL),
		Source:     cfg.ProfileSource,
	}
	applog.LogInfo(ctx, "profile source configured",
		zap.String("source", cfg.ProfileSource),
		zap.Bool("auth", a.verifier != nil),
		zap.String("assetBase", base.String()),
	)
	return a, nil
}

func (a *app) Close() error {
	return a.clients.Close()
}

func newSource(cfg config.Config, clients *firebase.Clients) (upstream.Source, error) {
	switch cfg.ProfileSource {
	case config.SourceMock:
		return upstream.NewMockSource(), nil
	case config.SourceFirestore:
		if clients == nil || clients.Firestore == nil {
			return nil, errors.New("firestore source requires a firestore client")
		}
		return upstream.NewFirestoreSource(clients.Firestore), nil
	case config.SourceHTTP:
		limit := rate.Inf
		if cfg.UpstreamRPS > 0 {
			limit = rate.Limit(cfg.UpstreamRPS)
		}
		opts := []upstream.Option{
			upstream.WithBaseURL(cfg.UpstreamBaseURL),
			upstream.WithRateLimiter(rate.NewLimiter(limit, cfg.UpstreamBurst)),
		}
		if cfg.UpstreamToken != "" {
			opts = append(opts, upstream.WithToken(cfg.UpstreamToken))
		}
		return upstream.NewClient(&http.Client{Timeout: cfg.UpstreamTimeout}, opts...), nil
	default:
		return nil, fmt.Errorf("unknown profile source %q", cfg.ProfileSource)
	}
}

func newRouter(a *app) (chi.Router, huma.API) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/u/", docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For. Only deploy behind a
		// trusted reverse proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
		auth.ViewerMiddleware(a.verifier),
	)

	cfg := huma.DefaultConfig("Profile Composer API", Version)
	cfg.DocsPath = docsPath
	api := humachi.New(router, cfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api, a.deps)
	routes.Mount(router, a.deps)
	return router, api
}

// addCBORContent documents application/cbor next to every JSON body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv until ctx is done and then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
