package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bcnelson/stackex/internal/api"
	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/config"
	"github.com/bcnelson/stackex/internal/oracle"
	"github.com/bcnelson/stackex/internal/preview"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/bcnelson/stackex/internal/storage"
	"github.com/bcnelson/stackex/internal/storage/memory"
	"github.com/bcnelson/stackex/internal/storage/sql"
	"github.com/bcnelson/stackex/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize the text oracle (or file shim for testing)
	var textOracle oracle.Oracle
	if cfg.UseFileShim() {
		log.Printf("Using file shim for the text oracle: %s", cfg.Oracle.FileShim)
		textOracle = oracle.NewFileShim(cfg.Oracle.FileShim)
	} else {
		client, err := oracle.NewGeminiClient(context.Background(), cfg.Oracle.APIKey, cfg.Oracle.Model, cfg.Oracle.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		log.Printf("Using text oracle %s", client.Name())
		textOracle = client
	}

	scripts := service.NewScriptService(textOracle)
	stacks := service.NewStackService(store)
	popular, err := service.NewPopularCacheFromOracle(textOracle, cfg.Cache.PopularSize)
	if err != nil {
		log.Fatalf("Failed to initialize popular stacks cache: %v", err)
	}
	previews, err := preview.NewRegistry(scripts, cfg.Cache.PreviewSize)
	if err != nil {
		log.Fatalf("Failed to initialize preview registry: %v", err)
	}

	// Initialize sign-in
	var users auth.UserResolver = auth.Anonymous{}
	var oidcComponents *web.OIDCComponents
	if cfg.OIDC.Enabled {
		oidcComponents, err = setupOIDC(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC: %v", err)
		}
		users = oidcComponents.Sessions
		log.Printf("OIDC authentication enabled (issuer: %s)", cfg.OIDC.IssuerURL)
	} else if cfg.OIDC.DevUser != "" {
		users = auth.StaticUser(cfg.OIDC.DevUser)
		log.Printf("Signing every request in as %q", cfg.OIDC.DevUser)
	}

	webRouter, err := web.NewRouter(web.Options{
		Previews:      previews,
		Popular:       popular,
		Stacks:        stacks,
		OIDC:          oidcComponents,
		SecureCookies: cfg.Server.SecureCookies,
	})
	if err != nil {
		log.Fatalf("Failed to initialize web UI: %v", err)
	}

	// Create router
	router := api.NewRouter(api.Dependencies{
		Store:         store,
		Scripts:       scripts,
		Popular:       popular,
		Stacks:        stacks,
		Users:         users,
		SecureCookies: cfg.Server.SecureCookies,
		Web:           webRouter,
	})

	// Create HTTP server. Script synthesis can take a while, so the write
	// timeout is longer than the read timeout.
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting stackex on http://%s", cfg.Server.Addr())
	log.Printf("Press Ctrl+C to stop")

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Let background saves finish before the store closes.
	stacks.Wait()

	log.Println("Server stopped")
}

// openStore opens the configured backend. The memory driver keeps saved
// stacks for the lifetime of the process only.
func openStore(cfg config.DatabaseConfig) (storage.Storage, error) {
	if cfg.Driver == "memory" {
		log.Printf("Using in-memory storage; saved stacks are lost on restart")
		return memory.New(), nil
	}

	// Create data directory if needed (for SQLite)
	if cfg.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}
	return sql.New(cfg.Driver, cfg.DSN)
}

func setupOIDC(cfg *config.Config) (*web.OIDCComponents, error) {
	key, err := cfg.OIDC.GetSessionSecretBytes()
	if err != nil {
		return nil, err
	}

	provider, err := auth.NewOIDCProvider(
		context.Background(),
		cfg.OIDC.IssuerURL,
		cfg.OIDC.ClientID,
		cfg.OIDC.ClientSecret,
		cfg.OIDC.RedirectURL,
		cfg.OIDC.GetScopes(),
		cfg.OIDC.GetAllowedDomains(),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := auth.NewSessionManager(key, cfg.OIDC.SessionDuration, cfg.Server.SecureCookies)
	if err != nil {
		return nil, err
	}
	states, err := auth.NewStateStore(key, cfg.Server.SecureCookies)
	if err != nil {
		return nil, err
	}

	return &web.OIDCComponents{
		Provider:  provider,
		Sessions:  sessions,
		States:    states,
		LogoutURL: cfg.OIDC.LogoutURL,
	}, nil
}
