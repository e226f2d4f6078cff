package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"callbridge/internal/api"
	"callbridge/internal/config"
	"callbridge/internal/crm"
	"callbridge/internal/notify"
)

// crmTimeout is the uniform per-request timeout for CRM calls. The
// messaging provider's client keeps its own defaults.
const crmTimeout = 2 * time.Second

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *addr == "" {
		*addr = cfg.HTTPAddr
	}

	// ── CRM access token (fetched once; failure is fatal) ─────────────────────
	slog.Info("retrieving CRM access token", "scope", cfg.ZohoScope, "soid", cfg.SOID())
	grant := clientcredentials.Config{
		ClientID:     cfg.ZohoClientID,
		ClientSecret: cfg.ZohoClientSecret,
		TokenURL:     cfg.TokenURL(),
		Scopes:       []string{cfg.ZohoScope},
		EndpointParams: url.Values{
			"soid": {cfg.SOID()},
		},
	}
	token, err := grant.Token(context.Background())
	if err != nil {
		slog.Error("could not retrieve access token", "err", err)
		os.Exit(1)
	}

	crmClient := crm.New(cfg.ZohoCRMURI, crm.NewHTTPClient(token.AccessToken, crmTimeout))

	// ── Delivery settings (hot-reloadable) ────────────────────────────────────
	loader, err := notify.NewLoader(cfg.DeliverySettingsPath)
	if err != nil {
		slog.Error("failed to load delivery settings", "err", err)
		os.Exit(1)
	}
	loader.OnChange(func(s *notify.Settings) {
		slog.Info("delivery settings reloaded", "number_field", s.NumberField)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("settings watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── Messaging provider + dispatcher ───────────────────────────────────────
	gateway := notify.NewTwilioGateway(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	dispatcher := notify.NewDispatcher(gateway, loader.Settings)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(crmClient, dispatcher, gateway, api.Options{
		PublicURL:      cfg.PublicURL,
		DefaultCreator: cfg.MeetingCreator,
		DefaultVenue:   cfg.MeetingVenue,
	})
	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}
