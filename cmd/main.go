package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"linearcal/internal/config"
	"linearcal/internal/google"
	"linearcal/internal/ics"
	"linearcal/internal/webhook"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "linearcal",
		Usage: "Bridge Linear issue webhooks to Google Calendar events.",
		Commands: []*cli.Command{
			authCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Google and save an API token for the serve command.",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			logger := setupLogger(cfg.LogLevel)
			logger.Info("Starting Google authentication flow.")

			oauthConfig, err := google.GetOAuthConfigForAuthFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CredentialsPath)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(oauthConfig, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := google.SaveToken(cfg.TokenPath, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", cfg.TokenPath)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the webhook server.",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			logger := setupLogger(cfg.LogLevel)
			slog.SetDefault(logger)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			gClient, err := google.NewClient(c.Context, logger, google.ClientOptions{
				ClientID:        cfg.GoogleClientID,
				ClientSecret:    cfg.GoogleClientSecret,
				CredentialsPath: cfg.CredentialsPath,
				TokenPath:       cfg.TokenPath,
				CalendarID:      cfg.CalendarID,
				Timezone:        cfg.Timezone,
			})
			if err != nil {
				return fmt.Errorf("failed to create google calendar client: %w", err)
			}

			var exporter webhook.Exporter
			if cfg.ICSExportDir != "" {
				e, err := ics.NewExporter(cfg.ICSExportDir, logger)
				if err != nil {
					return fmt.Errorf("failed to create ics exporter: %w", err)
				}
				exporter = e
				logger.Info("ICS export enabled.", "dir", cfg.ICSExportDir)
			}

			srv := webhook.NewServer(gClient, exporter, cfg.WebhookSecret, cfg.TargetLabel, loc)
			httpServer := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: srv,
			}

			logger.Info("Linear Calendar Webhook running.", "port", cfg.Port)
			logger.Info("Webhook endpoint ready.", "path", "POST /webhook/linear")
			logger.Info("Filtering for label.", "label", cfg.TargetLabel)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("http server failed: %w", err)
			case <-ctx.Done():
			}

			logger.Info("Shutting down.")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http server shutdown failed: %w", err)
			}
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.RFC1123Z,
	}))
}
