// Package cli implements the folio command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	drivenoauth "github.com/foliolabs/folio/internal/adapters/driven/oauth"

	"github.com/foliolabs/folio/internal/adapters/driven/kv/memory"
	"github.com/foliolabs/folio/internal/adapters/driven/kv/sqlite"
	"github.com/foliolabs/folio/internal/adapters/driven/llm/openai"
	"github.com/foliolabs/folio/internal/config"
	"github.com/foliolabs/folio/internal/connectors/google"
	"github.com/foliolabs/folio/internal/core/ports/driven"
	"github.com/foliolabs/folio/internal/core/ports/driving"
	"github.com/foliolabs/folio/internal/core/services"
	"github.com/foliolabs/folio/internal/logger"
	"github.com/foliolabs/folio/internal/metrics"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var configPath string

// Wired services. Populated by ensureServices; tests substitute mocks and
// set servicesReady.
var (
	cfg               *config.Config
	appLogger         *slog.Logger
	kvStore           driven.KVStore
	llmService        driven.LLMService
	credentialService driving.CredentialService
	clientService     driving.ClientService
	taskService       driving.TaskService
	metricsCollector  *metrics.Collector
	metricsRegistry   *prometheus.Registry

	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio connects agents to users' Google Docs and Drive",
	Long: `Folio manages per-user Google OAuth credentials and dispatches
document tasks against Google Docs and Drive on each user's behalf.

Run the task API with 'folio serve', connect an account with
'folio auth login', and inspect connected accounts with 'folio users list'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "Path to config file (default ~/.folio/config.toml)")
}

// Execute runs the root command. The version string comes from the build.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// ensureServices wires configuration, storage and core services on first
// use. Commands that only print (version, help) never trigger it.
func ensureServices() error {
	if servicesReady {
		return nil
	}
	if err := initServices(); err != nil {
		return err
	}
	servicesReady = true
	return nil
}

// initServices is replaced in tests.
var initServices = defaultInitServices

func defaultInitServices() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	appLogger = logger.SetupDefault(os.Stderr, cfg.Log.Level)

	switch cfg.Store.Backend {
	case "memory":
		kvStore = memory.NewStore()
	default:
		store, err := sqlite.NewStore(cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("opening credential store: %w", err)
		}
		kvStore = store
	}

	metricsRegistry = prometheus.NewRegistry()
	metricsCollector = metrics.NewCollector(metricsRegistry)

	exchanger := drivenoauth.NewExchanger(drivenoauth.Config{
		TokenURL:     cfg.Google.TokenURL,
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
	})
	identity := drivenoauth.NewIdentityClient(cfg.Google.UserInfoURL)

	credSvc := services.NewCredentialService(kvStore, exchanger, identity,
		services.CredentialConfig{
			AuthURL:     cfg.Google.AuthURL,
			ClientID:    cfg.Google.ClientID,
			RedirectURI: cfg.Google.RedirectURI,
			Scopes:      cfg.Google.Scopes,
		}, metricsCollector, appLogger)

	factory := google.NewClientFactory(credSvc)
	clientSvc := services.NewClientService(credSvc, factory, appLogger)
	credSvc.SetInvalidator(clientSvc)

	if cfg.LLM.APIKey != "" {
		llm, err := openai.NewLLMService(openai.LLMConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return fmt.Errorf("configuring LLM service: %w", err)
		}
		llmService = llm
	}

	docs := services.NewDocsCapability()
	chat := services.NewConversationalCapability(llmService)
	registry := services.NewCapabilityRegistry(docs, chat)

	credentialService = credSvc
	clientService = clientSvc
	taskService = services.NewDispatchService(
		registry, clientSvc, cfg.Dispatch.DefaultTimeout, metricsCollector, appLogger)

	return nil
}

// closeServices releases resources held by the wired services.
func closeServices() {
	if closer, ok := kvStore.(interface{ Close() error }); ok {
		closer.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
}
