// ABOUTME: Root Cobra command for the digestai CLI.
// ABOUTME: Wires config, logging, the remote store client, and the stores.
package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/ai"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/config"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/imghost"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/logger"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/session"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

var (
	cfg        *config.Config
	log        zerolog.Logger
	client     *store.Client
	sess       *session.Provider
	localCache *cache.Cache
	aiGateway  *ai.Gateway
	imgClient  *imghost.Client

	symptomStore *store.SymptomStore
	foodLogStore *store.FoodLogStore
	foodStore    *store.FoodStore
	reportStore  *store.ReportStore
	dashStore    *store.DashboardStore
	chatStore    *store.ConversationStore
	prefsStore   *store.PreferencesStore
)

var rootCmd = &cobra.Command{
	Use:   "digestai",
	Short: "Digestive health tracking and AI analysis",
	Long: `DigestAI tracks digestive symptoms and food intake, scores foods by
how well they sit with you, and talks to an AI assistant about patterns.

QUICK START:

  $ digestai login you@example.com       # Sign in to your account
  $ digestai symptom add bloating 6      # Log a symptom (intensity 1-10)
  $ digestai food log "oatmeal" breakfast
  $ digestai dashboard                   # 7-day stats and food safety counts
  $ digestai chat "what should I avoid?" # Ask the AI assistant

FOOD SAFETY:

  Every food you log builds a per-food safety status (safe, moderate,
  avoid) with a score. Recompute after new data:

  $ digestai food statuses
  $ digestai food rescore

REPORTS:

  $ digestai report generate --days 30   # Intolerance analysis
  $ digestai report list

MCP INTEGRATION:

  Run 'digestai mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "digestai": { "command": "digestai", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Settings come from the environment or a .env file:
  DIGESTAI_STORE_URL, DIGESTAI_STORE_KEY, DIGESTAI_AI_WEBHOOK_URL,
  DIGESTAI_IMGBB_KEY. A local cache under ~/.local/share/digestai keeps
  your last-synced data readable offline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return initApp(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeApp()
		return nil
	},
}

func initApp(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	log = logger.New(cfg.LogLevel)

	if cfg.StoreURL == "" || cfg.StoreKey == "" {
		return fmt.Errorf("remote store not configured: set DIGESTAI_STORE_URL and DIGESTAI_STORE_KEY")
	}

	client = store.NewClient(cfg.StoreURL, cfg.StoreKey, log)

	// The cache is optional; everything works without it, just not offline.
	localCache, err = cache.Open(cfg.GetDataDir())
	if err != nil {
		log.Warn().Err(err).Msg("local cache unavailable")
		localCache = nil
	}

	sess = session.NewProvider(client, localCache, config.SessionPath(), log)

	symptomStore = store.NewSymptomStore(client, sess, localCache, log)
	foodLogStore = store.NewFoodLogStore(client, sess, localCache, log)
	foodStore = store.NewFoodStore(client, sess, localCache, log)
	reportStore = store.NewReportStore(client, sess, localCache, log)
	dashStore = store.NewDashboardStore(client, sess, log)
	chatStore = store.NewConversationStore(client, sess, log)
	prefsStore = store.NewPreferencesStore(client, sess, log)

	aiGateway = ai.New(ai.Config{
		WebhookURL: cfg.AIWebhookURL,
		Timeout:    cfg.AITimeout(),
		MaxRetries: cfg.AIMaxRetries,
		RetryDelay: cfg.AIRetryDelay(),
	}, log)
	imgClient = imghost.NewClient(cfg.ImgBBKey, log)

	// Login runs before any session exists; everything else restores it.
	if cmd.Name() == "login" {
		return nil
	}
	if err := sess.Resolve(cmd.Context()); err != nil {
		log.Warn().Err(err).Msg("session resolution failed")
	}
	return nil
}

func closeApp() {
	if symptomStore != nil {
		symptomStore.Close()
	}
	if foodLogStore != nil {
		foodLogStore.Close()
	}
	if foodStore != nil {
		foodStore.Close()
	}
	if reportStore != nil {
		reportStore.Close()
	}
	if dashStore != nil {
		dashStore.Close()
	}
	if chatStore != nil {
		chatStore.Close()
	}
	if prefsStore != nil {
		prefsStore.Close()
	}
	if localCache != nil {
		_ = localCache.Close()
	}
}

// requireLogin fails fast for commands that need an identity.
func requireLogin() error {
	if sess.CurrentUser() == nil {
		return fmt.Errorf("not signed in: run 'digestai login <email>' first")
	}
	return nil
}
