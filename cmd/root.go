package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/ai"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
	cfgpkg "github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/config"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/logging"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/pipeline"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/uploads"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Storage flags (override config if set)
	flagDBDriver string
	flagDBDSN    string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "saasgrowth",
	Short: "Analyze monthly SaaS growth metrics from CSV or Excel files",
	Long: `saasgrowth reads a spreadsheet of monthly SaaS metrics (active users, new users,
churn rate, revenue), computes growth statistics and trends, asks a language model
for recommendations and stores the result per user.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.saasgrowth/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging and SQL tracing")
	rootCmd.PersistentFlags().StringVar(&flagDBDriver, "db-driver", "", "database driver: sqlite or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBDSN, "db-dsn", "", "database DSN or SQLite path (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: config commands can still repair the file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("db-driver") && flagDBDriver != "" {
		cfg.DBDriver = flagDBDriver
	}
	if f.Changed("db-dsn") && flagDBDSN != "" {
		cfg.DBDSN = flagDBDSN
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.Setup(level, cfg.LogFormat, os.Stderr)
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, errors.New("no configuration loaded; fix it with `saasgrowth config set` or --config")
	}
	return cfg, nil
}

// openDB connects to the configured database and migrates the schema.
func openDB(c *cfgpkg.Global) (*gorm.DB, error) {
	db, err := store.Open(c.DBDriver, c.DBDSN, debug)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = store.Close(db)
		return nil, err
	}
	logger.Debug("database ready", "driver", c.DBDriver)
	return db, nil
}

// newRuntime returns nil when insights are disabled or the provider is unknown.
func newRuntime(c *cfgpkg.Global) ai.Runtime {
	if c.InsightProvider == ai.ProviderNone {
		return nil
	}
	rt, ok := ai.GetRuntime(c.InsightProvider, ai.RuntimeConfig{
		HTTPTimeout: time.Duration(c.InsightTimeoutSec) * time.Second,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Host:        c.OllamaHost,
	})
	if !ok {
		fmt.Fprintf(os.Stderr, "⚠ Warning: unknown insight provider %q; insights disabled\n", c.InsightProvider)
		return nil
	}
	return rt
}

func newService(c *cfgpkg.Global, db *gorm.DB) *pipeline.Service {
	gen := ai.NewInsightGenerator(newRuntime(c), ai.InsightOptions{
		Provider:    c.InsightProvider,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     time.Duration(c.InsightTimeoutSec) * time.Second,
		Logger:      logger,
	})
	return pipeline.New(pipeline.Options{
		Normalizer: analysis.NewNormalizer(analysis.DefaultAliases().With(c.ColumnAliases)),
		Insights:   gen,
		Metrics:    store.NewMetricStore(db),
		Uploads:    uploads.New(c.UploadDir),
		Logger:     logger,
	})
}
