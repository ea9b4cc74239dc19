package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/ai"
	cfgpkg "github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set saasgrowth configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "db_driver: %s\n", cfg.DBDriver)
		fmt.Fprintf(out, "db_dsn: %s\n", maskDSN(cfg.DBDriver, cfg.DBDSN))
		fmt.Fprintf(out, "upload_dir: %s\n", cfg.UploadDir)
		fmt.Fprintf(out, "insight_provider: %s\n", cfg.InsightProvider)
		fmt.Fprintf(out, "api_key: %s\n", mask(cfg.APIKey))
		if cfg.BaseURL != "" {
			fmt.Fprintf(out, "base_url: %s\n", cfg.BaseURL)
		}
		fmt.Fprintf(out, "model: %s\n", cfg.Model)
		fmt.Fprintf(out, "max_tokens: %d\n", cfg.MaxTokens)
		fmt.Fprintf(out, "temperature: %.3f\n", cfg.Temperature)
		fmt.Fprintf(out, "insight_timeout_sec: %d\n", cfg.InsightTimeoutSec)
		if cfg.InsightProvider == ai.ProviderOllama {
			fmt.Fprintf(out, "ollama_host: %s\n", cfg.OllamaHost)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if len(cfg.ColumnAliases) > 0 {
			keys := make([]string, 0, len(cfg.ColumnAliases))
			for k := range cfg.ColumnAliases {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "column_aliases:")
			for _, k := range keys {
				fmt.Fprintf(out, "  %s: %s\n", k, strings.Join(cfg.ColumnAliases[k], ", "))
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Aliases are added per column, e.g.:
  saasgrowth config set column_aliases.revenue "net revenue,arr"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "db_driver":
			cfg.DBDriver = strings.ToLower(val)
		case "db_dsn":
			cfg.DBDSN = val
		case "upload_dir":
			cfg.UploadDir = val
		case "insight_provider":
			switch strings.ToLower(val) {
			case "openai":
				cfg.InsightProvider = ai.ProviderOpenAI
			case "openrouter":
				cfg.InsightProvider = ai.ProviderOpenRouter
			case "ollama", "local":
				cfg.InsightProvider = ai.ProviderOllama
			case "none", "off":
				cfg.InsightProvider = ai.ProviderNone
			default:
				return fmt.Errorf("invalid insight_provider: %s (use openai, openrouter, ollama or none)", val)
			}
		case "api_key":
			cfg.APIKey = val
		case "base_url":
			cfg.BaseURL = val
		case "model":
			cfg.Model = val
		case "max_tokens":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_tokens: %w", err)
			}
			cfg.MaxTokens = i
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for temperature: %w", err)
			}
			cfg.Temperature = f
		case "insight_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for insight_timeout_sec: %w", err)
			}
			cfg.InsightTimeoutSec = i
		case "ollama_host":
			cfg.OllamaHost = val
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			cfg.LogFormat = strings.ToLower(val)
		default:
			col, ok := strings.CutPrefix(key, "column_aliases.")
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			if cfg.ColumnAliases == nil {
				cfg.ColumnAliases = map[string][]string{}
			}
			var aliases []string
			for _, a := range strings.Split(val, ",") {
				if a = strings.TrimSpace(a); a != "" {
					aliases = append(aliases, a)
				}
			}
			if len(aliases) == 0 {
				delete(cfg.ColumnAliases, col)
			} else {
				cfg.ColumnAliases[col] = aliases
			}
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}

// maskDSN hides the password of a postgres DSN; SQLite paths are shown as is.
func maskDSN(driver, dsn string) string {
	if driver != "postgres" {
		return dsn
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if v, ok := strings.CutPrefix(f, "password="); ok {
			fields[i] = "password=" + mask(v)
		}
	}
	return strings.Join(fields, " ")
}
