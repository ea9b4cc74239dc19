package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/export"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/pipeline"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
)

var (
	metricsUser  string
	exportFormat string
	exportOutput string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Inspect stored metric records",
}

var metricsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's records, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(v *userScope) error {
			recs, err := v.svc.MetricsForUser(cmd.Context(), v.user.ID)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no records)")
				return nil
			}
			return writeRecords(cmd.OutOrStdout(), recs)
		})
	},
}

var metricsShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Print the Markdown report of one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd, func(v *userScope) error {
			rec, err := v.metrics.Get(cmd.Context(), v.user.ID, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("record %s not found for %s", args[0], v.user.Email)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rec.Report().Markdown())
			return nil
		})
	},
}

var metricsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's records as CSV or Parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		toStdout := exportOutput == "" || exportOutput == "-"
		if format == export.FormatParquet && toStdout {
			return errors.New("--output is required for parquet exports")
		}
		return withUser(cmd, func(v *userScope) error {
			recs, err := v.svc.MetricsForUser(cmd.Context(), v.user.ID)
			if err != nil {
				return err
			}
			if toStdout {
				return export.Write(cmd.OutOrStdout(), format, recs)
			}
			if err := export.WriteFile(exportOutput, format, recs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d records to %s\n", len(recs), exportOutput)
			return nil
		})
	},
}

// userScope bundles what the metrics subcommands need for one user.
type userScope struct {
	user    *store.User
	metrics *store.MetricStore
	svc     *pipeline.Service
}

// withUser opens the database, resolves --user and runs fn.
func withUser(cmd *cobra.Command, fn func(*userScope) error) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer store.Close(db)

	user, err := store.NewUserStore(db).Resolve(cmd.Context(), metricsUser)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unknown user %q", metricsUser)
	}
	if err != nil {
		return err
	}
	return fn(&userScope{user: user, metrics: store.NewMetricStore(db), svc: newService(c, db)})
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsListCmd, metricsShowCmd, metricsExportCmd)

	metricsCmd.PersistentFlags().StringVarP(&metricsUser, "user", "u", "", "owning user (id or email)")
	_ = metricsCmd.MarkPersistentFlagRequired("user")

	metricsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "export format: csv or parquet")
	metricsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default stdout for csv)")
}
