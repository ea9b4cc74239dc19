package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/ai"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/pipeline"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
)

var uploadUser string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Analyze a CSV/XLSX metrics file and store the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		db, err := openDB(c)
		if err != nil {
			return err
		}
		defer store.Close(db)

		ctx := cmd.Context()
		user, err := store.NewUserStore(db).Resolve(ctx, uploadUser)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unknown user %q (create one with `saasgrowth users add`)", uploadUser)
		}
		if err != nil {
			return err
		}

		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		res := newService(c, db).ProcessUpload(ctx, pipeline.Upload{Filename: filepath.Base(path), Body: f}, user.ID)
		if !res.OK() {
			return errors.New(res.Message)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Stored record %s for %s (%d rows)\n", res.Record.ID, user.Email, res.Stats.Rows)
		if err := writeStats(out, res.Stats); err != nil {
			return err
		}
		if res.InsightStatus != ai.StatusSuccess {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", yellow(res.Insights))
			return nil
		}
		fmt.Fprintf(out, "\nRecommendations:\n%s\n", res.Insights)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadUser, "user", "u", "", "owning user (id or email)")
	_ = uploadCmd.MarkFlagRequired("user")
}
