package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/template"
)

var templateDir string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write sample_data.csv and sample_data.xlsx to start from",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := templateDir
		if dir == "" {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			dir = c.UploadDir
		}
		paths, err := template.Write(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %s\n", paths.CSV)
		fmt.Fprintf(out, "✓ Wrote %s\n", paths.XLSX)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVarP(&templateDir, "dir", "d", "", "target directory (default is the upload dir)")
}
