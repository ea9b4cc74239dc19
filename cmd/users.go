package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
)

var (
	userEmail   string
	userName    string
	userCompany string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the users that own metric records",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
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

		u := &store.User{Email: userEmail, Name: userName, Company: userCompany}
		if err := store.NewUserStore(db).Create(cmd.Context(), u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created user %s (%s)\n", u.ID, u.Email)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
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

		users, err := store.NewUserStore(db).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no users)")
			return nil
		}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u.ID, u.Email, u.Name, u.Company, u.CreatedAt.Local().Format("2006-01-02")})
		}
		return renderTable(cmd.OutOrStdout(), []string{"ID", "Email", "Name", "Company", "Created"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd, usersListCmd)

	usersAddCmd.Flags().StringVar(&userEmail, "email", "", "email address (unique)")
	usersAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	usersAddCmd.Flags().StringVar(&userCompany, "company", "", "company name")
	_ = usersAddCmd.MarkFlagRequired("email")
}
