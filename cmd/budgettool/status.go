package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored and still valid",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	fmt.Printf("  API:   %s\n", cfg.API.BaseURL)
	fmt.Printf("  Year:  %d\n", cfg.BudgetYear())

	sess, err := client.GetSession(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if sess == nil {
		fmt.Println("  Not signed in. Run `budgettool login`.")
		return nil
	}
	fmt.Printf("  Signed in as %s\n", sess.Email)
	return nil
}
