package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"budgettool/internal/session"
	"budgettool/internal/tui"
	"budgettool/internal/views"
)

var flagOpen string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagOpen, "open", "/dashboard", "Route to open, e.g. /vendor/<id>")
	rootCmd.Flags().StringVar(&flagOpen, "open", "/dashboard", "Route to open, e.g. /vendor/<id>")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess := session.New(client)
	defer sess.Close()

	app := tui.NewApp(ctx, client, sess, cfg.BudgetYear(), views.ParseRoute(flagOpen))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
