package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"budgettool/internal/models"
)

var flagEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)
}

func requireText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validatePassword(s string) error {
	if len(s) < models.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
	}
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	email, password := flagEmail, ""
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&email).Validate(requireText("email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(requireText("password")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	sess, err := client.SignInWithPassword(cmd.Context(), strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	fmt.Printf("  Signed in as %s\n", sess.Email)
	return nil
}

func runSignup(cmd *cobra.Command, _ []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	email, password, confirm := flagEmail, "", ""
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&email).Validate(requireText("email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(validatePassword),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
			Validate(func(s string) error {
				if s != password {
					return errors.New("passwords do not match")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	email = strings.TrimSpace(email)
	if err := client.SignUp(cmd.Context(), email, password); err != nil {
		return err
	}
	sess, err := client.SignInWithPassword(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	fmt.Printf("  Account created. Signed in as %s\n", sess.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}
	if err := client.SignOut(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("  Signed out")
	return nil
}
