package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/commitscope/commitscope-go/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage the stored GitHub token",
}

var setTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a GitHub token in the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		km := config.NewKeyringManager(logger)
		if !km.IsAvailable() {
			return fmt.Errorf("no OS keychain available; set GITHUB_TOKEN instead")
		}

		fmt.Print("GitHub token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}

		token := strings.TrimSpace(string(raw))
		if token == "" {
			return fmt.Errorf("no token provided")
		}

		if err := km.SaveGitHubToken(token); err != nil {
			return err
		}
		fmt.Println("Token saved.")
		return nil
	},
}

var checkTokenCmd = &cobra.Command{
	Use:   "check",
	Short: "Report where a GitHub token would be resolved from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := config.NewCredentialManager(logger)
		token, err := cm.GetGitHubToken(cfg.GitHub.Token)
		if err != nil {
			return err
		}
		fmt.Printf("Token resolved (%d chars, ending %q).\n", len(token), tail(token, 4))
		return nil
	},
}

var deleteTokenCmd = &cobra.Command{
	Use:   "delete-token",
	Short: "Remove the GitHub token from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		km := config.NewKeyringManager(logger)
		if err := km.DeleteGitHubToken(); err != nil {
			return err
		}
		fmt.Println("Token removed.")
		return nil
	},
}

func init() {
	configureCmd.AddCommand(setTokenCmd)
	configureCmd.AddCommand(checkTokenCmd)
	configureCmd.AddCommand(deleteTokenCmd)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
