package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/commitscope/commitscope-go/internal/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// CredentialManager resolves the GitHub token with a priority chain:
// environment variable, OS keychain, credentials file, interactive prompt.
type CredentialManager struct {
	keyring    *KeyringManager
	configPath string
	logger     *logrus.Logger
}

// Credentials is the on-disk credentials file shape
type Credentials struct {
	GitHubToken string `yaml:"github_token"`
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager(logger *logrus.Logger) *CredentialManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	homeDir, _ := os.UserHomeDir()
	return &CredentialManager{
		keyring:    NewKeyringManager(logger),
		configPath: filepath.Join(homeDir, ".config", "commitscope", "credentials.yaml"),
		logger:     logger,
	}
}

// Keyring exposes the underlying keyring manager for the configure command
func (cm *CredentialManager) Keyring() *KeyringManager {
	return cm.keyring
}

// GetGitHubToken retrieves the GitHub token using the priority chain.
// configToken is the value from the loaded config file, if any.
func (cm *CredentialManager) GetGitHubToken(configToken string) (string, error) {
	// 1. Environment variable (highest priority, also fed by .env files)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	// 2. Config file value
	if configToken != "" {
		return configToken, nil
	}

	// 3. OS keychain
	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, nil
		}
	}

	// 4. Credentials file (~/.config/commitscope/credentials.yaml)
	if creds, err := cm.loadCredentialsFile(); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, nil
	}

	// 5. Interactive prompt (TTY only)
	if isInteractive() {
		fmt.Println("GitHub token not found.")
		fmt.Println("Create one at: https://github.com/settings/tokens (repo scope)")
		fmt.Println()
		return cm.promptForToken()
	}

	return "", errors.ConfigErrorf(
		"GITHUB_TOKEN not found. Set it via:\n"+
			"  1. Environment variable: export GITHUB_TOKEN=ghp_...\n"+
			"  2. Run: cscope configure set-token\n"+
			"  3. Credentials file: %s", cm.configPath)
}

func (cm *CredentialManager) loadCredentialsFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cm.configPath, err)
	}
	return &creds, nil
}

// promptForToken reads a token from the terminal without echoing it, then
// offers to persist it in the keychain.
func (cm *CredentialManager) promptForToken() (string, error) {
	fmt.Print("GitHub token: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.ConfigError("no token provided")
	}

	if cm.keyring.IsAvailable() {
		fmt.Print("Save token to OS keychain for future runs? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			if err := cm.keyring.SaveGitHubToken(token); err != nil {
				cm.logger.WithError(err).Warn("could not save token to keychain")
			}
		}
	}

	return token, nil
}

func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}
