package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName   = "jira-mcp"
	tokenFileName = "tokens.json"
)

// Config holds the Jira connection settings plus the team and
// component-alias seed maps. Values come from the environment; the access
// token falls back to the OS keyring when unset.
type Config struct {
	ServerURL   string
	AccessToken string
	Email       string
	VerifySSL   bool
	Timeout     int
	MaxResults  int

	Teams            map[string][]string
	ComponentAliases map[string]string
}

// FromEnv builds a Config from environment variables. Malformed JIRA_TEAMS or
// JIRA_COMPONENT_ALIASES JSON yields an empty map, never an error.
func FromEnv() *Config {
	cfg := &Config{
		ServerURL:        strings.TrimRight(os.Getenv("JIRA_SERVER_URL"), "/"),
		AccessToken:      os.Getenv("JIRA_ACCESS_TOKEN"),
		Email:            os.Getenv("JIRA_EMAIL"),
		VerifySSL:        true,
		Timeout:          30,
		MaxResults:       100,
		Teams:            map[string][]string{},
		ComponentAliases: map[string]string{},
	}

	if v := os.Getenv("JIRA_VERIFY_SSL"); v != "" {
		cfg.VerifySSL = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("JIRA_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = n
		}
	}
	if v := os.Getenv("JIRA_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxResults = n
		}
	}

	if v := os.Getenv("JIRA_TEAMS"); v != "" {
		var teams map[string][]string
		if err := json.Unmarshal([]byte(v), &teams); err == nil && teams != nil {
			cfg.Teams = teams
		}
	}
	if v := os.Getenv("JIRA_COMPONENT_ALIASES"); v != "" {
		var aliases map[string]string
		if err := json.Unmarshal([]byte(v), &aliases); err == nil && aliases != nil {
			cfg.ComponentAliases = aliases
		}
	}

	return cfg
}

// Validate checks that the required connection settings are present.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("JIRA_SERVER_URL is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("JIRA_ACCESS_TOKEN is required (or run 'jira-mcp configure <server-url> <token>')")
	}
	return nil
}

// SaveToken stores the token in the OS keyring, falling back to a 0600 file
// under the user config directory when no keyring daemon is reachable.
func SaveToken(serverURL, token string) error {
	if err := keyring.Set(serviceName, serverURL, token); err != nil {
		if isKeyringUnavailable(err) {
			return saveTokenToFile(serverURL, token)
		}
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken fetches the token for a server from the keyring, trying the file
// fallback when the keyring is unreachable or has no entry.
func LoadToken(serverURL string) (string, error) {
	token, err := keyring.Get(serviceName, serverURL)
	if err != nil {
		if err == keyring.ErrNotFound || isKeyringUnavailable(err) {
			return loadTokenFromFile(serverURL)
		}
		return "", fmt.Errorf("failed to get token from keyring: %w", err)
	}
	return token, nil
}

// isKeyringUnavailable reports whether the error indicates that no keyring
// daemon can be reached (typical on headless hosts and in containers).
func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{
		"dbus",
		"autolaunch",
		"secret service",
		"org.freedesktop.secrets",
		"dial unix",
		"connection refused",
		"permission denied",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func getTokenFilePath() (string, error) {
	configDirPath, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDirPath, serviceName, tokenFileName), nil
}

func saveTokenToFile(serverURL, token string) error {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(tokenPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tokens := map[string]string{}
	if data, err := os.ReadFile(tokenPath); err == nil {
		// Best effort: a corrupt token file is overwritten.
		_ = json.Unmarshal(data, &tokens)
	}
	tokens[serverURL] = token

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}
	if err := os.WriteFile(tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func loadTokenFromFile(serverURL string) (string, error) {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token not found for %s, please run 'jira-mcp configure' first", serverURL)
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}

	token, ok := tokens[serverURL]
	if !ok {
		return "", fmt.Errorf("token not found for %s, please run 'jira-mcp configure' first", serverURL)
	}
	return token, nil
}
