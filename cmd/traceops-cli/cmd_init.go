package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// profilesFile is the top-level config file structure.
type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initAPIKey  string
		initProfile string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up TraceOps CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.traceops/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initAPIKey != ""
			return runInit(initProfile, initURL, initAPIKey, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key (non-interactive mode)")
	cmd.Flags().StringVar(&initProfile, "profile", "default", "Profile name to write (e.g. staging, production)")
	return cmd
}

func runInit(profile, url, apiKey string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  TraceOps Setup")
		fmt.Println("  ──────────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			url = line
		}

		fmt.Print("  API Key: ")
		keyLine, _ := reader.ReadString('\n')
		apiKey = strings.TrimSpace(keyLine)
	}

	if url == "" {
		url = defaultURL
	}

	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	// Test connection.
	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url, apiKey)
	if err != nil {
		if !nonInteractive {
			fmt.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		fmt.Printf("✓ Connected (v%s)\n", ver)
	}

	// Write the profile, keeping any other profiles already configured.
	cfgPath, err := writeConfig(profile, url, apiKey)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Profile %q saved to %s\n", profile, cfgPath)
	} else {
		fmt.Printf("\n  ✓ Profile %q saved to %s\n", profile, cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    traceops doctor       # Full diagnostic check")
		fmt.Println("    traceops admin stats  # View record counts")
		fmt.Println("    traceops --help       # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url, apiKey string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/v1/health", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	// Parse version from JSON response.
	var health struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", err
	}
	if health.Version == "" {
		health.Version = "unknown"
	}
	return health.Version, nil
}

// writeConfig upserts one profile into ~/.traceops/config.yaml and makes it
// the active profile. Re-running init for a second environment (say,
// staging next to production) must not clobber the first.
func writeConfig(profile, url, apiKey string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".traceops")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	cfgPath := filepath.Join(dir, "config.yaml")

	var cfg profilesFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return "", fmt.Errorf("existing config is not valid yaml: %w", err)
		}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]profileConfig)
	}
	cfg.Profiles[profile] = profileConfig{URL: url, APIKey: apiKey}
	cfg.ActiveProfile = profile

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
