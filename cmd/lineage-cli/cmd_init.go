package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lineagehq/lineage/client"
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
		Short: "Set up Lineage CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.lineage/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := initURL == "" && initAPIKey == ""
			return runInit(initURL, initAPIKey, initProfile, interactive)
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key (non-interactive mode)")
	cmd.Flags().StringVar(&initProfile, "profile", "default", "Profile name to create or update")
	return cmd
}

func runInit(url, apiKey, profile string, interactive bool) error {
	if interactive {
		url, apiKey = promptConnection()
	}

	if url == "" {
		url = defaultServerURL
	}
	if apiKey == "" {
		return errors.New("API key is required")
	}
	if profile == "" {
		profile = "default"
	}

	if interactive {
		fmt.Print("\n  Testing connection... ")
	}

	summary, err := describeWorkspace(url, apiKey)
	if err != nil {
		if interactive {
			fmt.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if interactive {
		fmt.Printf("✓ %s\n", summary)
	}

	cfgPath, err := saveProfile(profile, profileConfig{URL: url, APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if !interactive {
		fmt.Printf("Profile %q saved to %s\n", profile, cfgPath)
		return nil
	}

	fmt.Printf("\n  ✓ Profile %q saved to %s\n", profile, cfgPath)
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Println("    lineage person add <id> --name \"...\"   # Record your first person")
	fmt.Println("    lineage edge add <a> <b> parent_child   # Link two people")
	fmt.Println("    lineage resolve <a> <b>                 # Name their kinship")
	fmt.Println("    lineage doctor                          # Full diagnostic check")
	fmt.Println()

	return nil
}

func promptConnection() (url, apiKey string) {
	fmt.Println("\n  Lineage Setup")
	fmt.Println("  ─────────────")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("  Server URL [%s]: ", defaultServerURL)
	line, _ := reader.ReadString('\n')
	url = strings.TrimSpace(line)

	fmt.Print("  API Key: ")
	line, _ = reader.ReadString('\n')
	apiKey = strings.TrimSpace(line)

	return url, apiKey
}

// describeWorkspace connects with the new credentials and returns a one-line
// summary of the server and what the workspace already holds.
func describeWorkspace(url, apiKey string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api := client.New(url, client.WithAPIKey(apiKey), client.WithTimeout(10*time.Second))

	health, err := api.Health(ctx)
	if err != nil {
		return "", err
	}

	ver := health.Version
	if ver == "" {
		ver = "unknown"
	}

	stats, err := api.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("key rejected: %w", err)
	}

	if stats.People == 0 {
		return fmt.Sprintf("Connected (v%s), empty workspace", ver), nil
	}

	return fmt.Sprintf("Connected (v%s), %d people and %d relationships on record",
		ver, stats.People, stats.Relationships), nil
}

// saveProfile merges the profile into ~/.lineage/config.yaml, creating the
// file if needed. Other profiles are preserved; the new one becomes active.
func saveProfile(name string, p profileConfig) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".lineage")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	cfgPath := filepath.Join(dir, "config.yaml")

	var cfg profilesFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		// Ignore a corrupt existing file and start over.
		yaml.Unmarshal(data, &cfg) //nolint:errcheck
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]profileConfig)
	}

	cfg.Profiles[name] = p
	cfg.ActiveProfile = name

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
