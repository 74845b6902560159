package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lineagehq/lineage/client"
)

const doctorTimeout = 5 * time.Second

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Check config, server reachability, auth, and the kinship resolver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
)

type checkResult struct {
	Status checkStatus
	Name   string
	Detail string
	Hint   string
}

func ok(name, detail string) checkResult {
	return checkResult{Status: statusOK, Name: name, Detail: detail}
}

func warn(name, detail, hint string) checkResult {
	return checkResult{Status: statusWarn, Name: name, Detail: detail, Hint: hint}
}

func fail(name, detail, hint string) checkResult {
	return checkResult{Status: statusFail, Name: name, Detail: detail, Hint: hint}
}

func runDoctor() error {
	fmt.Println("\nLineage Doctor")
	fmt.Println("==============")

	var results []checkResult

	cfgPath, cfg, cfgErr := doctorLoadConfig()
	if cfgErr != nil {
		results = append(results, fail("Config file", cfgPath, "Run: lineage init"))
	} else {
		results = append(results, ok("Config file", fmt.Sprintf("found (%s)", cfgPath)))
	}

	url, apiKey := doctorResolveSettings(cfg)

	if url == "" {
		results = append(results, fail("Server URL", "",
			"Set --url, LINEAGE_URL, or run lineage init"))
	} else {
		results = append(results, ok("Server URL", url))
	}
	if apiKey == "" {
		results = append(results, fail("API key", "",
			"Set --api-key, LINEAGE_API_KEY, or run lineage init"))
	} else {
		results = append(results, ok("API key", "configured"))
	}

	if url != "" {
		api := client.New(url,
			client.WithAPIKey(apiKey),
			client.WithTimeout(doctorTimeout))
		results = append(results, doctorServerChecks(api, apiKey)...)
	}

	printDoctorReport(results)

	for _, r := range results {
		if r.Status == statusFail {
			return fmt.Errorf("doctor found issues")
		}
	}

	return nil
}

// doctorServerChecks runs the checks that need a live server: health and
// version skew, then auth, dataset shape, and the resolver route.
func doctorServerChecks(api *client.Client, apiKey string) []checkResult {
	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	health, err := api.Health(ctx)
	if err != nil {
		return []checkResult{fail("Server reachable", "",
			fmt.Sprintf("Is the Lineage server running? Try: systemctl status lineage\n   Error: %v", err))}
	}

	results := []checkResult{ok("Server reachable", "v"+health.Version)}

	if health.Database != "connected" {
		results = append(results, fail("Server database", health.Database,
			"The server cannot reach PostgreSQL; check its logs"))
	} else {
		results = append(results, ok("Server database", "connected"))
	}

	if health.Version != version {
		results = append(results, warn("Version match",
			fmt.Sprintf("CLI v%s, server v%s", version, health.Version),
			"Upgrade the older side to avoid API drift"))
	} else {
		results = append(results, ok("Version match", "v"+version))
	}

	if apiKey == "" {
		return results
	}

	stats, err := api.Stats(ctx)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
			results = append(results, fail("Authentication", "",
				fmt.Sprintf("Check your API key. Error: %v", err)))
		} else {
			results = append(results, fail("Authentication", "", fmt.Sprintf("Error: %v", err)))
		}

		return results
	}

	results = append(results, ok("Authentication", "valid"))

	detail := fmt.Sprintf("%d people, %d relationships", stats.People, stats.Relationships)
	if stats.People == 0 {
		results = append(results, warn("Dataset", detail,
			"The workspace is empty; add records with: lineage person add"))
	} else {
		results = append(results, ok("Dataset", detail))
	}

	results = append(results, doctorCheckResolver(ctx, api))

	return results
}

// doctorCheckResolver issues a deliberately self-referential query. A healthy
// resolver rejects it as invalid; anything else means the route is broken.
func doctorCheckResolver(ctx context.Context, api *client.Client) checkResult {
	_, err := api.Kinship.Resolve(ctx, "doctor-self-check", "doctor-self-check")

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 400 {
		return ok("Kinship resolver", "responding")
	}

	if err == nil {
		return fail("Kinship resolver", "self-query was accepted",
			"The resolver should reject queries where both people are the same")
	}

	return fail("Kinship resolver", "", fmt.Sprintf("Error: %v", err))
}

func printDoctorReport(results []checkResult) {
	marks := map[checkStatus]string{statusOK: "✅", statusWarn: "⚠️", statusFail: "❌"}

	fmt.Println()

	failed := false
	for _, r := range results {
		if r.Status == statusFail {
			failed = true
		}

		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", marks[r.Status], r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", marks[r.Status], r.Name)
		}
		if r.Hint != "" && r.Status != statusOK {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ Some checks failed.")
	} else {
		fmt.Println("✅ All checks passed!")
	}
}

func doctorLoadConfig() (string, *profilesFile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil, err
	}

	cfgPath := filepath.Join(home, ".lineage", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}

	var cfg profilesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}

	return cfgPath, &cfg, nil
}

// doctorResolveSettings applies the same precedence as resolveConfig: flags,
// then environment, then the active profile.
func doctorResolveSettings(cfg *profilesFile) (url, apiKey string) {
	url = flagURL
	apiKey = flagKey

	if url == defaultServerURL {
		if v := os.Getenv("LINEAGE_URL"); v != "" {
			url = v
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("LINEAGE_API_KEY")
	}

	if cfg != nil {
		profile := cfg.ActiveProfile
		if profile == "" {
			profile = "default"
		}
		if p, ok := cfg.Profiles[profile]; ok {
			if url == defaultServerURL && p.URL != "" {
				url = p.URL
			}
			if apiKey == "" && p.APIKey != "" {
				apiKey = p.APIKey
			}
		}
	}

	return url, apiKey
}
