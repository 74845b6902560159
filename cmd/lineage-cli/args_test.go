package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "lineage",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultServerURL, "")
	root.PersistentFlags().StringVar(&flagKey, "api-key", "", "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newPersonCmd())
	root.AddCommand(newEdgeCmd())
	root.AddCommand(newResolveCmd())
	return root
}

// --- person add ---

func TestPersonAddArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing name", []string{"person", "add"}},
		{"too many args", []string{"person", "add", "name1", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

// --- person get/update/rm/import ---

func TestPersonExactArgs1Commands(t *testing.T) {
	subcommands := []string{"get", "update", "rm", "import"}
	for _, sub := range subcommands {
		t.Run(sub, func(t *testing.T) {
			argsValidator := cobra.ExactArgs(1)
			if err := argsValidator(nil, []string{"person-id"}); err != nil {
				t.Errorf("%s: one arg should be accepted: %v", sub, err)
			}
			if err := argsValidator(nil, []string{}); err == nil {
				t.Errorf("%s: zero args should be rejected", sub)
			}
		})
	}
}

// --- edge add / rm ---

func TestEdgeThreeArgCommands(t *testing.T) {
	argsValidator := cobra.ExactArgs(3)

	cases := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"abigail", "bart", "spouse"}, false},
		{[]string{"abigail", "bart"}, true},
		{[]string{"abigail"}, true},
		{[]string{}, true},
		{[]string{"a", "b", "c", "d"}, true},
	}
	for _, tc := range cases {
		err := argsValidator(nil, tc.args)
		if tc.wantErr && err == nil {
			t.Errorf("args %v: expected error", tc.args)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("args %v: unexpected error: %v", tc.args, err)
		}
	}
}

func TestEdgeAddArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing everything", []string{"edge", "add"}},
		{"missing type", []string{"edge", "add", "abigail", "bart"}},
		{"too many args", []string{"edge", "add", "a", "b", "spouse", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

// --- resolve ---

func TestResolveArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"resolve"}},
		{"one arg", []string{"resolve", "abigail"}},
		{"three args", []string{"resolve", "abigail", "bart", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

// --- person ls flag defaults ---

func TestPersonLsFlagDefaults(t *testing.T) {
	cmd := personLsCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"name", ""},
		{"limit", "0"},
		{"offset", "0"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- edge ls filter flags ---

func TestEdgeLsFlagDefaults(t *testing.T) {
	cmd := edgeLsCmd()

	flags := []string{"person", "type", "limit", "offset"}
	for _, name := range flags {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found on edge ls", name)
		}
	}
}

// --- person add flag registration ---

func TestPersonAddFlagRegistration(t *testing.T) {
	cmd := personAddCmd()
	for _, name := range []string{"id", "sex", "born", "died", "notes", "attrs"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found on person add", name)
		}
	}
}

// --- global format flag ---

func TestFormatFlagDefault(t *testing.T) {
	root := newTestRoot()
	f := root.PersistentFlags().Lookup("format")
	if f == nil {
		t.Fatal("--format flag not found")
	}
	if f.DefValue != "json" {
		t.Errorf("default format: got %q, want %q", f.DefValue, "json")
	}
}

// TestFormatFlagValues verifies that accepted format values are "json", "table",
// and "quiet" — the only strings the output functions branch on.
func TestFormatFlagValues(t *testing.T) {
	for _, f := range []string{"json", "table", "quiet"} {
		flagFmt = f
		// output() must not panic for any of these values.
		captureStdout(t, func() { output(map[string]string{"k": "v"}, "id") })
	}
}
