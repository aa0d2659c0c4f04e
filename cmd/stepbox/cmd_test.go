// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against a temp-dir badger store.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{name: "needs padding", input: "hi", length: 5, want: "hi   "},
		{name: "exact length", input: "hello", length: 5, want: "hello"},
		{name: "longer than length", input: "hello world", length: 5, want: "hello world"},
		{name: "empty string", input: "", length: 3, want: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestRootCmdBasics(t *testing.T) {
	if rootCmd.Use != "stepbox" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "stepbox")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	if rootCmd.Long == "" {
		t.Error("Expected rootCmd.Long to be non-empty")
	}
}

func TestChallengeCreateCmdFlags(t *testing.T) {
	daysFlag := challengeCreateCmd.Flags().Lookup("days")
	if daysFlag == nil {
		t.Fatal("Expected --days flag on challenge create command")
	}
	if daysFlag.DefValue != "75" {
		t.Errorf("Expected default days 75, got %s", daysFlag.DefValue)
	}
	if challengeCreateCmd.Flags().Lookup("start") == nil {
		t.Error("Expected --start flag on challenge create command")
	}
}

func TestChallengeCmdSubcommands(t *testing.T) {
	expected := []string{"create", "list", "activate", "update", "delete"}

	names := make(map[string]bool)
	for _, cmd := range challengeCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range expected {
		if !names[want] {
			t.Errorf("Expected challenge subcommand %q not found", want)
		}
	}
}

func TestSyncCmdSubcommands(t *testing.T) {
	expected := []string{"now", "status", "config"}

	names := make(map[string]bool)
	for _, cmd := range syncCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range expected {
		if !names[want] {
			t.Errorf("Expected sync subcommand %q not found", want)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "csv": false, "markdown": false}

	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}
	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
}

func TestMcpAndServeCmdsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"mcp", "serve", "stats", "reward", "statement", "ally"} {
		if !names[want] {
			t.Errorf("Expected %q command to be registered", want)
		}
	}
}

func TestChallengeCmdAliases(t *testing.T) {
	found := false
	for _, alias := range challengeCmd.Aliases {
		if alias == "ch" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'ch' alias for challengeCmd")
	}
}

// setupTestCLI redirects config and data to temp directories so commands
// run against a throwaway badger store.
func setupTestCLI(t *testing.T) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	challengeDays = 75
	challengeStart = ""
	challengeDesc = ""
	logCategory = ""
	exportOutput = ""
	deleteYes = false
	verbose = false

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
}

func TestChallengeCreateCmdWithStore(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Test challenge", "--days", "10", "--start", "2025-05-01"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"challenge", "list"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("challenge list failed: %v", err)
	}
}

func TestLogCmdWithStore(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Log test", "--days", "10", "--start", "2025-05-01"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"log", "1", "did", "the", "thing"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("log command failed: %v", err)
	}

	rootCmd.SetArgs([]string{"log", "show"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("log show failed: %v", err)
	}
}

func TestLogCmdDayOutOfRange(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Short", "--days", "3", "--start", "2025-05-01"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"log", "99", "too", "far"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error for out-of-range day")
	}
}

func TestLogCmdInvalidDay(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Short", "--days", "3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"log", "zero", "nope"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error for non-numeric day")
	}
}

func TestStatsCmdWithStore(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Stats test", "--days", "10", "--start", "2025-05-01"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"stats"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("stats command failed: %v", err)
	}
}

func TestStatsCmdNoChallenge(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"stats"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error with no active challenge")
	}
}

func TestRewardCmdWithStore(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Reward test", "--days", "10"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rewardDesc = ""
	rootCmd.SetArgs([]string{"reward", "add", "New shoes"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("reward add failed: %v", err)
	}

	rootCmd.SetArgs([]string{"reward", "list"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("reward list failed: %v", err)
	}
}

func TestExportCmdToFile(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Export test", "--days", "5", "--start", "2025-05-01"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "export.json")
	rootCmd.SetArgs([]string{"export", "json", "--output", tmpFile})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export to file failed: %v", err)
	}

	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("Expected export file to be created")
	}
}

func TestExportCmdInvalidFormat(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Export test", "--days", "5"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"export", "xml"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error for unknown export format")
	}
}

func TestAllyCmdWithStore(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Ally test", "--days", "5"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	allyRole = ""
	allyPhone = ""
	allyTelegram = ""
	allySlack = ""
	allyDiscord = ""
	rootCmd.SetArgs([]string{"ally", "add", "Sam Okafor", "sam@example.com", "--role", "accountability"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("ally add failed: %v", err)
	}

	rootCmd.SetArgs([]string{"ally", "list"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("ally list failed: %v", err)
	}
}

func TestSyncNowUnconfigured(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"challenge", "create", "Sync test", "--days", "5"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("challenge create failed: %v", err)
	}

	rootCmd.SetArgs([]string{"sync", "now"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error when no sync server is configured")
	}
}

func TestSyncConfigRequiresServer(t *testing.T) {
	setupTestCLI(t)
	syncServer = ""
	syncUser = ""

	rootCmd.SetArgs([]string{"sync", "config"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error when --server is missing")
	}
}
