package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	shopmcp "github.com/rickchristie/shop-mcp"
)

func TestDoctorValidConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := validServerConfig()
	path := writeConfigFile(t, dir, cfg)

	var buf bytes.Buffer
	err := doctor(&buf, false, path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	// All checks should pass
	if strings.Contains(output, "✗") {
		t.Fatalf("expected all checks to pass, but found failures in output:\n%s", output)
	}

	// Should contain pass marks
	if !strings.Contains(output, "✓") {
		t.Fatalf("expected pass marks (✓) in output:\n%s", output)
	}

	// Should contain config checks
	if !strings.Contains(output, "Config file readable") {
		t.Fatalf("expected 'Config file readable' check in output:\n%s", output)
	}
	if !strings.Contains(output, "Config file is valid JSON") {
		t.Fatalf("expected 'Config file is valid JSON' check in output:\n%s", output)
	}
	if !strings.Contains(output, "connection.dbname is set") {
		t.Fatalf("expected 'connection.dbname is set' check in output:\n%s", output)
	}
	if !strings.Contains(output, "server.port is > 0") {
		t.Fatalf("expected 'server.port is > 0' check in output:\n%s", output)
	}
	if !strings.Contains(output, "All regex patterns compile") {
		t.Fatalf("expected 'All regex patterns compile' check in output:\n%s", output)
	}

	// No connection string given, so the live check is skipped with a hint.
	if !strings.Contains(output, "SHOPMCP_PG_CONNSTRING") {
		t.Fatalf("expected connectivity hint in output:\n%s", output)
	}

	// Should contain agent snippets
	if !strings.Contains(output, "Claude Code") {
		t.Fatalf("expected Claude Code snippet in output:\n%s", output)
	}
	if !strings.Contains(output, "claude mcp add --transport http shop") {
		t.Fatalf("expected 'claude mcp add --transport http shop' command in output:\n%s", output)
	}
	// Server name in snippets should be "shop" for AI agent discoverability
	if !strings.Contains(output, `"shop"`) {
		t.Fatalf("expected server name 'shop' in agent snippets:\n%s", output)
	}
	if !strings.Contains(output, "Gemini CLI") {
		t.Fatalf("expected Gemini CLI snippet in output:\n%s", output)
	}
	if !strings.Contains(output, "Cursor") {
		t.Fatalf("expected Cursor snippet in output:\n%s", output)
	}
	if !strings.Contains(output, "Copilot CLI") {
		t.Fatalf("expected Copilot CLI snippet in output:\n%s", output)
	}
}

func TestDoctorMissingConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := doctor(&buf, false, "/nonexistent/path/config.json", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "✗") {
		t.Fatalf("expected failure mark (✗) for missing config:\n%s", output)
	}
	if !strings.Contains(output, "Config file readable") {
		t.Fatalf("expected 'Config file readable' check in output:\n%s", output)
	}

	// Should not contain agent snippets when config is missing
	if strings.Contains(output, "Agent Connection Snippets") {
		t.Fatalf("expected no agent snippets when config is missing:\n%s", output)
	}
}

func TestDoctorInvalidJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{invalid json}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var buf bytes.Buffer
	err := doctor(&buf, false, path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "✗") {
		t.Fatalf("expected failure mark (✗) for invalid JSON:\n%s", output)
	}
}

func TestDoctorMissingDBName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.Connection.DBName = ""
	path := writeConfigFile(t, dir, cfg)

	var buf bytes.Buffer
	if err := doctor(&buf, false, path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "✗ connection.dbname is set") {
		t.Fatalf("expected dbname check to fail:\n%s", output)
	}
	if !strings.Contains(output, "Fix the issues above") {
		t.Fatalf("expected fix-it footer:\n%s", output)
	}
}

func TestDoctorInvalidRegex(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.ErrorPrompts = append(cfg.ErrorPrompts, shopmcp.ErrorPromptRule{Pattern: "[invalid", Message: "bad"})
	path := writeConfigFile(t, dir, cfg)

	var buf bytes.Buffer
	if err := doctor(&buf, false, path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "error_prompts[0] regex compiles") {
		t.Fatalf("expected regex check failure:\n%s", output)
	}
	if strings.Contains(output, "All regex patterns compile") {
		t.Fatalf("expected regex summary to be withheld on failure:\n%s", output)
	}
}

func TestDoctorHealthCheckPathRequired(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.Server.HealthCheckEnabled = true
	cfg.Server.HealthCheckPath = ""
	path := writeConfigFile(t, dir, cfg)

	var buf bytes.Buffer
	if err := doctor(&buf, false, path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "✗ health_check_path is set") {
		t.Fatalf("expected health_check_path check to fail:\n%s", output)
	}
}
