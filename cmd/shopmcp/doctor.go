package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	shopmcp "github.com/rickchristie/shop-mcp"
	"github.com/rickchristie/shop-mcp/internal/meta"

	"github.com/jackc/pgx/v5"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", ".shopmcp/config.json", "Path to configuration file")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *configPath, os.Getenv("SHOPMCP_PG_CONNSTRING"))
}

func doctor(w io.Writer, useColor bool, configPath, connString string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "shopmcp %s\n\n", meta.Version)

	// Load and validate config
	config, ok := doctorValidateConfig(w, useColor, configPath)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'shopmcp doctor' again.")
		return nil
	}

	// Live database checks when a connection string is available
	if connString != "" {
		fmt.Fprintln(w)
		doctorCheckDatabase(w, useColor, connString)
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Set SHOPMCP_PG_CONNSTRING to also check database connectivity and schema.")
	}

	// Print agent connection snippets
	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string) (*shopmcp.ServerConfig, bool) {
	allPassed := true

	// Check 1: Config file exists and is valid JSON
	data, err := os.ReadFile(configPath)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file readable (%s)", configPath))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", configPath))

	var config shopmcp.ServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file is valid JSON: %v", err))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, "Config file is valid JSON")

	// Check 2: connection.dbname is set
	if config.Connection.DBName == "" {
		printCheck(w, useColor, false, "connection.dbname is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.dbname is set (%s)", config.Connection.DBName))
	}

	// Check 3: server.port > 0
	if config.Server.Port <= 0 {
		printCheck(w, useColor, false, "server.port is > 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("server.port is > 0 (%d)", config.Server.Port))
	}

	// Check 4: Health check path set when enabled
	if config.Server.HealthCheckEnabled {
		if config.Server.HealthCheckPath == "" {
			printCheck(w, useColor, false, "health_check_path is set (required when health_check_enabled)")
			allPassed = false
		} else {
			printCheck(w, useColor, true, fmt.Sprintf("health_check_path is set (%s)", config.Server.HealthCheckPath))
		}
	}

	// Check 5: store.op_timeout_seconds is not negative
	if config.Store.OpTimeoutSeconds < 0 {
		printCheck(w, useColor, false, "store.op_timeout_seconds is >= 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, "store.op_timeout_seconds is >= 0")
	}

	// Check 6: Regex patterns compile
	regexOK := true

	for i, rule := range config.ErrorPrompts {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("error_prompts[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, rule := range config.Sanitization {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("sanitization[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	if regexOK {
		printCheck(w, useColor, true, "All regex patterns compile")
	}

	return &config, allPassed
}

// doctorCheckDatabase connects with the given connection string and verifies
// the store schema (users, products, orders tables) is present.
func doctorCheckDatabase(w io.Writer, useColor bool, connString string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Database reachable: %v", err))
		return
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Database reachable: %v", err))
		return
	}
	printCheck(w, useColor, true, "Database reachable")

	for _, table := range []string{"users", "products", "orders"} {
		var oid *uint32
		err := conn.QueryRow(ctx, "SELECT to_regclass($1)::oid", table).Scan(&oid)
		if err != nil || oid == nil {
			printCheck(w, useColor, false, fmt.Sprintf("Table %q exists", table))
			continue
		}
		printCheck(w, useColor, true, fmt.Sprintf("Table %q exists", table))
	}
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI agents.
func printAgentSnippets(w io.Writer, useColor bool, config *shopmcp.ServerConfig) {
	port := config.Server.Port
	url := fmt.Sprintf("http://localhost:%d/mcp", port)

	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	// Claude Code
	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add --transport http shop %s\n\n", url)
	fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "shop": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Copilot CLI
	subheading("Copilot CLI (~/.copilot/mcp-config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "shop": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Gemini CLI
	subheading("Gemini CLI (~/.gemini/settings.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "shop": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Cursor
	subheading("Cursor (.cursor/mcp.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "shop": {
        "url": "%s"
      }
    }
  }
`, url)
}
