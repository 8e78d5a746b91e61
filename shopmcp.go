package shopmcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rickchristie/shop-mcp/internal/errprompt"
	"github.com/rickchristie/shop-mcp/internal/sanitize"
)

// ShopMcp is the core engine exposing the users, products, and orders tables
// to AI agents. All exported methods are safe for concurrent use from
// multiple goroutines. Every outward-facing operation returns a value — soft
// and hard failures included — and runs its statements on a dedicated pooled
// connection inside one transaction.
type ShopMcp struct {
	config     Config
	pool       *pgxpool.Pool
	semaphore  chan struct{}
	sanitizer  *sanitize.Sanitizer
	errPrompts *errprompt.Matcher
	logger     zerolog.Logger
}

// New creates a new ShopMcp instance.
// connString is the PostgreSQL connection string (must include credentials).
// The engine never reads connection parameters from ambient process state —
// the CLI is responsible for building connString from ServerConfig.Connection
// plus prompted credentials. Panics on invalid config. Returns error only for
// runtime failures (e.g. pool creation).
func New(ctx context.Context, connString string, config Config, logger zerolog.Logger) (*ShopMcp, error) {
	// --- Config validation (panics on invalid config) ---

	if connString == "" {
		panic("shopmcp: connString must be non-empty")
	}
	if config.Pool.MaxConns <= 0 {
		panic("shopmcp: pool.max_conns must be > 0")
	}

	// Apply defaults for zero values
	if config.Store.OpTimeoutSeconds == 0 {
		config.Store.OpTimeoutSeconds = 30
	}
	if config.Store.OpTimeoutSeconds < 0 {
		panic("shopmcp: store.op_timeout_seconds must be > 0")
	}

	san, err := sanitize.NewSanitizer(mapSanitizationRules(config.Sanitization))
	if err != nil {
		panic(fmt.Sprintf("shopmcp: %v", err))
	}
	matcher, err := errprompt.NewMatcher(mapErrorPromptRules(config.ErrorPrompts))
	if err != nil {
		panic(fmt.Sprintf("shopmcp: %v", err))
	}

	// --- Configure pgxpool ---

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(config.Pool.MaxConns)
	poolConfig.MinConns = int32(config.Pool.MinConns)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	// Parse pool duration strings
	if config.Pool.MaxConnLifetime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnLifetime)
		if err != nil {
			panic(fmt.Sprintf("shopmcp: invalid pool.max_conn_lifetime %q: %v", config.Pool.MaxConnLifetime, err))
		}
		poolConfig.MaxConnLifetime = d
	}
	if config.Pool.MaxConnIdleTime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnIdleTime)
		if err != nil {
			panic(fmt.Sprintf("shopmcp: invalid pool.max_conn_idle_time %q: %v", config.Pool.MaxConnIdleTime, err))
		}
		poolConfig.MaxConnIdleTime = d
	}
	if config.Pool.HealthCheckPeriod != "" {
		d, err := time.ParseDuration(config.Pool.HealthCheckPeriod)
		if err != nil {
			panic(fmt.Sprintf("shopmcp: invalid pool.health_check_period %q: %v", config.Pool.HealthCheckPeriod, err))
		}
		poolConfig.HealthCheckPeriod = d
	}

	// Set AfterConnect hook for session-level settings
	if config.Timezone != "" {
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			escaped := strings.ReplaceAll(config.Timezone, "'", "''")
			if _, err := conn.Exec(ctx, fmt.Sprintf("SET timezone = '%s'", escaped)); err != nil {
				return fmt.Errorf("failed to SET timezone: %w", err)
			}
			return nil
		}
	}

	// --- Create pool ---

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &ShopMcp{
		config:     config,
		pool:       pool,
		semaphore:  make(chan struct{}, config.Pool.MaxConns),
		sanitizer:  san,
		errPrompts: matcher,
		logger:     logger,
	}, nil
}

// Close closes the connection pool. Accepts context for API forward-compatibility,
// but does not currently use it — pgxpool.Pool.Close() does not support context-based shutdown.
func (s *ShopMcp) Close(ctx context.Context) {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *ShopMcp) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// mapSanitizationRules converts shopmcp SanitizationRules to internal sanitize.Rules.
func mapSanitizationRules(rules []SanitizationRule) []sanitize.Rule {
	result := make([]sanitize.Rule, len(rules))
	for i, r := range rules {
		result[i] = sanitize.Rule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
		}
	}
	return result
}

// mapErrorPromptRules converts shopmcp ErrorPromptRules to internal errprompt.Rules.
func mapErrorPromptRules(rules []ErrorPromptRule) []errprompt.Rule {
	result := make([]errprompt.Rule, len(rules))
	for i, r := range rules {
		result[i] = errprompt.Rule{
			Pattern: r.Pattern,
			Message: r.Message,
		}
	}
	return result
}
