package shopmcp

// Config is the base configuration used by library mode via New().
type Config struct {
	Pool         PoolConfig         `json:"pool"`
	Store        StoreConfig        `json:"store"`
	ErrorPrompts []ErrorPromptRule  `json:"error_prompts"`
	Sanitization []SanitizationRule `json:"sanitization"`
	Timezone     string             `json:"timezone"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Connection ConnectionConfig `json:"connection"`
	Server     ServerSettings   `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
}

// ConnectionConfig holds database connection parameters used by CLI mode.
// Credentials are never stored here — the CLI prompts for them or reads the
// full connection string from the environment.
type ConnectionConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	DBName  string `json:"dbname"`
	SSLMode string `json:"sslmode"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxConns          int    `json:"max_conns"`
	MinConns          int    `json:"min_conns"`
	MaxConnLifetime   string `json:"max_conn_lifetime"`
	MaxConnIdleTime   string `json:"max_conn_idle_time"`
	HealthCheckPeriod string `json:"health_check_period"`
}

// StoreConfig holds store operation settings.
type StoreConfig struct {
	// OpTimeoutSeconds bounds every store operation, acquire to commit.
	// Defaults to 30.
	OpTimeoutSeconds int `json:"op_timeout_seconds"`
}

// ServerSettings holds HTTP server settings for CLI mode.
type ServerSettings struct {
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, stderr, or file path
}

// ErrorPromptRule maps a failure message pattern to a guidance message for
// the agent.
type ErrorPromptRule struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}

// SanitizationRule defines a regex-based field sanitization rule applied to
// result values before they reach the agent.
type SanitizationRule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Description string `json:"description"`
}
